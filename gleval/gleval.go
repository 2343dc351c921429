package gleval

import (
	"errors"
	"fmt"

	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
)

// Displacer deforms surface vertices in vectorized form so that the same
// deformation can be mirrored on the GPU.
type Displacer interface {
	// Displace computes the displaced position of each vertex in pos and stores it in dst.
	// uv holds the vertex texture coordinates. pos, uv and dst must be of same length.
	// dst may alias pos.
	//
	// userData facilitates getting data to the displacers for use in processing, such as [VecPool].
	Displace(pos []ms3.Vec, uv []ms2.Vec, dst []ms3.Vec, userData any) error
}

var (
	errEmptyBuffers         = errors.New("empty buffers")
	errMismatchBufferLength = errors.New("position and destination buffer length mismatch")
)

func checkBuffers(pos []ms3.Vec, uv []ms2.Vec, dst []ms3.Vec) error {
	if len(pos) == 0 {
		return errEmptyBuffers
	} else if len(pos) != len(dst) || len(pos) != len(uv) {
		return errMismatchBufferLength
	}
	return nil
}

// NormalsCentralDiff uses central differences over the surface parametrization (x,y)->Displace
// to calculate a normal at each position, stored in normals.
// The returned normals are not normalized (converted to unit length).
// Surfaces are expected to lie on the XY plane before displacement.
func NormalsCentralDiff(d Displacer, pos []ms3.Vec, uv []ms2.Vec, normals []ms3.Vec, step float32, userData any) error {
	step *= 0.5
	if step <= 0 {
		return errors.New("invalid step")
	} else if len(pos) != len(normals) {
		return errors.New("length of position must match length of normals")
	} else if d == nil {
		return errors.New("nil Displacer")
	} else if err := checkBuffers(pos, uv, normals); err != nil {
		return err
	}
	vp, err := GetVecPool(userData)
	if err != nil {
		return fmt.Errorf("VecPool required for normal calculation: %s", err)
	}
	n := len(pos)
	auxPos := vp.V3.Acquire(n)
	plus := vp.V3.Acquire(n)
	minus := vp.V3.Acquire(n)
	defer vp.V3.Release(auxPos)
	defer vp.V3.Release(plus)
	defer vp.V3.Release(minus)
	// X tangents are accumulated in normals then crossed with Y tangents.
	err = centralDiff(d, pos, uv, ms3.Vec{X: step}, auxPos, plus, minus, userData)
	if err != nil {
		return err
	}
	for i := range normals {
		normals[i] = ms3.Sub(plus[i], minus[i])
	}
	err = centralDiff(d, pos, uv, ms3.Vec{Y: step}, auxPos, plus, minus, userData)
	if err != nil {
		return err
	}
	for i := range normals {
		normals[i] = ms3.Cross(normals[i], ms3.Sub(plus[i], minus[i]))
	}
	return nil
}

func centralDiff(d Displacer, pos []ms3.Vec, uv []ms2.Vec, h ms3.Vec, aux, plus, minus []ms3.Vec, userData any) error {
	for i, p := range pos {
		aux[i] = ms3.Add(p, h)
	}
	err := d.Displace(aux, uv, plus, userData)
	if err != nil {
		return err
	}
	for i, p := range pos {
		aux[i] = ms3.Sub(p, h)
	}
	return d.Displace(aux, uv, minus, userData)
}
