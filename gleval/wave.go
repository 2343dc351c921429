package gleval

import (
	"errors"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
)

const (
	// AmplitudeScale maps the user facing amplitude (0..100) to model space height.
	AmplitudeScale = 0.01
	// DefaultFrequency is the wave number along X giving one full wave over a plane of width 2.
	DefaultFrequency = math32.Pi
)

var _ Displacer = (*Wave)(nil) // Interface implementation compile-time check.

// Wave is a travelling sine wave along the X axis that displaces vertices in Z.
// The displacement of a vertex at x is
//
//	Amplitude*AmplitudeScale*sin(Frequency*x + Time + Offset)
//
// which matches the plane vertex shader generated by glbuild.
type Wave struct {
	Amplitude float32
	Frequency float32
	// Time is the elapsed animation time in seconds.
	Time float32
	// Offset is the phase offset, controlled by mouse position in the viewer.
	Offset float32
}

// Height returns the displacement in Z at x.
func (w Wave) Height(x float32) float32 {
	return w.Amplitude * AmplitudeScale * math32.Sin(w.Frequency*x+w.Time+w.Offset)
}

// Slope returns the derivative of Height with respect to x.
func (w Wave) Slope(x float32) float32 {
	return w.Amplitude * AmplitudeScale * w.Frequency * math32.Cos(w.Frequency*x+w.Time+w.Offset)
}

// Displace implements [Displacer]. uv is not used by Wave but must match pos in length.
func (w *Wave) Displace(pos []ms3.Vec, uv []ms2.Vec, dst []ms3.Vec, userData any) error {
	err := checkBuffers(pos, uv, dst)
	if err != nil {
		return err
	}
	for i, p := range pos {
		p.Z += w.Height(p.X)
		dst[i] = p
	}
	return nil
}

// Normals stores the analytic unit normals of the displaced surface at each
// undisplaced position in dst.
func (w *Wave) Normals(pos []ms3.Vec, dst []ms3.Vec) error {
	if len(pos) != len(dst) {
		return errors.New("length of position must match length of normals")
	}
	for i, p := range pos {
		dst[i] = ms3.Unit(ms3.Vec{X: -w.Slope(p.X), Z: 1})
	}
	return nil
}
