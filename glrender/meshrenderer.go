package glrender

import (
	"errors"
	"fmt"
	"io"

	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glplane"
	"github.com/soypat/glplane/gleval"
)

var _ Renderer = (*MeshRenderer)(nil) // Interface implementation compile-time check.

// MeshRenderer streams the triangles of an indexed mesh, optionally deformed by a [gleval.Displacer].
type MeshRenderer struct {
	mesh *glplane.Mesh
	disp gleval.Displacer
	// pos holds vertex positions after displacement.
	pos []ms3.Vec
	// next is the index of the next triangle to be read.
	next int
	// displaced is set once pos is valid for the current mesh and displacer.
	displaced bool
}

// NewMeshRenderer returns a renderer over m. A nil displacer renders the mesh as is.
func NewMeshRenderer(m *glplane.Mesh, displacer gleval.Displacer) (*MeshRenderer, error) {
	var mr MeshRenderer
	err := mr.Reset(m, displacer)
	if err != nil {
		return nil, err
	}
	return &mr, nil
}

// Reset switches the underlying mesh and displacer and rewinds the renderer.
// It reuses the displaced position buffer if it can.
func (mr *MeshRenderer) Reset(m *glplane.Mesh, displacer gleval.Displacer) error {
	if m == nil {
		return errors.New("nil mesh")
	}
	err := m.Validate()
	if err != nil {
		return fmt.Errorf("invalid mesh: %w", err)
	}
	*mr = MeshRenderer{
		mesh: m,
		disp: displacer,
		pos:  mr.pos[:0],
	}
	return nil
}

// ReadTriangles implements [Renderer]. userData is passed on to the displacer.
func (mr *MeshRenderer) ReadTriangles(dst []ms3.Triangle, userData any) (n int, err error) {
	if len(dst) == 0 {
		return 0, io.ErrShortBuffer
	}
	if !mr.displaced {
		err = mr.displace(userData)
		if err != nil {
			return 0, err
		}
	}
	m := mr.mesh
	total := m.NumTriangles()
	for mr.next < total && n < len(dst) {
		tri := m.Triangle(mr.next)
		dst[n] = ms3.Triangle{mr.pos[tri[0]], mr.pos[tri[1]], mr.pos[tri[2]]}
		n++
		mr.next++
	}
	if mr.next >= total {
		return n, io.EOF
	}
	return n, nil
}

func (mr *MeshRenderer) displace(userData any) error {
	positions := mr.mesh.Positions
	if mr.disp == nil || len(positions) == 0 {
		mr.pos = append(mr.pos[:0], positions...)
		mr.displaced = true
		return nil
	}
	if cap(mr.pos) < len(positions) {
		mr.pos = make([]ms3.Vec, len(positions))
	}
	mr.pos = mr.pos[:len(positions)]
	err := mr.disp.Displace(positions, mr.mesh.UVs, mr.pos, userData)
	if err != nil {
		return fmt.Errorf("displacing mesh: %w", err)
	}
	mr.displaced = true
	return nil
}
