package glplane

import (
	"errors"
	"fmt"
	"math"

	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
)

// Mesh is an indexed triangle mesh ready to be uploaded to GPU vertex and index buffers.
// Vertex attributes are aligned index for index.
type Mesh struct {
	Positions []ms3.Vec
	Normals   []ms3.Vec
	UVs       []ms2.Vec
	Colors    []RGBA
	// Indices holds three vertex indices per triangle.
	Indices []uint32
}

// NumVertices returns the amount of vertices in the mesh.
func (m *Mesh) NumVertices() int { return len(m.Positions) }

// NumTriangles returns the amount of indexed triangles in the mesh.
func (m *Mesh) NumTriangles() int { return len(m.Indices) / 3 }

// Triangle returns the vertex indices of the i'th triangle.
func (m *Mesh) Triangle(i int) [3]uint32 {
	return [3]uint32{m.Indices[3*i], m.Indices[3*i+1], m.Indices[3*i+2]}
}

// Bounds returns the axis aligned box containing all vertex positions.
// An empty mesh returns the zero box.
func (m *Mesh) Bounds() ms3.Box {
	if len(m.Positions) == 0 {
		return ms3.Box{}
	}
	bb := ms3.Box{Min: m.Positions[0], Max: m.Positions[0]}
	for _, p := range m.Positions[1:] {
		bb.Min = ms3.MinElem(bb.Min, p)
		bb.Max = ms3.MaxElem(bb.Max, p)
	}
	return bb
}

// AppendTriangles resolves the index buffer into position triangles and appends them to dst.
func (m *Mesh) AppendTriangles(dst []ms3.Triangle) []ms3.Triangle {
	for i := 0; i < len(m.Indices)-2; i += 3 {
		dst = append(dst, ms3.Triangle{
			m.Positions[m.Indices[i]],
			m.Positions[m.Indices[i+1]],
			m.Positions[m.Indices[i+2]],
		})
	}
	return dst
}

// AppendPositions appends positions as a flat float buffer with stride 3.
func (m *Mesh) AppendPositions(dst []float32) []float32 {
	return appendVec3s(dst, m.Positions)
}

// AppendNormals appends normals as a flat float buffer with stride 3.
func (m *Mesh) AppendNormals(dst []float32) []float32 {
	return appendVec3s(dst, m.Normals)
}

// AppendUVs appends texture coordinates as a flat float buffer with stride 2.
func (m *Mesh) AppendUVs(dst []float32) []float32 {
	for _, uv := range m.UVs {
		dst = append(dst, uv.X, uv.Y)
	}
	return dst
}

// AppendColors appends vertex colors as a flat float buffer with stride 4.
func (m *Mesh) AppendColors(dst []float32) []float32 {
	for _, c := range m.Colors {
		dst = append(dst, c.R, c.G, c.B, c.A)
	}
	return dst
}

func appendVec3s(dst []float32, vecs []ms3.Vec) []float32 {
	for _, v := range vecs {
		dst = append(dst, v.X, v.Y, v.Z)
	}
	return dst
}

// Indices16 returns the index buffer converted to 16 bit indices for drawing with UNSIGNED_SHORT element types.
// It fails if any index does not fit in 16 bits.
func (m *Mesh) Indices16() ([]uint16, error) {
	if len(m.Positions) > math.MaxUint16+1 {
		return nil, fmt.Errorf("mesh has %d vertices, more than addressable with 16 bit indices", len(m.Positions))
	}
	idx := make([]uint16, len(m.Indices))
	for i, v := range m.Indices {
		if v > math.MaxUint16 {
			return nil, fmt.Errorf("index %d at position %d overflows 16 bits", v, i)
		}
		idx[i] = uint16(v)
	}
	return idx, nil
}

// Validate checks attribute lengths are aligned and indices reference existing vertices.
func (m *Mesh) Validate() error {
	nv := len(m.Positions)
	switch {
	case len(m.Normals) != nv:
		return fmt.Errorf("got %d normals for %d positions", len(m.Normals), nv)
	case len(m.UVs) != nv:
		return fmt.Errorf("got %d uvs for %d positions", len(m.UVs), nv)
	case len(m.Colors) != nv:
		return fmt.Errorf("got %d colors for %d positions", len(m.Colors), nv)
	case len(m.Indices)%3 != 0:
		return errors.New("index buffer length not multiple of 3")
	}
	for i, v := range m.Indices {
		if int(v) >= nv {
			return fmt.Errorf("index %d at position %d out of range of %d vertices", v, i, nv)
		}
	}
	return nil
}

// reset truncates all buffers keeping their capacity.
func (m *Mesh) reset() {
	m.Positions = m.Positions[:0]
	m.Normals = m.Normals[:0]
	m.UVs = m.UVs[:0]
	m.Colors = m.Colors[:0]
	m.Indices = m.Indices[:0]
}
