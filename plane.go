package glplane

import (
	"errors"
	"fmt"

	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
)

var planeNormal = ms3.Vec{Z: 1}

// PlaneN returns the amount of vertices and indices a plane of gridX by gridY segments is made of.
// Non-positive segment counts yield zero indices.
func PlaneN(gridX, gridY int) (nVtx, nIdx int) {
	nVtx = max(gridX+1, 0) * max(gridY+1, 0)
	nIdx = 2 * 3 * max(gridX, 0) * max(gridY, 0)
	return nVtx, nIdx
}

// GeneratePlane tessellates a width by height plane centered at the origin on the XY plane
// into widthSegments by heightSegments quads, each split into two counter-clockwise triangles as seen from +Z.
// The result is stored in dst, reusing its buffers.
//
// Vertices are emitted row-major starting at the top-left corner (-width/2, height/2) so that
// UV (0,0) maps to the top-left of an image. Vertex (ix, iy) is stored at index ix + (widthSegments+1)*iy.
//
// GeneratePlane performs no validation. Segment counts below 1 result in degenerate or empty geometry.
func GeneratePlane(dst *Mesh, width, height float32, widthSegments, heightSegments int, color RGBA) {
	dst.reset()
	gridX, gridY := widthSegments, heightSegments
	gridX1, gridY1 := gridX+1, gridY+1
	nVtx, nIdx := PlaneN(gridX, gridY)
	dst.Positions = growVec3(dst.Positions, nVtx)
	dst.Normals = growVec3(dst.Normals, nVtx)
	dst.UVs = growVec2(dst.UVs, nVtx)
	dst.Colors = growColors(dst.Colors, nVtx)
	dst.Indices = growIndices(dst.Indices, nIdx)

	halfW, halfH := width/2, height/2
	segW := width / float32(gridX)
	segH := height / float32(gridY)
	for iy := 0; iy < gridY1; iy++ {
		y := -halfH + float32(iy)*segH
		for ix := 0; ix < gridX1; ix++ {
			x := -halfW + float32(ix)*segW
			dst.Positions = append(dst.Positions, ms3.Vec{X: x, Y: -y})
			dst.Normals = append(dst.Normals, planeNormal)
			dst.Colors = append(dst.Colors, color)
			dst.UVs = append(dst.UVs, ms2.Vec{
				X: float32(ix) / float32(gridX),
				Y: float32(iy) / float32(gridY),
			})
		}
	}

	for iy := 0; iy < gridY; iy++ {
		for ix := 0; ix < gridX; ix++ {
			a := uint32(ix + gridX1*iy)
			b := uint32(ix + gridX1*(iy+1))
			c := uint32((ix + 1) + gridX1*(iy+1))
			d := uint32((ix + 1) + gridX1*iy)
			dst.Indices = append(dst.Indices,
				a, b, d,
				b, c, d,
			)
		}
	}
}

// NewPlane returns a new plane mesh. See [GeneratePlane] for the vertex layout.
// Unlike GeneratePlane it rejects non-finite or non-positive dimensions and segment counts below 1.
func NewPlane(width, height float32, widthSegments, heightSegments int, color RGBA) (*Mesh, error) {
	err := checkPlaneDims(width, height, widthSegments, heightSegments)
	if err != nil {
		return nil, err
	}
	var m Mesh
	GeneratePlane(&m, width, height, widthSegments, heightSegments, color)
	return &m, nil
}

// NewPlane returns a new plane mesh. Invalid arguments panic or, if [FlagNoDimensionPanic] is set,
// are accumulated in the Builder and the resulting (possibly degenerate) mesh is returned.
func (bld *Builder) NewPlane(width, height float32, widthSegments, heightSegments int, color RGBA) *Mesh {
	err := checkPlaneDims(width, height, widthSegments, heightSegments)
	if err != nil {
		bld.shapeErrorf("NewPlane: %s", err.Error())
	}
	var m Mesh
	GeneratePlane(&m, width, height, widthSegments, heightSegments, color)
	return &m
}

func checkPlaneDims(width, height float32, widthSegments, heightSegments int) error {
	switch {
	case !isFinite(width) || !isFinite(height):
		return errors.New("non-finite plane dimension")
	case width <= 0 || height <= 0:
		return fmt.Errorf("non-positive plane dimension %gx%g", width, height)
	case widthSegments < 1 || heightSegments < 1:
		return fmt.Errorf("plane requires at least one segment per axis, got %dx%d", widthSegments, heightSegments)
	}
	return nil
}

func growVec3(s []ms3.Vec, n int) []ms3.Vec {
	if cap(s) < n {
		return make([]ms3.Vec, 0, n)
	}
	return s[:0]
}

func growVec2(s []ms2.Vec, n int) []ms2.Vec {
	if cap(s) < n {
		return make([]ms2.Vec, 0, n)
	}
	return s[:0]
}

func growColors(s []RGBA, n int) []RGBA {
	if cap(s) < n {
		return make([]RGBA, 0, n)
	}
	return s[:0]
}

func growIndices(s []uint32, n int) []uint32 {
	if cap(s) < n {
		return make([]uint32, 0, n)
	}
	return s[:0]
}
