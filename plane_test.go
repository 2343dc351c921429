package glplane_test

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glplane"
)

func TestPlaneSingleQuad(t *testing.T) {
	m, err := glplane.NewPlane(2, 2, 1, 1, glplane.White)
	if err != nil {
		t.Fatal(err)
	}
	want := []ms3.Vec{
		{X: -1, Y: 1},
		{X: 1, Y: 1},
		{X: -1, Y: -1},
		{X: 1, Y: -1},
	}
	if len(m.Positions) != len(want) {
		t.Fatalf("want %d vertices, got %d", len(want), len(m.Positions))
	}
	for i := range want {
		if m.Positions[i] != want[i] {
			t.Errorf("vertex %d: want %v, got %v", i, want[i], m.Positions[i])
		}
	}
	if m.NumTriangles() != 2 || len(m.Indices) != 6 {
		t.Errorf("want 2 triangles/6 indices, got %d/%d", m.NumTriangles(), len(m.Indices))
	}
	wantIdx := []uint32{0, 2, 1, 2, 3, 1}
	if !reflect.DeepEqual(m.Indices, wantIdx) {
		t.Errorf("want indices %v, got %v", wantIdx, m.Indices)
	}
	for _, idx := range m.Indices {
		if idx >= 4 {
			t.Error("index out of range", idx)
		}
	}
}

func TestPlaneInvariants(t *testing.T) {
	var m glplane.Mesh
	color := glplane.RGBA{R: 0.1, G: 0.7, B: 0.4, A: 1}
	for _, dims := range [][2]int{{1, 1}, {32, 1}, {1, 32}, {3, 7}, {16, 16}} {
		gridX, gridY := dims[0], dims[1]
		// Reuse the same mesh to check buffer reuse does not leak previous contents.
		glplane.GeneratePlane(&m, 3, 1.5, gridX, gridY, color)
		nVtx, nIdx := glplane.PlaneN(gridX, gridY)
		if m.NumVertices() != (gridX+1)*(gridY+1) || m.NumVertices() != nVtx {
			t.Errorf("%dx%d: bad vertex count %d", gridX, gridY, m.NumVertices())
		}
		if len(m.Indices) != 6*gridX*gridY || len(m.Indices) != nIdx {
			t.Errorf("%dx%d: bad index count %d", gridX, gridY, len(m.Indices))
		}
		if err := m.Validate(); err != nil {
			t.Errorf("%dx%d: %s", gridX, gridY, err)
		}
		for i := range m.Positions {
			if m.Normals[i] != (ms3.Vec{Z: 1}) {
				t.Fatalf("%dx%d: vertex %d normal %v", gridX, gridY, i, m.Normals[i])
			}
			if m.Colors[i] != color {
				t.Fatalf("%dx%d: vertex %d color %v", gridX, gridY, i, m.Colors[i])
			}
			uv := m.UVs[i]
			if uv.X < 0 || uv.X > 1 || uv.Y < 0 || uv.Y > 1 {
				t.Fatalf("%dx%d: vertex %d uv out of range %v", gridX, gridY, i, uv)
			}
		}
		// Vertex (ix, iy) lives at ix + (gridX+1)*iy.
		corners := map[[2]int]ms2.Vec{
			{0, 0}:         {X: 0, Y: 0},
			{gridX, 0}:     {X: 1, Y: 0},
			{0, gridY}:     {X: 0, Y: 1},
			{gridX, gridY}: {X: 1, Y: 1},
		}
		for ixy, wantUV := range corners {
			i := ixy[0] + (gridX+1)*ixy[1]
			if m.UVs[i] != wantUV {
				t.Errorf("%dx%d: corner %v uv want %v got %v", gridX, gridY, ixy, wantUV, m.UVs[i])
			}
		}
		bb := m.Bounds()
		const tol = 1e-5
		if ms3.Norm(ms3.Sub(bb.Min, ms3.Vec{X: -1.5, Y: -0.75})) > tol || ms3.Norm(ms3.Sub(bb.Max, ms3.Vec{X: 1.5, Y: 0.75})) > tol {
			t.Errorf("%dx%d: bad bounds %v", gridX, gridY, bb)
		}
	}
}

func TestPlaneWinding(t *testing.T) {
	m, err := glplane.NewPlane(4, 3, 9, 5, glplane.White)
	if err != nil {
		t.Fatal(err)
	}
	tris := m.AppendTriangles(nil)
	if len(tris) != m.NumTriangles() {
		t.Fatal("triangle count mismatch")
	}
	for i, tri := range tris {
		// Signed area as seen from +Z must be positive for counter-clockwise triangles.
		n := ms3.Cross(ms3.Sub(tri[1], tri[0]), ms3.Sub(tri[2], tri[0]))
		if n.Z <= 0 {
			t.Fatalf("triangle %d %v not counter-clockwise, normal %v", i, m.Triangle(i), n)
		}
	}
}

func TestPlaneDeterministic(t *testing.T) {
	a, _ := glplane.NewPlane(2, 1, 13, 4, glplane.White)
	b, _ := glplane.NewPlane(2, 1, 13, 4, glplane.White)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("identical inputs produced different meshes")
	}
	fa := a.AppendPositions(nil)
	fb := b.AppendPositions(nil)
	for i := range fa {
		if math.Float32bits(fa[i]) != math.Float32bits(fb[i]) {
			t.Fatalf("position component %d differs bitwise", i)
		}
	}
}

func TestPlaneLarge(t *testing.T) {
	m, err := glplane.NewPlane(10, 10, 100, 100, glplane.White)
	if err != nil {
		t.Fatal(err)
	}
	if m.NumVertices() != 101*101 {
		t.Errorf("want %d vertices, got %d", 101*101, m.NumVertices())
	}
	if m.NumTriangles() != 100*100*2 {
		t.Errorf("want %d triangles, got %d", 100*100*2, m.NumTriangles())
	}
	idx16, err := m.Indices16()
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range idx16 {
		if uint32(v) != m.Indices[i] {
			t.Fatalf("16 bit index %d mismatch", i)
		}
	}
}

func TestIndices16Overflow(t *testing.T) {
	var m glplane.Mesh
	glplane.GeneratePlane(&m, 1, 1, 256, 256, glplane.White) // 257*257 vertices.
	_, err := m.Indices16()
	if err == nil {
		t.Fatal("expected overflow error")
	}
}

func TestFlatBuffers(t *testing.T) {
	m, _ := glplane.NewPlane(2, 2, 2, 3, glplane.RGBA{R: 1, A: 0.5})
	n := m.NumVertices()
	if got := len(m.AppendPositions(nil)); got != 3*n {
		t.Error("positions stride", got)
	}
	if got := len(m.AppendNormals(nil)); got != 3*n {
		t.Error("normals stride", got)
	}
	uvs := m.AppendUVs(nil)
	if len(uvs) != 2*n {
		t.Error("uvs stride", len(uvs))
	}
	if uvs[2*n-2] != 1 || uvs[2*n-1] != 1 {
		t.Error("last uv should be (1,1)", uvs[2*n-2:])
	}
	colors := m.AppendColors(nil)
	if len(colors) != 4*n || colors[0] != 1 || colors[3] != 0.5 {
		t.Error("bad colors buffer", colors[:4])
	}
}

func TestPlaneDegenerate(t *testing.T) {
	var m glplane.Mesh
	for _, dims := range [][2]int{{0, 1}, {1, 0}, {0, 0}, {-3, 2}} {
		glplane.GeneratePlane(&m, 1, 1, dims[0], dims[1], glplane.White)
		if len(m.Indices) != 0 {
			t.Errorf("%v: expected no triangles, got %d", dims, m.NumTriangles())
		}
	}
	_, err := glplane.NewPlane(1, 1, 0, 1, glplane.White)
	if err == nil {
		t.Error("expected error for zero segments")
	}
	_, err = glplane.NewPlane(float32(math.Inf(1)), 1, 1, 1, glplane.White)
	if err == nil {
		t.Error("expected error for infinite width")
	}
	_, err = glplane.NewPlane(-1, 1, 1, 1, glplane.White)
	if err == nil {
		t.Error("expected error for negative width")
	}
}

func TestBuilderErrors(t *testing.T) {
	var bld glplane.Builder
	bld.SetFlags(glplane.FlagNoDimensionPanic)
	m := bld.NewPlane(1, 1, 0, 4, glplane.White)
	if m == nil {
		t.Error("expecting non-nil mesh")
	}
	err := bld.Err()
	if err == nil {
		t.Fatal("expecting error in builder")
	} else if !strings.Contains(err.Error(), "segment") {
		t.Error("unexpected error message", err)
	}
	bld.ClearErrors()
	if bld.Err() != nil {
		t.Error("expected builder error to be cleared")
	}

	bld.SetFlags(0)
	defer func() {
		if recover() == nil {
			t.Error("expected panic without FlagNoDimensionPanic")
		}
	}()
	bld.NewPlane(0, 1, 1, 1, glplane.White)
}
