package gleval_test

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glplane"
	"github.com/soypat/glplane/gleval"
)

func TestWaveNormalsCentralDiff(t *testing.T) {
	const tol = 2e-3
	mesh, err := glplane.NewPlane(2, 2, 32, 4, glplane.White)
	if err != nil {
		t.Fatal(err)
	}
	var vp gleval.VecPool
	n := mesh.NumVertices()
	analytic := make([]ms3.Vec, n)
	numeric := make([]ms3.Vec, n)
	for _, wave := range []gleval.Wave{
		{Amplitude: 10, Frequency: gleval.DefaultFrequency},
		{Amplitude: 100, Frequency: 2, Time: 1.3, Offset: 0.5},
		{Amplitude: 0, Frequency: 1},
	} {
		err = wave.Normals(mesh.Positions, analytic)
		if err != nil {
			t.Fatal(err)
		}
		err = gleval.NormalsCentralDiff(&wave, mesh.Positions, mesh.UVs, numeric, 1e-3, &vp)
		if err != nil {
			t.Fatal(err)
		}
		for i := range numeric {
			got := ms3.Unit(numeric[i])
			if ms3.Norm(ms3.Sub(got, analytic[i])) > tol {
				t.Fatalf("%+v: vertex %d want normal %v, got %v", wave, i, analytic[i], got)
			}
		}
		if err := vp.AssertAllReleased(); err != nil {
			t.Fatal(err)
		}
	}
}

func TestWaveDisplace(t *testing.T) {
	wave := gleval.Wave{Amplitude: 50, Frequency: gleval.DefaultFrequency, Time: 0.25}
	pos := []ms3.Vec{{X: -1, Y: 1}, {X: 0}, {X: 0.5, Y: -1}}
	uv := make([]ms2.Vec, len(pos))
	dst := make([]ms3.Vec, len(pos))
	err := wave.Displace(pos, uv, dst, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i, p := range pos {
		want := 0.5 * math32.Sin(math32.Pi*p.X+0.25)
		if math32.Abs(dst[i].Z-want) > 1e-6 {
			t.Errorf("vertex %d: want z=%g, got %g", i, want, dst[i].Z)
		}
		if dst[i].X != p.X || dst[i].Y != p.Y {
			t.Errorf("vertex %d: XY must not change, got %v", i, dst[i])
		}
	}
	// In place displacement.
	err = wave.Displace(pos, uv, pos, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := range pos {
		if pos[i] != dst[i] {
			t.Error("in place displacement mismatch at", i)
		}
	}
	err = wave.Displace(pos, uv[:1], dst, nil)
	if err == nil {
		t.Error("expected length mismatch error")
	}
	err = wave.Displace(nil, nil, nil, nil)
	if err == nil {
		t.Error("expected empty buffer error")
	}
}

func TestNormalsCentralDiffErrors(t *testing.T) {
	var wave gleval.Wave
	pos := make([]ms3.Vec, 3)
	uv := make([]ms2.Vec, 3)
	normals := make([]ms3.Vec, 3)
	if err := gleval.NormalsCentralDiff(&wave, pos, uv, normals, 1e-3, nil); err == nil {
		t.Error("expected error without VecPool")
	}
	if err := gleval.NormalsCentralDiff(&wave, pos, uv, normals, 0, &gleval.VecPool{}); err == nil {
		t.Error("expected error on zero step")
	}
	if err := gleval.NormalsCentralDiff(nil, pos, uv, normals, 1e-3, &gleval.VecPool{}); err == nil {
		t.Error("expected error on nil displacer")
	}
}

func TestToon(t *testing.T) {
	light := ms3.Vec{X: 1, Y: 1, Z: 1}
	up := ms3.Vec{Z: 1}
	smooth := gleval.Toon(up, light, 0)
	want := 1 / math32.Sqrt(3)
	if math32.Abs(smooth-want) > 1e-6 {
		t.Errorf("smooth diffuse want %g, got %g", want, smooth)
	}
	for _, gradient := range []float32{1, 2, 4, 8} {
		d := gleval.Toon(up, light, gradient)
		levels := d * gradient
		if math32.Abs(levels-math32.Floor(levels+0.5)) > 1e-5 {
			t.Errorf("gradient %g: %g is not a quantized level", gradient, d)
		}
		if d > smooth {
			t.Errorf("gradient %g: quantized %g exceeds smooth %g", gradient, d, smooth)
		}
	}
	if gleval.Toon(ms3.Vec{Z: -1}, light, 4) != 0 {
		t.Error("back facing normal should be unlit")
	}
	if gleval.Toon(up, ms3.Vec{Z: 2}, 4) != 1 {
		t.Error("normal aligned with light should be fully lit")
	}
	if gleval.Toon(ms3.Vec{}, light, 4) != 0 {
		t.Error("zero normal should be unlit")
	}
}

func TestVecPool(t *testing.T) {
	var vp gleval.VecPool
	a := vp.V3.Acquire(10)
	b := vp.Float.Acquire(4)
	if vp.AssertAllReleased() == nil {
		t.Fatal("expected unreleased buffers")
	}
	vp.V3.Release(a)
	vp.Float.Release(b)
	if err := vp.AssertAllReleased(); err != nil {
		t.Fatal(err)
	}
	c := vp.V3.Acquire(5)
	if &c[0] != &a[0] {
		t.Error("expected buffer reuse")
	}
	vp.V3.Release(c)
	got, err := gleval.GetVecPool(&vp)
	if err != nil || got != &vp {
		t.Error("GetVecPool failed", err)
	}
	if _, err := gleval.GetVecPool(3); err == nil {
		t.Error("expected error for non VecPool userData")
	}
}
