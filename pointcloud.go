package glplane

import (
	"errors"
	"math/rand"

	"github.com/soypat/geometry/ms3"
)

// PointCloud is a set of colored points to be drawn as point sprites.
type PointCloud struct {
	Positions []ms3.Vec
	Colors    []RGBA
}

// NewPointCloud samples count points uniformly inside the box bb, each with the given color.
// A nil rng uses a source with a fixed seed so results are reproducible.
func NewPointCloud(rng *rand.Rand, count int, bb ms3.Box, color RGBA) (*PointCloud, error) {
	if count < 0 {
		return nil, errors.New("negative point count")
	}
	sz := bb.Size()
	if !isFinite(sz.X) || !isFinite(sz.Y) || !isFinite(sz.Z) {
		return nil, errors.New("non-finite point cloud bounds")
	} else if sz.X < 0 || sz.Y < 0 || sz.Z < 0 {
		return nil, errors.New("inverted point cloud bounds")
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	pc := &PointCloud{
		Positions: make([]ms3.Vec, count),
		Colors:    make([]RGBA, count),
	}
	for i := range pc.Positions {
		pc.Positions[i] = ms3.Vec{
			X: bb.Min.X + rng.Float32()*sz.X,
			Y: bb.Min.Y + rng.Float32()*sz.Y,
			Z: bb.Min.Z + rng.Float32()*sz.Z,
		}
		pc.Colors[i] = color
	}
	return pc, nil
}

// AppendPositions appends point positions as a flat float buffer with stride 3.
func (pc *PointCloud) AppendPositions(dst []float32) []float32 {
	return appendVec3s(dst, pc.Positions)
}

// AppendColors appends point colors as a flat float buffer with stride 4.
func (pc *PointCloud) AppendColors(dst []float32) []float32 {
	for _, c := range pc.Colors {
		dst = append(dst, c.R, c.G, c.B, c.A)
	}
	return dst
}
