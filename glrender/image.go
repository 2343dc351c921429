package glrender

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glplane"
	"github.com/soypat/glplane/gleval"
)

type setImage = interface {
	image.Image
	Set(x, y int, c color.Color)
}

// ImageRendererUV rasterizes meshes in texture space: every triangle is drawn at its UV
// coordinates, shaded by the toon lighting of its (possibly displaced) facet normal.
// The result shows the tessellation and deformation of a mesh as a flat image.
type ImageRendererUV struct {
	conv     func(shade float32) color.Color
	light    ms3.Vec
	gradient float32
	pos      []ms3.Vec
}

// NewImageRendererUV instances a new [ImageRendererUV]. A nil shade->color conversion function
// results in a grayscale image. gradient is the amount of toon shading levels, see [gleval.Toon].
func NewImageRendererUV(light ms3.Vec, gradient float32, conversion func(shade float32) color.Color) (*ImageRendererUV, error) {
	if ms3.Norm(light) == 0 {
		return nil, errors.New("zero light direction")
	}
	if conversion == nil {
		conversion = func(shade float32) color.Color {
			if math32.IsNaN(shade) {
				return color.RGBA{R: 255, A: 255}
			}
			return color.Gray{Y: uint8(255 * shade)}
		}
	}
	ir := &ImageRendererUV{
		conv:     conversion,
		light:    light,
		gradient: gradient,
	}
	return ir, nil
}

// Render draws m into img. A nil displacer renders the flat mesh. userData is passed on to the displacer.
// Pixels not covered by any triangle are left untouched.
func (ir *ImageRendererUV) Render(m *glplane.Mesh, displacer gleval.Displacer, img setImage, userData any) error {
	err := m.Validate()
	if err != nil {
		return fmt.Errorf("invalid mesh: %w", err)
	}
	imgBB := img.Bounds()
	if imgBB.Empty() {
		return errors.New("empty image")
	}
	n := m.NumVertices()
	if cap(ir.pos) < n {
		ir.pos = make([]ms3.Vec, n)
	}
	ir.pos = ir.pos[:n]
	if displacer != nil && n > 0 {
		err = displacer.Displace(m.Positions, m.UVs, ir.pos, userData)
		if err != nil {
			return err
		}
	} else {
		copy(ir.pos, m.Positions)
	}
	size := ms2.Vec{X: float32(imgBB.Dx()), Y: float32(imgBB.Dy())}
	for i := 0; i < m.NumTriangles(); i++ {
		tri := m.Triangle(i)
		p0, p1, p2 := ir.pos[tri[0]], ir.pos[tri[1]], ir.pos[tri[2]]
		normal := ms3.Cross(ms3.Sub(p1, p0), ms3.Sub(p2, p0))
		c := ir.conv(gleval.Toon(normal, ir.light, ir.gradient))
		ir.fillTriangle(img, imgBB, c,
			ms2.MulElem(m.UVs[tri[0]], size),
			ms2.MulElem(m.UVs[tri[1]], size),
			ms2.MulElem(m.UVs[tri[2]], size),
		)
	}
	return nil
}

// fillTriangle sets pixels whose centers lie inside the triangle a,b,c given in pixel coordinates.
func (ir *ImageRendererUV) fillTriangle(img setImage, imgBB image.Rectangle, c color.Color, a, b, cc ms2.Vec) {
	area := edge(a, b, cc)
	if area == 0 {
		return // Degenerate in texture space.
	}
	minv := ms2.MinElem(a, ms2.MinElem(b, cc))
	maxv := ms2.MaxElem(a, ms2.MaxElem(b, cc))
	x0 := max(int(math32.Floor(minv.X)), 0)
	y0 := max(int(math32.Floor(minv.Y)), 0)
	x1 := min(int(math32.Ceil(maxv.X)), imgBB.Dx())
	y1 := min(int(math32.Ceil(maxv.Y)), imgBB.Dy())
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			p := ms2.Vec{X: float32(x) + 0.5, Y: float32(y) + 0.5}
			w0 := edge(b, cc, p)
			w1 := edge(cc, a, p)
			w2 := edge(a, b, p)
			if area < 0 {
				w0, w1, w2 = -w0, -w1, -w2
			}
			if w0 >= 0 && w1 >= 0 && w2 >= 0 {
				img.Set(x+imgBB.Min.X, y+imgBB.Min.Y, c)
			}
		}
	}
}

// edge returns twice the signed area of triangle a,b,p.
func edge(a, b, p ms2.Vec) float32 {
	return (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
}
