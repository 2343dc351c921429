package gleval

import (
	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

// Toon returns the Lambertian diffuse term of normal lit from light, quantized to
// gradient discrete levels. A gradient <= 0 returns the smooth diffuse term.
// normal and light need not be unit length.
func Toon(normal, light ms3.Vec, gradient float32) float32 {
	nn := ms3.Norm(normal)
	nl := ms3.Norm(light)
	if nn == 0 || nl == 0 {
		return 0
	}
	d := ms3.Dot(normal, light) / (nn * nl)
	d = math32.Max(d, 0)
	if gradient <= 0 {
		return d
	}
	return math32.Min(math32.Floor(d*gradient)/gradient, 1)
}
