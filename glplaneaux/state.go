package glplaneaux

import (
	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glgl/math/ms1"
	"github.com/soypat/glplane/gleval"
)

// Camera limits of the viewers.
const (
	MinCamDist = 0.5
	MaxCamDist = 10.0
	maxPitch   = math32.Pi/2 - 0.01
	// orbitSensitivity is radians of camera rotation per pixel of mouse movement.
	orbitSensitivity = 0.005
)

// DefaultEye is the starting camera position. The camera always looks at the origin.
var DefaultEye = ms3.Vec{X: -3, Y: 2, Z: 0}

// State is the per-frame state of a viewer: parameters, camera orbit and animation clock.
// The render loop reads it to set uniforms and input callbacks modify it.
type State struct {
	Params Params
	// Yaw and Pitch orbit the camera around the origin, in radians.
	Yaw, Pitch float32
	CamDist    float32
	// Time is seconds elapsed since the viewer started.
	Time float32
	// WaveOffset is the wave phase offset set from the cursor's horizontal position.
	WaveOffset float32
	// Width and Height of the viewport in pixels.
	Width, Height int
}

// NewState returns the initial state of a viewer with a width x height viewport.
func NewState(p Params, width, height int) State {
	yaw, pitch, dist := OrbitFromEye(DefaultEye)
	return State{
		Params:  p,
		Yaw:     yaw,
		Pitch:   pitch,
		CamDist: dist,
		Width:   width,
		Height:  height,
	}
}

// OrbitFromEye returns the orbit angles and distance that place the camera at eye looking at the origin.
func OrbitFromEye(eye ms3.Vec) (yaw, pitch, dist float32) {
	dist = ms3.Norm(eye)
	if dist == 0 {
		return 0, 0, 0
	}
	dir := ms3.Scale(-1/dist, eye) // Direction the camera looks at.
	pitch = math32.Asin(ms1.Clamp(dir.Y, -1, 1))
	yaw = math32.Atan2(dir.X, dir.Z)
	return yaw, pitch, dist
}

// Eye returns the camera position.
func (s *State) Eye() ms3.Vec {
	sp, cp := math32.Sincos(s.Pitch)
	sy, cy := math32.Sincos(s.Yaw)
	dir := ms3.Vec{X: cp * sy, Y: sp, Z: cp * cy}
	return ms3.Scale(-s.CamDist, dir)
}

// Aspect returns the viewport aspect ratio.
func (s *State) Aspect() float32 {
	if s.Height <= 0 {
		return 1
	}
	return float32(s.Width) / float32(s.Height)
}

// SetCursorX sets the wave offset from the cursor's horizontal position in pixels.
// A cursor traversing the full viewport width sweeps one full wave period.
func (s *State) SetCursorX(x float32) {
	if s.Width <= 0 {
		return
	}
	s.WaveOffset = 2 * math32.Pi * x / float32(s.Width)
}

// Orbit rotates the camera by a mouse drag of dx, dy pixels.
func (s *State) Orbit(dx, dy float32) {
	s.Yaw += dx * orbitSensitivity
	s.Pitch = ms1.Clamp(s.Pitch-dy*orbitSensitivity, -maxPitch, maxPitch)
}

// Zoom moves the camera towards the origin for positive scroll offsets.
func (s *State) Zoom(scroll float32) {
	s.CamDist -= scroll * (s.CamDist*0.1 + 0.01)
	s.CamDist = ms1.Clamp(s.CamDist, MinCamDist, MaxCamDist)
}

// Wave returns the displacement currently animated by the viewer.
func (s *State) Wave() gleval.Wave {
	return s.Params.Wave(s.Time, s.WaveOffset)
}

// Pass is a single draw call of the double sided plane.
type Pass struct {
	// Back draws the back side: normals flipped and the back texture bound.
	Back bool
	// Edge draws the inflated outline shell in a flat color.
	Edge bool
	// CullFront culls front facing triangles instead of back facing ones.
	CullFront bool
}

// PlanePasses appends the draw passes of a double sided toon plane in render order.
// Each side draws its outline first, culling the faces the side itself shows,
// so only the silhouette of the inflated shell remains around the side.
func PlanePasses(dst []Pass, edgeRendering bool) []Pass {
	if edgeRendering {
		dst = append(dst, Pass{Edge: true, CullFront: true})
	}
	dst = append(dst, Pass{})
	if edgeRendering {
		dst = append(dst, Pass{Back: true, Edge: true})
	}
	dst = append(dst, Pass{Back: true, CullFront: true})
	return dst
}
