package glbuild

import (
	"bytes"
	_ "embed"
	"io"
	"strconv"

	"github.com/soypat/glplane/gleval"
)

const VersionStr = "#version 460\n"

// Vertex attribute names shared by the plane and point programs.
const (
	AttribPosition = "position"
	AttribNormal   = "normal"
	AttribTexCoord = "texCoord"
	AttribColor    = "color"
)

// Vertex attribute locations. Declared with layout qualifiers in the vertex shaders
// so buffers can be bound without querying the linked program.
const (
	AttribLocPosition uint32 = iota
	AttribLocNormal
	AttribLocTexCoord
	AttribLocColor
)

// Uniform names declared by the generated programs.
const (
	UniformYaw            = "uYaw"
	UniformPitch          = "uPitch"
	UniformCamDist        = "uCamDist"
	UniformAspect         = "uAspect"
	UniformLightDirection = "lightDirection"
	UniformTextureUnit    = "textureUnit"
	UniformIsTexture      = "isTexture"
	UniformIsToonShading  = "isToonShading"
	UniformIsEdge         = "isEdge"
	UniformIsBack         = "isBack"
	UniformAmplitude      = "amplitude"
	UniformFrequency      = "frequency"
	UniformGlobalColor    = "globalColor"
	UniformGradient       = "gradient"
	UniformInflate        = "inflate"
	UniformTime           = "time"
	UniformWaveOffset     = "waveOffset"
	UniformPointSize      = "pointSize"
)

// DefaultAmbient is the default fraction of light received by surfaces facing away from the light.
const DefaultAmbient = 0.25

// Camera projection constants baked into the generated sources.
const (
	FovY = 45 * 3.14159265358979323846 / 180
	Near = 0.1
	Far  = 20.0
)

var (
	//go:embed camera.glsl
	cameraSrc []byte
	//go:embed plane.vert
	planeVertSrc []byte
	//go:embed plane.frag
	planeFragSrc []byte
	//go:embed points.vert
	pointsVertSrc []byte
	//go:embed points.frag
	pointsFragSrc []byte
)

// Programmer writes the GLSL sources for the plane and point cloud programs.
type Programmer struct {
	scratch []byte
	// Ambient is the fraction of light received by surfaces facing away from the light.
	Ambient float32
	// EdgeColor is the flat color of the outline pass.
	EdgeColor [4]float32
	// SpinRate is the point cloud rotation about Y in radians per second.
	SpinRate float32
	// NullTerminate appends a NUL byte to written sources as expected by go-gl's shader compilation.
	NullTerminate bool
}

// NewDefaultProgrammer returns a Programmer with reasonable default parameters for use with glgl package on the local machine.
func NewDefaultProgrammer() *Programmer {
	return &Programmer{
		scratch:       make([]byte, 0, 1024),
		Ambient:       DefaultAmbient,
		EdgeColor:     [4]float32{0, 0, 0, 1},
		SpinRate:      0.1,
		NullTerminate: true,
	}
}

// WritePlaneVertex writes the plane vertex shader which applies the wave displacement
// of [gleval.Wave] and the outline inflation.
func (p *Programmer) WritePlaneVertex(w io.Writer) (int, error) {
	b := p.header()
	b = appendConstFloatDecl(b, "amplitudeScale", gleval.AmplitudeScale)
	b = p.appendCamera(b)
	b = AppendAttribDecl(b, AttribLocPosition, "vec3", AttribPosition)
	b = AppendAttribDecl(b, AttribLocNormal, "vec3", AttribNormal)
	b = AppendAttribDecl(b, AttribLocTexCoord, "vec2", AttribTexCoord)
	b = AppendAttribDecl(b, AttribLocColor, "vec4", AttribColor)
	return p.finish(w, b, planeVertSrc)
}

// WritePlaneFragment writes the plane fragment shader with optional toon shading and texturing.
func (p *Programmer) WritePlaneFragment(w io.Writer) (int, error) {
	b := p.header()
	b = appendConstFloatDecl(b, "ambient", p.Ambient)
	b = append(b, "const "...)
	b = AppendVec4Decl(b, "edgeColor", p.EdgeColor)
	return p.finish(w, b, planeFragSrc)
}

// WritePointVertex writes the point cloud vertex shader.
func (p *Programmer) WritePointVertex(w io.Writer) (int, error) {
	b := p.header()
	b = appendConstFloatDecl(b, "spinRate", p.SpinRate)
	b = p.appendCamera(b)
	b = AppendAttribDecl(b, AttribLocPosition, "vec3", AttribPosition)
	b = AppendAttribDecl(b, AttribLocColor, "vec4", AttribColor)
	return p.finish(w, b, pointsVertSrc)
}

// WritePointFragment writes the round point sprite fragment shader.
func (p *Programmer) WritePointFragment(w io.Writer) (int, error) {
	return p.finish(w, p.header(), pointsFragSrc)
}

func (p *Programmer) header() []byte {
	b := append(p.scratch[:0], VersionStr...)
	return b
}

func (p *Programmer) appendCamera(b []byte) []byte {
	b = appendConstFloatDecl(b, "fovy", FovY)
	b = appendConstFloatDecl(b, "near", Near)
	b = appendConstFloatDecl(b, "far", Far)
	b = append(b, cameraSrc...)
	return b
}

func (p *Programmer) finish(w io.Writer, b, body []byte) (int, error) {
	b = append(b, '\n')
	b = append(b, body...)
	if p.NullTerminate {
		b = append(b, 0)
	}
	p.scratch = b
	return w.Write(b)
}

func appendConstFloatDecl(b []byte, name string, v float32) []byte {
	b = append(b, "const "...)
	return AppendFloatDecl(b, name, v)
}

// AppendAttribDecl appends a vertex shader input declaration bound to location loc, i.e:
//
//	layout(location=1) in vec3 normal;
func AppendAttribDecl(b []byte, loc uint32, typ, name string) []byte {
	b = append(b, "layout(location="...)
	b = strconv.AppendUint(b, uint64(loc), 10)
	b = append(b, ") in "...)
	b = append(b, typ...)
	b = append(b, ' ')
	b = append(b, name...)
	b = append(b, ';', '\n')
	return b
}

func AppendVec4Decl(b []byte, vec4Varname string, v [4]float32) []byte {
	b = append(b, "vec4 "...)
	b = append(b, vec4Varname...)
	b = append(b, "=vec4("...)
	b = AppendFloats(b, ',', '-', '.', v[:]...)
	b = append(b, ')', ';', '\n')
	return b
}

func AppendFloatDecl(b []byte, floatVarname string, v float32) []byte {
	b = append(b, "float "...)
	b = append(b, floatVarname...)
	b = append(b, '=')
	b = AppendFloat(b, '-', '.', v)
	b = append(b, ';', '\n')
	return b
}

const decimalDigits = 9

// AppendFloat appends v in fixed point notation with trailing zeroes trimmed.
// neg and decimal replace the minus sign and decimal point characters.
func AppendFloat(b []byte, neg, decimal byte, v float32) []byte {
	start := len(b)
	b = strconv.AppendFloat(b, float64(v), 'f', decimalDigits, 32)
	idx := bytes.IndexByte(b[start:], '.')
	if decimal != '.' && idx >= 0 {
		b[start+idx] = decimal
	}
	if b[start] == '-' {
		b[start] = neg
	}
	// Finally trim zeroes.
	end := len(b)
	for i := len(b) - 1; idx >= 0 && i > idx+start+1 && b[i] == '0'; i-- {
		end--
	}
	return b[:end]
}

func AppendFloats(b []byte, sep, neg, decimal byte, s ...float32) []byte {
	for i, v := range s {
		b = AppendFloat(b, neg, decimal, v)
		if sep != 0 && i != len(s)-1 {
			b = append(b, sep)
		}
	}
	return b
}
