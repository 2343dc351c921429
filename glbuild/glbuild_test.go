package glbuild_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/soypat/glplane/glbuild"
)

func TestProgramUniforms(t *testing.T) {
	prog := glbuild.NewDefaultProgrammer()
	var vert, frag bytes.Buffer
	n, err := prog.WritePlaneVertex(&vert)
	if err != nil {
		t.Fatal(err)
	} else if n != vert.Len() {
		t.Fatal("written length mismatch")
	}
	n, err = prog.WritePlaneFragment(&frag)
	if err != nil {
		t.Fatal(err)
	} else if n != frag.Len() {
		t.Fatal("written length mismatch")
	}
	src := vert.String() + frag.String()
	for _, uniform := range []string{
		glbuild.UniformYaw, glbuild.UniformPitch, glbuild.UniformCamDist, glbuild.UniformAspect,
		glbuild.UniformLightDirection, glbuild.UniformTextureUnit, glbuild.UniformIsTexture,
		glbuild.UniformIsToonShading, glbuild.UniformIsEdge, glbuild.UniformIsBack,
		glbuild.UniformAmplitude, glbuild.UniformFrequency, glbuild.UniformGlobalColor,
		glbuild.UniformGradient, glbuild.UniformInflate, glbuild.UniformTime, glbuild.UniformWaveOffset,
	} {
		if !strings.Contains(src, " "+uniform+";") {
			t.Errorf("uniform %q not declared", uniform)
		}
	}
	// Every attribute must be bound to its own distinct location.
	for _, decl := range []string{
		"layout(location=0) in vec3 position;\n",
		"layout(location=1) in vec3 normal;\n",
		"layout(location=2) in vec2 texCoord;\n",
		"layout(location=3) in vec4 color;\n",
	} {
		if strings.Count(vert.String(), decl) != 1 {
			t.Errorf("want single declaration %q in plane vertex shader", decl)
		}
	}
	if strings.Count(vert.String(), " in ") != 4 {
		t.Error("plane vertex shader declares inputs without location")
	}
	for _, src := range []string{vert.String(), frag.String()} {
		if !strings.HasPrefix(src, glbuild.VersionStr) {
			t.Error("missing version header")
		}
		if !strings.HasSuffix(src, "\x00") || strings.Count(src, "\x00") != 1 {
			t.Error("expected single NUL terminator")
		}
	}
	if !strings.Contains(vert.String(), "const float amplitudeScale=0.01;") {
		t.Error("amplitude scale constant does not match CPU wave\n", vert.String())
	}
}

func TestPointProgram(t *testing.T) {
	prog := glbuild.NewDefaultProgrammer()
	prog.NullTerminate = false
	var vert, frag bytes.Buffer
	if _, err := prog.WritePointVertex(&vert); err != nil {
		t.Fatal(err)
	}
	if _, err := prog.WritePointFragment(&frag); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(vert.String()+frag.String(), "\x00") {
		t.Error("unexpected NUL terminator")
	}
	for _, uniform := range []string{glbuild.UniformPointSize, glbuild.UniformTime, glbuild.UniformYaw} {
		if !strings.Contains(vert.String(), " "+uniform+";") {
			t.Errorf("uniform %q not declared", uniform)
		}
	}
	for _, decl := range []string{
		"layout(location=0) in vec3 position;\n",
		"layout(location=3) in vec4 color;\n",
	} {
		if strings.Count(vert.String(), decl) != 1 {
			t.Errorf("want single declaration %q in point vertex shader", decl)
		}
	}
	if strings.Count(vert.String(), " in ") != 2 {
		t.Error("point vertex shader declares inputs without location")
	}
	if !strings.Contains(frag.String(), "gl_PointCoord") {
		t.Error("expected round sprite fragment shader")
	}
}

func TestAppendFloat(t *testing.T) {
	for _, test := range []struct {
		v    float32
		want string
	}{
		{v: 1, want: "1.0"},
		{v: -0.5, want: "n0.5"},
		{v: 0.01, want: "0.01"},
		{v: 20, want: "20.0"},
	} {
		got := string(glbuild.AppendFloat(nil, 'n', '.', test.v))
		if got != test.want {
			t.Errorf("AppendFloat(%g): want %q, got %q", test.v, test.want, got)
		}
	}
	got := string(glbuild.AppendFloatDecl(nil, "x", 2.5))
	if got != "float x=2.5;\n" {
		t.Errorf("unexpected float declaration %q", got)
	}
	got = string(glbuild.AppendAttribDecl(nil, glbuild.AttribLocTexCoord, "vec2", glbuild.AttribTexCoord))
	if got != "layout(location=2) in vec2 texCoord;\n" {
		t.Errorf("unexpected attribute declaration %q", got)
	}
	got = string(glbuild.AppendVec4Decl(nil, "c", [4]float32{0, 0.5, 1, 1}))
	if got != "vec4 c=vec4(0.0,0.5,1.0,1.0);\n" {
		t.Errorf("unexpected vec4 declaration %q", got)
	}
}
