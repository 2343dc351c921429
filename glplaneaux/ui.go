//go:build !tinygo && cgo

package glplaneaux

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/soypat/glgl/v4.6-core/glgl"
	"github.com/soypat/glplane"
	"github.com/soypat/glplane/glbuild"
)

func ui(m *glplane.Mesh, cfg UIConfig) error {
	indices, err := m.Indices16()
	if err != nil {
		return err
	}
	front, back := cfg.Front, cfg.Back
	if front == nil || back == nil {
		defFront, defBack, err := DefaultTextures(512)
		if err != nil {
			return err
		}
		if front == nil {
			front = defFront
		}
		if back == nil {
			back = defBack
		}
	}
	window, term, err := startGLFW(cfg.Width, cfg.Height, "glplane toon plane")
	if err != nil {
		return err
	}
	defer term()

	programmer := glbuild.NewDefaultProgrammer()
	var vert, frag bytes.Buffer
	_, err = programmer.WritePlaneVertex(&vert)
	if err != nil {
		return err
	}
	_, err = programmer.WritePlaneFragment(&frag)
	if err != nil {
		return err
	}
	prog, err := glgl.CompileProgram(glgl.ShaderSource{
		Vertex:   vert.String(),
		Fragment: frag.String(),
	})
	if err != nil {
		return fmt.Errorf("compiling plane program: %w", err)
	}
	defer prog.Delete()
	prog.Bind()
	uniforms, err := uniformLocations(prog,
		glbuild.UniformYaw, glbuild.UniformPitch, glbuild.UniformCamDist, glbuild.UniformAspect,
		glbuild.UniformLightDirection, glbuild.UniformTextureUnit, glbuild.UniformIsTexture,
		glbuild.UniformIsToonShading, glbuild.UniformIsEdge, glbuild.UniformIsBack,
		glbuild.UniformAmplitude, glbuild.UniformFrequency, glbuild.UniformGlobalColor,
		glbuild.UniformGradient, glbuild.UniformInflate, glbuild.UniformTime, glbuild.UniformWaveOffset,
	)
	if err != nil {
		return err
	}

	var vao uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	defer gl.DeleteVertexArrays(1, &vao)
	attribs := []struct {
		loc  uint32
		size int32
		data []float32
	}{
		{loc: glbuild.AttribLocPosition, size: 3, data: m.AppendPositions(nil)},
		{loc: glbuild.AttribLocNormal, size: 3, data: m.AppendNormals(nil)},
		{loc: glbuild.AttribLocTexCoord, size: 2, data: m.AppendUVs(nil)},
		{loc: glbuild.AttribLocColor, size: 4, data: m.AppendColors(nil)},
	}
	vbos := make([]uint32, len(attribs))
	gl.GenBuffers(int32(len(vbos)), &vbos[0])
	defer gl.DeleteBuffers(int32(len(vbos)), &vbos[0])
	for i, attrib := range attribs {
		err = vertexAttrib(vbos[i], attrib.loc, attrib.size, attrib.data)
		if err != nil {
			return err
		}
	}
	var ibo uint32
	gl.GenBuffers(1, &ibo)
	defer gl.DeleteBuffers(1, &ibo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ibo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, 2*len(indices), gl.Ptr(indices), gl.STATIC_DRAW)

	textures := make([]uint32, 2)
	gl.GenTextures(int32(len(textures)), &textures[0])
	defer gl.DeleteTextures(int32(len(textures)), &textures[0])
	gl.ActiveTexture(gl.TEXTURE0)
	for i, img := range []image.Image{front, back} {
		loadTexture(textures[i], img)
	}
	err = glgl.Err()
	if err != nil {
		return fmt.Errorf("uploading plane buffers: %w", err)
	}

	state := NewState(cfg.Params, cfg.Width, cfg.Height)
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	reload, err := watchReload(ctx, cfg)
	if err != nil {
		return err
	}
	var (
		lastMouseX, lastMouseY float64
		firstMouseMove         = true
		isMousePressed         = false
	)
	window.SetCursorPosCallback(func(w *glfw.Window, xpos float64, ypos float64) {
		if !isMousePressed {
			state.SetCursorX(float32(xpos))
			return
		}
		if firstMouseMove {
			lastMouseX = xpos
			lastMouseY = ypos
			firstMouseMove = false
		}
		state.Orbit(float32(xpos-lastMouseX), float32(ypos-lastMouseY))
		lastMouseX = xpos
		lastMouseY = ypos
	})
	window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		state.Zoom(float32(yoff))
	})
	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if button != glfw.MouseButtonLeft {
			return
		}
		if action == glfw.Press {
			isMousePressed = true
			firstMouseMove = true
			window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
		} else if action == glfw.Release {
			isMousePressed = false
			window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
		}
	})

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.Enable(gl.CULL_FACE)
	var passes []Pass
	startTime := glfw.GetTime()
	for !window.ShouldClose() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case p := <-reload:
			state.Params = p
			cfg.log("reloaded params from", cfg.ParamsFile)
		default:
		}
		state.Width, state.Height = window.GetSize()
		state.Time = float32(glfw.GetTime() - startTime)
		fbWidth, fbHeight := window.GetFramebufferSize()
		gl.Viewport(0, 0, int32(fbWidth), int32(fbHeight))
		gl.ClearColor(0.3, 0.3, 0.3, 1.0)
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

		prog.Bind()
		setPlaneUniforms(uniforms, &state)
		gl.BindVertexArray(vao)
		passes = PlanePasses(passes[:0], state.Params.EdgeRendering)
		for _, pass := range passes {
			tex := textures[0]
			if pass.Back {
				tex = textures[1]
			}
			gl.BindTexture(gl.TEXTURE_2D, tex)
			if pass.CullFront {
				gl.CullFace(gl.FRONT)
			} else {
				gl.CullFace(gl.BACK)
			}
			gl.Uniform1i(uniforms[glbuild.UniformIsBack], boolToInt(pass.Back))
			gl.Uniform1i(uniforms[glbuild.UniformIsEdge], boolToInt(pass.Edge))
			gl.DrawElements(gl.TRIANGLES, int32(len(indices)), gl.UNSIGNED_SHORT, gl.PtrOffset(0))
		}
		window.SwapBuffers()
		glfw.PollEvents()
	}
	return nil
}

func setPlaneUniforms(uniforms map[string]int32, state *State) {
	p := &state.Params
	setCameraUniforms(uniforms, state)
	light := p.LightDir()
	gl.Uniform3f(uniforms[glbuild.UniformLightDirection], light.X, light.Y, light.Z)
	gl.Uniform1i(uniforms[glbuild.UniformTextureUnit], 0)
	gl.Uniform1i(uniforms[glbuild.UniformIsTexture], boolToInt(p.Texture))
	gl.Uniform1i(uniforms[glbuild.UniformIsToonShading], boolToInt(p.ToonShading))
	gl.Uniform3f(uniforms[glbuild.UniformGlobalColor], p.GlobalColor[0], p.GlobalColor[1], p.GlobalColor[2])
	gl.Uniform1f(uniforms[glbuild.UniformGradient], p.Gradient)
	gl.Uniform1f(uniforms[glbuild.UniformInflate], p.Inflate)
	gl.Uniform1f(uniforms[glbuild.UniformAmplitude], p.Amplitude)
	gl.Uniform1f(uniforms[glbuild.UniformFrequency], p.Frequency)
	gl.Uniform1f(uniforms[glbuild.UniformTime], state.Time)
	gl.Uniform1f(uniforms[glbuild.UniformWaveOffset], state.WaveOffset)
}

func setCameraUniforms(uniforms map[string]int32, state *State) {
	gl.Uniform1f(uniforms[glbuild.UniformYaw], state.Yaw)
	gl.Uniform1f(uniforms[glbuild.UniformPitch], state.Pitch)
	gl.Uniform1f(uniforms[glbuild.UniformCamDist], state.CamDist)
	gl.Uniform1f(uniforms[glbuild.UniformAspect], state.Aspect())
}

func uiPoints(cloud *glplane.PointCloud, cfg UIConfig) error {
	window, term, err := startGLFW(cfg.Width, cfg.Height, "glplane particles")
	if err != nil {
		return err
	}
	defer term()
	programmer := glbuild.NewDefaultProgrammer()
	var vert, frag bytes.Buffer
	_, err = programmer.WritePointVertex(&vert)
	if err != nil {
		return err
	}
	_, err = programmer.WritePointFragment(&frag)
	if err != nil {
		return err
	}
	prog, err := glgl.CompileProgram(glgl.ShaderSource{
		Vertex:   vert.String(),
		Fragment: frag.String(),
	})
	if err != nil {
		return fmt.Errorf("compiling point program: %w", err)
	}
	defer prog.Delete()
	prog.Bind()
	uniforms, err := uniformLocations(prog,
		glbuild.UniformYaw, glbuild.UniformPitch, glbuild.UniformCamDist, glbuild.UniformAspect,
		glbuild.UniformTime, glbuild.UniformPointSize,
	)
	if err != nil {
		return err
	}
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	defer gl.DeleteVertexArrays(1, &vao)
	vbos := make([]uint32, 2)
	gl.GenBuffers(int32(len(vbos)), &vbos[0])
	defer gl.DeleteBuffers(int32(len(vbos)), &vbos[0])
	err = vertexAttrib(vbos[0], glbuild.AttribLocPosition, 3, cloud.AppendPositions(nil))
	if err != nil {
		return err
	}
	err = vertexAttrib(vbos[1], glbuild.AttribLocColor, 4, cloud.AppendColors(nil))
	if err != nil {
		return err
	}

	state := NewState(cfg.Params, cfg.Width, cfg.Height)
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	reload, err := watchReload(ctx, cfg)
	if err != nil {
		return err
	}
	window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		state.Zoom(float32(yoff))
	})

	// Additive blending without depth so overlapping particles glow.
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.ONE, gl.ONE)
	gl.Enable(gl.PROGRAM_POINT_SIZE)
	startTime := glfw.GetTime()
	for !window.ShouldClose() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case p := <-reload:
			state.Params = p
			cfg.log("reloaded params from", cfg.ParamsFile)
		default:
		}
		state.Width, state.Height = window.GetSize()
		state.Time = float32(glfw.GetTime() - startTime)
		fbWidth, fbHeight := window.GetFramebufferSize()
		gl.Viewport(0, 0, int32(fbWidth), int32(fbHeight))
		gl.ClearColor(0, 0, 0, 1)
		gl.Clear(gl.COLOR_BUFFER_BIT)

		prog.Bind()
		setCameraUniforms(uniforms, &state)
		gl.Uniform1f(uniforms[glbuild.UniformTime], state.Time)
		gl.Uniform1f(uniforms[glbuild.UniformPointSize], state.Params.PointSize)
		gl.BindVertexArray(vao)
		gl.DrawArrays(gl.POINTS, 0, int32(len(cloud.Positions)))
		window.SwapBuffers()
		glfw.PollEvents()
	}
	return nil
}

// watchReload starts watching the configured params file. The returned channel
// holds the most recently loaded params not yet consumed by the render loop.
func watchReload(ctx context.Context, cfg UIConfig) (<-chan Params, error) {
	reload := make(chan Params, 1)
	if cfg.ParamsFile == "" {
		return reload, nil
	}
	err := WatchParams(ctx, cfg.ParamsFile, func(p Params, err error) {
		if err != nil {
			cfg.log("params reload:", err)
			return
		}
		select {
		case <-reload:
		default:
		}
		reload <- p
	})
	return reload, err
}

func uniformLocations(prog glgl.Program, names ...string) (map[string]int32, error) {
	locs := make(map[string]int32, len(names))
	for _, name := range names {
		loc, err := prog.UniformLocation(name + "\x00")
		if err != nil {
			return nil, fmt.Errorf("uniform %q: %w", name, err)
		}
		locs[name] = loc
	}
	return locs, nil
}

// vertexAttrib uploads data to vbo and points the attribute at location loc to it.
// Locations are fixed by the layout qualifiers glbuild writes.
func vertexAttrib(vbo, loc uint32, size int32, data []float32) error {
	if len(data) == 0 {
		return fmt.Errorf("empty data for vertex attribute %d", loc)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, 4*len(data), gl.Ptr(data), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(loc)
	gl.VertexAttribPointer(loc, size, gl.FLOAT, false, 0, gl.PtrOffset(0))
	return nil
}

func loadTexture(tex uint32, img image.Image) {
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != 4*rgba.Rect.Dx() {
		rgba = image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	}
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(rgba.Rect.Dx()), int32(rgba.Rect.Dy()), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba.Pix))
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

func startGLFW(width, height int, title string) (window *glfw.Window, term func(), err error) {
	if err := glfw.Init(); err != nil {
		return nil, nil, fmt.Errorf("initializing GLFW: %w", err)
	}
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	window, err = glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, nil, fmt.Errorf("creating GLFW window: %w", err)
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	if err := gl.Init(); err != nil {
		glfw.Terminate()
		return nil, nil, fmt.Errorf("initializing OpenGL: %w", err)
	}
	return window, glfw.Terminate, nil
}
