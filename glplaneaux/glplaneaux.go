package glplaneaux

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"time"

	"github.com/soypat/glplane"
	"github.com/soypat/glplane/glbuild"
	"github.com/soypat/glplane/gleval"
	"github.com/soypat/glplane/glrender"
)

type RenderConfig struct {
	// STLOutput receives the displaced mesh as a binary STL file.
	STLOutput io.Writer
	// ImageOutput receives a PNG of the displaced mesh shaded in texture space.
	ImageOutput io.Writer
	// ImageWidth and ImageHeight default to 512 if zero.
	ImageWidth, ImageHeight int
	// Params select wave and shading. Zero value params are replaced by [DefaultParams].
	Params Params
	// Time and WaveOffset select the animation frame rendered.
	Time, WaveOffset float32
	// Displacer overrides the wave described by Params if set.
	Displacer gleval.Displacer
	Silent    bool
}

// Render is an auxiliary function to export a plane mesh at a single animation frame.
// Ideally users should implement their own rendering functions since applications may vary widely.
func Render(m *glplane.Mesh, cfg RenderConfig) (err error) {
	if cfg.STLOutput == nil && cfg.ImageOutput == nil {
		return errors.New("Render requires output parameter in config")
	} else if m == nil {
		return errors.New("nil mesh")
	}
	log := func(args ...any) {
		if !cfg.Silent {
			fmt.Println(args...)
		}
	}
	params := cfg.Params
	if params == (Params{}) {
		params = DefaultParams()
	}
	err = params.Validate()
	if err != nil {
		return err
	}
	displacer := cfg.Displacer
	if displacer == nil {
		wave := params.Wave(cfg.Time, cfg.WaveOffset)
		displacer = &wave
	}
	var vp gleval.VecPool
	if cfg.STLOutput != nil {
		watch := stopwatch()
		renderer, err := glrender.NewMeshRenderer(m, displacer)
		if err != nil {
			return err
		}
		triangles, err := glrender.RenderAll(renderer, &vp)
		if err != nil {
			return fmt.Errorf("rendering triangles: %s", err)
		}
		log("rendered", len(triangles), "triangles in", watch())

		watch = stopwatch()
		_, err = glrender.WriteBinarySTL(cfg.STLOutput, triangles)
		if err != nil {
			return fmt.Errorf("writing STL file: %s", err)
		}
		log("wrote", outputName(cfg.STLOutput, "STL"), "in", watch())
	}

	if cfg.ImageOutput != nil {
		watch := stopwatch()
		width, height := cfg.ImageWidth, cfg.ImageHeight
		if width == 0 {
			width = 512
		}
		if height == 0 {
			height = 512
		}
		var gradient float32
		if params.ToonShading {
			gradient = params.Gradient
		}
		ir, err := glrender.NewImageRendererUV(params.LightDir(), gradient, ColorConversionToon(params.Color(), glbuild.DefaultAmbient))
		if err != nil {
			return err
		}
		img := image.NewRGBA(image.Rect(0, 0, width, height))
		err = ir.Render(m, displacer, img, &vp)
		if err != nil {
			return fmt.Errorf("rendering image: %s", err)
		}
		err = png.Encode(cfg.ImageOutput, img)
		if err != nil {
			return fmt.Errorf("encoding PNG: %s", err)
		}
		log("wrote", outputName(cfg.ImageOutput, "PNG"), "in", watch())
	}
	return vp.AssertAllReleased()
}

// UIConfig configures the GLFW viewers.
type UIConfig struct {
	Width, Height int
	// Context stops the viewer when done. May be nil.
	Context context.Context
	// Params are the initial viewer parameters. Zero value params are replaced by [DefaultParams].
	Params Params
	// ParamsFile is watched for changes and reloaded into the viewer if set.
	ParamsFile string
	// Front and Back textures of the plane. Procedural textures are used when nil.
	Front, Back image.Image
	Silent      bool
}

// UI opens a window rendering m as a double sided, wave animated toon shaded plane.
// Must be called from the main thread.
func UI(m *glplane.Mesh, cfg UIConfig) error {
	if m == nil {
		return errors.New("nil mesh")
	}
	err := m.Validate()
	if err != nil {
		return err
	}
	cfg, err = cfg.withDefaults()
	if err != nil {
		return err
	}
	return ui(m, cfg)
}

// UIPoints opens a window rendering cloud as slowly spinning additive point sprites.
// Must be called from the main thread.
func UIPoints(cloud *glplane.PointCloud, cfg UIConfig) error {
	if cloud == nil || len(cloud.Positions) == 0 {
		return errors.New("empty point cloud")
	} else if len(cloud.Colors) != len(cloud.Positions) {
		return errors.New("point cloud colors and positions length mismatch")
	}
	cfg, err := cfg.withDefaults()
	if err != nil {
		return err
	}
	return uiPoints(cloud, cfg)
}

func (cfg UIConfig) withDefaults() (UIConfig, error) {
	if cfg.Width <= 0 {
		cfg.Width = 800
	}
	if cfg.Height <= 0 {
		cfg.Height = 600
	}
	if cfg.Params == (Params{}) {
		cfg.Params = DefaultParams()
	}
	err := cfg.Params.Validate()
	return cfg, err
}

func (cfg UIConfig) log(args ...any) {
	if !cfg.Silent {
		fmt.Println(args...)
	}
}

func outputName(w io.Writer, fallback string) string {
	if fp, ok := w.(*os.File); ok {
		return fp.Name()
	}
	return fallback
}

func stopwatch() func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}
