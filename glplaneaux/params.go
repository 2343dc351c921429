package glplaneaux

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chewxy/math32"
	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glgl/math/ms1"
	"github.com/soypat/glplane"
	"github.com/soypat/glplane/gleval"
	"gopkg.in/yaml.v3"
)

// Parameter ranges accepted by [Params.Validate].
const (
	MaxGradient  = 8
	MaxInflate   = 0.5
	MaxAmplitude = 100
)

// Format identifies a params file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFromPath returns the params file format corresponding to the file extension of path.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown params file extension %q", filepath.Ext(path))
}

// Params are the user adjustable values of the toon plane and particle viewers.
type Params struct {
	// Gradient is the amount of toon shading levels.
	Gradient float32 `toml:"gradient" yaml:"gradient"`
	// GlobalColor tints the plane when texturing is disabled.
	GlobalColor [3]float32 `toml:"global_color" yaml:"global_color"`
	// Inflate is the distance the outline pass pushes vertices along their normals.
	Inflate       float32 `toml:"inflate" yaml:"inflate"`
	EdgeRendering bool    `toml:"edge_rendering" yaml:"edge_rendering"`
	Texture       bool    `toml:"texture" yaml:"texture"`
	ToonShading   bool    `toml:"toon_shading" yaml:"toon_shading"`
	// Amplitude of the wave in slider units, see [gleval.AmplitudeScale].
	Amplitude float32 `toml:"amplitude" yaml:"amplitude"`
	Frequency float32 `toml:"frequency" yaml:"frequency"`
	// PointSize is the particle sprite size in pixels.
	PointSize      float32    `toml:"point_size" yaml:"point_size"`
	LightDirection [3]float32 `toml:"light_direction" yaml:"light_direction"`
}

// DefaultParams returns the parameters the viewers start with.
func DefaultParams() Params {
	return Params{
		Gradient:       4,
		GlobalColor:    [3]float32{0.1, 0.7, 0.4},
		Inflate:        0.02,
		EdgeRendering:  true,
		Texture:        true,
		ToonShading:    true,
		Amplitude:      10,
		Frequency:      gleval.DefaultFrequency,
		PointSize:      4,
		LightDirection: [3]float32{1, 1, 1},
	}
}

// Validate clamps p's values to their accepted ranges. It returns an error
// if a value is not finite or the light direction is zero.
func (p *Params) Validate() error {
	vals := []float32{p.Gradient, p.Inflate, p.Amplitude, p.Frequency, p.PointSize}
	vals = append(vals, p.GlobalColor[:]...)
	vals = append(vals, p.LightDirection[:]...)
	for _, v := range vals {
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			return errors.New("non-finite parameter value")
		}
	}
	if p.LightDir() == (ms3.Vec{}) {
		return errors.New("zero light direction")
	}
	p.Gradient = ms1.Clamp(p.Gradient, 0, MaxGradient)
	p.Inflate = ms1.Clamp(p.Inflate, 0, MaxInflate)
	p.Amplitude = ms1.Clamp(p.Amplitude, 0, MaxAmplitude)
	p.PointSize = max(p.PointSize, 1)
	for i := range p.GlobalColor {
		p.GlobalColor[i] = ms1.Clamp(p.GlobalColor[i], 0, 1)
	}
	return nil
}

// LightDir returns the light direction as a vector.
func (p Params) LightDir() ms3.Vec {
	return ms3.Vec{X: p.LightDirection[0], Y: p.LightDirection[1], Z: p.LightDirection[2]}
}

// Color returns the opaque global color.
func (p Params) Color() glplane.RGBA {
	return glplane.RGBA{R: p.GlobalColor[0], G: p.GlobalColor[1], B: p.GlobalColor[2], A: 1}
}

// Wave returns the wave displacement described by p at time t and phase offset.
func (p Params) Wave(t, offset float32) gleval.Wave {
	return gleval.Wave{Amplitude: p.Amplitude, Frequency: p.Frequency, Time: t, Offset: offset}
}

// LoadParams decodes params from r. Fields absent from the input keep their default value.
// Unknown fields are an error. The result is validated.
func LoadParams(r io.Reader, format Format) (Params, error) {
	p := DefaultParams()
	var err error
	switch format {
	case FormatTOML:
		dec := toml.NewDecoder(r)
		dec.DisallowUnknownFields()
		err = dec.Decode(&p)
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		err = dec.Decode(&p)
		if err == io.EOF {
			err = nil // Empty document.
		}
	default:
		return Params{}, fmt.Errorf("unsupported params format %q", format)
	}
	if err != nil {
		return Params{}, fmt.Errorf("decoding %s params: %w", format, err)
	}
	err = p.Validate()
	if err != nil {
		return Params{}, err
	}
	return p, nil
}

// LoadParamsFile loads params from the file at path. The format is chosen from the file extension.
func LoadParamsFile(path string) (Params, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Params{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Params{}, err
	}
	p, err := LoadParams(bytes.NewReader(data), format)
	if err != nil {
		return Params{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// WriteParams encodes p to w in the given format.
func WriteParams(w io.Writer, p Params, format Format) error {
	switch format {
	case FormatTOML:
		return toml.NewEncoder(w).Encode(p)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		err := enc.Encode(p)
		if err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unsupported params format %q", format)
}

// WatchParams calls fn with freshly loaded params every time the file at path is written.
// Load errors are passed to fn and do not stop the watch. Watching stops when ctx is done.
// The directory containing path is watched so that editors replacing the file are also noticed.
func WatchParams(ctx context.Context, path string, fn func(Params, error)) error {
	path = filepath.Clean(path)
	_, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	err = watcher.Add(filepath.Dir(path))
	if err != nil {
		watcher.Close()
		return err
	}
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != path || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				fn(LoadParamsFile(path))
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				fn(Params{}, err)
			}
		}
	}()
	return nil
}
