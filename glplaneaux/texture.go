package glplaneaux

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// TextureConfig describes a procedural face texture: a vertical gradient
// with an optional caption centered on it.
type TextureConfig struct {
	Width, Height int
	// Top and Bottom are the gradient colors at the top and bottom rows.
	Top, Bottom color.Color
	// Caption is drawn centered with the Go Regular font. Empty for no caption.
	Caption      string
	CaptionColor color.Color
	// FontSize in pixels. If zero a size proportional to Height is chosen.
	FontSize float64
}

var (
	goRegularOnce sync.Once
	goRegular     *truetype.Font
	goRegularErr  error
)

func goRegularFont() (*truetype.Font, error) {
	goRegularOnce.Do(func() {
		goRegular, goRegularErr = freetype.ParseFont(goregular.TTF)
	})
	return goRegular, goRegularErr
}

// Texture renders the image described by cfg. Textures replace the front and back
// photographs of the plane so the viewer needs no asset files.
func Texture(cfg TextureConfig) (*image.RGBA, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, errors.New("texture dimensions must be positive")
	} else if cfg.Top == nil || cfg.Bottom == nil {
		return nil, errors.New("nil texture gradient color")
	}
	img := image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
	h := float32(cfg.Height)
	conv := ColorConversionLinearGradient(h, cfg.Top, cfg.Bottom)
	for y := 0; y < cfg.Height; y++ {
		c := conv(float32(y) + 0.5 - h/2)
		for x := 0; x < cfg.Width; x++ {
			img.Set(x, y, c)
		}
	}
	if cfg.Caption == "" {
		return img, nil
	}
	err := drawCaption(img, cfg)
	if err != nil {
		return nil, fmt.Errorf("drawing caption: %w", err)
	}
	return img, nil
}

func drawCaption(dst draw.Image, cfg TextureConfig) error {
	ttf, err := goRegularFont()
	if err != nil {
		return err
	}
	size := cfg.FontSize
	if size <= 0 {
		size = float64(cfg.Height) / 6
	}
	textColor := cfg.CaptionColor
	if textColor == nil {
		textColor = color.White
	}
	face := truetype.NewFace(ttf, &truetype.Options{Size: size, Hinting: font.HintingNone})
	defer face.Close()
	width := font.MeasureString(face, cfg.Caption).Ceil()
	metrics := face.Metrics()
	textHeight := (metrics.Ascent + metrics.Descent).Ceil()
	// Baseline placed so the text box is vertically centered.
	x := (cfg.Width - width) / 2
	y := (cfg.Height-textHeight)/2 + metrics.Ascent.Ceil()

	c := freetype.NewContext()
	c.SetDPI(72)
	c.SetFont(ttf)
	c.SetFontSize(size)
	c.SetHinting(font.HintingNone)
	c.SetClip(dst.Bounds())
	c.SetDst(dst)
	c.SetSrc(image.NewUniform(textColor))
	_, err = c.DrawString(cfg.Caption, freetype.Pt(x, y))
	return err
}

// DefaultTextures returns the front and back textures used by the toon plane viewer.
func DefaultTextures(size int) (front, back *image.RGBA, err error) {
	front, err = Texture(TextureConfig{
		Width:   size,
		Height:  size,
		Top:     color.RGBA{R: 250, G: 190, B: 80, A: 255},
		Bottom:  color.RGBA{R: 220, G: 70, B: 90, A: 255},
		Caption: "front",
	})
	if err != nil {
		return nil, nil, err
	}
	back, err = Texture(TextureConfig{
		Width:   size,
		Height:  size,
		Top:     color.RGBA{R: 80, G: 200, B: 220, A: 255},
		Bottom:  color.RGBA{R: 60, G: 80, B: 200, A: 255},
		Caption: "back",
	})
	if err != nil {
		return nil, nil, err
	}
	return front, back, nil
}
