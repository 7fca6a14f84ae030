package covers

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"strconv"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Canvas is a drawing surface for cover text.
type Canvas interface {
	Measurer
	DrawText(x, y int, s string)
	Encode(w io.Writer) error
	Image() image.Image
}

// RasterCanvas draws text with an x/image face onto an RGBA image.
type RasterCanvas struct {
	img  *image.RGBA
	face font.Face
	fg   *image.Uniform
}

func NewRasterCanvas(width, height int, face font.Face, bg, fg color.Color) *RasterCanvas {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	return &RasterCanvas{img: img, face: face, fg: image.NewUniform(fg)}
}

func (c *RasterCanvas) MeasureText(s string) int {
	return font.MeasureString(c.face, s).Ceil()
}

// DrawText places the top-left corner of s at (x, y).
func (c *RasterCanvas) DrawText(x, y int, s string) {
	d := &font.Drawer{
		Dst:  c.img,
		Src:  c.fg,
		Face: c.face,
		Dot:  fixed.P(x, y+c.face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
}

func (c *RasterCanvas) Encode(w io.Writer) error {
	return png.Encode(w, c.img)
}

func (c *RasterCanvas) Image() image.Image {
	return c.img
}

// ParseHexColor accepts "#RRGGBB" or "#RGB".
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
