// Package covers renders fallback book covers and keeps binary objects
// (covers, uploaded documents, cached remote images) on local disk.
package covers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log"

	"github.com/bbrks/go-blurhash"
	xdraw "golang.org/x/image/draw"

	"github.com/mrlokans/bookshelf/internal/config"
	domainerrors "github.com/mrlokans/bookshelf/internal/errors"
)

// blurHashSize bounds the thumbnail the placeholder hash is computed from.
const blurHashSize = 64

// ErrNoImage is returned when a cover could not be produced.
var ErrNoImage = errors.New("no image")

// Cover is a rendered PNG with its blurhash placeholder.
type Cover struct {
	PNG      []byte
	BlurHash string
}

// Generator renders fallback covers: the title in the foreground color,
// wrapped and centered on a solid background.
type Generator struct {
	width  int
	height int
	bg     color.Color
	fg     color.Color
	fonts  *FontSource
}

func NewGenerator(cfg config.Covers) (*Generator, error) {
	bg, err := ParseHexColor(cfg.Background)
	if err != nil {
		return nil, fmt.Errorf("cover background: %w", err)
	}
	fg, err := ParseHexColor(cfg.Foreground)
	if err != nil {
		return nil, fmt.Errorf("cover foreground: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("invalid cover size %dx%d", cfg.Width, cfg.Height)
	}

	fonts := LoadFontSource(cfg.FontPaths, cfg.FontSize)
	log.Printf("[COVERS] Using font %s at %.0fpt", fonts.Name(), cfg.FontSize)

	return &Generator{
		width:  cfg.Width,
		height: cfg.Height,
		bg:     bg,
		fg:     fg,
		fonts:  fonts,
	}, nil
}

// Render draws title onto a new canvas. Any failure yields ErrNoImage.
func (g *Generator) Render(title string) (*Cover, error) {
	face, err := g.fonts.NewFace()
	if err != nil {
		log.Printf("[COVERS] %v", err)
		return nil, ErrNoImage
	}
	defer face.Close()

	canvas := NewRasterCanvas(g.width, g.height, face, g.bg, g.fg)
	return g.renderOn(canvas, title)
}

func (g *Generator) renderOn(canvas Canvas, title string) (*Cover, error) {
	for _, line := range Layout(title, g.width, g.height, canvas) {
		canvas.DrawText(line.X, line.Y, line.Text)
	}

	var buf bytes.Buffer
	if err := canvas.Encode(&buf); err != nil {
		log.Printf("[COVERS] Failed to encode cover for %q: %v", title, err)
		return nil, ErrNoImage
	}

	hash, err := blurhash.Encode(4, 3, thumbnail(canvas.Image()))
	if err != nil {
		// The PNG is still usable without a placeholder.
		log.Printf("[COVERS] Failed to compute blurhash for %q: %v", title, err)
		hash = ""
	}
	return &Cover{PNG: buf.Bytes(), BlurHash: hash}, nil
}

func thumbnail(img image.Image) image.Image {
	b := img.Bounds()
	if b.Dx() <= blurHashSize && b.Dy() <= blurHashSize {
		return img
	}
	w, h := blurHashSize, blurHashSize
	if b.Dx() > b.Dy() {
		h = max(1, b.Dy()*blurHashSize/b.Dx())
	} else {
		w = max(1, b.Dx()*blurHashSize/b.Dy())
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

// Maker renders covers and saves them to the object store.
type Maker struct {
	generator *Generator
	store     *Store
}

func NewMaker(generator *Generator, store *Store) *Maker {
	return &Maker{generator: generator, store: store}
}

// MakeCover renders a cover for title and stores it under covers/.
func (m *Maker) MakeCover(ctx context.Context, title string) (string, string, error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}
	cover, err := m.generator.Render(title)
	if err != nil {
		return "", "", domainerrors.External("cover generation failed", err)
	}
	ref, err := m.store.Save(CoversPrefix, cover.PNG, ".png")
	if err != nil {
		return "", "", domainerrors.External("cover storage failed", err)
	}
	return ref, cover.BlurHash, nil
}
