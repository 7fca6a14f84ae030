package covers

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/config"
	domainerrors "github.com/mrlokans/bookshelf/internal/errors"
)

func testCoversConfig() config.Covers {
	return config.Covers{
		Width:      config.DefaultCoverWidth,
		Height:     config.DefaultCoverHeight,
		FontSize:   config.DefaultCoverFontSize,
		FontPaths:  []string{"does-not-exist.ttf"},
		Background: config.DefaultCoverBackground,
		Foreground: config.DefaultCoverForeground,
	}
}

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#1F2937")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0x1f, G: 0x29, B: 0x37, A: 0xff}, c)

	c, err = ParseHexColor("fd0")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0xff, G: 0xdd, B: 0x00, A: 0xff}, c)

	for _, bad := range []string{"", "#12345", "#GGGGGG"} {
		_, err := ParseHexColor(bad)
		assert.Error(t, err, bad)
	}
}

func TestLoadFontSource_FallsBackToEmbeddedFont(t *testing.T) {
	broken := filepath.Join(t.TempDir(), "broken.ttf")
	require.NoError(t, os.WriteFile(broken, []byte("not a font"), 0644))

	src := LoadFontSource([]string{"missing.ttf", broken}, 30)
	assert.Equal(t, "goregular", src.Name())

	face, err := src.NewFace()
	require.NoError(t, err)
	defer face.Close()
	assert.Positive(t, face.Metrics().Height.Ceil())
}

func TestGenerator_Render(t *testing.T) {
	gen, err := NewGenerator(testCoversConfig())
	require.NoError(t, err)

	cover, err := gen.Render("El jardín de senderos que se bifurcan")
	require.NoError(t, err)
	assert.NotEmpty(t, cover.BlurHash)

	img, err := png.Decode(bytes.NewReader(cover.PNG))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 400, 600), img.Bounds())

	r, g, b, _ := img.At(0, 0).RGBA()
	assert.Equal(t, [3]uint32{0x1f, 0x29, 0x37}, [3]uint32{r >> 8, g >> 8, b >> 8}, "corner keeps the background")

	var foreground bool
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y && !foreground; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if r, g, _, _ := img.At(x, y).RGBA(); r>>8 > 0xf0 && g>>8 > 0xc0 {
				foreground = true
				break
			}
		}
	}
	assert.True(t, foreground, "title is drawn in the foreground color")
}

func TestNewGenerator_RejectsBadConfig(t *testing.T) {
	cfg := testCoversConfig()
	cfg.Background = "nope"
	_, err := NewGenerator(cfg)
	assert.Error(t, err)

	cfg = testCoversConfig()
	cfg.Width = 0
	_, err = NewGenerator(cfg)
	assert.Error(t, err)
}

type failingCanvas struct {
	monoMeasurer
	drawn []Line
}

func (c *failingCanvas) DrawText(x, y int, s string) {
	c.drawn = append(c.drawn, Line{Text: s, X: x, Y: y})
}

func (c *failingCanvas) Encode(io.Writer) error { return errors.New("disk full") }

func (c *failingCanvas) Image() image.Image { return image.NewRGBA(image.Rect(0, 0, 1, 1)) }

func TestGenerator_EncodeFailureYieldsNoImage(t *testing.T) {
	gen, err := NewGenerator(testCoversConfig())
	require.NoError(t, err)

	canvas := &failingCanvas{monoMeasurer: 10}
	_, err = gen.renderOn(canvas, "Rayuela")
	assert.ErrorIs(t, err, ErrNoImage)
	assert.Equal(t, []Line{{Text: "Rayuela", X: 165, Y: 280}}, canvas.drawn)
}

func TestMaker_MakeCover(t *testing.T) {
	gen, err := NewGenerator(testCoversConfig())
	require.NoError(t, err)
	store, err := NewStore(t.TempDir(), 0)
	require.NoError(t, err)
	maker := NewMaker(gen, store)

	ref, hash, err := maker.MakeCover(context.Background(), "Pedro Páramo")
	require.NoError(t, err)
	assert.Regexp(t, `^covers/[0-9a-f-]{36}\.png$`, ref)
	assert.NotEmpty(t, hash)

	p, err := store.Resolve(context.Background(), ref)
	require.NoError(t, err)
	data, err := os.ReadFile(p)
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(data))
	assert.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = maker.MakeCover(ctx, "Cancelled")
	assert.ErrorIs(t, err, context.Canceled)

	broken := NewMaker(gen, &Store{dir: filepath.Join(t.TempDir(), "missing", "\x00")})
	_, _, err = broken.MakeCover(context.Background(), "Unstorable")
	assert.ErrorIs(t, err, domainerrors.ErrExternal)
}
