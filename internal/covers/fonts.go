package covers

import (
	"fmt"
	"log"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontSource builds faces for rendering. Parsed fonts are shared; faces are
// not safe for concurrent use, so every render asks for a new one.
type FontSource struct {
	font *opentype.Font
	size float64
	name string
}

// LoadFontSource tries each TrueType file in order, then the embedded Go
// Regular font. When nothing parses it falls back to the fixed bitmap face.
func LoadFontSource(paths []string, size float64) *FontSource {
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		f, err := opentype.Parse(data)
		if err != nil {
			log.Printf("[COVERS] Ignoring font %s: %v", path, err)
			continue
		}
		return &FontSource{font: f, size: size, name: path}
	}

	if f, err := opentype.Parse(goregular.TTF); err == nil {
		return &FontSource{font: f, size: size, name: "goregular"}
	}
	return &FontSource{size: size, name: "basicfont"}
}

// Name identifies the font in use.
func (s *FontSource) Name() string {
	return s.name
}

// NewFace returns a face at the configured size. The bitmap fallback
// ignores the size.
func (s *FontSource) NewFace() (font.Face, error) {
	if s.font == nil {
		return basicfont.Face7x13, nil
	}
	face, err := opentype.NewFace(s.font, &opentype.FaceOptions{
		Size:    s.size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face from %s: %w", s.name, err)
	}
	return face, nil
}
