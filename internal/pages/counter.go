// Package pages counts the pages of stored documents.
package pages

import (
	"context"
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"

	domainerrors "github.com/mrlokans/bookshelf/internal/errors"
)

// Resolver maps an object reference to a readable local file.
type Resolver interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

// Counter counts the pages of the document behind ref.
type Counter interface {
	CountPages(ctx context.Context, ref string) (int, error)
}

// PDFCounter reads PDF documents from the object store.
type PDFCounter struct {
	files Resolver
}

func NewPDFCounter(files Resolver) *PDFCounter {
	return &PDFCounter{files: files}
}

func (c *PDFCounter) CountPages(ctx context.Context, ref string) (int, error) {
	path, err := c.files.Resolve(ctx, ref)
	if err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	n, err := CountFile(path)
	if err != nil {
		return 0, domainerrors.External(fmt.Sprintf("count pages of %s", ref), err)
	}
	return n, nil
}

// CountFile returns the page count of the PDF at path.
func CountFile(path string) (n int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, err
	}

	// The parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			n, err = 0, fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(f, info.Size())
	if err != nil {
		return 0, fmt.Errorf("open pdf: %w", err)
	}
	n = reader.NumPage()
	if n <= 0 {
		return 0, fmt.Errorf("pdf has no pages")
	}
	return n, nil
}
