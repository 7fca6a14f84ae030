package covers

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	domainerrors "github.com/mrlokans/bookshelf/internal/errors"
)

const (
	// CoversPrefix holds generated covers.
	CoversPrefix = "covers"
	// CachePrefix holds remote images downloaded on first use.
	CachePrefix = "cache"
)

// Store keeps binary objects (covers, uploads) under a root directory and
// hands out relative references like "covers/<uuid>.png". References that
// are http(s) URLs are downloaded once into the cache prefix.
type Store struct {
	dir        string
	httpClient *http.Client
}

// NewStore creates the store root and its prefixes.
func NewStore(dir string, fetchTimeout time.Duration) (*Store, error) {
	for _, sub := range []string{CoversPrefix, CachePrefix} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	if fetchTimeout <= 0 {
		fetchTimeout = 30 * time.Second
	}

	return &Store{
		dir: dir,
		httpClient: &http.Client{
			Timeout: fetchTimeout,
		},
	}, nil
}

// Dir returns the store root.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes data under prefix with a generated name and returns its reference.
func (s *Store) Save(prefix string, data []byte, ext string) (string, error) {
	ref := path.Join(prefix, uuid.NewString()+ext)
	target, err := s.Path(ref)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return "", err
	}
	if err := s.writeAtomic(filepath.Dir(target), target, bytes.NewReader(data)); err != nil {
		return "", err
	}
	return ref, nil
}

// Path maps a local reference to a file path inside the store.
func (s *Store) Path(ref string) (string, error) {
	if IsRemote(ref) {
		return "", domainerrors.Validationf("remote reference %q has no local path", ref)
	}
	clean := path.Clean("/" + strings.TrimSpace(ref))
	if clean == "/" {
		return "", domainerrors.Validation("empty reference")
	}
	return filepath.Join(s.dir, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

// Resolve returns a local file path for ref, downloading remote references
// into the cache first. Missing files are reported as not found.
func (s *Store) Resolve(ctx context.Context, ref string) (string, error) {
	if IsRemote(ref) {
		return s.cached(ctx, ref)
	}
	p, err := s.Path(ref)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(p); err != nil {
		if os.IsNotExist(err) {
			return "", domainerrors.NotFoundf("file %s not found", ref)
		}
		return "", err
	}
	return p, nil
}

// Remove deletes a stored object. Remote references and missing files are ignored.
func (s *Store) Remove(ref string) error {
	if ref == "" || IsRemote(ref) {
		return nil
	}
	p, err := s.Path(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// IsRemote reports whether ref is an http(s) URL.
func IsRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

func (s *Store) cached(ctx context.Context, url string) (string, error) {
	cachePath := filepath.Join(s.dir, CachePrefix, cacheFilename(url))
	if _, err := os.Stat(cachePath); err == nil {
		return cachePath, nil
	}
	if err := s.fetchAndCache(ctx, url, cachePath); err != nil {
		return "", domainerrors.External("fetch remote image", err)
	}
	return cachePath, nil
}

// cacheFilename derives a stable name from the URL hash, keeping a short
// extension when the URL has one.
func cacheFilename(url string) string {
	hash := sha256.Sum256([]byte(url))
	ext := strings.ToLower(path.Ext(strings.SplitN(url, "?", 2)[0]))
	if len(ext) > 5 || strings.ContainsAny(ext, "/:") {
		ext = ""
	}
	return fmt.Sprintf("%x%s", hash[:16], ext)
}

func (s *Store) fetchAndCache(ctx context.Context, url, cachePath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Bookshelf/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to fetch image: status %d", resp.StatusCode)
	}

	return s.writeAtomic(filepath.Dir(cachePath), cachePath, resp.Body)
}

// writeAtomic copies r into a temp file next to target and renames it.
func (s *Store) writeAtomic(dir, target string, r io.Reader) error {
	tmpFile, err := os.CreateTemp(dir, "obj_tmp_")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath)
	}()

	if _, err := io.Copy(tmpFile, r); err != nil {
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, target)
}
