package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/autodealer/internal/filex"
)

// URLPrefix is the path the REST layer serves LocalStore files under.
const URLPrefix = "/uploads"

// LocalStore writes images below Dir and returns URLs of the form
// <baseURL>/uploads/<key>.
type LocalStore struct {
	dir     string
	baseURL string
}

// NewLocalStore creates dir if needed. baseURL may be empty for
// host-relative URLs.
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}
	return &LocalStore{dir: abs, baseURL: baseURL}, nil
}

// Dir is the absolute directory holding the files.
func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Save(ctx context.Context, ext string, contentType string, body io.Reader) (string, error) {
	key := newKey(ext)
	p, err := filex.SafeJoin(s.dir, key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}

	f, err := os.OpenFile(p, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o640)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", key, err)
	}
	if _, err := io.Copy(f, body); err != nil {
		_ = f.Close()
		_ = os.Remove(p)
		return "", fmt.Errorf("write %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(p)
		return "", fmt.Errorf("close %s: %w", key, err)
	}

	return s.baseURL + URLPrefix + "/" + key, nil
}

func (s *LocalStore) Delete(ctx context.Context, url string) error {
	key, ok := trimBase(s.baseURL+URLPrefix, url)
	if !ok {
		return nil
	}
	p, err := filex.SafeJoin(s.dir, key)
	if err != nil {
		return nil
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}
