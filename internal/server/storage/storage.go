// Package storage keeps uploaded car images either on the local filesystem
// (served by the REST layer under /uploads) or in an S3-compatible bucket.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/dmitrijs2005/autodealer/internal/common"
	"github.com/google/uuid"
)

// ImageStore persists image bodies and hands back the public URL to embed in
// a car listing.
type ImageStore interface {
	Save(ctx context.Context, ext string, contentType string, body io.Reader) (string, error)
	// Delete removes the object behind url. URLs the store did not issue are
	// ignored.
	Delete(ctx context.Context, url string) error
}

// extensions maps accepted image content types to file extensions.
var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ExtensionFor returns the file extension for an accepted image content type.
func ExtensionFor(contentType string) (string, error) {
	ext, ok := extensions[contentType]
	if !ok {
		return "", fmt.Errorf("%w: unsupported image type %q", common.ErrorValidation, contentType)
	}
	return ext, nil
}

// newKey returns a collision-free object name under a date prefix.
func newKey(ext string) string {
	d := time.Now()
	return path.Join(fmt.Sprintf("cars/%04d/%02d/%02d", d.Year(), d.Month(), d.Day()), uuid.NewString()+ext)
}

func trimBase(base, url string) (string, bool) {
	base = strings.TrimSuffix(base, "/") + "/"
	if !strings.HasPrefix(url, base) {
		return "", false
	}
	key := strings.TrimPrefix(url, base)
	if key == "" {
		return "", false
	}
	return key, true
}
