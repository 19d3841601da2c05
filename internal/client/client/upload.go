package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
)

type uploadResponse struct {
	URL  string   `json:"url"`
	URLs []string `json:"urls"`
}

// Upload sends image files to the server and returns their public URLs in
// order. One file goes in the "image" field, several in "images".
func (c *HTTPClient) Upload(ctx context.Context, paths ...string) ([]string, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return nil, err
		}
	}

	field := "images"
	if len(paths) == 1 {
		field = "image"
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeFiles(mw, field, paths))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", pr)
	if err != nil {
		_ = pr.Close()
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out uploadResponse
	err = c.send(req, func(r io.Reader) error {
		return json.NewDecoder(r).Decode(&out)
	})
	_ = pr.Close()
	if err != nil {
		return nil, err
	}

	if out.URL != "" {
		return []string{out.URL}, nil
	}
	return out.URLs, nil
}

func writeFiles(mw *multipart.Writer, field string, paths []string) error {
	for _, p := range paths {
		if err := writeFile(mw, field, p); err != nil {
			return err
		}
	}
	return mw.Close()
}

func writeFile(mw *multipart.Writer, field, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	part, err := mw.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return err
	}
	_, err = io.Copy(part, f)
	return err
}
