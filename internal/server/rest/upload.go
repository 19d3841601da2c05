package rest

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/dmitrijs2005/autodealer/internal/common"
	"github.com/dmitrijs2005/autodealer/internal/server/storage"
	"github.com/gin-gonic/gin"
)

// sniffLen is how much of a file http.DetectContentType looks at.
const sniffLen = 512

// upload stores the files of the multipart field "image" (answered with
// {url}) or "images" (answered with {urls}). The content type is sniffed from
// the bytes; the client-declared one is not trusted.
func (h *Handler) upload(c *gin.Context) {
	// room for the per-file limit on every allowed file plus form overhead
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize*common.MaxCarImages+1<<20)

	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fail(c, fmt.Errorf("%w: upload is too large", common.ErrorValidation))
			return
		}
		h.fail(c, fmt.Errorf("%w: expected a multipart form", common.ErrorValidation))
		return
	}

	files, single := form.File["images"], false
	if len(files) == 0 {
		files, single = form.File["image"], true
	}
	switch {
	case len(files) == 0:
		h.fail(c, fmt.Errorf("%w: no image uploaded", common.ErrorValidation))
		return
	case len(files) > common.MaxCarImages:
		h.fail(c, common.ErrTooManyImages)
		return
	case single && len(files) > 1:
		h.fail(c, fmt.Errorf("%w: use the images field for several files", common.ErrorValidation))
		return
	}

	urls := make([]string, 0, len(files))
	for _, fh := range files {
		url, err := h.saveImage(c, fh)
		if err != nil {
			for _, u := range urls {
				if derr := h.images.Delete(c.Request.Context(), u); derr != nil {
					h.logger.Warn(c.Request.Context(), "failed to delete partial upload", "url", u, "error", derr)
				}
			}
			h.fail(c, err)
			return
		}
		urls = append(urls, url)
	}

	if single {
		c.JSON(http.StatusCreated, gin.H{"url": urls[0]})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"urls": urls})
}

func (h *Handler) saveImage(c *gin.Context, fh *multipart.FileHeader) (string, error) {
	if fh.Size > h.maxUploadSize {
		return "", fmt.Errorf("%w: %s is larger than %d bytes", common.ErrorValidation, fh.Filename, h.maxUploadSize)
	}

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("error opening upload: %w", err)
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("error reading upload: %w", err)
	}
	contentType := http.DetectContentType(head[:n])

	ext, err := storage.ExtensionFor(contentType)
	if err != nil {
		return "", fmt.Errorf("%w: %s is not a supported image", common.ErrorValidation, fh.Filename)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("error rewinding upload: %w", err)
	}
	return h.images.Save(c.Request.Context(), ext, contentType, f)
}
