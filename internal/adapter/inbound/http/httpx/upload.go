// Package httpx holds helpers shared by the HTTP handlers.
package httpx

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aiwonderland/imagecode/internal/domain/imagenorm"
	apperrors "github.com/aiwonderland/imagecode/internal/utils/errors"
)

// UploadField is the multipart field carrying the image.
const UploadField = "file"

// multipartOverhead is the body allowance on top of the file limit for
// boundaries, headers and other form fields.
const multipartOverhead = 1 << 20

// ReadUpload reads the uploaded image from the multipart form. At most
// maxSize+1 bytes of the file are read so oversize input is detected
// without buffering all of it.
func ReadUpload(c *gin.Context, maxSize int64) (imagenorm.Upload, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize+multipartOverhead)

	fh, err := c.FormFile(UploadField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return imagenorm.Upload{}, apperrors.PayloadTooLarge(
				fmt.Sprintf("file size exceeds maximum allowed size of %d bytes", maxSize))
		}
		return imagenorm.Upload{}, apperrors.BadRequest("an image file is required in the 'file' field")
	}

	contentType := fh.Header.Get("Content-Type")
	if !imagenorm.IsImageContentType(contentType) {
		return imagenorm.Upload{}, apperrors.BadRequest("File must be an image")
	}

	f, err := fh.Open()
	if err != nil {
		return imagenorm.Upload{}, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxSize+1))
	if err != nil {
		return imagenorm.Upload{}, fmt.Errorf("read upload: %w", err)
	}

	return imagenorm.Upload{
		Data:        data,
		Filename:    fh.Filename,
		ContentType: contentType,
	}, nil
}
