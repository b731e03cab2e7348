// Package imageproc validates uploaded images and prepares them for
// the inlineData part of a Gemini request.
package imageproc

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"

	"github.com/gabriel-vasile/mimetype"
	"github.com/zombar/factcheck/internal/models"
)

// MaxImageSize is the upload ceiling in bytes.
const MaxImageSize = 10 * 1024 * 1024

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ValidationError marks an input problem with the uploaded image, as
// opposed to an internal failure. Handlers map it to a 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Process validates raw image bytes against the size cap and MIME
// allow-list, then base64-encodes them for the API request. The MIME
// type is sniffed from the content; the client's declared type is
// only a fallback for formats the sniffer cannot identify.
func Process(data []byte, declaredMime string) (*models.ImageData, error) {
	if len(data) == 0 {
		return nil, &ValidationError{Message: "no image file provided"}
	}
	if len(data) > MaxImageSize {
		return nil, &ValidationError{
			Message: fmt.Sprintf("file too large: maximum size is %dMB", MaxImageSize/1024/1024),
		}
	}

	mime := mimetype.Detect(data).String()
	if !allowedTypes[mime] {
		if !allowedTypes[declaredMime] {
			return nil, &ValidationError{
				Message: "invalid file type: only JPEG, PNG, GIF, and WebP images are allowed",
			}
		}
		mime = declaredMime
	}

	img := &models.ImageData{
		MimeType: mime,
		Data:     base64.StdEncoding.EncodeToString(data),
		Size:     len(data),
	}

	// Dimensions are informational only; WebP has no stdlib decoder
	// and a missing header is not a validation failure.
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		img.Width = cfg.Width
		img.Height = cfg.Height
	}

	slog.Debug("image processed",
		"mime_type", img.MimeType,
		"size", img.Size,
		"width", img.Width,
		"height", img.Height,
	)

	return img, nil
}
