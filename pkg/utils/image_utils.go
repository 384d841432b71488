package utils

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

var ErrNotImage = errors.New("file is not a supported image")

// ImageInspector checks uploaded photos before they reach the engine.
type ImageInspector struct {
	log *zap.Logger
}

func NewImageInspector(log *zap.Logger) *ImageInspector {
	return &ImageInspector{log: log}
}

// Inspect sniffs the content type and parses only the image header.
func (p *ImageInspector) Inspect(filename string, data []byte) (string, error) {
	contentType := http.DetectContentType(data)
	if contentType != "image/jpeg" && contentType != "image/png" {
		p.log.Warn("Rejected upload",
			zap.String("file", filename),
			zap.String("detected", contentType))
		return "", fmt.Errorf("%s: %w", filename, ErrNotImage)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%s: %w", filename, ErrNotImage)
	}

	p.log.Debug("Image inspected",
		zap.String("file", filename),
		zap.String("format", format),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Int("size", len(data)))

	return contentType, nil
}

// ReadImageFile loads a photo from disk and inspects it.
func (p *ImageInspector) ReadImageFile(path string) ([]byte, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	contentType, err := p.Inspect(filepath.Base(path), data)
	if err != nil {
		return nil, "", err
	}
	return data, contentType, nil
}

// SanitizeFilename keeps a name usable in a Content-Disposition header or an object key.
func SanitizeFilename(name string) string {
	name = strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == '"' || r < 0x20 || r == 0x7f:
			return '_'
		}
		return r
	}, name)
	return strings.TrimSpace(name)
}
