// Package avatar validates and normalizes profile images. Every stored
// avatar is a 250x250 PNG regardless of the uploaded format.
package avatar

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/taskforge/task-manager/internal/core/domain"
)

const (
	// Size is the square dimension every avatar is normalized to.
	Size = 250
	// MaxUploadBytes is the upload size ceiling.
	MaxUploadBytes = 1_000_000
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// AllowedExtension reports whether the uploaded filename carries an accepted
// image extension.
func AllowedExtension(filename string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// Normalize decodes the uploaded image, crops and scales it to Size x Size,
// and re-encodes it as PNG. An undecodable payload is a client error.
func Normalize(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, domain.Validation("unable to process image")
	}

	img = imaging.Fill(img, Size, Size, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode avatar: %w", err)
	}
	return buf.Bytes(), nil
}
