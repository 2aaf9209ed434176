// Package dataurl converts image bytes to and from the
// data:<mime>;base64,<payload> text form stored inside showcase records.
package dataurl

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/phambaophuc/showcase/internal/models"
)

const (
	scheme       = "data:"
	base64Marker = ";base64"
	fallbackMime = "application/octet-stream"
)

var (
	ErrTimeout          = errors.New("image encoding timed out")
	ErrEmptyResult      = errors.New("image encoding produced no data")
	ErrUnreadableSource = errors.New("image source could not be read")
	ErrMalformed        = errors.New("malformed data URL")
)

// Format is the synchronous encoder. The media type is trimmed and an empty
// one becomes application/octet-stream, so Parse(Format(b, m)) returns b and
// strings.TrimSpace(m) whenever that is non-empty.
func Format(data []byte, mimeType string) models.EncodedImage {
	return models.EncodedImage(header(mimeType) + base64.StdEncoding.EncodeToString(data))
}

// Parse reverses Format.
func Parse(img models.EncodedImage) ([]byte, string, error) {
	s := string(img)
	if !strings.HasPrefix(s, scheme) {
		return nil, "", fmt.Errorf("%w: missing %q scheme", ErrMalformed, scheme)
	}

	meta, payload, ok := strings.Cut(s[len(scheme):], ",")
	if !ok {
		return nil, "", fmt.Errorf("%w: missing payload separator", ErrMalformed)
	}

	mimeType, found := strings.CutSuffix(meta, base64Marker)
	if !found {
		return nil, "", fmt.Errorf("%w: payload is not base64", ErrMalformed)
	}
	if mimeType == "" {
		return nil, "", fmt.Errorf("%w: missing media type", ErrMalformed)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	return data, mimeType, nil
}

func header(mimeType string) string {
	mimeType = strings.TrimSpace(mimeType)
	if mimeType == "" {
		mimeType = fallbackMime
	}
	return scheme + mimeType + base64Marker + ","
}
