package utils

import (
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

var extensions = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
	"image/heic": "heic",
	"image/heif": "heif",
}

// DetectImageType guesses the MIME type of a local file from its leading
// bytes, falling back to the extension when content sniffing is inconclusive.
func DetectImageType(filename string, head []byte) string {
	if len(head) > 0 {
		if contentType := http.DetectContentType(head); strings.HasPrefix(contentType, "image/") {
			return contentType
		}
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	}
	if byExt := mime.TypeByExtension(ext); byExt != "" {
		return strings.SplitN(byExt, ";", 2)[0]
	}
	return "application/octet-stream"
}

// ExtensionFor returns the file extension, without dot, for an image MIME type.
func ExtensionFor(mimeType string) string {
	if ext, ok := extensions[strings.ToLower(mimeType)]; ok {
		return ext
	}
	return "bin"
}

// GenerateFilename builds the download name of one showcase image,
// e.g. joe-s-diner-before.jpg.
func GenerateFilename(name, slot, mimeType string) string {
	return fmt.Sprintf("%s-%s.%s", Slugify(name), slot, ExtensionFor(mimeType))
}

// Slugify lowercases name and collapses every run of other characters into a
// single dash.
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}

	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return "showcase"
	}
	return slug
}
