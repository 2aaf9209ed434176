package processor

import (
	"strings"

	"github.com/phambaophuc/showcase/internal/models"
)

const (
	DefaultMaxFileSize = 10 << 20 // 10MB
	imageFamilyPrefix  = "image/"
)

type Validator struct {
	maxSize      int64
	allowedTypes map[string]struct{}
}

func NewValidator(maxSize int64, allowedTypes []string) *Validator {
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	allowed := make(map[string]struct{}, len(allowedTypes))
	for _, t := range allowedTypes {
		allowed[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}

	return &Validator{maxSize: maxSize, allowedTypes: allowed}
}

// Validate checks the candidate's declared type and size. Rules run in order
// and the first failure wins; the content is never read.
func (v *Validator) Validate(candidate models.UploadCandidate) models.ValidationResult {
	mimeType := strings.ToLower(candidate.MimeType)

	if !strings.HasPrefix(mimeType, imageFamilyPrefix) {
		return models.Rejected(models.ReasonNotImage)
	}

	if candidate.Size > v.maxSize {
		return models.Rejected(models.ReasonTooLarge)
	}

	if _, ok := v.allowedTypes[mimeType]; !ok {
		return models.Rejected(models.ReasonUnsupportedFormat)
	}

	return models.Accepted()
}

func (v *Validator) MaxSize() int64 {
	return v.maxSize
}
