package models

import "io"

// UploadCandidate is a selected file before it is accepted. It is never
// persisted.
type UploadCandidate struct {
	Filename string
	MimeType string
	Size     int64
	Content  io.Reader
}

type ValidationResult struct {
	Accepted bool
	Reason   string
}

const (
	ReasonNotImage          = "not an image"
	ReasonTooLarge          = "too large"
	ReasonUnsupportedFormat = "unsupported format"
)

func Accepted() ValidationResult {
	return ValidationResult{Accepted: true}
}

func Rejected(reason string) ValidationResult {
	return ValidationResult{Reason: reason}
}
