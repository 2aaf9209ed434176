package processor

import (
	"errors"
	"fmt"

	"github.com/phambaophuc/showcase/internal/models"
)

// ErrDecode marks a source that could not be decoded into a raster image.
var ErrDecode = errors.New("image could not be decoded")

type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid image: " + e.Reason
}

// ValidationErr converts a rejected result into a *ValidationError, or nil
// when the result is accepted.
func ValidationErr(result models.ValidationResult) error {
	if result.Accepted {
		return nil
	}
	return &ValidationError{Reason: result.Reason}
}

func decodeError(err error) error {
	return fmt.Errorf("%w: %v", ErrDecode, err)
}
