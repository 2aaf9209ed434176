package showcase

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/phambaophuc/showcase/internal/models"
	"github.com/phambaophuc/showcase/internal/services/dataurl"
	"github.com/phambaophuc/showcase/internal/services/processor"
	"github.com/phambaophuc/showcase/internal/services/storage"
)

var (
	ErrNotFound = storage.ErrNotFound

	ErrMissingFields   = &InputError{Message: "Please fill in all fields and upload both images"}
	ErrUnknownCategory = &InputError{Message: "Please choose a business type from the list"}
)

// InputError is a form-level problem found before any image is touched.
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

// ImageError ties a pipeline failure to the image it happened on.
type ImageError struct {
	Slot models.Slot
	Err  error
}

func (e *ImageError) Error() string {
	return fmt.Sprintf("%s image: %v", e.Slot, e.Err)
}

func (e *ImageError) Unwrap() error {
	return e.Err
}

// UserMessage maps any pipeline error onto one human readable message.
// Backend details never leak through.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var inputErr *InputError
	if errors.As(err, &inputErr) {
		return inputErr.Message
	}

	var validationErr *processor.ValidationError
	if errors.As(err, &validationErr) {
		switch validationErr.Reason {
		case models.ReasonNotImage:
			return "Please select valid image files only."
		case models.ReasonTooLarge:
			return "Image file is too large. Please use images smaller than 10MB."
		default:
			return "This image format is not supported. Please use JPG, PNG, HEIC or WebP."
		}
	}

	switch {
	case errors.Is(err, dataurl.ErrTimeout):
		return "Image processing took too long. Please try smaller images or check your connection."
	case errors.Is(err, processor.ErrDecode), errors.Is(err, dataurl.ErrUnreadableSource):
		return "Unable to read image file. Please try a different image or format (JPG, PNG)."
	case errors.Is(err, dataurl.ErrEmptyResult):
		return "Error processing image file. Please try a different image."
	case errors.Is(err, storage.ErrQuotaExceeded):
		return "Not enough storage space to save this showcase. Please use smaller images."
	case errors.Is(err, ErrNotFound):
		return "Showcase not found."
	case errors.Is(err, dataurl.ErrMalformed):
		return "This image could not be exported."
	}

	return "Error processing images. Please try again."
}

// HTTPStatus picks the response status for err.
func HTTPStatus(err error) int {
	var inputErr *InputError
	if errors.As(err, &inputErr) {
		return http.StatusBadRequest
	}

	var validationErr *processor.ValidationError
	if errors.As(err, &validationErr) {
		switch validationErr.Reason {
		case models.ReasonTooLarge:
			return http.StatusRequestEntityTooLarge
		case models.ReasonUnsupportedFormat:
			return http.StatusUnsupportedMediaType
		default:
			return http.StatusBadRequest
		}
	}

	switch {
	case errors.Is(err, dataurl.ErrTimeout):
		return http.StatusRequestTimeout
	case errors.Is(err, processor.ErrDecode),
		errors.Is(err, dataurl.ErrUnreadableSource),
		errors.Is(err, dataurl.ErrEmptyResult):
		return http.StatusUnprocessableEntity
	case errors.Is(err, storage.ErrQuotaExceeded):
		return http.StatusInsufficientStorage
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	}

	return http.StatusInternalServerError
}
