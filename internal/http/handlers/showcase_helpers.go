package handlers

import (
	"errors"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/showcase/internal/models"
	"github.com/phambaophuc/showcase/internal/services/showcase"
	"go.uber.org/zap"
)

const formOverhead = 1 << 20

var errFormTooLarge = errors.New("request body too large")

// === REQUEST PARSING ===

// parseForm caps the body at two maximum-size images plus form overhead.
// Individual oversize files are reported by validation, not here.
func (h *ShowcaseHandler) parseForm(c *gin.Context) error {
	limit := 2*h.config.Image.MaxFileSize + formOverhead
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	if err := c.Request.ParseMultipartForm(h.config.Image.MaxFileSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return errFormTooLarge
		}
		return err
	}
	return nil
}

// formCandidate returns an empty candidate when the field is missing; the
// service reports it together with the other required fields.
func (h *ShowcaseHandler) formCandidate(c *gin.Context, field string) (models.UploadCandidate, func()) {
	file, header, err := c.Request.FormFile(field)
	if err != nil {
		return models.UploadCandidate{}, func() {}
	}

	return models.UploadCandidate{
		Filename: header.Filename,
		MimeType: partMimeType(header),
		Size:     header.Size,
		Content:  file,
	}, func() { file.Close() }
}

func partMimeType(header *multipart.FileHeader) string {
	contentType := header.Header.Get("Content-Type")
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		return mediaType
	}
	return contentType
}

func formErrorStatus(err error) int {
	if errors.Is(err, errFormTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

func formErrorMessage(err error) string {
	if errors.Is(err, errFormTooLarge) {
		return "Image file is too large. Please use images smaller than 10MB."
	}
	return "Please fill in all fields and upload both images"
}

// === RESPONSE HANDLING ===

func (h *ShowcaseHandler) respondError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, models.APIResponse{
		Success: false,
		Error:   message,
	})
}

// respondServiceError never exposes err itself, only its user message.
func (h *ShowcaseHandler) respondServiceError(c *gin.Context, err error) {
	status := showcase.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	_ = c.Error(err)

	response := models.APIResponse{
		Success: false,
		Error:   showcase.UserMessage(err),
	}
	if errors.Is(err, showcase.ErrNotFound) {
		response.Redirect = notFoundRedirect
	}
	c.JSON(status, response)
}

func (h *ShowcaseHandler) respondWithDownload(c *gin.Context, download models.Download) {
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": download.Filename}))
	c.Header("Content-Length", strconv.Itoa(len(download.Data)))
	c.Header("Cache-Control", "private, max-age=3600")
	c.Data(http.StatusOK, download.ContentType, download.Data)
}

// === UTILITY METHODS ===

func (h *ShowcaseHandler) calculateOverallHealth(components map[string]string) string {
	for _, status := range components {
		if status != models.StatusHealthy && status != models.StatusDisabled {
			return models.StatusUnhealthy
		}
	}
	return models.StatusHealthy
}
