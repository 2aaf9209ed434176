package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/showcase/internal/config"
	"github.com/phambaophuc/showcase/internal/models"
	"github.com/phambaophuc/showcase/internal/services/showcase"
	"go.uber.org/zap"
)

const (
	nameParamKey   = "name"
	typeParamKey   = "type"
	beforeParamKey = "before"
	afterParamKey  = "after"

	notFoundRedirect = "/"
)

type StoreHealth interface {
	HealthCheck(ctx context.Context) map[string]string
}

type EventsHealth interface {
	HealthCheck() string
}

type ShowcaseHandler struct {
	showcases *showcase.Service
	store     StoreHealth
	events    EventsHealth
	backend   string
	logger    *zap.Logger
	config    *config.Config
}

func NewShowcaseHandler(
	showcases *showcase.Service,
	store StoreHealth,
	events EventsHealth,
	logger *zap.Logger,
	config *config.Config,
) *ShowcaseHandler {
	return &ShowcaseHandler{
		showcases: showcases,
		store:     store,
		events:    events,
		backend:   config.Store.Backend,
		logger:    logger,
		config:    config,
	}
}

// === MAIN API ENDPOINTS ===

func (h *ShowcaseHandler) CreateShowcase(c *gin.Context) {
	if err := h.parseForm(c); err != nil {
		h.logger.Info("Rejected create form", zap.Error(err))
		h.respondError(c, formErrorStatus(err), formErrorMessage(err))
		return
	}

	before, closeBefore := h.formCandidate(c, beforeParamKey)
	defer closeBefore()
	after, closeAfter := h.formCandidate(c, afterParamKey)
	defer closeAfter()

	record, err := h.showcases.Create(c.Request.Context(), showcase.CreateRequest{
		Name:     c.PostForm(nameParamKey),
		Category: c.PostForm(typeParamKey),
		Before:   before,
		After:    after,
	})
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.Header("Location", "/api/v1/showcases/"+record.ID)
	c.JSON(http.StatusCreated, models.APIResponse{
		Success: true,
		Data:    models.NewShowcaseResponse(record),
	})
}

func (h *ShowcaseHandler) GetShowcase(c *gin.Context) {
	record, err := h.showcases.Load(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    models.NewShowcaseResponse(record),
	})
}

// DownloadImage serves one image of a showcase as a JPEG attachment.
func (h *ShowcaseHandler) DownloadImage(c *gin.Context) {
	slot, ok := models.ParseSlot(c.Param("slot"))
	if !ok {
		h.respondError(c, http.StatusBadRequest, "Image must be either before or after")
		return
	}

	record, err := h.showcases.Load(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	download, err := h.showcases.ExportSlot(record, slot)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	h.respondWithDownload(c, download)
}

func (h *ShowcaseHandler) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    models.Categories(),
	})
}

// ShowcasePage is the read-only share link. Unknown ids go back to the
// creation flow.
func (h *ShowcaseHandler) ShowcasePage(c *gin.Context) {
	record, err := h.showcases.Load(c.Request.Context(), c.Param("id"))
	if errors.Is(err, showcase.ErrNotFound) {
		c.Redirect(http.StatusFound, notFoundRedirect)
		return
	}
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    models.NewShowcaseResponse(record),
	})
}

// HealthCheck
func (h *ShowcaseHandler) HealthCheck(c *gin.Context) {
	components := h.store.HealthCheck(c.Request.Context())
	components["events"] = h.events.HealthCheck()
	overall := h.calculateOverallHealth(components)

	statusCode := http.StatusOK
	if overall == models.StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, models.APIResponse{
		Success: overall == models.StatusHealthy,
		Data: models.HealthCheck{
			Status:       overall,
			StoreBackend: h.backend,
			Timestamp:    time.Now(),
			Components:   components,
		},
	})
}
