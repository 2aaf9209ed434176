package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/showcase/internal/config"
	"github.com/phambaophuc/showcase/internal/http/handlers"
	"github.com/phambaophuc/showcase/internal/http/middleware"
	"go.uber.org/zap"
)

type Router struct {
	showcaseHandler *handlers.ShowcaseHandler
	logger          *zap.Logger
	config          *config.Config
}

func NewRouter(
	showcaseHandler *handlers.ShowcaseHandler,
	logger *zap.Logger,
	config *config.Config,
) *Router {
	return &Router{
		showcaseHandler: showcaseHandler,
		logger:          logger,
		config:          config,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger(r.logger))
	router.Use(middleware.ErrorHandler(r.logger))
	router.Use(middleware.CORS(r.config.CORS.AllowedOrigins))
	router.Use(middleware.SecurityHeaders())

	createLimit := middleware.NewRateLimiter(r.config.RateLimit.CreatePerMinute)

	// API version 1
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", r.showcaseHandler.HealthCheck)
		v1.GET("/categories", r.showcaseHandler.ListCategories)

		showcases := v1.Group("/showcases")
		{
			showcases.POST("", createLimit.Middleware(), middleware.RequireMultipart(), r.showcaseHandler.CreateShowcase)
			showcases.GET("/:id", r.showcaseHandler.GetShowcase)
			showcases.GET("/:id/images/:slot", r.showcaseHandler.DownloadImage)
		}
	}

	router.GET("/showcase/:id", r.showcaseHandler.ShowcasePage)

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"status":  "OK",
			"message": "Before/after showcase service is running",
		})
	})

	return router
}
