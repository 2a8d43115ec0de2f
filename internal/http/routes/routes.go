package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/image-transform/internal/http/handlers"
	"github.com/phambaophuc/image-transform/internal/http/middleware"
	"go.uber.org/zap"
)

type Router struct {
	imageHandler *handlers.ImageHandler
	logger       *zap.Logger
}

func NewRouter(
	imageHandler *handlers.ImageHandler,
	logger *zap.Logger,
) *Router {
	return &Router{
		imageHandler: imageHandler,
		logger:       logger,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger(r.logger))
	router.Use(middleware.ErrorHandler(r.logger))
	router.Use(middleware.CORS())
	router.Use(middleware.SecurityHeaders())

	multipartOnly := middleware.ValidateContentType("multipart/form-data")
	jsonOnly := middleware.ValidateContentType("application/json")

	// API version 1
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", r.imageHandler.HealthCheck)
		v1.GET("/stats", r.imageHandler.GetStats)
		v1.GET("/presets", r.imageHandler.ListPresets)
		v1.DELETE("/cache", r.imageHandler.CleanupCache)
		v1.DELETE("/objects/*path", r.imageHandler.DeleteObject)
		v1.POST("/plan", jsonOnly, r.imageHandler.ResolvePlan)

		images := v1.Group("/images", multipartOnly)
		{
			images.POST("/transform", r.imageHandler.TransformImage)
			images.POST("/batch", r.imageHandler.BatchTransform)
		}

		jobs := v1.Group("/jobs")
		{
			jobs.POST("", jsonOnly, r.imageHandler.CreateJob)
			jobs.GET("/:id", r.imageHandler.GetJob)
		}
	}

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"status":  "OK",
			"message": "Image transform is running",
		})
	})

	return router
}
