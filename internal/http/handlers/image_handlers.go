package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/image-transform/internal/config"
	"github.com/phambaophuc/image-transform/internal/geometry"
	"github.com/phambaophuc/image-transform/internal/models"
	"github.com/phambaophuc/image-transform/internal/presets"
	"github.com/phambaophuc/image-transform/internal/services/pipeline"
	"github.com/phambaophuc/image-transform/internal/services/queue"
	"github.com/phambaophuc/image-transform/internal/services/storage"
	"go.uber.org/zap"
)

const (
	maxCacheAge    = 3600
	imageParamKey  = "image"
	imagesParamKey = "images"
)

type ImageHandler struct {
	pipeline *pipeline.Pipeline
	storage  *storage.StorageService
	queue    *queue.QueueService
	presets  *presets.Store
	logger   *zap.Logger
	config   *config.Config
}

// NewImageHandler wires the HTTP surface. storage and queue may be nil when
// the backing services are unavailable.
func NewImageHandler(
	pipe *pipeline.Pipeline,
	storage *storage.StorageService,
	queue *queue.QueueService,
	presetStore *presets.Store,
	logger *zap.Logger,
	config *config.Config,
) *ImageHandler {
	if presetStore == nil {
		presetStore = presets.NewStore()
	}
	return &ImageHandler{
		pipeline: pipe,
		storage:  storage,
		queue:    queue,
		presets:  presetStore,
		logger:   logger,
		config:   config,
	}
}

// === MAIN API ENDPOINTS ===

func (h *ImageHandler) TransformImage(c *gin.Context) {
	m, err := h.parseModifiers(c)
	if err != nil {
		h.respondFailure(c, err)
		return
	}

	name, data, err := h.readSource(c)
	if err != nil {
		h.respondFailure(c, err)
		return
	}

	ctx := c.Request.Context()
	returnURL := c.PostForm("return_url") == "true"

	var cacheKey string
	if h.storage != nil && !returnURL && m.Action != geometry.ActionJSON {
		cacheKey = storage.GenerateCacheKey("bytes", storage.Digest(data), m)
		if cached, found := h.tryGetFromCache(ctx, cacheKey); found {
			h.respondWithCached(c, cached)
			return
		}
	}

	img := h.pipeline.Process(ctx, pipeline.NewImage(name, data, m))
	if img.IsError() {
		h.respondFailure(c, img.Err)
		return
	}

	switch {
	case img.IsMetadataOnly():
		c.JSON(http.StatusOK, models.APIResponse{
			Success: true,
			Data:    metadataOf(img),
		})
	case returnURL:
		h.respondWithURL(c, img)
	default:
		if cacheKey != "" {
			h.setCacheData(ctx, cacheKey, img.Contents)
		}
		h.respondWithImage(c, img.Contents, img.ContentType())
	}
}

func (h *ImageHandler) BatchTransform(c *gin.Context) {
	files, err := h.parseMultipartFiles(c)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	m, err := h.parseModifiers(c)
	if err != nil {
		h.respondFailure(c, err)
		return
	}

	images := h.readFiles(files, m)
	h.pipeline.ProcessBatch(c.Request.Context(), images)

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    h.buildBatchResponse(c.Request.Context(), images),
	})
}

func (h *ImageHandler) ListPresets(c *gin.Context) {
	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    h.presets.All(),
	})
}

// HealthCheck
func (h *ImageHandler) HealthCheck(c *gin.Context) {
	services := map[string]string{
		"redis":    models.HealthNotConfigured,
		"supabase": models.HealthNotConfigured,
		"rabbitmq": models.HealthNotConfigured,
	}
	if h.storage != nil {
		for name, status := range h.storage.HealthCheck(c.Request.Context()) {
			services[name] = status
		}
	}
	if h.queue != nil {
		services["rabbitmq"] = h.queue.HealthCheck()
	}
	overall := h.calculateOverallHealth(services)

	statusCode := http.StatusOK
	if overall == models.HealthUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, models.APIResponse{
		Success: overall == models.HealthHealthy,
		Data: models.HealthCheck{
			Status:    overall,
			Timestamp: time.Now(),
			Services:  services,
		},
	})
}

func (h *ImageHandler) GetStats(c *gin.Context) {
	stats := map[string]interface{}{
		"presets":   len(h.presets.Names()),
		"timestamp": time.Now(),
	}

	if h.storage != nil {
		cacheStats, err := h.storage.GetCacheStats(c.Request.Context())
		if err != nil {
			h.logger.Error("Failed to get cache stats", zap.Error(err))
		} else {
			stats["cache"] = cacheStats
		}
	}
	if h.queue != nil {
		queueStats, err := h.queue.GetQueueStats()
		if err != nil {
			h.logger.Error("Failed to get queue stats", zap.Error(err))
		} else {
			stats["queue"] = queueStats
		}
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    stats,
	})
}

// DeleteObject removes a stored image by its storage key.
func (h *ImageHandler) DeleteObject(c *gin.Context) {
	if h.storage == nil {
		h.respondError(c, http.StatusServiceUnavailable, "Storage is not configured")
		return
	}

	key := strings.TrimPrefix(c.Param("path"), "/")
	if key == "" {
		h.respondError(c, http.StatusBadRequest, "Object path is required")
		return
	}

	if err := h.storage.Delete(c.Request.Context(), key); err != nil {
		h.logger.Error("Failed to delete object", zap.String("key", key), zap.Error(err))
		h.respondError(c, http.StatusBadGateway, "Failed to delete object")
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    gin.H{"deleted": key},
	})
}

// CleanupCache drops cache entries that were written without an expiry.
func (h *ImageHandler) CleanupCache(c *gin.Context) {
	if h.storage == nil {
		h.respondError(c, http.StatusServiceUnavailable, "Cache is not configured")
		return
	}

	removed, err := h.storage.CleanupCache(c.Request.Context())
	if err != nil {
		h.logger.Error("Cache cleanup failed", zap.Int("removed", removed), zap.Error(err))
		h.respondError(c, http.StatusInternalServerError, "Cache cleanup failed")
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    gin.H{"removed": removed},
	})
}
