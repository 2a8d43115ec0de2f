package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/image-transform/internal/geometry"
	"github.com/phambaophuc/image-transform/internal/models"
	"github.com/phambaophuc/image-transform/internal/services/queue"
	"go.uber.org/zap"
)

// CreateJob queues an asynchronous transform of a remote image.
func (h *ImageHandler) CreateJob(c *gin.Context) {
	if h.queue == nil {
		h.respondError(c, http.StatusServiceUnavailable, "Job queue is not available")
		return
	}

	var req models.JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, "Invalid job request: "+err.Error())
		return
	}

	var (
		m   geometry.Modifiers
		err error
	)
	if req.Fields != nil && req.Preset == "" && req.Modifiers == "" {
		m = *req.Fields
		err = geometry.Validate(m)
	} else {
		m, err = h.resolveModifiers(req.Preset, req.Modifiers, geometry.Fields{})
	}
	if err != nil {
		h.respondFailure(c, err)
		return
	}

	job := queue.NewJob(req.ImageURL, m)
	if err := h.queue.PublishJob(c.Request.Context(), job); err != nil {
		h.logger.Error("Failed to publish job", zap.Error(err))
		h.respondError(c, http.StatusServiceUnavailable, "Failed to queue job")
		return
	}

	c.JSON(http.StatusAccepted, models.APIResponse{
		Success: true,
		Data:    job,
	})
}

func (h *ImageHandler) GetJob(c *gin.Context) {
	if h.queue == nil {
		h.respondError(c, http.StatusServiceUnavailable, "Job queue is not available")
		return
	}

	job, err := h.queue.GetJob(c.Request.Context(), c.Param("id"))
	if errors.Is(err, queue.ErrJobNotFound) {
		h.respondError(c, http.StatusNotFound, "Job not found")
		return
	}
	if err != nil {
		h.logger.Error("Failed to read job", zap.String("job_id", c.Param("id")), zap.Error(err))
		h.respondError(c, http.StatusInternalServerError, "Failed to read job")
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    job,
	})
}
