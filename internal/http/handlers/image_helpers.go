package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/phambaophuc/image-transform/internal/geometry"
	"github.com/phambaophuc/image-transform/internal/models"
	"github.com/phambaophuc/image-transform/internal/presets"
	"github.com/phambaophuc/image-transform/internal/services/pipeline"
	"github.com/phambaophuc/image-transform/internal/services/processor"
	"github.com/phambaophuc/image-transform/internal/services/storage"
	"github.com/phambaophuc/image-transform/pkg/utils"
	"go.uber.org/zap"
)

var errNoImage = errors.New("no image file provided")

// === REQUEST PARSING ===

// parseModifiers reads the transform request from the form. A preset name
// wins over the compact m string, which wins over individual fields.
func (h *ImageHandler) parseModifiers(c *gin.Context) (geometry.Modifiers, error) {
	return h.resolveModifiers(c.PostForm("preset"), c.PostForm("m"), geometry.Fields{
		Action:  c.PostForm("action"),
		Width:   c.PostForm("width"),
		Height:  c.PostForm("height"),
		Crop:    c.PostForm("crop"),
		Gravity: c.PostForm("gravity"),
		Format:  c.PostForm("format"),
		Quality: c.PostForm("quality"),
	})
}

func (h *ImageHandler) resolveModifiers(preset, compact string, fields geometry.Fields) (geometry.Modifiers, error) {
	var (
		m   geometry.Modifiers
		err error
	)
	switch {
	case preset != "":
		m, err = h.presets.Get(preset)
	case compact != "":
		m, err = geometry.ParseModifierString(compact)
	default:
		m, err = geometry.ParseFields(fields)
	}
	if err != nil {
		return geometry.Modifiers{}, err
	}
	if err := geometry.Validate(m); err != nil {
		return geometry.Modifiers{}, err
	}
	return m, nil
}

func (h *ImageHandler) parseMultipartFiles(c *gin.Context) ([]*multipart.FileHeader, error) {
	if err := c.Request.ParseMultipartForm(h.config.Storage.MaxFileSize * 10); err != nil {
		return nil, fmt.Errorf("failed to parse form data: %v", err)
	}

	files := c.Request.MultipartForm.File[imagesParamKey]
	if len(files) == 0 {
		return nil, fmt.Errorf("no images provided")
	}

	return files, nil
}

// === FILE OPERATIONS ===

func (h *ImageHandler) getUploadedFile(c *gin.Context, paramKey string) (multipart.File, *multipart.FileHeader, error) {
	return c.Request.FormFile(paramKey)
}

// readSource returns the image to transform: the stored object named by the
// source field when given, otherwise the uploaded file.
func (h *ImageHandler) readSource(c *gin.Context) (string, []byte, error) {
	if key := c.PostForm("source"); key != "" {
		if h.storage == nil {
			return "", nil, storage.ErrNotConfigured
		}
		data, err := h.storage.Download(c.Request.Context(), key)
		if err != nil {
			return "", nil, err
		}
		if int64(len(data)) > h.config.Storage.MaxFileSize {
			return "", nil, processor.ErrFileTooLarge
		}
		return path.Base(key), data, nil
	}

	file, header, err := h.getUploadedFile(c, imageParamKey)
	if err != nil {
		return "", nil, errNoImage
	}
	defer file.Close()

	if header.Size > h.config.Storage.MaxFileSize {
		return "", nil, processor.ErrFileTooLarge
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read upload: %w", err)
	}
	return header.Filename, data, nil
}

// readFiles loads every upload into a pipeline image. Files that cannot be
// read carry their error so the batch still reports them.
func (h *ImageHandler) readFiles(files []*multipart.FileHeader, m geometry.Modifiers) []*pipeline.Image {
	images := make([]*pipeline.Image, len(files))
	for i, fh := range files {
		img := pipeline.NewImage(fh.Filename, nil, m)
		images[i] = img

		if fh.Size > h.config.Storage.MaxFileSize {
			img.Err = processor.ErrFileTooLarge
			continue
		}

		f, err := fh.Open()
		if err != nil {
			img.Err = fmt.Errorf("failed to open file: %w", err)
			continue
		}
		img.Contents, err = io.ReadAll(f)
		f.Close()
		if err != nil {
			img.Err = fmt.Errorf("failed to read file: %w", err)
		}
	}
	return images
}

// === RESPONSE HANDLING ===

func (h *ImageHandler) respondError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, models.APIResponse{
		Success: false,
		Error:   message,
	})
}

// respondFailure maps err onto a status code. Validation failures name the
// offending field.
func (h *ImageHandler) respondFailure(c *gin.Context, err error) {
	status := errorStatus(err)
	resp := models.APIResponse{
		Success: false,
		Error:   err.Error(),
	}

	var verr *geometry.ValidationError
	if errors.As(err, &verr) {
		resp.Field = verr.Field
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("Processing failed", zap.Error(err))
		c.Error(err)
		resp.Error = "Failed to process image"
	}

	c.JSON(status, resp)
}

func errorStatus(err error) int {
	switch {
	case geometry.IsValidationError(err), errors.Is(err, presets.ErrPresetNotFound), errors.Is(err, errNoImage):
		return http.StatusBadRequest
	case errors.Is(err, processor.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, processor.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, processor.ErrCorruptInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, storage.ErrNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (h *ImageHandler) respondWithImage(c *gin.Context, data []byte, contentType string) {
	c.Header("Cache-Control", "public, max-age="+strconv.Itoa(maxCacheAge))
	c.Data(http.StatusOK, contentType, data)
}

func (h *ImageHandler) respondWithCached(c *gin.Context, data []byte) {
	contentType := "application/octet-stream"
	if meta, err := h.pipeline.ReadMetadata(data); err == nil {
		contentType = processor.ContentType(meta.Format)
	}
	c.Header("X-Cache", "HIT")
	h.respondWithImage(c, data, contentType)
}

func (h *ImageHandler) respondWithURL(c *gin.Context, img *pipeline.Image) {
	if h.storage == nil {
		h.respondError(c, http.StatusServiceUnavailable, "Storage is not configured")
		return
	}

	filename := utils.ReplaceExt(img.Name, img.OutputFormat)
	url, err := h.storage.SaveFile(c.Request.Context(), img.Contents, filename, img.ContentType())
	if err != nil {
		h.logger.Error("Failed to upload to Storage", zap.Error(err))
		h.respondError(c, http.StatusBadGateway, "Failed to upload image")
		return
	}

	result := processedImage(img)
	result.URL = url
	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    result,
	})
}

func processedImage(img *pipeline.Image) models.ProcessedImage {
	return models.ProcessedImage{
		ID:          uuid.New().String(),
		OriginalURL: img.Name,
		ProcessedAt: time.Now(),
		Source:      img.Metadata.Dimensions,
		Modifiers:   img.Modifiers,
		Plan:        img.Plan,
		Format:      img.OutputFormat,
		FileSize:    int64(len(img.Contents)),
	}
}

func metadataOf(img *pipeline.Image) models.ImageMetadata {
	return models.ImageMetadata{
		Width:  img.Metadata.Width,
		Height: img.Metadata.Height,
		Format: img.Format,
		Size:   img.Metadata.Size,
	}
}

// === UTILITY METHODS ===

func (h *ImageHandler) calculateOverallHealth(services map[string]string) string {
	for _, status := range services {
		if status != models.HealthHealthy && status != models.HealthNotConfigured {
			return models.HealthUnhealthy
		}
	}
	return models.HealthHealthy
}

func (h *ImageHandler) buildBatchResponse(ctx context.Context, images []*pipeline.Image) models.BatchResponse {
	response := models.BatchResponse{
		Images:      []models.ProcessedImage{},
		ProcessedAt: time.Now(),
	}

	var (
		uploads []models.UploadFile
		results []int
	)
	for _, img := range images {
		if img.IsError() {
			response.Failed = append(response.Failed, models.BatchFailure{
				Filename: img.Name,
				Error:    img.Err.Error(),
			})
			continue
		}
		response.Images = append(response.Images, processedImage(img))
		if !img.IsMetadataOnly() {
			uploads = append(uploads, models.UploadFile{
				Filename:    utils.ReplaceExt(img.Name, img.OutputFormat),
				Data:        img.Contents,
				ContentType: img.ContentType(),
			})
			results = append(results, len(response.Images)-1)
		}
	}

	if h.storage == nil || len(uploads) == 0 {
		return response
	}

	urls, err := h.storage.UploadMultiple(ctx, uploads)
	if err != nil {
		h.logger.Warn("Failed to upload to Storage", zap.Error(err))
	}
	for i, url := range urls {
		response.Images[results[i]].URL = url
	}
	return response
}

// === CACHE OPERATIONS ===

func (h *ImageHandler) tryGetFromCache(ctx context.Context, cacheKey string) ([]byte, bool) {
	cachedData, err := h.storage.GetFromCache(ctx, cacheKey)
	if err != nil {
		h.logger.Debug("Cache lookup failed", zap.Error(err))
		return nil, false
	}
	if cachedData == nil {
		return nil, false
	}

	h.logger.Info("Cache hit", zap.String("cache_key", cacheKey))
	return cachedData, true
}

func (h *ImageHandler) setCacheData(ctx context.Context, cacheKey string, data []byte) {
	if err := h.storage.SetCache(ctx, cacheKey, data); err != nil {
		h.logger.Warn("Failed to cache data", zap.String("cache_key", cacheKey), zap.Error(err))
	}
}
