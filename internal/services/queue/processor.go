package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/phambaophuc/image-transform/internal/models"
	"github.com/phambaophuc/image-transform/internal/services/pipeline"
	"github.com/phambaophuc/image-transform/internal/services/storage"
	"github.com/phambaophuc/image-transform/pkg/utils"
	"go.uber.org/zap"
)

func (q *QueueService) processJob(ctx context.Context, job *models.ProcessingJob) (*models.ProcessedImage, error) {
	cacheKey := storage.GenerateCacheKey("job", storage.Digest([]byte(job.ImageURL)), job.Modifiers)

	cachedData, err := q.store.GetFromCache(ctx, cacheKey)
	if err != nil {
		q.logger.Warn("Cache lookup failed", zap.Error(err))
	} else if cachedData != nil {
		var cachedResult models.ProcessedImage
		if err := json.Unmarshal(cachedData, &cachedResult); err == nil {
			return &cachedResult, nil
		}
		q.logger.Warn("Failed to unmarshal cached data", zap.Error(err))
	}

	imageData, _, err := q.fetch(ctx, job.ImageURL, q.maxSize)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}

	img := q.pipeline.Process(ctx, pipeline.NewImage(job.ID, imageData, job.Modifiers))
	if img.Err != nil {
		return nil, fmt.Errorf("failed to process image: %w", img.Err)
	}

	result := &models.ProcessedImage{
		ID:          job.ID,
		OriginalURL: job.ImageURL,
		ProcessedAt: time.Now(),
		Source:      img.Metadata.Dimensions,
		Modifiers:   job.Modifiers,
		Plan:        img.Plan,
		Format:      img.OutputFormat,
		FileSize:    int64(len(img.Contents)),
	}

	// metadata-only jobs have nothing to upload
	if !img.IsMetadataOnly() {
		filename := utils.GenerateFilename(job.ID, img.OutputFormat)
		result.URL, err = q.store.SaveFile(ctx, img.Contents, filename, img.ContentType())
		if err != nil {
			return nil, fmt.Errorf("failed to save processed image: %w", err)
		}
	}

	q.cacheResult(ctx, cacheKey, result)
	return result, nil
}

// cacheResult stores result under cacheKey. Failures only cost a later cache
// miss.
func (q *QueueService) cacheResult(ctx context.Context, cacheKey string, result *models.ProcessedImage) {
	resultBytes, err := json.Marshal(result)
	if err != nil {
		q.logger.Error("Failed to marshal result", zap.String("job_id", result.ID), zap.Error(err))
		return
	}
	if err := q.store.SetCache(ctx, cacheKey, resultBytes); err != nil {
		q.logger.Warn("Failed to cache result", zap.String("job_id", result.ID), zap.Error(err))
	}
}
