package models

import (
	"time"

	"github.com/phambaophuc/image-transform/internal/geometry"
)

type ProcessedImage struct {
	ID          string                  `json:"id"`
	OriginalURL string                  `json:"original_url"`
	ProcessedAt time.Time               `json:"processed_at"`
	Source      geometry.Dimensions     `json:"source"`
	Modifiers   geometry.Modifiers      `json:"modifiers"`
	Plan        *geometry.TransformPlan `json:"plan,omitempty"`
	Format      string                  `json:"format"`
	URL         string                  `json:"url,omitempty"`
	FileSize    int64                   `json:"file_size"`
}

// ImageMetadata answers the json action.
type ImageMetadata struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
	Size   int64  `json:"size"`
}
