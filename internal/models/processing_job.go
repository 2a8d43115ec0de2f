package models

import (
	"time"

	"github.com/phambaophuc/image-transform/internal/geometry"
)

type JobRequest struct {
	ImageURL  string              `json:"image_url" binding:"required,url"`
	Modifiers string              `json:"modifiers,omitempty"`
	Preset    string              `json:"preset,omitempty"`
	Fields    *geometry.Modifiers `json:"fields,omitempty"`
}

type ProcessingJob struct {
	ID        string             `json:"id"`
	ImageURL  string             `json:"image_url"`
	Modifiers geometry.Modifiers `json:"modifiers"`
	Status    string             `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
	Result    *ProcessedImage    `json:"result,omitempty"`
	Error     string             `json:"error,omitempty"`
}

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)
