package models

import "time"

type UploadFile struct {
	Filename    string
	Data        []byte
	ContentType string
}

type BatchResponse struct {
	Images      []ProcessedImage `json:"images"`
	Failed      []BatchFailure   `json:"failed,omitempty"`
	ProcessedAt time.Time        `json:"processed_at"`
}

type BatchFailure struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}
