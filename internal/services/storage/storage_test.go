package storage

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/phambaophuc/image-transform/internal/config"
	"github.com/phambaophuc/image-transform/internal/geometry"
	"github.com/phambaophuc/image-transform/internal/models"
)

func TestGenerateCacheKey(t *testing.T) {
	fill := geometry.Modifiers{Action: geometry.ActionCrop, Crop: geometry.CropFill, Width: 100, Height: 100}
	digest := Digest([]byte("source"))

	key := GenerateCacheKey("bytes", digest, fill)
	if !strings.HasPrefix(key, CacheKeyPrefix+"bytes:") {
		t.Errorf("key %q lacks prefix", key)
	}
	if key != GenerateCacheKey("bytes", digest, fill) {
		t.Error("cache key is not deterministic")
	}

	pad := fill
	pad.Crop = geometry.CropPad
	if key == GenerateCacheKey("bytes", digest, pad) {
		t.Error("different crop modes share a cache key")
	}
	if key == GenerateCacheKey("bytes", Digest([]byte("other")), fill) {
		t.Error("different sources share a cache key")
	}
	if key == GenerateCacheKey("job", digest, fill) {
		t.Error("different kinds share a cache key")
	}

	// an unset gravity means center
	centered := fill
	centered.Gravity = geometry.GravityCenter
	if key != GenerateCacheKey("bytes", digest, centered) {
		t.Error("explicit center gravity changed the cache key")
	}
}

func TestUpload_NotConfigured(t *testing.T) {
	svc, err := NewStorageService(&config.Config{})
	if err != nil {
		t.Fatalf("NewStorageService() error = %v", err)
	}
	defer svc.Close()

	if _, err := svc.Upload(context.Background(), bytes.NewBufferString("x"), "a.png", "image/png"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Upload() error = %v, want ErrNotConfigured", err)
	}
	if _, err := svc.Download(context.Background(), "a.png"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Download() error = %v, want ErrNotConfigured", err)
	}

	urls, err := svc.UploadMultiple(context.Background(), []models.UploadFile{
		{Filename: "a.png", Data: []byte("a"), ContentType: "image/png"},
		{Filename: "b.png", Data: []byte("b"), ContentType: "image/png"},
	})
	if err == nil || !strings.Contains(err.Error(), "failed to upload 2 files") {
		t.Errorf("UploadMultiple() error = %v", err)
	}
	if len(urls) != 2 {
		t.Errorf("UploadMultiple() returned %d urls, want aligned slice of 2", len(urls))
	}
}
