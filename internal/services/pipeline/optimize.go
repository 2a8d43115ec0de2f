package pipeline

import (
	"context"
	"time"

	"github.com/phambaophuc/image-transform/internal/geometry"
	"github.com/phambaophuc/image-transform/internal/services/processor"
	"go.uber.org/zap"
)

// OptimizeStage encodes the image at the requested quality in its output format.
type OptimizeStage struct {
	p *Pipeline
}

func (s *OptimizeStage) Name() string { return "optimize" }

func (s *OptimizeStage) Process(ctx context.Context, img *Image) {
	logger := s.p.logger.With(zap.String("image", img.Name))

	if img.IsError() {
		return
	}

	// an untouched gif keeps its animation frames
	if img.Format == geometry.FormatGIF && img.canvas == nil {
		return
	}

	if img.IsMetadataOnly() {
		logger.Debug("optimize: json metadata call")
		return
	}

	start := time.Now()
	canvas := img.canvas
	if canvas == nil {
		decoded, _, err := s.p.processor.Decode(img.Contents)
		if err != nil {
			logger.Error("optimize error", zap.Error(err))
			img.Err = err
			return
		}
		canvas = decoded
	}

	encoded, err := s.p.processor.Encode(canvas, img.OutputFormat, processor.EncodeOptions{
		Quality:     s.quality(img.Modifiers.Quality),
		Progressive: s.p.opts.Progressive,
	})
	if err != nil {
		logger.Error("optimize error", zap.Error(err))
		img.Err = err
		return
	}

	img.Contents = encoded
	img.canvas = nil
	logger.Debug("optimize done",
		zap.String("format", img.OutputFormat),
		zap.Int("bytes", len(encoded)),
		zap.Duration("took", time.Since(start)))
}

func (s *OptimizeStage) quality(requested int) int {
	if requested > 0 && requested < 100 {
		return requested
	}
	if requested == 0 {
		return s.p.opts.DefaultQuality
	}
	return 100
}
