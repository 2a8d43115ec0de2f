package pipeline

import (
	"context"
	"time"

	"github.com/phambaophuc/image-transform/internal/geometry"
	"go.uber.org/zap"
)

// ResizeStage resolves the geometry for an image and applies it. The result is
// left as a pending canvas for OptimizeStage to encode.
type ResizeStage struct {
	p *Pipeline
}

func (s *ResizeStage) Name() string { return "resize" }

func (s *ResizeStage) Process(ctx context.Context, img *Image) {
	logger := s.p.logger.With(zap.String("image", img.Name))

	if img.IsError() {
		return
	}

	if img.Format == geometry.FormatGIF && img.forcedType() == "" || img.forcedType() == geometry.FormatNone {
		logger.Debug("resize: pass through unconverted image", zap.String("format", img.Format))
		return
	}

	if img.IsMetadataOnly() {
		logger.Debug("resize: json metadata call")
		return
	}

	if img.Modifiers.Action == geometry.ActionOriginal && !s.p.opts.ProcessOriginal {
		logger.Debug("resize: original no resize")
		return
	}

	start := time.Now()
	defer func() {
		logger.Debug("resize done", zap.Duration("took", time.Since(start)))
	}()

	decoded, _, err := s.p.processor.Decode(img.Contents)
	if err != nil {
		logger.Error("resize error", zap.Error(err))
		img.Err = err
		return
	}

	src := dimensionsOf(decoded)
	outcome := geometry.Resolve(img.Modifiers, src)
	switch outcome.Kind {
	case geometry.Failed:
		img.Err = outcome.Err
		return
	case geometry.Passthrough:
		img.canvas = decoded
		return
	}

	plan := outcome.Plan
	img.Plan = &plan

	result, err := s.p.processor.Apply(decoded, plan)
	if err != nil {
		logger.Error("resize error", zap.Error(err), zap.Stringer("source", src))
		img.Err = err
		return
	}
	img.canvas = result
}
