// Package pipeline sequences the resize and optimize stages over images,
// short-circuiting on errors, metadata-only requests and untouched gifs.
package pipeline

import (
	"context"
	"image"
	"sync"
	"time"

	"github.com/phambaophuc/image-transform/internal/geometry"
	"github.com/phambaophuc/image-transform/internal/services/processor"
	"go.uber.org/zap"
)

const DefaultWorkers = 5

// Options are the pipeline-level toggles. They are fixed at construction.
type Options struct {
	RemoveMetadata  bool
	Progressive     bool
	ProcessOriginal bool
	DefaultQuality  int
	Workers         int
}

type Stage interface {
	Name() string
	Process(ctx context.Context, img *Image)
}

type Pipeline struct {
	processor *processor.ImageProcessor
	logger    *zap.Logger
	opts      Options
	stages    []Stage
}

func New(proc *processor.ImageProcessor, logger *zap.Logger, opts Options) *Pipeline {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.DefaultQuality <= 0 || opts.DefaultQuality > 100 {
		opts.DefaultQuality = processor.DefaultQuality
	}
	if !opts.RemoveMetadata {
		logger.Warn("metadata retention requested but encoders never write EXIF; output is always stripped")
	}

	p := &Pipeline{
		processor: proc,
		logger:    logger,
		opts:      opts,
	}
	p.stages = []Stage{&ResizeStage{p: p}, &OptimizeStage{p: p}}
	return p
}

// Process runs every stage over img and returns it. Failures are recorded in
// img.Err rather than returned.
func (p *Pipeline) Process(ctx context.Context, img *Image) *Image {
	start := time.Now()
	p.prepare(img)

	for _, stage := range p.stages {
		if err := ctx.Err(); err != nil && !img.IsError() {
			img.Err = err
		}
		stage.Process(ctx, img)
	}

	fields := []zap.Field{
		zap.String("image", img.Name),
		zap.String("modifiers", img.Modifiers.Key()),
		zap.Duration("took", time.Since(start)),
	}
	if img.IsError() {
		p.logger.Warn("Image processing failed", append(fields, zap.Error(img.Err))...)
	} else {
		p.logger.Info("Image processed", append(fields, zap.Int("bytes", len(img.Contents)))...)
	}
	return img
}

// ProcessBatch processes images concurrently on a bounded worker pool.
func (p *Pipeline) ProcessBatch(ctx context.Context, images []*Image) []*Image {
	jobs := make(chan int, len(images))

	numWorkers := p.opts.Workers
	if len(images) < numWorkers {
		numWorkers = len(images)
	}

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				p.Process(ctx, images[i])
			}
		}()
	}

	for i := range images {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return images
}

// ReadMetadata reads only the image header.
func (p *Pipeline) ReadMetadata(data []byte) (processor.Metadata, error) {
	return p.processor.ReadMetadata(data)
}

func (p *Pipeline) prepare(img *Image) {
	if img.IsError() {
		return
	}

	meta, err := p.processor.ReadMetadata(img.Contents)
	if err != nil {
		img.Err = err
		return
	}
	img.Metadata = meta
	img.Format = meta.Format

	img.OutputFormat = img.Format
	if forced := img.forcedType(); forced != "" && forced != geometry.FormatNone {
		img.OutputFormat = forced
	}
}

func dimensionsOf(img image.Image) geometry.Dimensions {
	b := img.Bounds()
	return geometry.Dimensions{Width: b.Dx(), Height: b.Dy()}
}
