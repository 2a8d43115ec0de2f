// Package processor is the codec engine that executes a geometry.TransformPlan
// on real pixels: decode, resize, extract and encode.
package processor

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/phambaophuc/image-transform/internal/geometry"
	_ "golang.org/x/image/webp"
)

const (
	DefaultQuality = 100
	MaxFileSize    = 10 << 20 // 10MB
)

var (
	ErrCorruptInput      = errors.New("processor: corrupt input")
	ErrUnsupportedFormat = errors.New("processor: unsupported format")
	ErrFileTooLarge      = errors.New("processor: file too large")
)

type Options struct {
	AutoOrient  bool
	MaxFileSize int64
}

type ImageProcessor struct {
	autoOrient  bool
	maxFileSize int64
}

func NewImageProcessor(opts Options) *ImageProcessor {
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = MaxFileSize
	}
	return &ImageProcessor{
		autoOrient:  opts.AutoOrient,
		maxFileSize: opts.MaxFileSize,
	}
}

// Decode decodes image bytes, applying EXIF orientation when enabled.
func (p *ImageProcessor) Decode(data []byte) (image.Image, string, error) {
	if err := p.checkSize(int64(len(data))); err != nil {
		return nil, "", err
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", decodeError(err)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(p.autoOrient))
	if err != nil {
		return nil, "", decodeError(err)
	}
	return img, format, nil
}

// Apply runs a plan against a decoded image: resize first, then extract from
// the resized canvas.
func (p *ImageProcessor) Apply(img image.Image, plan geometry.TransformPlan) (image.Image, error) {
	result := img

	if plan.Resize != nil {
		result = p.ApplyResize(result, *plan.Resize)
	}

	if plan.Extract != nil {
		var err error
		if result, err = p.ApplyExtract(result, *plan.Extract); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// Execute decodes data, applies plan and encodes the result.
func (p *ImageProcessor) Execute(data []byte, plan geometry.TransformPlan, format string, opts EncodeOptions) ([]byte, error) {
	img, srcFormat, err := p.Decode(data)
	if err != nil {
		return nil, err
	}

	result, err := p.Apply(img, plan)
	if err != nil {
		return nil, err
	}

	if format == "" {
		format = srcFormat
	}
	return p.Encode(result, format, opts)
}

func (p *ImageProcessor) checkSize(size int64) error {
	if size > p.maxFileSize {
		return fmt.Errorf("%w: %d exceeds maximum allowed size %d", ErrFileTooLarge, size, p.maxFileSize)
	}
	return nil
}

func decodeError(err error) error {
	if errors.Is(err, image.ErrFormat) {
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	return fmt.Errorf("%w: %v", ErrCorruptInput, err)
}
