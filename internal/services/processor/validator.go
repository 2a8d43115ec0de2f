package processor

import (
	"bytes"
	"image"

	"github.com/phambaophuc/image-transform/internal/geometry"
)

// Metadata describes an image without decoding its pixels.
type Metadata struct {
	geometry.Dimensions
	Format string `json:"format"`
	Size   int64  `json:"size"`
}

// ReadMetadata reads the header of data and reports its size and format.
func (p *ImageProcessor) ReadMetadata(data []byte) (Metadata, error) {
	if err := p.checkSize(int64(len(data))); err != nil {
		return Metadata{}, err
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Metadata{}, decodeError(err)
	}

	return Metadata{
		Dimensions: geometry.Dimensions{Width: cfg.Width, Height: cfg.Height},
		Format:     format,
		Size:       int64(len(data)),
	}, nil
}
