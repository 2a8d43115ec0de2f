package processor

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/phambaophuc/image-transform/internal/geometry"
)

// ApplyExtract cuts the command's rectangle out of img. The rectangle must lie
// entirely inside img.
func (p *ImageProcessor) ApplyExtract(img image.Image, cmd geometry.ExtractCommand) (image.Image, error) {
	bounds := img.Bounds()
	rect := image.Rect(cmd.X, cmd.Y, cmd.X+cmd.Width, cmd.Y+cmd.Height).Add(bounds.Min)

	if cmd.Width <= 0 || cmd.Height <= 0 || !rect.In(bounds) {
		return nil, fmt.Errorf("%w: %s on %dx%d", geometry.ErrExtractOutOfBounds, cmd, bounds.Dx(), bounds.Dy())
	}

	return imaging.Crop(img, rect), nil
}
