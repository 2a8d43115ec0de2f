package processor

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/phambaophuc/image-transform/internal/geometry"
)

type EncodeOptions struct {
	Quality int
	// Progressive is accepted for interface parity; image/jpeg only writes
	// baseline JPEG.
	Progressive bool
}

// Encode writes img in the requested format.
func (p *ImageProcessor) Encode(img image.Image, format string, opts EncodeOptions) ([]byte, error) {
	buffer := &bytes.Buffer{}
	if err := p.encodeImage(buffer, img, format, opts); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buffer.Bytes(), nil
}

func (p *ImageProcessor) encodeImage(w io.Writer, img image.Image, format string, opts EncodeOptions) error {
	quality := opts.Quality
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}

	normalized, err := geometry.NormalizeFormat(format)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	switch normalized {
	case geometry.FormatJPEG:
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality))
	case geometry.FormatPNG:
		return imaging.Encode(w, img, imaging.PNG)
	case geometry.FormatGIF:
		return imaging.Encode(w, img, imaging.GIF)
	case geometry.FormatBMP:
		return imaging.Encode(w, img, imaging.BMP)
	case geometry.FormatTIFF:
		return imaging.Encode(w, img, imaging.TIFF)
	case geometry.FormatWebP:
		return webp.Encode(w, img, &webp.Options{Lossless: quality == 100, Quality: float32(quality)})
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// ContentType returns the MIME type for an output format.
func ContentType(format string) string {
	normalized, err := geometry.NormalizeFormat(format)
	if err != nil || normalized == "" || normalized == geometry.FormatNone {
		return "application/octet-stream"
	}
	return "image/" + normalized
}
