package pipeline

import (
	"image"

	"github.com/phambaophuc/image-transform/internal/geometry"
	"github.com/phambaophuc/image-transform/internal/services/processor"
)

// Image is one unit of work flowing through the stages. A stage that sees a
// non-nil Err passes the image on untouched.
type Image struct {
	Name      string
	Contents  []byte
	Modifiers geometry.Modifiers

	// Format is the detected source format; OutputFormat is what the final
	// encode writes.
	Format       string
	OutputFormat string
	Metadata     processor.Metadata
	Plan         *geometry.TransformPlan
	Err          error

	canvas image.Image
}

func NewImage(name string, contents []byte, modifiers geometry.Modifiers) *Image {
	return &Image{
		Name:      name,
		Contents:  contents,
		Modifiers: modifiers,
	}
}

func (img *Image) IsError() bool {
	return img.Err != nil
}

// IsMetadataOnly reports whether the caller asked for JSON metadata instead of pixels.
func (img *Image) IsMetadataOnly() bool {
	return img.Modifiers.Action == geometry.ActionJSON
}

// ContentType is the MIME type of Contents after processing.
func (img *Image) ContentType() string {
	format := img.OutputFormat
	if format == "" {
		format = img.Format
	}
	return processor.ContentType(format)
}

func (img *Image) forcedType() string {
	return img.Modifiers.ForceType
}
