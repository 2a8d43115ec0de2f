package processor

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/phambaophuc/image-transform/internal/geometry"
)

// ApplyResize maps img onto the command's box according to its fit mode.
func (p *ImageProcessor) ApplyResize(img image.Image, cmd geometry.ResizeCommand) image.Image {
	src := dimensionsOf(img)
	box := geometry.Dimensions{Width: max(1, cmd.Width), Height: max(1, cmd.Height)}
	canvas := geometry.TransformPlan{Resize: &cmd}.Canvas(src)

	switch cmd.Fit {
	case geometry.FitContain:
		inner := geometry.ContainSize(src, box, cmd.AllowEnlargement)
		resized := img
		if inner != src {
			resized = imaging.Resize(img, inner.Width, inner.Height, imaging.Lanczos)
		}
		background := imaging.New(box.Width, box.Height, toNRGBA(cmd.Background))
		return imaging.PasteCenter(background, resized)

	case geometry.FitCover:
		if canvas == src {
			return img
		}
		return imaging.Fill(img, canvas.Width, canvas.Height, imaging.Center, imaging.Lanczos)

	default:
		if canvas == src {
			return img
		}
		return imaging.Resize(img, canvas.Width, canvas.Height, imaging.Lanczos)
	}
}

func toNRGBA(c *geometry.RGBA) color.NRGBA {
	if c == nil {
		return color.NRGBA{}
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

func dimensionsOf(img image.Image) geometry.Dimensions {
	b := img.Bounds()
	return geometry.Dimensions{Width: b.Dx(), Height: b.Dy()}
}
