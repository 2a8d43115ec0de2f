package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"testing"

	"github.com/phambaophuc/image-transform/internal/geometry"
	"github.com/phambaophuc/image-transform/internal/services/processor"
	"go.uber.org/zap"
)

func newPipeline(opts Options) *Pipeline {
	return New(processor.NewImageProcessor(processor.Options{}), zap.NewNop(), opts)
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	return buf.Bytes()
}

func gifBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	palette := color.Palette{color.Black, color.White}
	img := image.NewPaletted(image.Rect(0, 0, width, height), palette)
	var buf bytes.Buffer
	if err := gif.Encode(&buf, img, nil); err != nil {
		t.Fatalf("gif.Encode() error = %v", err)
	}
	return buf.Bytes()
}

func readMeta(t *testing.T, data []byte) processor.Metadata {
	t.Helper()
	meta, err := processor.NewImageProcessor(processor.Options{}).ReadMetadata(data)
	if err != nil {
		t.Fatalf("ReadMetadata() error = %v", err)
	}
	return meta
}

func TestProcess_CropFill(t *testing.T) {
	p := newPipeline(Options{ProcessOriginal: true})
	img := NewImage("photo.png", pngBytes(t, 400, 300), geometry.Modifiers{
		Action: geometry.ActionCrop, Crop: geometry.CropFill, Width: 80, Height: 80,
	})

	p.Process(context.Background(), img)

	if img.Err != nil {
		t.Fatalf("Process() error = %v", img.Err)
	}
	meta := readMeta(t, img.Contents)
	if meta.Width != 80 || meta.Height != 80 || meta.Format != "png" {
		t.Errorf("output = %+v, want 80x80 png", meta)
	}
	if img.Plan == nil || img.Plan.Extract == nil {
		t.Errorf("plan = %+v, want resize and extract", img.Plan)
	}
	if img.Metadata.Width != 400 || img.Metadata.Height != 300 {
		t.Errorf("source metadata = %+v", img.Metadata)
	}
}

func TestProcess_ForceType(t *testing.T) {
	p := newPipeline(Options{ProcessOriginal: true})
	img := NewImage("photo.png", pngBytes(t, 64, 64), geometry.Modifiers{
		Action: geometry.ActionResize, Width: 32, Height: 32, ForceType: geometry.FormatJPEG, Quality: 70,
	})

	p.Process(context.Background(), img)

	if img.Err != nil {
		t.Fatalf("Process() error = %v", img.Err)
	}
	if img.Format != "png" || img.OutputFormat != "jpeg" || img.ContentType() != "image/jpeg" {
		t.Errorf("formats = %s -> %s (%s)", img.Format, img.OutputFormat, img.ContentType())
	}
	if meta := readMeta(t, img.Contents); meta.Format != "jpeg" || meta.Width != 32 {
		t.Errorf("output = %+v, want 32x32 jpeg", meta)
	}
}

func TestProcess_MetadataOnly(t *testing.T) {
	p := newPipeline(Options{})
	data := pngBytes(t, 20, 10)
	img := NewImage("meta.png", data, geometry.Modifiers{Action: geometry.ActionJSON})

	p.Process(context.Background(), img)

	if img.Err != nil {
		t.Fatalf("Process() error = %v", img.Err)
	}
	if !bytes.Equal(img.Contents, data) {
		t.Error("json call must not touch contents")
	}
	if img.Metadata.Width != 20 || img.Metadata.Height != 10 {
		t.Errorf("metadata = %+v", img.Metadata)
	}
}

func TestProcess_GIFPassthrough(t *testing.T) {
	p := newPipeline(Options{ProcessOriginal: true})
	data := gifBytes(t, 50, 50)

	img := NewImage("anim.gif", data, geometry.Modifiers{Action: geometry.ActionResize, Width: 10, Height: 10})
	p.Process(context.Background(), img)
	if img.Err != nil {
		t.Fatalf("Process() error = %v", img.Err)
	}
	if !bytes.Equal(img.Contents, data) {
		t.Error("gif without force type must pass through")
	}

	forced := NewImage("anim.gif", data, geometry.Modifiers{
		Action: geometry.ActionResize, Width: 10, Height: 10, ForceType: geometry.FormatPNG,
	})
	p.Process(context.Background(), forced)
	if forced.Err != nil {
		t.Fatalf("Process() error = %v", forced.Err)
	}
	if meta := readMeta(t, forced.Contents); meta.Format != "png" || meta.Width != 10 {
		t.Errorf("forced gif output = %+v, want 10x10 png", meta)
	}
}

func TestProcess_ForceTypeNoneSkipsResize(t *testing.T) {
	p := newPipeline(Options{ProcessOriginal: true})
	img := NewImage("a.png", pngBytes(t, 40, 40), geometry.Modifiers{
		Action: geometry.ActionResize, Width: 10, Height: 10, ForceType: geometry.FormatNone,
	})

	p.Process(context.Background(), img)

	if img.Err != nil {
		t.Fatalf("Process() error = %v", img.Err)
	}
	if meta := readMeta(t, img.Contents); meta.Width != 40 || meta.Format != "png" {
		t.Errorf("output = %+v, want untouched 40x40 png", meta)
	}
}

func TestProcess_ValidationFailure(t *testing.T) {
	p := newPipeline(Options{})
	img := NewImage("a.png", pngBytes(t, 40, 40), geometry.Modifiers{Action: geometry.ActionResize, Width: 500})

	p.Process(context.Background(), img)

	if !errors.Is(img.Err, geometry.ErrMissingDimension) || !geometry.IsValidationError(img.Err) {
		t.Errorf("Process() error = %v, want missing dimension", img.Err)
	}
	if img.Plan != nil {
		t.Errorf("plan = %+v, want none", img.Plan)
	}
}

func TestProcess_CutTooLarge(t *testing.T) {
	p := newPipeline(Options{})
	img := NewImage("a.png", pngBytes(t, 40, 40), geometry.Modifiers{
		Action: geometry.ActionCrop, Crop: geometry.CropCut, Width: 50,
	})

	p.Process(context.Background(), img)

	if !errors.Is(img.Err, geometry.ErrExtentExceedsSrc) {
		t.Errorf("Process() error = %v, want ErrExtentExceedsSrc", img.Err)
	}
}

func TestProcess_CorruptInput(t *testing.T) {
	p := newPipeline(Options{})
	img := NewImage("bad.png", []byte("definitely not an image"), geometry.Modifiers{Action: geometry.ActionSquare})

	p.Process(context.Background(), img)

	if !errors.Is(img.Err, processor.ErrUnsupportedFormat) {
		t.Errorf("Process() error = %v, want ErrUnsupportedFormat", img.Err)
	}
}

func TestProcess_CanceledContext(t *testing.T) {
	p := newPipeline(Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	img := NewImage("a.png", pngBytes(t, 10, 10), geometry.Modifiers{Action: geometry.ActionSquare})
	p.Process(ctx, img)

	if !errors.Is(img.Err, context.Canceled) {
		t.Errorf("Process() error = %v, want context.Canceled", img.Err)
	}
}

func TestProcessBatch(t *testing.T) {
	p := newPipeline(Options{Workers: 3})

	var images []*Image
	for i := 0; i < 7; i++ {
		images = append(images, NewImage(fmt.Sprintf("img-%d.png", i), pngBytes(t, 30+i, 20), geometry.Modifiers{
			Action: geometry.ActionSquare, Width: 16, Height: 16,
		}))
	}

	p.ProcessBatch(context.Background(), images)

	for _, img := range images {
		if img.Err != nil {
			t.Errorf("%s: %v", img.Name, img.Err)
			continue
		}
		if meta := readMeta(t, img.Contents); meta.Width != 16 || meta.Height != 16 {
			t.Errorf("%s: output %s, want 16x16", img.Name, meta.Dimensions)
		}
	}
}

func TestOptimizeQuality(t *testing.T) {
	s := &OptimizeStage{p: newPipeline(Options{DefaultQuality: 90})}

	tests := map[int]int{0: 90, 50: 50, 99: 99, 100: 100}
	for requested, want := range tests {
		if got := s.quality(requested); got != want {
			t.Errorf("quality(%d) = %d, want %d", requested, got, want)
		}
	}
}
