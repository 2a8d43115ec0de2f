package geometry

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"
)

func TestResolveCrop(t *testing.T) {
	transparent := Transparent

	tests := []struct {
		name string
		mode CropMode
		m    Modifiers
		src  Dimensions
		want TransformPlan
	}{
		{
			name: "fit shrinks inside box",
			mode: CropFit,
			m:    Modifiers{Width: 800, Height: 800},
			src:  Dimensions{4000, 3000},
			want: TransformPlan{Resize: &ResizeCommand{Width: 800, Height: 600, Fit: FitInside}},
		},
		{
			name: "fit never enlarges",
			mode: CropFit,
			m:    Modifiers{Width: 800, Height: 600},
			src:  Dimensions{300, 200},
			want: TransformPlan{Resize: &ResizeCommand{Width: 300, Height: 200, Fit: FitInside}},
		},
		{
			name: "fill",
			mode: CropFill,
			m:    Modifiers{Width: 800, Height: 800, Gravity: GravityCenter},
			src:  Dimensions{4000, 3000},
			want: TransformPlan{
				Resize:  &ResizeCommand{Width: 1067, Height: 800, AllowEnlargement: true, Fit: FitCover},
				Extract: &ExtractCommand{X: 133, Y: 0, Width: 800, Height: 800},
			},
		},
		{
			name: "fullcover",
			mode: CropFullCover,
			m:    Modifiers{Width: 800, Height: 800},
			src:  Dimensions{4000, 3000},
			want: TransformPlan{Resize: &ResizeCommand{
				Width: 800, Height: 800, AllowEnlargement: true, Fit: FitCover, Background: &transparent,
			}},
		},
		{
			name: "cut square from width",
			mode: CropCut,
			m:    Modifiers{Width: 200, Gravity: GravitySouthEast},
			src:  Dimensions{1000, 1000},
			want: TransformPlan{Extract: &ExtractCommand{X: 800, Y: 800, Width: 200, Height: 200}},
		},
		{
			name: "cut square from height",
			mode: CropCut,
			m:    Modifiers{Height: 300},
			src:  Dimensions{1000, 500},
			want: TransformPlan{Extract: &ExtractCommand{X: 350, Y: 100, Width: 300, Height: 300}},
		},
		{
			name: "scale clamps to source per axis",
			mode: CropScale,
			m:    Modifiers{Width: 800, Height: 800},
			src:  Dimensions{500, 3000},
			want: TransformPlan{Resize: &ResizeCommand{Width: 500, Height: 800, Fit: FitCover}},
		},
		{
			name: "scale never enlarges",
			mode: CropScale,
			m:    Modifiers{Width: 800, Height: 600},
			src:  Dimensions{300, 200},
			want: TransformPlan{Resize: &ResizeCommand{Width: 300, Height: 200, Fit: FitCover}},
		},
		{
			name: "pad",
			mode: CropPad,
			m:    Modifiers{Width: 640, Height: 480},
			src:  Dimensions{100, 100},
			want: TransformPlan{Resize: &ResizeCommand{
				Width: 640, Height: 480, AllowEnlargement: true, Fit: FitContain, Background: &transparent,
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveCrop(tt.mode, tt.m, tt.src)
			if err != nil {
				t.Fatalf("ResolveCrop() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ResolveCrop() = %+v / %+v, want %+v / %+v", got.Resize, got.Extract, tt.want.Resize, tt.want.Extract)
			}
		})
	}
}

func TestResolveCrop_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mode    CropMode
		m       Modifiers
		src     Dimensions
		wantErr error
	}{
		{"cut larger than source", CropCut, Modifiers{Width: 200}, Dimensions{100, 100}, ErrExtentExceedsSrc},
		{"cut taller than source", CropCut, Modifiers{Width: 50, Height: 200}, Dimensions{100, 100}, ErrExtentExceedsSrc},
		{"fill without height", CropFill, Modifiers{Width: 200}, Dimensions{100, 100}, ErrMissingDimension},
		{"unknown mode", CropMode(42), Modifiers{Width: 10, Height: 10}, Dimensions{100, 100}, ErrUnknownCropMode},
		{"cut negative width", CropCut, Modifiers{Width: -5}, Dimensions{100, 100}, ErrInvalidDimension},
		{"cut negative height", CropCut, Modifiers{Width: 10, Height: -1}, Dimensions{100, 100}, ErrInvalidDimension},
		{"zero source", CropFit, Modifiers{Width: 10, Height: 10}, Dimensions{0, 100}, ErrInvalidDimensions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveCrop(tt.mode, tt.m, tt.src)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ResolveCrop() error = %v, want %v", err, tt.wantErr)
			}
			if !IsValidationError(err) {
				t.Errorf("IsValidationError(%v) = false", err)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	t.Run("resize without height fails", func(t *testing.T) {
		out := Resolve(Modifiers{Action: ActionResize, Width: 500}, Dimensions{1000, 1000})
		if out.Kind != Failed {
			t.Fatalf("kind = %s, want failure", out.Kind)
		}
		var ve *ValidationError
		if !errors.As(out.Err, &ve) || ve.Field != "height" || !errors.Is(out.Err, ErrMissingDimension) {
			t.Errorf("err = %v, want missing height", out.Err)
		}
		if !out.Plan.Empty() {
			t.Errorf("plan = %+v, want none", out.Plan)
		}
	})

	t.Run("json and original pass through", func(t *testing.T) {
		for _, a := range []Action{ActionJSON, ActionOriginal} {
			out := Resolve(Modifiers{Action: a}, Dimensions{10, 10})
			if out.Kind != Passthrough {
				t.Errorf("%s kind = %s, want passthrough", a, out.Kind)
			}
		}
	})

	t.Run("resize uses fit geometry", func(t *testing.T) {
		out := Resolve(Modifiers{Action: ActionResize, Width: 400, Height: 400}, Dimensions{800, 400})
		if out.Kind != Planned {
			t.Fatalf("kind = %s, err = %v", out.Kind, out.Err)
		}
		want := ResizeCommand{Width: 400, Height: 200, Fit: FitInside}
		if out.Plan.Resize == nil || *out.Plan.Resize != want || out.Plan.Extract != nil {
			t.Errorf("plan = %+v / %+v, want %+v", out.Plan.Resize, out.Plan.Extract, want)
		}
	})

	t.Run("square defaults to shorter side", func(t *testing.T) {
		out := Resolve(Modifiers{Action: ActionSquare}, Dimensions{400, 300})
		if out.Kind != Planned {
			t.Fatalf("kind = %s, err = %v", out.Kind, out.Err)
		}
		want := ExtractCommand{X: 50, Y: 0, Width: 300, Height: 300}
		if out.Plan.Extract == nil || *out.Plan.Extract != want {
			t.Errorf("extract = %+v, want %+v", out.Plan.Extract, want)
		}
		if r := out.Plan.Resize; r == nil || r.Width != 400 || r.Height != 300 {
			t.Errorf("resize = %+v, want 400x300", r)
		}
	})

	t.Run("zero source fails", func(t *testing.T) {
		out := Resolve(Modifiers{Action: ActionCrop, Crop: CropFill, Width: 10, Height: 10}, Dimensions{0, 10})
		if out.Kind != Failed || !errors.Is(out.Err, ErrInvalidDimensions) {
			t.Errorf("outcome = %s / %v, want invalid dimensions", out.Kind, out.Err)
		}
	})
}

func TestResolve_FitAndScaleKeepSmallSources(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 5000; i++ {
		src := Dimensions{rng.Intn(2000) + 1, rng.Intn(2000) + 1}
		box := Dimensions{src.Width + rng.Intn(500), src.Height + rng.Intn(500)}

		for _, mode := range []CropMode{CropFit, CropScale} {
			m := Modifiers{Action: ActionCrop, Crop: mode, Width: box.Width, Height: box.Height}
			out := Resolve(m, src)
			if out.Kind != Planned {
				t.Fatalf("%s %s in %s: %v", mode, src, box, out.Err)
			}
			r := out.Plan.Resize
			if r.Width != src.Width || r.Height != src.Height || r.AllowEnlargement {
				t.Fatalf("%s %s in %s resized to %dx%d", mode, src, box, r.Width, r.Height)
			}
		}
	}
}

func TestResolve_FitCanvasMatchesResize(t *testing.T) {
	out := Resolve(Modifiers{Action: ActionResize, Width: 100, Height: 100}, Dimensions{1000, 704})
	if out.Kind != Planned {
		t.Fatalf("Resolve() = %v", out.Err)
	}
	if got := out.Plan.Output(Dimensions{1000, 704}); got != (Dimensions{100, 70}) {
		t.Errorf("Output() = %s, want 100x70", got)
	}

	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 20000; i++ {
		src := Dimensions{rng.Intn(4000) + 1, rng.Intn(4000) + 1}
		m := Modifiers{Action: ActionResize, Width: rng.Intn(1000) + 1, Height: rng.Intn(1000) + 1}

		out := Resolve(m, src)
		if out.Kind != Planned {
			t.Fatalf("fit %s -> %dx%d: %v", src, m.Width, m.Height, out.Err)
		}
		r := out.Plan.Resize
		want := Dimensions{r.Width, r.Height}
		if got := out.Plan.Canvas(src); got != want {
			t.Fatalf("fit %s -> %dx%d: canvas %s, resize %s", src, m.Width, m.Height, got, want)
		}
		if r.Width > m.Width || r.Height > m.Height {
			t.Fatalf("fit %s -> %dx%d: resize %s exceeds box", src, m.Width, m.Height, want)
		}
	}
}

func TestResolve_FillPlansStayInsideCanvas(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	dim := func() int { return rng.Intn(10000) + 1 }
	gravities := []Gravity{GravityCenter, GravityNorthWest, GravitySouthEast, GravityEast, GravitySouth}

	for i := 0; i < 10000; i++ {
		src := Dimensions{dim(), dim()}
		m := Modifiers{
			Action:  ActionCrop,
			Crop:    CropFill,
			Width:   dim(),
			Height:  dim(),
			Gravity: gravities[i%len(gravities)],
		}
		out := Resolve(m, src)
		if out.Kind != Planned {
			t.Fatalf("fill %s -> %dx%d: %v", src, m.Width, m.Height, out.Err)
		}
		if err := out.Plan.Check(src); err != nil {
			t.Fatalf("fill %s -> %dx%d: %v", src, m.Width, m.Height, err)
		}
		e := out.Plan.Extract
		if e.Width != m.Width || e.Height != m.Height {
			t.Fatalf("fill %s -> %dx%d extracted %s", src, m.Width, m.Height, e)
		}
	}
}

func TestTransformPlanCheck(t *testing.T) {
	plan := TransformPlan{
		Resize:  &ResizeCommand{Width: 100, Height: 100, Fit: FitCover, AllowEnlargement: true},
		Extract: &ExtractCommand{X: 50, Y: 0, Width: 60, Height: 10},
	}
	if err := plan.Check(Dimensions{1000, 1000}); !errors.Is(err, ErrExtractOutOfBounds) {
		t.Errorf("Check() error = %v, want ErrExtractOutOfBounds", err)
	}

	plan.Extract.Width = 50
	if err := plan.Check(Dimensions{1000, 1000}); err != nil {
		t.Errorf("Check() error = %v", err)
	}
}

func TestTransformPlanOutput(t *testing.T) {
	src := Dimensions{4000, 3000}
	tests := map[string]struct {
		m    Modifiers
		want Dimensions
	}{
		"fit":  {Modifiers{Action: ActionResize, Width: 800, Height: 800}, Dimensions{800, 600}},
		"fill": {Modifiers{Action: ActionCrop, Crop: CropFill, Width: 800, Height: 800}, Dimensions{800, 800}},
		"pad":  {Modifiers{Action: ActionCrop, Crop: CropPad, Width: 800, Height: 800}, Dimensions{800, 800}},
		"cut":  {Modifiers{Action: ActionCrop, Crop: CropCut, Width: 500}, Dimensions{500, 500}},
	}
	for name, tt := range tests {
		out := Resolve(tt.m, src)
		if out.Kind != Planned {
			t.Fatalf("%s: %v", name, out.Err)
		}
		if got := out.Plan.Output(src); got != tt.want {
			t.Errorf("%s: Output() = %s, want %s", name, got, tt.want)
		}
	}
	if got := (TransformPlan{}).Output(src); got != src {
		t.Errorf("empty plan Output() = %s, want source", got)
	}
}
