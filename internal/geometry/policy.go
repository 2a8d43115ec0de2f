// Package geometry resolves a transform request against source dimensions
// into a TransformPlan: an optional resize followed by an optional extract.
//
// Everything here is pure. Nothing decodes pixels, performs I/O or keeps state,
// so every function is safe to call concurrently.
package geometry

import "fmt"

// Resolve validates m and computes the plan for an image of size src.
// The json and original actions pass through without geometry.
func Resolve(m Modifiers, src Dimensions) Outcome {
	if err := Validate(m); err != nil {
		return failed(err)
	}

	switch m.Action {
	case ActionJSON, ActionOriginal, "":
		return passthrough()
	}

	if err := src.check(); err != nil {
		return failed(err)
	}

	var (
		plan TransformPlan
		err  error
	)
	switch m.Action {
	case ActionResize:
		plan, err = ResolveCrop(CropFit, m, src)
	case ActionSquare:
		plan, err = ResolveCrop(CropFill, squareDefaults(m, src), src)
	case ActionCrop:
		plan, err = ResolveCrop(m.Crop, m, src)
	default:
		err = invalid("action", fmt.Errorf("%w: %q", ErrUnknownAction, m.Action))
	}
	if err != nil {
		return failed(err)
	}
	return planned(plan)
}

// squareDefaults fills an unset side of a square request with the shorter
// source side.
func squareDefaults(m Modifiers, src Dimensions) Modifiers {
	side := min(src.Width, src.Height)
	if m.Width == 0 {
		m.Width = side
	}
	if m.Height == 0 {
		m.Height = side
	}
	return m
}

// ResolveCrop builds the plan for one fit policy.
func ResolveCrop(mode CropMode, m Modifiers, src Dimensions) (TransformPlan, error) {
	if err := src.check(); err != nil {
		return TransformPlan{}, err
	}

	var plan TransformPlan
	switch mode {
	case CropFit:
		box, err := targetBox(m)
		if err != nil {
			return TransformPlan{}, err
		}
		size := ContainSize(src, box, false)
		plan.Resize = &ResizeCommand{Width: size.Width, Height: size.Height, Fit: FitInside}

	case CropFill:
		box, err := targetBox(m)
		if err != nil {
			return TransformPlan{}, err
		}
		fill, err := ComputeFill(src, box, m.Gravity)
		if err != nil {
			return TransformPlan{}, err
		}
		plan.Resize = &ResizeCommand{
			Width:            fill.Resize.Width,
			Height:           fill.Resize.Height,
			AllowEnlargement: true,
			Fit:              FitCover,
		}
		crop := fill.Crop
		plan.Extract = &crop

	case CropFullCover:
		box, err := targetBox(m)
		if err != nil {
			return TransformPlan{}, err
		}
		bg := Transparent
		plan.Resize = &ResizeCommand{
			Width:            box.Width,
			Height:           box.Height,
			AllowEnlargement: true,
			Fit:              FitCover,
			Background:       &bg,
		}

	case CropCut:
		w, h := m.Width, m.Height
		if w < 0 || h < 0 {
			return TransformPlan{}, invalid("size", ErrInvalidDimension)
		}
		if w == 0 {
			w = h
		}
		if h == 0 {
			h = w
		}
		if w <= 0 || h <= 0 {
			return TransformPlan{}, invalid("width", ErrMissingDimension)
		}
		if w > src.Width || h > src.Height {
			return TransformPlan{}, invalid("size",
				fmt.Errorf("%w: %dx%d from %s", ErrExtentExceedsSrc, w, h, src))
		}
		origin := ResolveGravity(m.Gravity.orDefault(), src.Width, src.Height, w, h)
		plan.Extract = &ExtractCommand{X: origin.X, Y: origin.Y, Width: w, Height: h}

	case CropScale:
		box, err := targetBox(m)
		if err != nil {
			return TransformPlan{}, err
		}
		plan.Resize = &ResizeCommand{
			Width:  min(box.Width, src.Width),
			Height: min(box.Height, src.Height),
			Fit:    FitCover,
		}

	case CropPad:
		box, err := targetBox(m)
		if err != nil {
			return TransformPlan{}, err
		}
		bg := Transparent
		plan.Resize = &ResizeCommand{
			Width:            box.Width,
			Height:           box.Height,
			AllowEnlargement: true,
			Fit:              FitContain,
			Background:       &bg,
		}

	default:
		return TransformPlan{}, invalid("crop", fmt.Errorf("%w: %d", ErrUnknownCropMode, mode))
	}

	if err := plan.Check(src); err != nil {
		return TransformPlan{}, err
	}
	return plan, nil
}

func targetBox(m Modifiers) (Dimensions, error) {
	if err := requireBox(m); err != nil {
		return Dimensions{}, err
	}
	if m.Width < 0 || m.Height < 0 {
		return Dimensions{}, invalid("size", ErrInvalidDimension)
	}
	return Dimensions{Width: m.Width, Height: m.Height}, nil
}
