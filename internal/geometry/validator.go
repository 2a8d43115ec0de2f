package geometry

import "fmt"

// Validate rejects incomplete or contradictory modifiers before any geometry
// is computed. Every failure is a *ValidationError.
func Validate(m Modifiers) error {
	if _, err := ParseAction(string(m.Action)); err != nil {
		return invalid("action", err)
	}
	if m.Width < 0 {
		return invalid("width", fmt.Errorf("%w: %d", ErrInvalidDimension, m.Width))
	}
	if m.Height < 0 {
		return invalid("height", fmt.Errorf("%w: %d", ErrInvalidDimension, m.Height))
	}
	if m.Quality < 0 || m.Quality > 100 {
		return invalid("quality", ErrInvalidQuality)
	}
	if _, err := NormalizeFormat(m.ForceType); err != nil {
		return invalid("format", err)
	}
	if m.Gravity != "" {
		if _, err := ParseGravity(string(m.Gravity)); err != nil {
			return invalid("gravity", err)
		}
	}

	switch m.Action {
	case ActionResize:
		return requireBox(m)
	case ActionCrop:
		if m.Crop.String() == "" {
			return invalid("crop", fmt.Errorf("%w: %d", ErrUnknownCropMode, m.Crop))
		}
		if m.Crop == CropCut {
			if m.Width == 0 && m.Height == 0 {
				return invalid("width", ErrMissingDimension)
			}
			return nil
		}
		return requireBox(m)
	}
	return nil
}

func requireBox(m Modifiers) error {
	if m.Width == 0 {
		return invalid("width", ErrMissingDimension)
	}
	if m.Height == 0 {
		return invalid("height", ErrMissingDimension)
	}
	return nil
}
