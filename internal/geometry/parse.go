package geometry

import (
	"fmt"
	"strconv"
	"strings"
)

// Fields carries raw modifier values as they arrive from a form, query string
// or preset file.
type Fields struct {
	Action  string
	Width   string
	Height  string
	Crop    string
	Gravity string
	Format  string
	Quality string
}

// ParseFields converts raw fields into Modifiers. When Action is empty it is
// inferred: a crop mode selects crop, a width or height selects resize and
// nothing at all selects original.
func ParseFields(f Fields) (Modifiers, error) {
	var (
		m   Modifiers
		err error
	)
	if m.Width, err = parsePositive("width", f.Width); err != nil {
		return Modifiers{}, err
	}
	if m.Height, err = parsePositive("height", f.Height); err != nil {
		return Modifiers{}, err
	}
	if m.Crop, err = ParseCropMode(f.Crop); err != nil {
		return Modifiers{}, invalid("crop", err)
	}
	if m.Gravity, err = ParseGravity(f.Gravity); err != nil {
		return Modifiers{}, invalid("gravity", err)
	}
	if m.ForceType, err = NormalizeFormat(f.Format); err != nil {
		return Modifiers{}, invalid("format", err)
	}
	if m.Quality, err = parseQuality(f.Quality); err != nil {
		return Modifiers{}, err
	}

	if f.Action != "" {
		if m.Action, err = ParseAction(f.Action); err != nil {
			return Modifiers{}, invalid("action", err)
		}
	} else {
		m.Action = inferAction(m)
	}
	return m, nil
}

func inferAction(m Modifiers) Action {
	switch {
	case m.Crop != CropNone:
		return ActionCrop
	case m.Width > 0 || m.Height > 0:
		return ActionResize
	default:
		return ActionOriginal
	}
}

// ParseModifierString parses the compact path syntax, e.g.
// "w400-h300-cfill-gse-q80-fwebp" or "s50". The literal "json" requests
// metadata only.
func ParseModifierString(s string) (Modifiers, error) {
	var (
		m      Modifiers
		square bool
		isJSON bool
	)
	m.Gravity = GravityCenter

	for _, tok := range strings.Split(strings.TrimSpace(s), "-") {
		if tok == "" {
			continue
		}
		if tok == string(ActionJSON) {
			isJSON = true
			continue
		}

		key, val := tok[0], tok[1:]
		var err error
		switch key {
		case 'w':
			m.Width, err = parseRequiredPositive("width", val)
		case 'h':
			m.Height, err = parseRequiredPositive("height", val)
		case 's':
			var side int
			side, err = parseRequiredPositive("square", val)
			m.Width, m.Height, square = side, side, true
		case 'c':
			m.Crop, err = ParseCropMode(val)
			if err == nil && m.Crop == CropNone {
				err = fmt.Errorf("%w: empty", ErrUnknownCropMode)
			}
			if err != nil {
				err = invalid("crop", err)
			}
		case 'g':
			m.Gravity, err = ParseGravity(val)
			if err != nil {
				err = invalid("gravity", err)
			}
		case 'q':
			m.Quality, err = parseQuality(val)
		case 'f':
			m.ForceType, err = NormalizeFormat(val)
			if err != nil {
				err = invalid("format", err)
			}
		default:
			err = invalid("modifiers", fmt.Errorf("%w: %q", ErrUnknownModifier, tok))
		}
		if err != nil {
			return Modifiers{}, err
		}
	}

	switch {
	case isJSON:
		m.Action = ActionJSON
	case square:
		m.Action = ActionSquare
	default:
		m.Action = inferAction(m)
	}
	return m, nil
}

func parsePositive(field, value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	return parseRequiredPositive(field, value)
}

func parseRequiredPositive(field, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, invalid(field, fmt.Errorf("%w: %q", ErrInvalidDimension, value))
	}
	return n, nil
}

func parseQuality(value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	q, err := strconv.Atoi(value)
	if err != nil || q < 1 || q > 100 {
		return 0, invalid("quality", ErrInvalidQuality)
	}
	return q, nil
}
