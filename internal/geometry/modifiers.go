package geometry

import (
	"fmt"
	"strings"
)

// Action selects what the pipeline does with an image.
type Action string

const (
	ActionOriginal Action = "original"
	ActionResize   Action = "resize"
	ActionSquare   Action = "square"
	ActionCrop     Action = "crop"
	ActionJSON     Action = "json"
)

func ParseAction(s string) (Action, error) {
	switch a := Action(strings.ToLower(strings.TrimSpace(s))); a {
	case ActionOriginal, ActionResize, ActionSquare, ActionCrop, ActionJSON:
		return a, nil
	case "":
		return ActionOriginal, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
}

// CropMode is the fit policy used by the crop action.
type CropMode int

const (
	CropNone CropMode = iota
	CropFit
	CropFill
	CropFullCover
	CropCut
	CropScale
	CropPad
)

var cropModeNames = map[CropMode]string{
	CropFit:       "fit",
	CropFill:      "fill",
	CropFullCover: "fullcover",
	CropCut:       "cut",
	CropScale:     "scale",
	CropPad:       "pad",
}

func (c CropMode) String() string {
	if name, ok := cropModeNames[c]; ok {
		return name
	}
	return ""
}

// ParseCropMode maps a crop token to its mode. An empty token yields CropNone.
func ParseCropMode(s string) (CropMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return CropNone, nil
	}
	for mode, name := range cropModeNames {
		if name == s {
			return mode, nil
		}
	}
	return CropNone, fmt.Errorf("%w: %q", ErrUnknownCropMode, s)
}

func (c CropMode) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *CropMode) UnmarshalText(text []byte) error {
	mode, err := ParseCropMode(string(text))
	if err != nil {
		return err
	}
	*c = mode
	return nil
}

// Output formats accepted as a force type.
const (
	FormatNone = "none"
	FormatJPEG = "jpeg"
	FormatPNG  = "png"
	FormatWebP = "webp"
	FormatGIF  = "gif"
	FormatBMP  = "bmp"
	FormatTIFF = "tiff"
)

// NormalizeFormat lowercases a format name and folds aliases such as "jpg".
func NormalizeFormat(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case "":
		return "", nil
	case "jpg":
		return FormatJPEG, nil
	case "tif":
		return FormatTIFF, nil
	case FormatNone, FormatJPEG, FormatPNG, FormatWebP, FormatGIF, FormatBMP, FormatTIFF:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Modifiers is a caller's transform request. Zero Width, Height and Quality
// mean the field was not given.
type Modifiers struct {
	Action    Action   `json:"action" yaml:"action"`
	Width     int      `json:"width,omitempty" yaml:"width"`
	Height    int      `json:"height,omitempty" yaml:"height"`
	Crop      CropMode `json:"crop,omitempty" yaml:"crop"`
	Gravity   Gravity  `json:"gravity,omitempty" yaml:"gravity"`
	ForceType string   `json:"force_type,omitempty" yaml:"format"`
	Quality   int      `json:"quality,omitempty" yaml:"quality"`
}

// Key renders the modifiers in a stable form, used for cache keys and logs.
func (m Modifiers) Key() string {
	return fmt.Sprintf("a=%s,w=%d,h=%d,c=%s,g=%s,f=%s,q=%d",
		m.Action, m.Width, m.Height, m.Crop, m.Gravity.orDefault(), m.ForceType, m.Quality)
}

// Dimensions is a pixel extent.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (d Dimensions) Valid() bool {
	return d.Width > 0 && d.Height > 0
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

func (d Dimensions) check() error {
	if !d.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidDimensions, d)
	}
	return nil
}
