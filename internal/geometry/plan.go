package geometry

import "fmt"

// FitMode tells the engine how to map a source onto a resize box.
type FitMode string

const (
	// FitInside scales to exactly Width x Height, which the resolver has
	// already fitted to the source aspect ratio.
	FitInside FitMode = "inside"
	// FitCover scales to cover the box, preserving aspect ratio, clipping the overflow.
	FitCover FitMode = "cover"
	// FitContain scales to fit within the box and letterboxes to the full box.
	FitContain FitMode = "contain"
)

type RGBA struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// Transparent is the placeholder background for cover and contain resizes.
var Transparent = RGBA{}

type ResizeCommand struct {
	Width            int     `json:"width"`
	Height           int     `json:"height"`
	AllowEnlargement bool    `json:"allow_enlargement"`
	Fit              FitMode `json:"fit"`
	Background       *RGBA   `json:"background,omitempty"`
}

type ExtractCommand struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (e ExtractCommand) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", e.Width, e.Height, e.X, e.Y)
}

// TransformPlan is the resolved geometry for one request. The engine applies
// Resize first, then Extract against the resized canvas.
type TransformPlan struct {
	Resize  *ResizeCommand  `json:"resize,omitempty"`
	Extract *ExtractCommand `json:"extract,omitempty"`
}

// Empty reports whether the plan carries no geometry at all.
func (p TransformPlan) Empty() bool {
	return p.Resize == nil && p.Extract == nil
}

// Canvas returns the extent Extract is applied to: the command's own size for
// inside and contain, the box clamped to the source for cover without
// enlargement.
func (p TransformPlan) Canvas(src Dimensions) Dimensions {
	if p.Resize == nil {
		return src
	}
	box := Dimensions{Width: p.Resize.Width, Height: p.Resize.Height}
	switch p.Resize.Fit {
	case FitInside, FitContain:
		return box
	default:
		if !p.Resize.AllowEnlargement {
			box.Width = min(box.Width, src.Width)
			box.Height = min(box.Height, src.Height)
		}
		return box
	}
}

// Output returns the extent of the final image.
func (p TransformPlan) Output(src Dimensions) Dimensions {
	if p.Extract != nil {
		return Dimensions{Width: p.Extract.Width, Height: p.Extract.Height}
	}
	return p.Canvas(src)
}

// Check verifies that Extract lies within the canvas produced by Resize.
func (p TransformPlan) Check(src Dimensions) error {
	if p.Extract == nil {
		return nil
	}
	canvas := p.Canvas(src)
	e := p.Extract
	if e.X < 0 || e.Y < 0 || e.Width <= 0 || e.Height <= 0 ||
		e.X+e.Width > canvas.Width || e.Y+e.Height > canvas.Height {
		return fmt.Errorf("%w: %s on %s", ErrExtractOutOfBounds, e, canvas)
	}
	return nil
}

// OutcomeKind tags an Outcome.
type OutcomeKind int

const (
	// Passthrough means the image is forwarded without geometry.
	Passthrough OutcomeKind = iota
	Planned
	Failed
)

func (k OutcomeKind) String() string {
	switch k {
	case Passthrough:
		return "passthrough"
	case Planned:
		return "plan"
	case Failed:
		return "failure"
	}
	return "unknown"
}

// Outcome is the result of resolving a request: exactly one of a passthrough,
// a plan, or a failure.
type Outcome struct {
	Kind OutcomeKind
	Plan TransformPlan
	Err  error
}

func passthrough() Outcome            { return Outcome{Kind: Passthrough} }
func planned(p TransformPlan) Outcome { return Outcome{Kind: Planned, Plan: p} }
func failed(err error) Outcome        { return Outcome{Kind: Failed, Err: err} }
