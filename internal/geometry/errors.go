package geometry

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingDimension is returned when an action needs a width or height that was not given.
	ErrMissingDimension = errors.New("geometry: missing dimension")

	// ErrInvalidDimension is returned for a requested width or height that is not a positive integer.
	ErrInvalidDimension = errors.New("geometry: invalid dimension")

	// ErrInvalidDimensions is returned when source dimensions are zero or negative.
	ErrInvalidDimensions = errors.New("geometry: invalid source dimensions")

	// ErrUnknownCropMode is returned for a crop token outside fit|fill|fullcover|cut|scale|pad.
	ErrUnknownCropMode = errors.New("geometry: unknown crop mode")

	ErrUnknownAction    = errors.New("geometry: unknown action")
	ErrUnknownGravity   = errors.New("geometry: unknown gravity")
	ErrUnknownFormat    = errors.New("geometry: unknown output format")
	ErrUnknownModifier  = errors.New("geometry: unknown modifier")
	ErrInvalidQuality   = errors.New("geometry: quality must be between 1 and 100")
	ErrExtentExceedsSrc = errors.New("geometry: requested extent exceeds source")

	// ErrExtractOutOfBounds means a plan's extract rectangle does not fit the
	// canvas it is applied to. The resolver never produces such a plan.
	ErrExtractOutOfBounds = errors.New("geometry: extract outside canvas")
)

// ValidationError reports a bad or missing modifier field.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

// IsValidationError reports whether err was caused by the caller's request
// rather than by the image or the engine.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) || errors.Is(err, ErrInvalidDimensions)
}
