package geometry

// Fill is the cover-then-trim geometry: resize the source to Resize, then cut
// Crop out of the resized image.
type Fill struct {
	Resize Dimensions
	Crop   ExtractCommand
}

// ComputeFill scales src by the smallest factor that covers target on both
// axes and positions a target-sized crop inside the result using g.
//
// The resized extent is rounded half-up with integer arithmetic, so the axis
// that drives the scale always lands exactly on the target.
func ComputeFill(src, target Dimensions, g Gravity) (Fill, error) {
	if err := src.check(); err != nil {
		return Fill{}, err
	}
	if !target.Valid() {
		return Fill{}, invalid("size", ErrInvalidDimension)
	}

	sw, sh := int64(src.Width), int64(src.Height)
	tw, th := int64(target.Width), int64(target.Height)

	var rw, rh int64
	if tw*sh >= th*sw {
		// width scale dominates
		rw = tw
		rh = roundDiv(sh*tw, sw)
	} else {
		rh = th
		rw = roundDiv(sw*th, sh)
	}
	resized := Dimensions{Width: int(max(rw, 1)), Height: int(max(rh, 1))}

	cw := min(target.Width, resized.Width)
	ch := min(target.Height, resized.Height)
	origin := ResolveGravity(g.orDefault(), resized.Width, resized.Height, cw, ch)

	return Fill{
		Resize: resized,
		Crop: ExtractCommand{
			X:      origin.X,
			Y:      origin.Y,
			Width:  cw,
			Height: ch,
		},
	}, nil
}

// roundDiv returns n/d rounded half-up for non-negative n and positive d.
func roundDiv(n, d int64) int64 {
	return (2*n + d) / (2 * d)
}

// ContainSize is the largest aspect-preserving extent that fits inside box.
// Without enlargement a source that already fits is returned unchanged.
func ContainSize(src, box Dimensions, enlarge bool) Dimensions {
	if !enlarge && src.Width <= box.Width && src.Height <= box.Height {
		return src
	}

	sw, sh := int64(src.Width), int64(src.Height)
	bw, bh := int64(box.Width), int64(box.Height)

	var w, h int64
	if bw*sh <= bh*sw {
		w = bw
		h = roundDiv(sh*bw, sw)
	} else {
		h = bh
		w = roundDiv(sw*bh, sh)
	}
	return Dimensions{Width: int(max(w, 1)), Height: int(max(h, 1))}
}
