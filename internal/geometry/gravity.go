package geometry

import (
	"fmt"
	"strings"
)

// Gravity anchors a crop inside a larger extent. Each compass token combines a
// horizontal component (west, center, east) with a vertical one (north,
// center, south).
type Gravity string

const (
	GravityCenter    Gravity = "center"
	GravityNorth     Gravity = "north"
	GravityNorthEast Gravity = "northeast"
	GravityEast      Gravity = "east"
	GravitySouthEast Gravity = "southeast"
	GravitySouth     Gravity = "south"
	GravitySouthWest Gravity = "southwest"
	GravityWest      Gravity = "west"
	GravityNorthWest Gravity = "northwest"
)

var gravityShortCodes = map[string]Gravity{
	"c":  GravityCenter,
	"n":  GravityNorth,
	"ne": GravityNorthEast,
	"e":  GravityEast,
	"se": GravitySouthEast,
	"s":  GravitySouth,
	"sw": GravitySouthWest,
	"w":  GravityWest,
	"nw": GravityNorthWest,
}

// ParseGravity accepts a compass name or its short code. Empty means center.
func ParseGravity(s string) (Gravity, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return GravityCenter, nil
	}
	if g, ok := gravityShortCodes[s]; ok {
		return g, nil
	}
	for _, g := range gravityShortCodes {
		if string(g) == s {
			return g, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGravity, s)
}

func (g Gravity) orDefault() Gravity {
	if g == "" {
		return GravityCenter
	}
	return g
}

type axis int

const (
	axisStart axis = iota
	axisCenter
	axisEnd
)

func (g Gravity) horizontal() axis {
	switch g {
	case GravityWest, GravityNorthWest, GravitySouthWest:
		return axisStart
	case GravityEast, GravityNorthEast, GravitySouthEast:
		return axisEnd
	}
	return axisCenter
}

func (g Gravity) vertical() axis {
	switch g {
	case GravityNorth, GravityNorthWest, GravityNorthEast:
		return axisStart
	case GravitySouth, GravitySouthWest, GravitySouthEast:
		return axisEnd
	}
	return axisCenter
}

// Point is a pixel offset.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ResolveGravity returns the origin of a dstW x dstH rectangle anchored by g
// inside a srcW x srcH extent. An axis on which the rectangle does not fit
// resolves to 0.
func ResolveGravity(g Gravity, srcW, srcH, dstW, dstH int) Point {
	return Point{
		X: offset(g.horizontal(), srcW-dstW),
		Y: offset(g.vertical(), srcH-dstH),
	}
}

func offset(a axis, free int) int {
	if free <= 0 {
		return 0
	}
	switch a {
	case axisStart:
		return 0
	case axisEnd:
		return free
	default:
		return free / 2
	}
}
