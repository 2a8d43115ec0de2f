package models

import "github.com/phambaophuc/image-transform/internal/geometry"

// PlanRequest asks for the geometry of a transform without sending pixels.
// Either Modifiers or the compact ModifierString may be given.
type PlanRequest struct {
	Modifiers      *geometry.Modifiers `json:"modifiers,omitempty"`
	ModifierString string              `json:"modifier_string,omitempty"`
	Source         geometry.Dimensions `json:"source"`
}

type PlanResponse struct {
	Outcome   string                  `json:"outcome"`
	Modifiers geometry.Modifiers      `json:"modifiers"`
	Plan      *geometry.TransformPlan `json:"plan,omitempty"`
	Output    *geometry.Dimensions    `json:"output,omitempty"`
}
