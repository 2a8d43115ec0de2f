package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/image-transform/internal/geometry"
	"github.com/phambaophuc/image-transform/internal/models"
)

// ResolvePlan answers what a transform would do to an image of the given
// size, without any pixels.
func (h *ImageHandler) ResolvePlan(c *gin.Context) {
	var req models.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, "Invalid plan request: "+err.Error())
		return
	}

	var m geometry.Modifiers
	switch {
	case req.Modifiers != nil:
		m = *req.Modifiers
	case req.ModifierString != "":
		parsed, err := geometry.ParseModifierString(req.ModifierString)
		if err != nil {
			h.respondFailure(c, err)
			return
		}
		m = parsed
	default:
		h.respondError(c, http.StatusBadRequest, "modifiers or modifier_string is required")
		return
	}

	out := geometry.Resolve(m, req.Source)
	resp := models.PlanResponse{
		Outcome:   out.Kind.String(),
		Modifiers: m,
	}

	switch out.Kind {
	case geometry.Failed:
		h.respondFailure(c, out.Err)
		return
	case geometry.Planned:
		plan := out.Plan
		output := plan.Output(req.Source)
		resp.Plan = &plan
		resp.Output = &output
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    resp,
	})
}
