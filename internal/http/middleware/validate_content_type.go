package middleware

import (
	"mime"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/image-transform/internal/models"
)

// ValidateContentType rejects request bodies whose media type is not one of
// allowed. Bodiless methods are let through.
func ValidateContentType(allowed ...string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		switch ctx.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodDelete, http.MethodOptions:
			ctx.Next()
			return
		}

		mediaType, _, err := mime.ParseMediaType(ctx.GetHeader("Content-Type"))
		if err == nil {
			for _, t := range allowed {
				if mediaType == t {
					ctx.Next()
					return
				}
			}
		}

		ctx.AbortWithStatusJSON(http.StatusUnsupportedMediaType, models.APIResponse{
			Success: false,
			Error:   "unsupported content type, expected one of " + strings.Join(allowed, ", "),
		})
	}
}
