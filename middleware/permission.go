package middleware

import (
	"net/http"

	"hotel-admin/permissions"
	"hotel-admin/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RequireCapability lets the request through only when the caller's
// resolved permission set allows cap. Must run after Auth.
func RequireCapability(cap permissions.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := CurrentPrincipal(c)
		if !ok {
			utils.AbortWithError(c, http.StatusUnauthorized, "error.unauthorized", "authentication required")
			return
		}
		if !p.Permissions.Allows(cap) {
			zerolog.Ctx(c.Request.Context()).Warn().
				Str("capability", string(cap)).
				Str("role", string(p.Role)).
				Msg("capability denied")
			utils.AbortWithError(c, http.StatusForbidden, "error.accessDenied", "you do not have permission to perform this action")
			return
		}
		c.Next()
	}
}
