package middleware

import (
	"errors"
	"net/http"
	"strings"

	"hotel-admin/services"
	"hotel-admin/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	ctxUserID    = "userID"
	ctxPrincipal = "principal"
)

// Auth validates the bearer token and loads the caller's principal. Browsers
// cannot set headers on websocket upgrades, so ?token= is accepted as well.
func Auth(tokens *utils.TokenIssuer, access *services.AccessService) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			raw = c.Query("token")
		}
		if raw == "" {
			utils.AbortWithError(c, http.StatusUnauthorized, "error.unauthorized", "missing bearer token")
			return
		}

		claims, err := tokens.ValidateToken(raw)
		if err != nil {
			utils.AbortWithError(c, http.StatusUnauthorized, "error.invalidToken", "invalid or expired token")
			return
		}

		p, err := access.Principal(c.Request.Context(), claims.UserID)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserNotFound):
				utils.AbortWithError(c, http.StatusUnauthorized, "error.invalidToken", "account no longer exists")
			case errors.Is(err, services.ErrNotStaff), errors.Is(err, services.ErrAccountInactive):
				utils.AbortWithError(c, http.StatusForbidden, "error.accessDenied", err.Error())
			default:
				zerolog.Ctx(c.Request.Context()).Error().Err(err).Uint("user_id", claims.UserID).Msg("failed to load principal")
				utils.AbortWithError(c, http.StatusInternalServerError, "error.internal", "failed to load account")
			}
			return
		}

		c.Set(ctxUserID, p.UserID)
		c.Set(ctxPrincipal, p)

		logger := zerolog.Ctx(c.Request.Context()).With().Uint("user_id", p.UserID).Logger()
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context()))
		c.Next()
	}
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

// CurrentPrincipal returns the principal set by Auth.
func CurrentPrincipal(c *gin.Context) (services.Principal, bool) {
	v, ok := c.Get(ctxPrincipal)
	if !ok {
		return services.Principal{}, false
	}
	p, ok := v.(services.Principal)
	return p, ok
}
