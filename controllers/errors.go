package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"hotel-admin/middleware"
	"hotel-admin/services"
	"hotel-admin/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// respondError maps service errors onto the error envelope.
func respondError(c *gin.Context, err error) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "error.validation",
				"message": "invalid input",
				"fields":  verr.Fields,
			},
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrRoomNotFound):
		utils.JSONError(c, http.StatusNotFound, "error.roomNotFound", err.Error())
	case errors.Is(err, services.ErrBookingNotFound):
		utils.JSONError(c, http.StatusNotFound, "error.bookingNotFound", err.Error())
	case errors.Is(err, services.ErrMaintenanceNotFound):
		utils.JSONError(c, http.StatusNotFound, "error.maintenanceNotFound", err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		utils.JSONError(c, http.StatusNotFound, "error.userNotFound", err.Error())
	case errors.Is(err, services.ErrDuplicateRoomNumber):
		utils.JSONError(c, http.StatusConflict, "error.duplicateRoomNumber", err.Error())
	case errors.Is(err, services.ErrEmailTaken):
		utils.JSONError(c, http.StatusConflict, "error.emailTaken", err.Error())
	case errors.Is(err, services.ErrCannotDeleteAdmin):
		utils.JSONError(c, http.StatusForbidden, "error.cannotDeleteAdmin", err.Error())
	case errors.Is(err, services.ErrLastAdmin):
		utils.JSONError(c, http.StatusConflict, "error.lastAdmin", err.Error())
	case errors.Is(err, services.ErrAdminOnly):
		utils.JSONError(c, http.StatusForbidden, "error.accessDenied", err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.JSONError(c, http.StatusUnauthorized, "error.invalidCredentials", err.Error())
	case errors.Is(err, services.ErrNotStaff), errors.Is(err, services.ErrAccountInactive):
		utils.JSONError(c, http.StatusForbidden, "error.accessDenied", err.Error())
	default:
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		utils.JSONError(c, http.StatusInternalServerError, "error.internal", "internal server error")
	}
}

func invalidPayload(c *gin.Context, err error) {
	utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", "invalid request payload: "+err.Error())
}

// parseID reads a positive numeric path parameter.
func parseID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidId", "invalid "+name+": "+raw)
		return 0, false
	}
	return uint(id), true
}

// parseDateQuery accepts YYYY-MM-DD or RFC 3339.
func parseDateQuery(c *gin.Context, name string) (time.Time, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidDate", name+" is required")
		return time.Time{}, false
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	utils.JSONError(c, http.StatusBadRequest, "error.invalidDate", name+" must be YYYY-MM-DD or RFC 3339")
	return time.Time{}, false
}

// caller is the authenticated principal; routes behind Auth always have one.
func caller(c *gin.Context) services.Principal {
	p, _ := middleware.CurrentPrincipal(c)
	return p
}

// actor is the audit name recorded on writes.
func actor(c *gin.Context) string {
	if p, ok := middleware.CurrentPrincipal(c); ok {
		return p.Email
	}
	return "unknown"
}
