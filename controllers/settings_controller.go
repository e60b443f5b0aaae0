package controllers

import (
	"net/http"

	"hotel-admin/middleware"
	"hotel-admin/services"
	"hotel-admin/utils"

	"github.com/gin-gonic/gin"
)

type SettingsController struct {
	SettingsSvc *services.SettingsService
	AuthSvc     *services.AuthService
}

func NewSettingsController(settings *services.SettingsService, auth *services.AuthService) *SettingsController {
	return &SettingsController{SettingsSvc: settings, AuthSvc: auth}
}

type changePasswordPayload struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (sc *SettingsController) GetHotelSettings(c *gin.Context) {
	hotel, err := sc.SettingsSvc.Hotel(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, hotel)
}

func (sc *SettingsController) UpdateHotelSettings(c *gin.Context) {
	var in services.HotelSettingsInput
	if err := c.ShouldBindJSON(&in); err != nil {
		invalidPayload(c, err)
		return
	}

	hotel, err := sc.SettingsSvc.UpdateHotel(c.Request.Context(), in, actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, hotel)
}

// POST /api/settings/password changes the caller's own password.
func (sc *SettingsController) ChangePassword(c *gin.Context) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "error.unauthorized", "authentication required")
		return
	}
	var payload changePasswordPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		invalidPayload(c, err)
		return
	}

	if err := sc.AuthSvc.ChangePassword(c.Request.Context(), p.UserID, payload.CurrentPassword, payload.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusOK, "Password updated successfully")
}
