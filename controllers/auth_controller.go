package controllers

import (
	"net/http"
	"strings"

	"hotel-admin/middleware"
	"hotel-admin/permissions"
	"hotel-admin/services"
	"hotel-admin/utils"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthSvc *services.AuthService
}

func NewAuthController(svc *services.AuthService) *AuthController {
	return &AuthController{AuthSvc: svc}
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type checkPayload struct {
	Capability string `json:"capability"`
}

// POST /api/auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		invalidPayload(c, err)
		return
	}
	if strings.TrimSpace(payload.Email) == "" || payload.Password == "" {
		utils.JSONError(c, http.StatusBadRequest, "error.validation", "email and password required")
		return
	}

	session, err := ac.AuthSvc.SignIn(c.Request.Context(), payload.Email, payload.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, session)
}

// GET /api/auth/me
func (ac *AuthController) Me(c *gin.Context) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "error.unauthorized", "authentication required")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, p)
}

// POST /api/auth/check {"capability": "canManageRooms"}
func (ac *AuthController) CheckPermission(c *gin.Context) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "error.unauthorized", "authentication required")
		return
	}
	var payload checkPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		invalidPayload(c, err)
		return
	}
	capability, known := permissions.ParseCapability(payload.Capability)
	if !known {
		utils.JSONError(c, http.StatusBadRequest, "error.unknownCapability", "unknown capability: "+payload.Capability)
		return
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"capability": capability,
		"allowed":    p.Permissions.Allows(capability),
	})
}
