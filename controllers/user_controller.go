package controllers

import (
	"net/http"

	"hotel-admin/models"
	"hotel-admin/services"
	"hotel-admin/utils"

	"github.com/gin-gonic/gin"
)

// UserController serves guest accounts and role changes.
type UserController struct {
	UserSvc *services.UserService
}

func NewUserController(svc *services.UserService) *UserController {
	return &UserController{UserSvc: svc}
}

type userStatusPayload struct {
	Active *bool `json:"active"`
}

type userRolePayload struct {
	Role models.Role `json:"role"`
}

// GET /api/users?status=active|disabled
func (uc *UserController) GetUsers(c *gin.Context) {
	users, err := uc.UserSvc.List(c.Request.Context(), models.AccountStatus(c.Query("status")))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, users)
}

func (uc *UserController) GetUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	user, err := uc.UserSvc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, user)
}

func (uc *UserController) CreateUser(c *gin.Context) {
	var in services.GuestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		invalidPayload(c, err)
		return
	}

	user, err := uc.UserSvc.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, user)
}

func (uc *UserController) UpdateUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in services.GuestUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		invalidPayload(c, err)
		return
	}

	user, err := uc.UserSvc.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, user)
}

func (uc *UserController) DeleteUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := uc.UserSvc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusOK, "User deleted successfully")
}

// PATCH /api/users/:id/status {"active": bool}
func (uc *UserController) ToggleUserStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var payload userStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		invalidPayload(c, err)
		return
	}
	if payload.Active == nil {
		utils.JSONError(c, http.StatusBadRequest, "error.validation", "active is required")
		return
	}

	user, err := uc.UserSvc.ToggleStatus(c.Request.Context(), id, *payload.Active)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, user)
}

// PATCH /api/users/:id/role {"role": "admin|staff|user"}
func (uc *UserController) UpdateUserRole(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var payload userRolePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		invalidPayload(c, err)
		return
	}

	user, err := uc.UserSvc.UpdateRole(c.Request.Context(), id, payload.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, user)
}
