package controllers

import (
	"net/http"

	"hotel-admin/models"
	"hotel-admin/services"
	"hotel-admin/utils"

	"github.com/gin-gonic/gin"
)

type StaffController struct {
	StaffSvc *services.StaffService
}

func NewStaffController(svc *services.StaffService) *StaffController {
	return &StaffController{StaffSvc: svc}
}

// GET /api/staff?role=admin|staff
func (sc *StaffController) GetStaff(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		staff []models.User
		err   error
	)
	if role := models.Role(c.Query("role")); role != "" {
		if !role.IsStaff() {
			utils.JSONError(c, http.StatusBadRequest, "error.invalidRole", "role must be admin or staff")
			return
		}
		staff, err = sc.StaffSvc.ListByRole(ctx, role)
	} else {
		staff, err = sc.StaffSvc.List(ctx)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, staff)
}

func (sc *StaffController) GetStaffMember(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	member, err := sc.StaffSvc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, member)
}

func (sc *StaffController) CreateStaff(c *gin.Context) {
	var in services.StaffInput
	if err := c.ShouldBindJSON(&in); err != nil {
		invalidPayload(c, err)
		return
	}

	member, err := sc.StaffSvc.Create(c.Request.Context(), caller(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, member)
}

func (sc *StaffController) UpdateStaff(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in services.StaffUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		invalidPayload(c, err)
		return
	}

	member, err := sc.StaffSvc.Update(c.Request.Context(), caller(c), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, member)
}

func (sc *StaffController) DeleteStaff(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := sc.StaffSvc.Delete(c.Request.Context(), caller(c), id); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusOK, "Staff member deleted successfully")
}
