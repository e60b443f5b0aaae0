package controllers

import (
	"net/http"

	"hotel-admin/services"
	"hotel-admin/utils"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardSvc *services.DashboardService
}

func NewDashboardController(svc *services.DashboardService) *DashboardController {
	return &DashboardController{DashboardSvc: svc}
}

func (dc *DashboardController) GetStats(c *gin.Context) {
	stats, err := dc.DashboardSvc.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, stats)
}
