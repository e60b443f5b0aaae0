package controllers

import (
	"errors"
	"net/http"

	"hotel-admin/services"
	"hotel-admin/utils"

	"github.com/gin-gonic/gin"
)

type MaintenanceController struct {
	MaintenanceSvc *services.MaintenanceService
}

func NewMaintenanceController(svc *services.MaintenanceService) *MaintenanceController {
	return &MaintenanceController{MaintenanceSvc: svc}
}

func (mc *MaintenanceController) GetMaintenance(c *gin.Context) {
	records, err := mc.MaintenanceSvc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, records)
}

func (mc *MaintenanceController) GetMaintenanceByDateRange(c *gin.Context) {
	start, ok := parseDateQuery(c, "start")
	if !ok {
		return
	}
	end, ok := parseDateQuery(c, "end")
	if !ok {
		return
	}

	records, err := mc.MaintenanceSvc.ListByDateRange(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, records)
}

func (mc *MaintenanceController) GetMaintenanceRecord(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	record, err := mc.MaintenanceSvc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, record)
}

// POST /api/maintenance schedules the work and moves the room to maintenance.
func (mc *MaintenanceController) ScheduleMaintenance(c *gin.Context) {
	var in services.MaintenanceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		invalidPayload(c, err)
		return
	}

	scheduled, err := mc.MaintenanceSvc.Schedule(c.Request.Context(), in, actor(c))
	respondScheduled(c, http.StatusCreated, scheduled, err)
}

// POST /api/maintenance/:id/sync-room retries the room write of a record
// whose schedule came back room_pending.
func (mc *MaintenanceController) SyncRoom(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	scheduled, err := mc.MaintenanceSvc.RetryRoomSync(c.Request.Context(), id, actor(c))
	respondScheduled(c, http.StatusOK, scheduled, err)
}

func respondScheduled(c *gin.Context, status int, scheduled services.ScheduledMaintenance, err error) {
	if err != nil {
		if errors.Is(err, services.ErrRoomSyncPending) {
			c.JSON(http.StatusAccepted, gin.H{
				"status": "partial",
				"data":   scheduled,
				"error": gin.H{
					"code":    "error.roomSyncPending",
					"message": "maintenance saved; room status update failed",
				},
			})
			return
		}
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, status, scheduled)
}

func (mc *MaintenanceController) UpdateMaintenance(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in services.MaintenanceUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		invalidPayload(c, err)
		return
	}

	record, err := mc.MaintenanceSvc.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, record)
}

func (mc *MaintenanceController) DeleteMaintenance(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := mc.MaintenanceSvc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusOK, "Maintenance record deleted successfully")
}
