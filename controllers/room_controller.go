package controllers

import (
	"io"
	"net/http"

	"hotel-admin/models"
	"hotel-admin/services"
	"hotel-admin/utils"

	"github.com/gin-gonic/gin"
)

const maxImageUpload = 10 << 20

type RoomController struct {
	RoomSvc        *services.RoomService
	BookingSvc     *services.BookingService
	MaintenanceSvc *services.MaintenanceService
}

func NewRoomController(rooms *services.RoomService, bookings *services.BookingService, maintenance *services.MaintenanceService) *RoomController {
	return &RoomController{RoomSvc: rooms, BookingSvc: bookings, MaintenanceSvc: maintenance}
}

type roomStatusPayload struct {
	Status models.RoomStatus `json:"status"`
}

type roomImagesPayload struct {
	Images []string `json:"images"`
}

type roomImagePayload struct {
	Image string `json:"image"`
}

// GET /api/rooms?status=
func (rc *RoomController) GetRooms(c *gin.Context) {
	status := models.RoomStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidStatus", "unknown room status: "+string(status))
		return
	}

	rooms, err := rc.RoomSvc.List(c.Request.Context(), status)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

// GET /api/rooms/:id
func (rc *RoomController) GetRoom(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	room, err := rc.RoomSvc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

// POST /api/rooms
func (rc *RoomController) CreateRoom(c *gin.Context) {
	var in services.RoomInput
	if err := c.ShouldBindJSON(&in); err != nil {
		invalidPayload(c, err)
		return
	}

	room, err := rc.RoomSvc.Create(c.Request.Context(), in, actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, room)
}

// PATCH /api/rooms/:id
func (rc *RoomController) UpdateRoom(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in services.RoomUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		invalidPayload(c, err)
		return
	}

	room, err := rc.RoomSvc.Update(c.Request.Context(), id, in, actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

// PATCH /api/rooms/:id/status
func (rc *RoomController) UpdateRoomStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var payload roomStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		invalidPayload(c, err)
		return
	}
	if !payload.Status.Valid() {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidStatus", "unknown room status: "+string(payload.Status))
		return
	}

	if err := rc.RoomSvc.SetRoomStatus(c.Request.Context(), id, payload.Status, actor(c)); err != nil {
		respondError(c, err)
		return
	}
	room, err := rc.RoomSvc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

// DELETE /api/rooms/:id
func (rc *RoomController) DeleteRoom(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := rc.RoomSvc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusOK, "Room deleted successfully")
}

// PUT /api/rooms/:id/images replaces the ordered image list.
func (rc *RoomController) ReplaceImages(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var payload roomImagesPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		invalidPayload(c, err)
		return
	}

	room, err := rc.RoomSvc.UpdateImages(c.Request.Context(), id, payload.Images, actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

// POST /api/rooms/:id/images takes either a multipart "image" file or a
// JSON {"image": "<base64>"} body.
func (rc *RoomController) AddImage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if fh, err := c.FormFile("image"); err == nil {
		if fh.Size > maxImageUpload {
			utils.JSONError(c, http.StatusRequestEntityTooLarge, "error.imageTooLarge", "image exceeds 10 MB")
			return
		}
		f, err := fh.Open()
		if err != nil {
			invalidPayload(c, err)
			return
		}
		defer f.Close()

		data, err := io.ReadAll(io.LimitReader(f, maxImageUpload))
		if err != nil {
			invalidPayload(c, err)
			return
		}
		room, err := rc.RoomSvc.AddImageBytes(ctx, id, data, actor(c))
		if err != nil {
			respondError(c, err)
			return
		}
		utils.JSONSuccess(c, http.StatusCreated, room)
		return
	}

	var payload roomImagePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		invalidPayload(c, err)
		return
	}
	room, err := rc.RoomSvc.AddImage(ctx, id, payload.Image, actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, room)
}

// GET /api/rooms/:id/bookings
func (rc *RoomController) GetRoomBookings(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	bookings, err := rc.BookingSvc.ListByRoom(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, bookings)
}

// GET /api/rooms/:id/maintenance
func (rc *RoomController) GetRoomMaintenance(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	records, err := rc.MaintenanceSvc.ListByRoom(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, records)
}
