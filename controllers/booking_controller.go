// controllers/booking_controller.go
package controllers

import (
	"errors"
	"net/http"

	"hotel-admin/services"
	"hotel-admin/utils"

	"github.com/gin-gonic/gin"
)

type BookingController struct {
	BookingSvc *services.BookingService
}

func NewBookingController(svc *services.BookingService) *BookingController {
	return &BookingController{BookingSvc: svc}
}

// GET /api/bookings
func (bc *BookingController) GetBookings(c *gin.Context) {
	bookings, err := bc.BookingSvc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, bookings)
}

// GET /api/bookings/range?start=&end=
func (bc *BookingController) GetBookingsByDateRange(c *gin.Context) {
	start, ok := parseDateQuery(c, "start")
	if !ok {
		return
	}
	end, ok := parseDateQuery(c, "end")
	if !ok {
		return
	}
	if end.Before(start) {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidDate", "end must not be before start")
		return
	}

	bookings, err := bc.BookingSvc.ListByDateRange(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, bookings)
}

// GET /api/bookings/:id
func (bc *BookingController) GetBooking(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	booking, err := bc.BookingSvc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// GET /api/bookings/:id/history
func (bc *BookingController) GetBookingHistory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	events, err := bc.BookingSvc.History(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, events)
}

// POST /api/bookings
func (bc *BookingController) CreateBooking(c *gin.Context) {
	var in services.BookingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		invalidPayload(c, err)
		return
	}

	created, err := bc.BookingSvc.Create(c.Request.Context(), in, actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, created)
}

// PATCH /api/bookings/:id
//
// 200 when the booking (and, if status changed, the room) was written. 202
// when the booking was written but the room status write failed.
func (bc *BookingController) UpdateBooking(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var upd services.BookingUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		invalidPayload(c, err)
		return
	}

	result, err := bc.BookingSvc.Update(c.Request.Context(), id, upd, actor(c))
	bc.respondSync(c, result, err)
}

// POST /api/bookings/:id/sync-room retries only the room status write.
func (bc *BookingController) SyncRoom(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	result, err := bc.BookingSvc.RetryRoomSync(c.Request.Context(), id, actor(c))
	bc.respondSync(c, result, err)
}

func (bc *BookingController) respondSync(c *gin.Context, result services.SyncResult, err error) {
	if err != nil {
		if errors.Is(err, services.ErrRoomSyncPending) {
			c.JSON(http.StatusAccepted, gin.H{
				"status": "partial",
				"data":   result,
				"error": gin.H{
					"code":    "error.roomSyncPending",
					"message": "booking saved; room status update failed and will be retried",
				},
			})
			return
		}
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, result)
}

// DELETE /api/bookings/:id
func (bc *BookingController) DeleteBooking(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := bc.BookingSvc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusOK, "Booking deleted successfully")
}
