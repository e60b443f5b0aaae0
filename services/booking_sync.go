package services

import (
	"context"
	"fmt"
	"time"

	"hotel-admin/models"
	"hotel-admin/realtime"

	"github.com/rs/zerolog"
)

// DetermineRoomStatus maps a booking's effective (status, paymentStatus) pair
// onto the owning room's status. Only a confirmed and paid booking occupies
// the room; every other combination, including a completed stay, frees it.
func DetermineRoomStatus(status models.BookingStatus, payment models.PaymentStatus) models.RoomStatus {
	if status == models.BookingConfirmed && payment == models.PaymentCompleted {
		return models.RoomOccupied
	}
	return models.RoomAvailable
}

// EffectivePair merges the fields supplied by an update over the persisted booking.
func EffectivePair(current models.Booking, upd BookingUpdate) (models.BookingStatus, models.PaymentStatus) {
	status, payment := current.Status, current.PaymentStatus
	if upd.Status != nil {
		status = *upd.Status
	}
	if upd.PaymentStatus != nil {
		payment = *upd.PaymentStatus
	}
	return status, payment
}

// BookingUpdate is a partial booking edit; nil fields keep their persisted value.
type BookingUpdate struct {
	Status          *models.BookingStatus `json:"status" validate:"omitempty,bookingstatus"`
	PaymentStatus   *models.PaymentStatus `json:"paymentStatus" validate:"omitempty,paymentstatus"`
	GuestName       *string               `json:"guestName" validate:"omitempty,min=1,max=255"`
	GuestEmail      *string               `json:"guestEmail" validate:"omitempty,email"`
	GuestPhone      *string               `json:"guestPhone" validate:"omitempty,max=50"`
	CheckIn         *time.Time            `json:"checkIn"`
	CheckOut        *time.Time            `json:"checkOut"`
	TotalPrice      *float64              `json:"totalPrice" validate:"omitempty,gte=0"`
	SpecialRequests *string               `json:"specialRequests"`
}

// TouchesStatus reports whether the update carries a status or payment status.
func (u BookingUpdate) TouchesStatus() bool {
	return u.Status != nil || u.PaymentStatus != nil
}

func (u BookingUpdate) columns(actor string) map[string]interface{} {
	cols := map[string]interface{}{"updated_by": actor}
	if u.Status != nil {
		cols["status"] = *u.Status
	}
	if u.PaymentStatus != nil {
		cols["payment_status"] = *u.PaymentStatus
	}
	if u.GuestName != nil {
		cols["guest_name"] = *u.GuestName
	}
	if u.GuestEmail != nil {
		cols["guest_email"] = *u.GuestEmail
	}
	if u.GuestPhone != nil {
		cols["guest_phone"] = *u.GuestPhone
	}
	if u.CheckIn != nil {
		cols["check_in"] = *u.CheckIn
	}
	if u.CheckOut != nil {
		cols["check_out"] = *u.CheckOut
	}
	if u.TotalPrice != nil {
		cols["total_price"] = *u.TotalPrice
	}
	if u.SpecialRequests != nil {
		cols["special_requests"] = *u.SpecialRequests
	}
	return cols
}

// BookingStore reads and writes booking rows.
type BookingStore interface {
	FindBooking(ctx context.Context, id uint) (models.Booking, error)
	SaveBooking(ctx context.Context, id uint, columns map[string]interface{}) (models.Booking, error)
}

// RoomMutator writes a room's status.
type RoomMutator interface {
	SetRoomStatus(ctx context.Context, roomID uint, status models.RoomStatus, actor string) error
}

// EventRecorder keeps the booking status history.
type EventRecorder interface {
	RecordStatusEvent(ctx context.Context, ev *models.BookingStatusEvent) error
	MarkRoomSynced(ctx context.Context, bookingID uint, at time.Time) error
}

type SyncOutcome string

const (
	// SyncNotRequired: the update carried no status field; the room was not touched.
	SyncNotRequired SyncOutcome = "not_required"
	// SyncApplied: booking and room were both written.
	SyncApplied SyncOutcome = "applied"
	// SyncRoomPending: the booking was written, the room write failed.
	SyncRoomPending SyncOutcome = "room_pending"
)

// SyncResult is the combined outcome of a booking write and its dependent room write.
type SyncResult struct {
	Booking    models.Booking    `json:"booking"`
	Outcome    SyncOutcome       `json:"outcome"`
	RoomStatus models.RoomStatus `json:"roomStatus,omitempty"`
	RoomError  string            `json:"roomError,omitempty"`
}

// StatusSynchronizer applies booking updates and keeps the owning room's
// status consistent with the booking's effective status pair. The two writes
// are not atomic; a failed room write is reported as SyncRoomPending and can
// be retried on its own with RetryRoomSync.
type StatusSynchronizer struct {
	bookings BookingStore
	rooms    RoomMutator
	history  EventRecorder
	events   Publisher
	now      func() time.Time
}

func NewStatusSynchronizer(bookings BookingStore, rooms RoomMutator, history EventRecorder, events Publisher) *StatusSynchronizer {
	return &StatusSynchronizer{
		bookings: bookings,
		rooms:    rooms,
		history:  history,
		events:   publisherOrNop(events),
		now:      time.Now,
	}
}

// Apply reads the persisted booking, writes the update and, when the update
// changes status or payment status, writes the derived room status.
//
// A missing booking yields ErrBookingNotFound and nothing is written. When the
// room write fails the returned result has Outcome SyncRoomPending and the
// error wraps ErrRoomSyncPending; the booking write is not rolled back.
func (s *StatusSynchronizer) Apply(ctx context.Context, bookingID uint, upd BookingUpdate, actor string) (SyncResult, error) {
	if err := validateStruct(upd); err != nil {
		return SyncResult{}, err
	}

	current, err := s.bookings.FindBooking(ctx, bookingID)
	if err != nil {
		return SyncResult{}, err
	}

	checkIn, checkOut := current.CheckIn, current.CheckOut
	if upd.CheckIn != nil {
		checkIn = *upd.CheckIn
	}
	if upd.CheckOut != nil {
		checkOut = *upd.CheckOut
	}
	if (upd.CheckIn != nil || upd.CheckOut != nil) && !checkOut.After(checkIn) {
		return SyncResult{}, newValidationError("checkOut", "must be after checkIn")
	}

	updated, err := s.bookings.SaveBooking(ctx, bookingID, upd.columns(actor))
	if err != nil {
		return SyncResult{}, fmt.Errorf("update booking %d: %w", bookingID, err)
	}
	s.events.Publish(realtime.TopicBookings, "updated", updated.ID, updated)

	if !upd.TouchesStatus() {
		return SyncResult{Booking: updated, Outcome: SyncNotRequired}, nil
	}

	status, payment := EffectivePair(current, upd)
	return s.syncRoom(ctx, updated, status, payment, actor, true)
}

// RetryRoomSync performs only the dependent room write, deriving the room
// status from the booking as currently persisted.
func (s *StatusSynchronizer) RetryRoomSync(ctx context.Context, bookingID uint, actor string) (SyncResult, error) {
	current, err := s.bookings.FindBooking(ctx, bookingID)
	if err != nil {
		return SyncResult{}, err
	}
	return s.syncRoom(ctx, current, current.Status, current.PaymentStatus, actor, false)
}

func (s *StatusSynchronizer) syncRoom(
	ctx context.Context,
	booking models.Booking,
	status models.BookingStatus,
	payment models.PaymentStatus,
	actor string,
	record bool,
) (SyncResult, error) {
	logger := zerolog.Ctx(ctx)
	roomStatus := DetermineRoomStatus(status, payment)

	roomErr := s.rooms.SetRoomStatus(ctx, booking.RoomID, roomStatus, actor)
	now := s.now()

	if record && s.history != nil {
		ev := &models.BookingStatusEvent{
			BookingID:     booking.ID,
			RoomID:        booking.RoomID,
			Status:        status,
			PaymentStatus: payment,
			RoomStatus:    roomStatus,
			RoomSynced:    roomErr == nil,
			CreatedBy:     actor,
		}
		if roomErr == nil {
			ev.SyncedAt = &now
		} else {
			ev.SyncError = roomErr.Error()
		}
		if err := s.history.RecordStatusEvent(ctx, ev); err != nil {
			logger.Warn().Err(err).Uint("booking_id", booking.ID).Msg("failed to record booking status event")
		}
	}

	if roomErr != nil {
		logger.Error().
			Err(roomErr).
			Str("event", "room_status_divergence").
			Uint("booking_id", booking.ID).
			Uint("room_id", booking.RoomID).
			Str("booking_status", string(status)).
			Str("payment_status", string(payment)).
			Str("room_status", string(roomStatus)).
			Msg("room status diverged from booking")

		pending := SyncResult{
			Booking:    booking,
			Outcome:    SyncRoomPending,
			RoomStatus: roomStatus,
			RoomError:  roomErr.Error(),
		}
		return pending, fmt.Errorf("%w: booking %d, room %d: %w", ErrRoomSyncPending, booking.ID, booking.RoomID, roomErr)
	}

	if s.history != nil {
		if err := s.history.MarkRoomSynced(ctx, booking.ID, now); err != nil {
			logger.Warn().Err(err).Uint("booking_id", booking.ID).Msg("failed to mark room sync")
		}
	}

	return SyncResult{Booking: booking, Outcome: SyncApplied, RoomStatus: roomStatus}, nil
}
