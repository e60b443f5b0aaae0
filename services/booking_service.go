// services/booking_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hotel-admin/models"
	"hotel-admin/realtime"

	"gorm.io/gorm"
)

type BookingInput struct {
	RoomID          uint                 `json:"roomId" validate:"required"`
	GuestName       string               `json:"guestName" validate:"required,max=255"`
	GuestEmail      string               `json:"guestEmail" validate:"required,email"`
	GuestPhone      string               `json:"guestPhone" validate:"omitempty,max=50"`
	CheckIn         time.Time            `json:"checkIn" validate:"required"`
	CheckOut        time.Time            `json:"checkOut" validate:"required,gtfield=CheckIn"`
	Status          models.BookingStatus `json:"status" validate:"omitempty,bookingstatus"`
	PaymentStatus   models.PaymentStatus `json:"paymentStatus" validate:"omitempty,paymentstatus"`
	TotalPrice      float64              `json:"totalPrice" validate:"gte=0"`
	SpecialRequests string               `json:"specialRequests"`
}

// CreatedBooking is a new booking plus the ids of other live bookings on the
// same room whose dates intersect it. Overlaps are reported, not rejected.
type CreatedBooking struct {
	Booking  models.Booking `json:"booking"`
	Overlaps []uint         `json:"overlaps"`
}

// BookingService wraps *gorm.DB for booking persistence; status edits go through Sync.
type BookingService struct {
	DB     *gorm.DB
	Sync   *StatusSynchronizer
	events Publisher
}

func NewBookingService(db *gorm.DB, rooms RoomMutator, events Publisher) *BookingService {
	s := &BookingService{DB: db, events: publisherOrNop(events)}
	s.Sync = NewStatusSynchronizer(s, rooms, s, s.events)
	return s
}

// List returns every booking, newest first.
func (s *BookingService) List(ctx context.Context) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := s.DB.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

func (s *BookingService) Get(ctx context.Context, id uint) (models.Booking, error) {
	return s.FindBooking(ctx, id)
}

func (s *BookingService) ListByRoom(ctx context.Context, roomID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.DB.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("check_in").
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("list bookings for room %d: %w", roomID, err)
	}
	return bookings, nil
}

// ListByDateRange returns bookings touching [start, end]: checkIn <= end and checkOut >= start.
func (s *BookingService) ListByDateRange(ctx context.Context, start, end time.Time) ([]models.Booking, error) {
	if end.Before(start) {
		return nil, newValidationError("end", "must not be before start")
	}

	var bookings []models.Booking
	err := s.DB.WithContext(ctx).
		Where("check_in <= ? AND check_out >= ?", end, start).
		Order("check_in").
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("list bookings by date range: %w", err)
	}
	return bookings, nil
}

// Create stores a new booking with pending/pending defaults. The room's status
// is left alone until the booking's status changes.
func (s *BookingService) Create(ctx context.Context, in BookingInput, actor string) (CreatedBooking, error) {
	in.GuestName = strings.TrimSpace(in.GuestName)
	in.GuestEmail = strings.TrimSpace(in.GuestEmail)
	if err := validateStruct(in); err != nil {
		return CreatedBooking{}, err
	}

	var roomCount int64
	if err := s.DB.WithContext(ctx).Model(&models.Room{}).Where("id = ?", in.RoomID).Count(&roomCount).Error; err != nil {
		return CreatedBooking{}, fmt.Errorf("check room %d: %w", in.RoomID, err)
	}
	if roomCount == 0 {
		return CreatedBooking{}, ErrRoomNotFound
	}

	status := in.Status
	if status == "" {
		status = models.BookingPending
	}
	payment := in.PaymentStatus
	if payment == "" {
		payment = models.PaymentPending
	}

	booking := models.Booking{
		RoomID:          in.RoomID,
		GuestName:       in.GuestName,
		GuestEmail:      in.GuestEmail,
		GuestPhone:      in.GuestPhone,
		CheckIn:         in.CheckIn,
		CheckOut:        in.CheckOut,
		Status:          status,
		PaymentStatus:   payment,
		TotalPrice:      in.TotalPrice,
		SpecialRequests: in.SpecialRequests,
		CreatedBy:       actor,
		UpdatedBy:       actor,
	}
	if err := s.DB.WithContext(ctx).Create(&booking).Error; err != nil {
		return CreatedBooking{}, fmt.Errorf("create booking: %w", err)
	}

	overlaps, err := s.FindOverlapping(ctx, booking.RoomID, booking.CheckIn, booking.CheckOut, booking.ID)
	if err != nil {
		return CreatedBooking{}, err
	}

	s.events.Publish(realtime.TopicBookings, "created", booking.ID, booking)
	return CreatedBooking{Booking: booking, Overlaps: overlaps}, nil
}

// FindOverlapping lists non-cancelled bookings on the room whose stay
// intersects [checkIn, checkOut). Back-to-back stays do not overlap.
func (s *BookingService) FindOverlapping(ctx context.Context, roomID uint, checkIn, checkOut time.Time, excludeID uint) ([]uint, error) {
	ids := []uint{}
	err := s.DB.WithContext(ctx).Model(&models.Booking{}).
		Where("room_id = ? AND id <> ? AND status <> ?", roomID, excludeID, models.BookingCancelled).
		Where("check_in < ? AND check_out > ?", checkOut, checkIn).
		Order("id").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("find overlapping bookings: %w", err)
	}
	return ids, nil
}

// Update applies a partial edit through the status synchronizer.
func (s *BookingService) Update(ctx context.Context, id uint, upd BookingUpdate, actor string) (SyncResult, error) {
	return s.Sync.Apply(ctx, id, upd, actor)
}

func (s *BookingService) RetryRoomSync(ctx context.Context, id uint, actor string) (SyncResult, error) {
	return s.Sync.RetryRoomSync(ctx, id, actor)
}

// Delete removes the booking and its status history. The room is not touched.
func (s *BookingService) Delete(ctx context.Context, id uint) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Booking{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrBookingNotFound
		}
		return tx.Where("booking_id = ?", id).Delete(&models.BookingStatusEvent{}).Error
	})
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			return err
		}
		return fmt.Errorf("delete booking %d: %w", id, err)
	}

	s.events.Publish(realtime.TopicBookings, "deleted", id, nil)
	return nil
}

// History returns the booking's status events, oldest first.
func (s *BookingService) History(ctx context.Context, id uint) ([]models.BookingStatusEvent, error) {
	if _, err := s.FindBooking(ctx, id); err != nil {
		return nil, err
	}

	var events []models.BookingStatusEvent
	if err := s.DB.WithContext(ctx).Where("booking_id = ?", id).Order("id").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("booking %d history: %w", id, err)
	}
	return events, nil
}

// PendingRoomSyncs lists bookings whose last room write has not succeeded.
func (s *BookingService) PendingRoomSyncs(ctx context.Context) ([]uint, error) {
	ids := []uint{}
	err := s.DB.WithContext(ctx).Model(&models.BookingStatusEvent{}).
		Where("room_synced = ? AND superseded = ?", false, false).
		Distinct("booking_id").
		Order("booking_id").
		Pluck("booking_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("pending room syncs: %w", err)
	}
	return ids, nil
}

// RoomChangedSince reports whether the booking's room saw a later transition
// than the booking's newest unsynced event: a status write, a maintenance
// record or another booking's event.
func (s *BookingService) RoomChangedSince(ctx context.Context, bookingID uint) (bool, error) {
	db := s.DB.WithContext(ctx)

	var ev models.BookingStatusEvent
	err := db.Where("booking_id = ? AND room_synced = ? AND superseded = ?", bookingID, false, false).
		Order("id DESC").First(&ev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("latest pending event for booking %d: %w", bookingID, err)
	}

	var room models.Room
	if err := db.First(&room, ev.RoomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return true, nil
		}
		return false, fmt.Errorf("load room %d: %w", ev.RoomID, err)
	}
	if room.LastUpdated != nil && room.LastUpdated.After(ev.CreatedAt) {
		return true, nil
	}

	var maint models.Maintenance
	err = db.Where("room_id = ?", ev.RoomID).Order("created_at DESC").First(&maint).Error
	if err == nil && maint.CreatedAt.After(ev.CreatedAt) {
		return true, nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("latest maintenance for room %d: %w", ev.RoomID, err)
	}

	var later int64
	if err := db.Model(&models.BookingStatusEvent{}).
		Where("room_id = ? AND booking_id <> ? AND id > ?", ev.RoomID, bookingID, ev.ID).
		Count(&later).Error; err != nil {
		return false, fmt.Errorf("later events for room %d: %w", ev.RoomID, err)
	}
	return later > 0, nil
}

// SupersedeRoomSync drops the booking's pending room writes without touching
// the room.
func (s *BookingService) SupersedeRoomSync(ctx context.Context, bookingID uint) error {
	return s.DB.WithContext(ctx).Model(&models.BookingStatusEvent{}).
		Where("booking_id = ? AND room_synced = ? AND superseded = ?", bookingID, false, false).
		Update("superseded", true).Error
}

// BookingStore

func (s *BookingService) FindBooking(ctx context.Context, id uint) (models.Booking, error) {
	var booking models.Booking
	if err := s.DB.WithContext(ctx).First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Booking{}, ErrBookingNotFound
		}
		return models.Booking{}, fmt.Errorf("failed to find booking: %w", err)
	}
	return booking, nil
}

func (s *BookingService) SaveBooking(ctx context.Context, id uint, columns map[string]interface{}) (models.Booking, error) {
	if err := s.DB.WithContext(ctx).Model(&models.Booking{}).Where("id = ?", id).Updates(columns).Error; err != nil {
		return models.Booking{}, err
	}
	return s.FindBooking(ctx, id)
}

// EventRecorder

func (s *BookingService) RecordStatusEvent(ctx context.Context, ev *models.BookingStatusEvent) error {
	return s.DB.WithContext(ctx).Create(ev).Error
}

func (s *BookingService) MarkRoomSynced(ctx context.Context, bookingID uint, at time.Time) error {
	return s.DB.WithContext(ctx).Model(&models.BookingStatusEvent{}).
		Where("booking_id = ? AND room_synced = ?", bookingID, false).
		Updates(map[string]interface{}{"room_synced": true, "synced_at": at}).Error
}
