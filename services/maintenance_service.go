package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hotel-admin/models"
	"hotel-admin/realtime"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type MaintenanceInput struct {
	RoomID    uint                     `json:"roomId" validate:"required"`
	StartDate time.Time                `json:"startDate" validate:"required"`
	EndDate   time.Time                `json:"endDate" validate:"required,gtefield=StartDate"`
	Reason    string                   `json:"reason" validate:"required"`
	Status    models.MaintenanceStatus `json:"status" validate:"omitempty,maintenancestatus"`
	Notes     string                   `json:"notes"`
}

type MaintenanceUpdate struct {
	StartDate *time.Time                `json:"startDate"`
	EndDate   *time.Time                `json:"endDate"`
	Reason    *string                   `json:"reason" validate:"omitempty,min=1"`
	Status    *models.MaintenanceStatus `json:"status" validate:"omitempty,maintenancestatus"`
	Notes     *string                   `json:"notes"`
}

// ScheduledMaintenance is a created record plus the outcome of moving its
// room into maintenance.
type ScheduledMaintenance struct {
	Maintenance models.Maintenance `json:"maintenance"`
	Outcome     SyncOutcome        `json:"outcome"`
	RoomError   string             `json:"roomError,omitempty"`
}

type MaintenanceService struct {
	DB     *gorm.DB
	rooms  RoomMutator
	events Publisher
}

func NewMaintenanceService(db *gorm.DB, rooms RoomMutator, events Publisher) *MaintenanceService {
	return &MaintenanceService{DB: db, rooms: rooms, events: publisherOrNop(events)}
}

func (s *MaintenanceService) List(ctx context.Context) ([]models.Maintenance, error) {
	var records []models.Maintenance
	if err := s.DB.WithContext(ctx).Order("start_date DESC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list maintenance: %w", err)
	}
	return records, nil
}

func (s *MaintenanceService) Get(ctx context.Context, id uint) (models.Maintenance, error) {
	var rec models.Maintenance
	if err := s.DB.WithContext(ctx).First(&rec, id).Error; err != nil {
		return models.Maintenance{}, notFound(err, ErrMaintenanceNotFound)
	}
	return rec, nil
}

func (s *MaintenanceService) ListByRoom(ctx context.Context, roomID uint) ([]models.Maintenance, error) {
	var records []models.Maintenance
	if err := s.DB.WithContext(ctx).Where("room_id = ?", roomID).Order("start_date").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list maintenance for room %d: %w", roomID, err)
	}
	return records, nil
}

// ListByDateRange returns records with startDate <= end and endDate >= start.
func (s *MaintenanceService) ListByDateRange(ctx context.Context, start, end time.Time) ([]models.Maintenance, error) {
	if end.Before(start) {
		return nil, newValidationError("end", "must not be before start")
	}

	var records []models.Maintenance
	err := s.DB.WithContext(ctx).
		Where("start_date <= ? AND end_date >= ?", end, start).
		Order("start_date").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list maintenance by date range: %w", err)
	}
	return records, nil
}

// Schedule stores the record and then puts the room into maintenance. If the
// room write fails the record is kept, the outcome is SyncRoomPending and the
// error wraps ErrRoomSyncPending.
func (s *MaintenanceService) Schedule(ctx context.Context, in MaintenanceInput, actor string) (ScheduledMaintenance, error) {
	in.Reason = strings.TrimSpace(in.Reason)
	if err := validateStruct(in); err != nil {
		return ScheduledMaintenance{}, err
	}

	var roomCount int64
	if err := s.DB.WithContext(ctx).Model(&models.Room{}).Where("id = ?", in.RoomID).Count(&roomCount).Error; err != nil {
		return ScheduledMaintenance{}, fmt.Errorf("check room %d: %w", in.RoomID, err)
	}
	if roomCount == 0 {
		return ScheduledMaintenance{}, ErrRoomNotFound
	}

	status := in.Status
	if status == "" {
		status = models.MaintenanceScheduled
	}
	rec := models.Maintenance{
		RoomID:    in.RoomID,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Reason:    in.Reason,
		Status:    status,
		Notes:     in.Notes,
		CreatedBy: actor,
	}
	if err := s.DB.WithContext(ctx).Create(&rec).Error; err != nil {
		return ScheduledMaintenance{}, fmt.Errorf("create maintenance: %w", err)
	}
	s.events.Publish(realtime.TopicMaintenance, "created", rec.ID, rec)

	return s.syncRoom(ctx, rec, actor)
}

// RetryRoomSync puts the room of an active maintenance record back into
// maintenance after a failed room write.
func (s *MaintenanceService) RetryRoomSync(ctx context.Context, id uint, actor string) (ScheduledMaintenance, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return ScheduledMaintenance{}, err
	}
	if rec.Status != models.MaintenanceScheduled && rec.Status != models.MaintenanceInProgress {
		return ScheduledMaintenance{}, newValidationError("status", "maintenance is "+string(rec.Status))
	}
	return s.syncRoom(ctx, rec, actor)
}

func (s *MaintenanceService) syncRoom(ctx context.Context, rec models.Maintenance, actor string) (ScheduledMaintenance, error) {
	if err := s.rooms.SetRoomStatus(ctx, rec.RoomID, models.RoomMaintenance, actor); err != nil {
		zerolog.Ctx(ctx).Error().
			Err(err).
			Str("event", "room_status_divergence").
			Uint("maintenance_id", rec.ID).
			Uint("room_id", rec.RoomID).
			Msg("room status diverged from maintenance schedule")
		pending := ScheduledMaintenance{Maintenance: rec, Outcome: SyncRoomPending, RoomError: err.Error()}
		return pending, fmt.Errorf("%w: maintenance %d, room %d: %w", ErrRoomSyncPending, rec.ID, rec.RoomID, err)
	}

	return ScheduledMaintenance{Maintenance: rec, Outcome: SyncApplied}, nil
}

func (s *MaintenanceService) Update(ctx context.Context, id uint, in MaintenanceUpdate) (models.Maintenance, error) {
	if err := validateStruct(in); err != nil {
		return models.Maintenance{}, err
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return models.Maintenance{}, err
	}

	start, end := current.StartDate, current.EndDate
	if in.StartDate != nil {
		start = *in.StartDate
	}
	if in.EndDate != nil {
		end = *in.EndDate
	}
	if end.Before(start) {
		return models.Maintenance{}, newValidationError("endDate", "must not be before startDate")
	}

	updates := map[string]interface{}{}
	if in.StartDate != nil {
		updates["start_date"] = *in.StartDate
	}
	if in.EndDate != nil {
		updates["end_date"] = *in.EndDate
	}
	if in.Reason != nil {
		updates["reason"] = strings.TrimSpace(*in.Reason)
	}
	if in.Status != nil {
		updates["status"] = *in.Status
	}
	if in.Notes != nil {
		updates["notes"] = *in.Notes
	}
	if len(updates) == 0 {
		return current, nil
	}

	if err := s.DB.WithContext(ctx).Model(&models.Maintenance{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return models.Maintenance{}, fmt.Errorf("update maintenance %d: %w", id, err)
	}

	rec, err := s.Get(ctx, id)
	if err != nil {
		return models.Maintenance{}, err
	}
	s.events.Publish(realtime.TopicMaintenance, "updated", rec.ID, rec)
	return rec, nil
}

func (s *MaintenanceService) Delete(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&models.Maintenance{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete maintenance %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrMaintenanceNotFound
	}
	s.events.Publish(realtime.TopicMaintenance, "deleted", id, nil)
	return nil
}
