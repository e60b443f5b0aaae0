package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hotel-admin/models"
	"hotel-admin/realtime"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RoomInput struct {
	Number      string            `json:"number" validate:"required,max=50"`
	Type        models.RoomType   `json:"type" validate:"required,roomtype"`
	Price       float64           `json:"price" validate:"gte=0"`
	Status      models.RoomStatus `json:"status" validate:"omitempty,roomstatus"`
	Capacity    int               `json:"capacity" validate:"gt=0"`
	Amenities   []string          `json:"amenities" validate:"omitempty,dive,amenity"`
	Images      []string          `json:"images" validate:"omitempty,dive,uri"`
	Description string            `json:"description"`
}

// RoomUpdate is a partial update; nil fields are left untouched.
type RoomUpdate struct {
	Number      *string            `json:"number" validate:"omitempty,min=1,max=50"`
	Type        *models.RoomType   `json:"type" validate:"omitempty,roomtype"`
	Price       *float64           `json:"price" validate:"omitempty,gte=0"`
	Status      *models.RoomStatus `json:"status" validate:"omitempty,roomstatus"`
	Capacity    *int               `json:"capacity" validate:"omitempty,gt=0"`
	Amenities   *[]string          `json:"amenities" validate:"omitempty,dive,amenity"`
	Description *string            `json:"description"`
}

type RoomService struct {
	DB     *gorm.DB
	Images ImageStore
	events Publisher
}

func NewRoomService(db *gorm.DB, images ImageStore, events Publisher) *RoomService {
	return &RoomService{DB: db, Images: images, events: publisherOrNop(events)}
}

// List returns rooms ordered by number, optionally filtered by status.
func (s *RoomService) List(ctx context.Context, status models.RoomStatus) ([]models.Room, error) {
	q := s.DB.WithContext(ctx).Order("number")
	if status != "" {
		if !status.Valid() {
			return nil, newValidationError("status", describeEnum("roomstatus"))
		}
		q = q.Where("status = ?", status)
	}

	var rooms []models.Room
	if err := q.Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

func (s *RoomService) Get(ctx context.Context, id uint) (models.Room, error) {
	var room models.Room
	if err := s.DB.WithContext(ctx).First(&room, id).Error; err != nil {
		return models.Room{}, notFound(err, ErrRoomNotFound)
	}
	return room, nil
}

func (s *RoomService) Create(ctx context.Context, in RoomInput, actor string) (models.Room, error) {
	in.Number = strings.TrimSpace(in.Number)
	if err := validateStruct(in); err != nil {
		return models.Room{}, err
	}

	status := in.Status
	if status == "" {
		status = models.RoomAvailable
	}
	now := time.Now()
	room := models.Room{
		Number:      in.Number,
		Type:        in.Type,
		Price:       in.Price,
		Status:      status,
		Capacity:    in.Capacity,
		Amenities:   datatypes.JSONSlice[string](nonNil(in.Amenities)),
		Images:      datatypes.JSONSlice[string](nonNil(in.Images)),
		Description: in.Description,
		UpdatedBy:   actor,
		LastUpdated: &now,
	}

	if err := s.DB.WithContext(ctx).Create(&room).Error; err != nil {
		if isDuplicateKeyError(err) {
			return models.Room{}, ErrDuplicateRoomNumber
		}
		return models.Room{}, fmt.Errorf("create room: %w", err)
	}

	s.events.Publish(realtime.TopicRooms, "created", room.ID, room)
	return room, nil
}

func (s *RoomService) Update(ctx context.Context, id uint, in RoomUpdate, actor string) (models.Room, error) {
	if in.Number != nil {
		trimmed := strings.TrimSpace(*in.Number)
		in.Number = &trimmed
	}
	if err := validateStruct(in); err != nil {
		return models.Room{}, err
	}
	if _, err := s.Get(ctx, id); err != nil {
		return models.Room{}, err
	}

	updates := map[string]interface{}{
		"updated_by":   actor,
		"last_updated": time.Now(),
	}
	if in.Number != nil {
		updates["number"] = *in.Number
	}
	if in.Type != nil {
		updates["type"] = *in.Type
	}
	if in.Price != nil {
		updates["price"] = *in.Price
	}
	if in.Status != nil {
		updates["status"] = *in.Status
	}
	if in.Capacity != nil {
		updates["capacity"] = *in.Capacity
	}
	if in.Amenities != nil {
		updates["amenities"] = datatypes.JSONSlice[string](nonNil(*in.Amenities))
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}

	if err := s.DB.WithContext(ctx).Model(&models.Room{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		if isDuplicateKeyError(err) {
			return models.Room{}, ErrDuplicateRoomNumber
		}
		return models.Room{}, fmt.Errorf("update room %d: %w", id, err)
	}

	room, err := s.Get(ctx, id)
	if err != nil {
		return models.Room{}, err
	}
	s.events.Publish(realtime.TopicRooms, "updated", room.ID, room)
	return room, nil
}

// Delete removes the room and, best effort, its stored images.
func (s *RoomService) Delete(ctx context.Context, id uint) error {
	room, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.DB.WithContext(ctx).Delete(&models.Room{}, id).Error; err != nil {
		return fmt.Errorf("delete room %d: %w", id, err)
	}

	s.deleteImages(ctx, room.ID, room.Images)
	s.events.Publish(realtime.TopicRooms, "deleted", id, nil)
	return nil
}

// SetRoomStatus writes a room's status. It is the room-mutation step used by
// the booking and maintenance flows as well as direct staff edits.
func (s *RoomService) SetRoomStatus(ctx context.Context, roomID uint, status models.RoomStatus, actor string) error {
	if !status.Valid() {
		return newValidationError("status", describeEnum("roomstatus"))
	}

	res := s.DB.WithContext(ctx).Model(&models.Room{}).Where("id = ?", roomID).Updates(map[string]interface{}{
		"status":       status,
		"updated_by":   actor,
		"last_updated": time.Now(),
	})
	if res.Error != nil {
		return fmt.Errorf("update room %d status: %w", roomID, res.Error)
	}
	if res.RowsAffected == 0 {
		// MySQL reports zero affected rows for unchanged values
		var count int64
		if err := s.DB.WithContext(ctx).Model(&models.Room{}).Where("id = ?", roomID).Count(&count).Error; err != nil {
			return fmt.Errorf("check room %d: %w", roomID, err)
		}
		if count == 0 {
			return ErrRoomNotFound
		}
	}

	s.events.Publish(realtime.TopicRooms, "status", roomID, map[string]any{"status": status, "updatedBy": actor})
	return nil
}

// UpdateImages replaces the ordered image list. Images dropped from the list
// are removed from the store; removal failures are logged only.
func (s *RoomService) UpdateImages(ctx context.Context, id uint, images []string, actor string) (models.Room, error) {
	images = nonNil(images)
	if err := validate.Var(images, "dive,uri"); err != nil {
		return models.Room{}, newValidationError("images", "must be valid URLs")
	}

	room, err := s.Get(ctx, id)
	if err != nil {
		return models.Room{}, err
	}

	keep := make(map[string]bool, len(images))
	for _, u := range images {
		keep[u] = true
	}
	var removed []string
	for _, u := range room.Images {
		if !keep[u] {
			removed = append(removed, u)
		}
	}

	err = s.DB.WithContext(ctx).Model(&models.Room{}).Where("id = ?", id).Updates(map[string]interface{}{
		"images":       datatypes.JSONSlice[string](images),
		"updated_by":   actor,
		"last_updated": time.Now(),
	}).Error
	if err != nil {
		return models.Room{}, fmt.Errorf("update room %d images: %w", id, err)
	}

	s.deleteImages(ctx, id, removed)

	room, err = s.Get(ctx, id)
	if err != nil {
		return models.Room{}, err
	}
	s.events.Publish(realtime.TopicRooms, "updated", room.ID, room)
	return room, nil
}

// AddImage stores a base64 image and appends its URL to the room.
func (s *RoomService) AddImage(ctx context.Context, id uint, b64 string, actor string) (models.Room, error) {
	data, err := decodeBase64Image(b64)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return models.Room{}, err
		}
		return models.Room{}, newValidationError("image", "must be base64 encoded")
	}
	return s.AddImageBytes(ctx, id, data, actor)
}

func (s *RoomService) AddImageBytes(ctx context.Context, id uint, data []byte, actor string) (models.Room, error) {
	room, err := s.Get(ctx, id)
	if err != nil {
		return models.Room{}, err
	}
	if s.Images == nil {
		return models.Room{}, errors.New("no image store configured")
	}

	url, err := s.Images.Save(ctx, fmt.Sprintf("rooms/%d", id), data)
	if err != nil {
		return models.Room{}, fmt.Errorf("store image: %w", err)
	}

	images := append(append([]string{}, room.Images...), url)
	return s.UpdateImages(ctx, id, images, actor)
}

func (s *RoomService) deleteImages(ctx context.Context, roomID uint, urls []string) {
	if s.Images == nil {
		return
	}
	for _, u := range urls {
		if err := s.Images.Delete(ctx, u); err != nil {
			log.Warn().Err(err).Uint("room_id", roomID).Str("url", u).Msg("failed to delete room image")
		}
	}
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
