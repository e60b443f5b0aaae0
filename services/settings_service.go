package services

import (
	"context"
	"errors"
	"fmt"

	"hotel-admin/models"

	"gorm.io/gorm"
)

type HotelSettingsInput struct {
	Name    string `json:"name" validate:"required,max=255"`
	Address string `json:"address"`
	Phone   string `json:"phone" validate:"omitempty,max=50"`
	Email   string `json:"email" validate:"omitempty,email,max=150"`
	Website string `json:"website" validate:"omitempty,url,max=255"`
	Logo    string `json:"logo" validate:"omitempty,max=255"`
}

type SettingsService struct {
	DB *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{DB: db}
}

// Hotel returns the hotel profile, or an empty one when none was saved yet.
func (s *SettingsService) Hotel(ctx context.Context) (models.HotelSetting, error) {
	var hotel models.HotelSetting
	if err := s.DB.WithContext(ctx).Order("id").First(&hotel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.HotelSetting{}, nil
		}
		return models.HotelSetting{}, fmt.Errorf("load hotel settings: %w", err)
	}
	return hotel, nil
}

// UpdateHotel creates the profile on first write and overwrites it afterwards.
func (s *SettingsService) UpdateHotel(ctx context.Context, in HotelSettingsInput, actor string) (models.HotelSetting, error) {
	if err := validateStruct(in); err != nil {
		return models.HotelSetting{}, err
	}

	hotel, err := s.Hotel(ctx)
	if err != nil {
		return models.HotelSetting{}, err
	}

	hotel.Name = in.Name
	hotel.Address = in.Address
	hotel.Phone = in.Phone
	hotel.Email = in.Email
	hotel.Website = in.Website
	hotel.Logo = in.Logo
	hotel.UpdatedBy = actor

	if err := s.DB.WithContext(ctx).Save(&hotel).Error; err != nil {
		return models.HotelSetting{}, fmt.Errorf("save hotel settings: %w", err)
	}
	return hotel, nil
}
