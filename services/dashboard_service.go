package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotel-admin/cache"
	"hotel-admin/models"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const recentBookingsLimit = 5

type DashboardStats struct {
	TotalUsers     int64            `json:"totalUsers"`
	AvailableRooms int64            `json:"availableRooms"`
	TotalRooms     int64            `json:"totalRooms"`
	TotalBookings  int64            `json:"totalBookings"`
	Revenue        float64          `json:"revenue"`
	RecentBookings []models.Booking `json:"recentBookings"`
	GeneratedAt    time.Time        `json:"generatedAt"`
}

type DashboardService struct {
	DB    *gorm.DB
	cache cache.Cache
	ttl   time.Duration
}

func NewDashboardService(db *gorm.DB, c cache.Cache) *DashboardService {
	if c == nil {
		c = cache.Nop{}
	}
	return &DashboardService{DB: db, cache: c, ttl: 30 * time.Second}
}

// Stats summarises guests, rooms and bookings. Revenue is the sum of
// totalPrice over confirmed bookings.
func (s *DashboardService) Stats(ctx context.Context) (DashboardStats, error) {
	var stats DashboardStats
	err := s.cache.Get(ctx, cache.DashboardKey, &stats)
	if err == nil {
		return stats, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("dashboard cache read failed")
	}

	db := s.DB.WithContext(ctx)
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleUser).Count(&stats.TotalUsers).Error; err != nil {
		return DashboardStats{}, fmt.Errorf("count users: %w", err)
	}
	if err := db.Model(&models.Room{}).Count(&stats.TotalRooms).Error; err != nil {
		return DashboardStats{}, fmt.Errorf("count rooms: %w", err)
	}
	if err := db.Model(&models.Room{}).Where("status = ?", models.RoomAvailable).Count(&stats.AvailableRooms).Error; err != nil {
		return DashboardStats{}, fmt.Errorf("count available rooms: %w", err)
	}
	if err := db.Model(&models.Booking{}).Count(&stats.TotalBookings).Error; err != nil {
		return DashboardStats{}, fmt.Errorf("count bookings: %w", err)
	}

	var revenue struct{ Total float64 }
	err = db.Model(&models.Booking{}).
		Select("COALESCE(SUM(total_price), 0) AS total").
		Where("status = ?", models.BookingConfirmed).
		Scan(&revenue).Error
	if err != nil {
		return DashboardStats{}, fmt.Errorf("sum revenue: %w", err)
	}
	stats.Revenue = revenue.Total

	stats.RecentBookings = []models.Booking{}
	if err := db.Order("created_at DESC").Order("id DESC").Limit(recentBookingsLimit).Find(&stats.RecentBookings).Error; err != nil {
		return DashboardStats{}, fmt.Errorf("recent bookings: %w", err)
	}
	stats.GeneratedAt = time.Now().UTC()

	if err := s.cache.Set(ctx, cache.DashboardKey, stats, s.ttl); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("dashboard cache write failed")
	}
	return stats, nil
}
