package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotel-admin/cache"
	"hotel-admin/models"
	"hotel-admin/permissions"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Principal is the authenticated account with its resolved capabilities.
type Principal struct {
	UserID      uint            `json:"id"`
	Email       string          `json:"email"`
	DisplayName string          `json:"displayName"`
	Role        models.Role     `json:"role"`
	Permissions permissions.Set `json:"permissions"`
}

// ResolvePrincipal derives the capability set of a stored account.
func ResolvePrincipal(u models.User) Principal {
	return Principal{
		UserID:      u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		Permissions: permissions.Resolve(permissions.ParseRole(string(u.Role), u.Permissions)),
	}
}

// AccessService loads principals for authenticated requests, caching the
// resolved capability sets.
type AccessService struct {
	DB    *gorm.DB
	cache cache.Cache
	ttl   time.Duration
}

func NewAccessService(db *gorm.DB, c cache.Cache, ttl time.Duration) *AccessService {
	if c == nil {
		c = cache.Nop{}
	}
	return &AccessService{DB: db, cache: c, ttl: ttl}
}

// Principal returns the active staff account behind userID.
func (s *AccessService) Principal(ctx context.Context, userID uint) (Principal, error) {
	var p Principal
	err := s.cache.Get(ctx, cache.PermissionKey(userID), &p)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		zerolog.Ctx(ctx).Warn().Err(err).Uint("user_id", userID).Msg("permission cache read failed")
	}

	var u models.User
	if err := s.DB.WithContext(ctx).First(&u, userID).Error; err != nil {
		return Principal{}, notFound(err, ErrUserNotFound)
	}
	if !u.Role.IsStaff() {
		return Principal{}, ErrNotStaff
	}
	if u.Status != models.StatusActive {
		return Principal{}, ErrAccountInactive
	}

	p = ResolvePrincipal(u)
	if err := s.cache.Set(ctx, cache.PermissionKey(userID), p, s.ttl); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Uint("user_id", userID).Msg("permission cache write failed")
	}
	return p, nil
}

// Invalidate drops the cached principal after the account changed.
func (s *AccessService) Invalidate(ctx context.Context, userID uint) {
	if err := s.cache.Delete(ctx, cache.PermissionKey(userID)); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Uint("user_id", userID).Msg("permission cache invalidate failed")
	}
}

// CheckPermission answers whether the account currently holds the capability.
func (s *AccessService) CheckPermission(ctx context.Context, userID uint, c permissions.Capability) (bool, error) {
	p, err := s.Principal(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotStaff) || errors.Is(err, ErrAccountInactive) {
			return false, nil
		}
		return false, fmt.Errorf("check permission: %w", err)
	}
	return p.Permissions.Allows(c), nil
}
