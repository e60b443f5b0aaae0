package services

import (
	"context"
	"fmt"
	"strings"

	"hotel-admin/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type GuestInput struct {
	Email       string `json:"email" validate:"required,email,max=150"`
	Password    string `json:"password" validate:"required,min=6"`
	DisplayName string `json:"displayName" validate:"required,max=255"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,max=50"`
}

type GuestUpdate struct {
	DisplayName *string `json:"displayName" validate:"omitempty,min=1,max=255"`
	PhoneNumber *string `json:"phoneNumber" validate:"omitempty,max=50"`
	Notes       *string `json:"notes"`
}

// UserService manages guest accounts (role "user") and role changes.
type UserService struct {
	DB     *gorm.DB
	access *AccessService
}

func NewUserService(db *gorm.DB, access *AccessService) *UserService {
	return &UserService{DB: db, access: access}
}

func (s *UserService) List(ctx context.Context, status models.AccountStatus) ([]models.User, error) {
	q := s.DB.WithContext(ctx).Where("role = ?", models.RoleUser)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var users []models.User
	if err := q.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (models.User, error) {
	var u models.User
	if err := s.DB.WithContext(ctx).Where("role = ?", models.RoleUser).First(&u, id).Error; err != nil {
		return models.User{}, notFound(err, ErrUserNotFound)
	}
	return u, nil
}

func (s *UserService) Create(ctx context.Context, in GuestInput) (models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	if err := validateStruct(in); err != nil {
		return models.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	u := models.User{
		Email:        in.Email,
		DisplayName:  in.DisplayName,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
		Status:       models.StatusActive,
		PhoneNumber:  in.PhoneNumber,
	}
	if err := s.DB.WithContext(ctx).Create(&u).Error; err != nil {
		if isDuplicateKeyError(err) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (s *UserService) Update(ctx context.Context, id uint, in GuestUpdate) (models.User, error) {
	if err := validateStruct(in); err != nil {
		return models.User{}, err
	}
	if _, err := s.Get(ctx, id); err != nil {
		return models.User{}, err
	}

	updates := map[string]interface{}{}
	if in.DisplayName != nil {
		updates["display_name"] = strings.TrimSpace(*in.DisplayName)
	}
	if in.PhoneNumber != nil {
		updates["phone_number"] = *in.PhoneNumber
	}
	if in.Notes != nil {
		updates["notes"] = *in.Notes
	}
	if len(updates) > 0 {
		if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return models.User{}, fmt.Errorf("update user %d: %w", id, err)
		}
	}
	return s.Get(ctx, id)
}

func (s *UserService) Delete(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Where("role = ?", models.RoleUser).Delete(&models.User{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete user %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ToggleStatus switches a guest account between active and disabled.
func (s *UserService) ToggleStatus(ctx context.Context, id uint, active bool) (models.User, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return models.User{}, err
	}

	status := models.StatusDisabled
	if active {
		status = models.StatusActive
	}
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("status", status).Error; err != nil {
		return models.User{}, fmt.Errorf("toggle user %d: %w", id, err)
	}
	return s.Get(ctx, id)
}

// UpdateRole moves any account between admin, staff and user.
func (s *UserService) UpdateRole(ctx context.Context, id uint, role models.Role) (models.User, error) {
	if !role.Valid() {
		return models.User{}, newValidationError("role", "must be one of: admin staff user")
	}

	var u models.User
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&u, id).Error; err != nil {
			return notFound(err, ErrUserNotFound)
		}
		if u.Role == role {
			return nil
		}
		if u.Role == models.RoleAdmin {
			var admins int64
			if err := tx.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&admins).Error; err != nil {
				return err
			}
			if admins <= 1 {
				return ErrLastAdmin
			}
		}

		// staff and admins keep the status vocabulary active/inactive, guests active/disabled
		updates := map[string]interface{}{"role": role}
		if role.IsStaff() && u.Status == models.StatusDisabled {
			updates["status"] = models.StatusInactive
		}
		if role == models.RoleUser && u.Status == models.StatusInactive {
			updates["status"] = models.StatusDisabled
		}
		if err := tx.Model(&u).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&u, id).Error
	})
	if err != nil {
		return models.User{}, err
	}

	s.access.Invalidate(ctx, id)
	return u, nil
}
