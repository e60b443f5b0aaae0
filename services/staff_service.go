package services

import (
	"context"
	"fmt"
	"strings"

	"hotel-admin/models"
	"hotel-admin/permissions"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type StaffInput struct {
	Email       string                         `json:"email" validate:"required,email,max=150"`
	Password    string                         `json:"password" validate:"required,min=6"`
	DisplayName string                         `json:"displayName" validate:"required,max=255"`
	Role        models.Role                    `json:"role" validate:"required,oneof=admin staff"`
	Permissions *permissions.StoredPermissions `json:"permissions"`
	Department  models.Department              `json:"department" validate:"omitempty,oneof=housekeeping maintenance frontdesk"`
	Shift       models.Shift                   `json:"shift" validate:"omitempty,oneof=day night"`
	PhoneNumber string                         `json:"phoneNumber" validate:"omitempty,max=50"`
	Notes       string                         `json:"notes"`
}

type StaffUpdate struct {
	DisplayName *string                        `json:"displayName" validate:"omitempty,min=1,max=255"`
	Role        *models.Role                   `json:"role" validate:"omitempty,oneof=admin staff"`
	Status      *models.AccountStatus          `json:"status" validate:"omitempty,oneof=active inactive"`
	Permissions *permissions.StoredPermissions `json:"permissions"`
	Department  *models.Department             `json:"department" validate:"omitempty,oneof=housekeeping maintenance frontdesk"`
	Shift       *models.Shift                  `json:"shift" validate:"omitempty,oneof=day night"`
	PhoneNumber *string                        `json:"phoneNumber" validate:"omitempty,max=50"`
	Notes       *string                        `json:"notes"`
}

var staffRoles = []models.Role{models.RoleAdmin, models.RoleStaff}

type StaffService struct {
	DB     *gorm.DB
	access *AccessService
}

func NewStaffService(db *gorm.DB, access *AccessService) *StaffService {
	return &StaffService{DB: db, access: access}
}

// List returns admins and staff members ordered by name.
func (s *StaffService) List(ctx context.Context) ([]models.User, error) {
	var staff []models.User
	if err := s.DB.WithContext(ctx).Where("role IN ?", staffRoles).Order("display_name").Find(&staff).Error; err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	return staff, nil
}

func (s *StaffService) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	if !role.IsStaff() {
		return nil, newValidationError("role", "must be one of: admin staff")
	}
	var staff []models.User
	if err := s.DB.WithContext(ctx).Where("role = ?", role).Order("display_name").Find(&staff).Error; err != nil {
		return nil, fmt.Errorf("list staff by role: %w", err)
	}
	return staff, nil
}

// Get returns the account only when it is an admin or staff member.
func (s *StaffService) Get(ctx context.Context, id uint) (models.User, error) {
	var u models.User
	if err := s.DB.WithContext(ctx).Where("role IN ?", staffRoles).First(&u, id).Error; err != nil {
		return models.User{}, notFound(err, ErrUserNotFound)
	}
	return u, nil
}

// exceedsCaller reports whether p grants a flag the caller does not hold.
func exceedsCaller(caller permissions.Set, p permissions.StoredPermissions) bool {
	return (p.CanViewUsers && !caller.CanViewUsers) ||
		(p.CanManageRooms && !caller.CanManageRooms) ||
		(p.CanManageBookings && !caller.CanManageBookings) ||
		(p.CanAccessSettings && !caller.CanAccessSettings) ||
		(p.CanManageStaff && !caller.CanManageStaff)
}

// Create adds an active staff account. Without an explicit permission record
// the account gets the sign-in default for its role. Only admins may create
// admin accounts; staff callers can grant at most the flags they hold.
func (s *StaffService) Create(ctx context.Context, caller Principal, in StaffInput) (models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	if err := validateStruct(in); err != nil {
		return models.User{}, err
	}
	if caller.Role != models.RoleAdmin {
		if in.Role == models.RoleAdmin {
			return models.User{}, ErrAdminOnly
		}
		if in.Permissions != nil && exceedsCaller(caller.Permissions, *in.Permissions) {
			return models.User{}, ErrAdminOnly
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	stored := permissions.DefaultStored(in.Role == models.RoleAdmin)
	if in.Permissions != nil {
		stored = *in.Permissions
	}

	u := models.User{
		Email:        in.Email,
		DisplayName:  in.DisplayName,
		PasswordHash: string(hash),
		Role:         in.Role,
		Status:       models.StatusActive,
		Permissions:  datatypes.JSONMap(stored.Map()),
		Department:   in.Department,
		Shift:        in.Shift,
		PhoneNumber:  in.PhoneNumber,
		Notes:        in.Notes,
	}
	if err := s.DB.WithContext(ctx).Create(&u).Error; err != nil {
		if isDuplicateKeyError(err) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, fmt.Errorf("create staff: %w", err)
	}
	return u, nil
}

// Update edits a staff account. A non-admin caller cannot change roles, touch
// admin accounts or change their own status and permissions.
func (s *StaffService) Update(ctx context.Context, caller Principal, id uint, in StaffUpdate) (models.User, error) {
	if err := validateStruct(in); err != nil {
		return models.User{}, err
	}
	target, err := s.Get(ctx, id)
	if err != nil {
		return models.User{}, err
	}

	if caller.Role != models.RoleAdmin {
		switch {
		case target.Role == models.RoleAdmin:
			return models.User{}, ErrAdminOnly
		case in.Role != nil && *in.Role != target.Role:
			return models.User{}, ErrAdminOnly
		case id == caller.UserID && (in.Permissions != nil || in.Status != nil):
			return models.User{}, ErrAdminOnly
		case in.Permissions != nil && exceedsCaller(caller.Permissions, *in.Permissions):
			return models.User{}, ErrAdminOnly
		}
	}
	if in.Role != nil && *in.Role != models.RoleAdmin && target.Role == models.RoleAdmin {
		var admins int64
		if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&admins).Error; err != nil {
			return models.User{}, fmt.Errorf("count admins: %w", err)
		}
		if admins <= 1 {
			return models.User{}, ErrLastAdmin
		}
	}

	updates := map[string]interface{}{}
	if in.DisplayName != nil {
		updates["display_name"] = strings.TrimSpace(*in.DisplayName)
	}
	if in.Role != nil {
		updates["role"] = *in.Role
	}
	if in.Status != nil {
		updates["status"] = *in.Status
	}
	if in.Permissions != nil {
		updates["permissions"] = datatypes.JSONMap(in.Permissions.Map())
	}
	if in.Department != nil {
		updates["department"] = *in.Department
	}
	if in.Shift != nil {
		updates["shift"] = *in.Shift
	}
	if in.PhoneNumber != nil {
		updates["phone_number"] = *in.PhoneNumber
	}
	if in.Notes != nil {
		updates["notes"] = *in.Notes
	}

	if len(updates) > 0 {
		if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return models.User{}, fmt.Errorf("update staff %d: %w", id, err)
		}
		s.access.Invalidate(ctx, id)
	}
	return s.Get(ctx, id)
}

// Delete removes a staff member. Admin accounts are never deleted, and a
// non-admin caller cannot delete their own account.
func (s *StaffService) Delete(ctx context.Context, caller Principal, id uint) error {
	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if u.Role == models.RoleAdmin {
		return ErrCannotDeleteAdmin
	}
	if caller.Role != models.RoleAdmin && id == caller.UserID {
		return ErrAdminOnly
	}

	if err := s.DB.WithContext(ctx).Delete(&models.User{}, id).Error; err != nil {
		return fmt.Errorf("delete staff %d: %w", id, err)
	}
	s.access.Invalidate(ctx, id)
	return nil
}
