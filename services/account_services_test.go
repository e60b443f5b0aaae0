package services

import (
	"context"
	"testing"
	"time"

	"hotel-admin/cache"
	"hotel-admin/models"
	"hotel-admin/permissions"
	"hotel-admin/testutil"
	"hotel-admin/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type accountFixture struct {
	db     *gorm.DB
	cache  *memCache
	access *AccessService
	staff  *StaffService
	users  *UserService
	auth   *AuthService
}

func newAccountFixture(t *testing.T) accountFixture {
	t.Helper()
	db := testutil.NewDB(t)
	mc := newMemCache()
	access := NewAccessService(db, mc, time.Minute)
	tokens, err := utils.NewTokenIssuer("test-secret-0123456789", time.Hour)
	require.NoError(t, err)
	return accountFixture{
		db:     db,
		cache:  mc,
		access: access,
		staff:  NewStaffService(db, access),
		users:  NewUserService(db, access),
		auth:   NewAuthService(db, tokens, access),
	}
}

var adminCaller = Principal{Email: "boss@hotel.test", Role: models.RoleAdmin, Permissions: permissions.Resolve(permissions.Admin{})}

func (f accountFixture) mustStaff(t *testing.T, email string, role models.Role, perms *permissions.StoredPermissions) models.User {
	t.Helper()
	u, err := f.staff.Create(context.Background(), adminCaller, StaffInput{
		Email:       email,
		Password:    "secret123",
		DisplayName: "Member " + email,
		Role:        role,
		Permissions: perms,
	})
	require.NoError(t, err)
	return u
}

func TestStaffCreateDefaultsPermissions(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()

	member := f.mustStaff(t, "Front@Hotel.test", models.RoleStaff, nil)
	assert.Equal(t, "front@hotel.test", member.Email)
	assert.Equal(t, models.StatusActive, member.Status)
	assert.NotEqual(t, "secret123", member.PasswordHash)

	p, err := f.access.Principal(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, permissions.Resolve(permissions.Staff{Stored: permissions.DefaultStored(false)}), p.Permissions)
	assert.False(t, p.Permissions.CanDeleteBookings)

	_, err = f.staff.Create(ctx, adminCaller, StaffInput{Email: "front@hotel.test", Password: "secret123", DisplayName: "Dup", Role: models.RoleStaff})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = f.staff.Create(ctx, adminCaller, StaffInput{Email: "x@hotel.test", Password: "secret123", DisplayName: "Guest", Role: models.RoleUser})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestStaffUpdateInvalidatesCachedPrincipal(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()
	member := f.mustStaff(t, "rooms@hotel.test", models.RoleStaff, &permissions.StoredPermissions{})

	allowed, err := f.access.CheckPermission(ctx, member.ID, permissions.CanManageRooms)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.True(t, f.cache.has(cache.PermissionKey(member.ID)))

	_, err = f.staff.Update(ctx, adminCaller, member.ID, StaffUpdate{Permissions: &permissions.StoredPermissions{CanManageRooms: true}})
	require.NoError(t, err)
	assert.False(t, f.cache.has(cache.PermissionKey(member.ID)))

	allowed, err = f.access.CheckPermission(ctx, member.ID, permissions.CanManageRooms)
	require.NoError(t, err)
	assert.True(t, allowed)

	inactive := models.StatusInactive
	_, err = f.staff.Update(ctx, adminCaller, member.ID, StaffUpdate{Status: &inactive})
	require.NoError(t, err)
	_, err = f.access.Principal(ctx, member.ID)
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestStaffDeleteRefusesAdmins(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()
	admin := f.mustStaff(t, "boss@hotel.test", models.RoleAdmin, nil)
	member := f.mustStaff(t, "desk@hotel.test", models.RoleStaff, nil)

	assert.ErrorIs(t, f.staff.Delete(ctx, adminCaller, admin.ID), ErrCannotDeleteAdmin)
	require.NoError(t, f.staff.Delete(ctx, adminCaller, member.ID))
	_, err := f.staff.Get(ctx, member.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	admins, err := f.staff.ListByRole(ctx, models.RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, admins, 1)
}

func TestStaffCallerCannotEscalate(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()
	admin := f.mustStaff(t, "boss@hotel.test", models.RoleAdmin, nil)
	manager := f.mustStaff(t, "manager@hotel.test", models.RoleStaff, &permissions.StoredPermissions{CanManageStaff: true})
	desk := f.mustStaff(t, "desk@hotel.test", models.RoleStaff, &permissions.StoredPermissions{})

	p, err := f.access.Principal(ctx, manager.ID)
	require.NoError(t, err)

	promote := models.RoleAdmin
	_, err = f.staff.Update(ctx, p, manager.ID, StaffUpdate{Role: &promote})
	assert.ErrorIs(t, err, ErrAdminOnly)
	_, err = f.staff.Update(ctx, p, manager.ID, StaffUpdate{Permissions: &permissions.StoredPermissions{CanManageStaff: true, CanManageRooms: true}})
	assert.ErrorIs(t, err, ErrAdminOnly)
	inactive := models.StatusInactive
	_, err = f.staff.Update(ctx, p, admin.ID, StaffUpdate{Status: &inactive})
	assert.ErrorIs(t, err, ErrAdminOnly)
	_, err = f.staff.Update(ctx, p, desk.ID, StaffUpdate{Permissions: &permissions.StoredPermissions{CanAccessSettings: true}})
	assert.ErrorIs(t, err, ErrAdminOnly)
	_, err = f.staff.Create(ctx, p, StaffInput{Email: "new-admin@hotel.test", Password: "secret123", DisplayName: "New", Role: models.RoleAdmin})
	assert.ErrorIs(t, err, ErrAdminOnly)
	assert.ErrorIs(t, f.staff.Delete(ctx, p, manager.ID), ErrAdminOnly)

	// grants within the caller's own flags still work
	updated, err := f.staff.Update(ctx, p, desk.ID, StaffUpdate{Permissions: &permissions.StoredPermissions{CanManageStaff: true}})
	require.NoError(t, err)
	assert.Equal(t, true, updated.Permissions["canManageStaff"])

	after, err := f.access.Principal(ctx, manager.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleStaff, after.Role)
	assert.False(t, after.Permissions.CanManageRoles)
}

func TestStaffUpdateKeepsLastAdmin(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()
	admin := f.mustStaff(t, "boss@hotel.test", models.RoleAdmin, nil)

	demote := models.RoleStaff
	_, err := f.staff.Update(ctx, adminCaller, admin.ID, StaffUpdate{Role: &demote})
	assert.ErrorIs(t, err, ErrLastAdmin)
}

func TestGuestAccountsLifecycle(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()

	guest, err := f.users.Create(ctx, GuestInput{Email: "guest@example.com", Password: "secret123", DisplayName: "Guest"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, guest.Role)

	disabled, err := f.users.ToggleStatus(ctx, guest.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDisabled, disabled.Status)

	active, err := f.users.List(ctx, models.StatusActive)
	require.NoError(t, err)
	assert.Empty(t, active)

	// staff are not visible through the guest listing
	staff := f.mustStaff(t, "desk@hotel.test", models.RoleStaff, nil)
	_, err = f.users.Get(ctx, staff.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	require.NoError(t, f.users.Delete(ctx, guest.ID))
	assert.ErrorIs(t, f.users.Delete(ctx, guest.ID), ErrUserNotFound)
}

func TestUpdateRoleKeepsLastAdmin(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()
	admin := f.mustStaff(t, "boss@hotel.test", models.RoleAdmin, nil)

	_, err := f.users.UpdateRole(ctx, admin.ID, models.RoleStaff)
	assert.ErrorIs(t, err, ErrLastAdmin)

	guest, err := f.users.Create(ctx, GuestInput{Email: "g@example.com", Password: "secret123", DisplayName: "G"})
	require.NoError(t, err)
	_, err = f.users.ToggleStatus(ctx, guest.ID, false)
	require.NoError(t, err)

	promoted, err := f.users.UpdateRole(ctx, guest.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, promoted.Role)
	assert.Equal(t, models.StatusInactive, promoted.Status)

	demoted, err := f.users.UpdateRole(ctx, admin.ID, models.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, demoted.Role)

	_, err = f.users.UpdateRole(ctx, admin.ID, "owner")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestSignIn(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()
	member := f.mustStaff(t, "desk@hotel.test", models.RoleStaff, nil)
	_, err := f.users.Create(ctx, GuestInput{Email: "guest@example.com", Password: "secret123", DisplayName: "Guest"})
	require.NoError(t, err)

	session, err := f.auth.SignIn(ctx, "  DESK@hotel.test ", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, member.ID, session.User.UserID)
	assert.True(t, session.ExpiresAt.After(time.Now()))

	_, err = f.auth.SignIn(ctx, "desk@hotel.test", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.auth.SignIn(ctx, "nobody@hotel.test", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.auth.SignIn(ctx, "guest@example.com", "secret123")
	assert.ErrorIs(t, err, ErrNotStaff)

	var stored models.User
	require.NoError(t, f.db.First(&stored, member.ID).Error)
	assert.NotNil(t, stored.LastLogin)
}

func TestChangePassword(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()
	member := f.mustStaff(t, "desk@hotel.test", models.RoleStaff, nil)

	assert.ErrorIs(t, f.auth.ChangePassword(ctx, member.ID, "wrong", "newsecret"), ErrInvalidCredentials)
	var verr *ValidationError
	assert.ErrorAs(t, f.auth.ChangePassword(ctx, member.ID, "secret123", "123"), &verr)

	require.NoError(t, f.auth.ChangePassword(ctx, member.ID, "secret123", "newsecret"))
	_, err := f.auth.SignIn(ctx, "desk@hotel.test", "newsecret")
	assert.NoError(t, err)
}
