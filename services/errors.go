package services

import (
	"errors"
	"strings"

	mysql "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrBookingNotFound     = errors.New("booking not found")
	ErrMaintenanceNotFound = errors.New("maintenance record not found")
	ErrUserNotFound        = errors.New("user not found")

	ErrDuplicateRoomNumber = errors.New("room number already exists")
	ErrEmailTaken          = errors.New("email already in use")

	ErrCannotDeleteAdmin  = errors.New("admin accounts cannot be deleted")
	ErrLastAdmin          = errors.New("cannot change the role of the last admin")
	ErrAdminOnly          = errors.New("only an admin can make this change")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotStaff           = errors.New("account is not a staff member")
	ErrAccountInactive    = errors.New("account is not active")

	// ErrRoomSyncPending means the booking (or maintenance) write succeeded
	// but the dependent room status write did not.
	ErrRoomSyncPending = errors.New("room status update pending")
)

// notFound maps gorm's record-not-found onto the given sentinel.
func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
