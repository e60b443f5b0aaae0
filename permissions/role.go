// Package permissions derives the capability flags a dashboard account holds
// from its role and, for staff, the permission record stored on the account.
package permissions

// Role is a closed set of account kinds: Admin, Staff or Guest.
// A nil Role stands for an absent or unrecognised role.
type Role interface {
	role()
}

// Admin holds every capability; no stored data is consulted.
type Admin struct{}

// Staff carries the permission record stored on the account.
type Staff struct {
	Stored StoredPermissions
}

// Guest is a hotel guest account; it holds no dashboard capability.
type Guest struct{}

func (Admin) role() {}
func (Staff) role() {}
func (Guest) role() {}

// StoredPermissions is the five-flag record persisted on staff accounts.
type StoredPermissions struct {
	CanViewUsers      bool `json:"canViewUsers"`
	CanManageRooms    bool `json:"canManageRooms"`
	CanManageBookings bool `json:"canManageBookings"`
	CanAccessSettings bool `json:"canAccessSettings"`
	CanManageStaff    bool `json:"canManageStaff"`
}

// StoredFromMap reads a persisted permission record. A key that is missing or
// does not hold a bool resolves to false; unknown keys are ignored.
func StoredFromMap(m map[string]any) StoredPermissions {
	return StoredPermissions{
		CanViewUsers:      lookup(m, "canViewUsers"),
		CanManageRooms:    lookup(m, "canManageRooms"),
		CanManageBookings: lookup(m, "canManageBookings"),
		CanAccessSettings: lookup(m, "canAccessSettings"),
		CanManageStaff:    lookup(m, "canManageStaff"),
	}
}

func lookup(m map[string]any, key string) bool {
	v, ok := m[key]
	if !ok {
		return false
	}
	b, ok := v.(bool)
	if !ok {
		return false
	}
	return b
}

// Map is the inverse of StoredFromMap, used when persisting a record.
func (p StoredPermissions) Map() map[string]any {
	return map[string]any{
		"canViewUsers":      p.CanViewUsers,
		"canManageRooms":    p.CanManageRooms,
		"canManageBookings": p.CanManageBookings,
		"canAccessSettings": p.CanAccessSettings,
		"canManageStaff":    p.CanManageStaff,
	}
}

// DefaultStored is the record assumed for an account that has none stored:
// every flag equals isAdmin.
func DefaultStored(isAdmin bool) StoredPermissions {
	return StoredPermissions{
		CanViewUsers:      isAdmin,
		CanManageRooms:    isAdmin,
		CanManageBookings: isAdmin,
		CanAccessSettings: isAdmin,
		CanManageStaff:    isAdmin,
	}
}

// ParseRole maps a persisted role name onto the variant. Stored permissions
// are only read for staff; an empty record falls back to DefaultStored.
func ParseRole(name string, stored map[string]any) Role {
	switch name {
	case "admin":
		return Admin{}
	case "staff":
		if len(stored) == 0 {
			return Staff{Stored: DefaultStored(false)}
		}
		return Staff{Stored: StoredFromMap(stored)}
	case "user":
		return Guest{}
	default:
		return nil
	}
}
