package permissions

// Capability names one flag of a Set. The values match the JSON field names.
type Capability string

const (
	CanManageUsers      Capability = "canManageUsers"
	CanManageRoles      Capability = "canManageRoles"
	CanViewUsers        Capability = "canViewUsers"
	CanEditUsers        Capability = "canEditUsers"
	CanDeleteUsers      Capability = "canDeleteUsers"
	CanManageRooms      Capability = "canManageRooms"
	CanManageBookings   Capability = "canManageBookings"
	CanViewBookings     Capability = "canViewBookings"
	CanEditBookings     Capability = "canEditBookings"
	CanDeleteBookings   Capability = "canDeleteBookings"
	CanAccessSettings   Capability = "canAccessSettings"
	CanToggleUserStatus Capability = "canToggleUserStatus"
	CanManageStaff      Capability = "canManageStaff"
)

// Capabilities lists every flag in declaration order.
var Capabilities = []Capability{
	CanManageUsers,
	CanManageRoles,
	CanViewUsers,
	CanEditUsers,
	CanDeleteUsers,
	CanManageRooms,
	CanManageBookings,
	CanViewBookings,
	CanEditBookings,
	CanDeleteBookings,
	CanAccessSettings,
	CanToggleUserStatus,
	CanManageStaff,
}

// Set is the complete capability record of one account.
type Set struct {
	CanManageUsers      bool `json:"canManageUsers"`
	CanManageRoles      bool `json:"canManageRoles"`
	CanViewUsers        bool `json:"canViewUsers"`
	CanEditUsers        bool `json:"canEditUsers"`
	CanDeleteUsers      bool `json:"canDeleteUsers"`
	CanManageRooms      bool `json:"canManageRooms"`
	CanManageBookings   bool `json:"canManageBookings"`
	CanViewBookings     bool `json:"canViewBookings"`
	CanEditBookings     bool `json:"canEditBookings"`
	CanDeleteBookings   bool `json:"canDeleteBookings"`
	CanAccessSettings   bool `json:"canAccessSettings"`
	CanToggleUserStatus bool `json:"canToggleUserStatus"`
	CanManageStaff      bool `json:"canManageStaff"`
}

// Resolve derives the capability set for a role. It never fails: anything it
// cannot grant resolves to false.
func Resolve(r Role) Set {
	switch r := r.(type) {
	case Admin:
		return Set{
			CanManageUsers:      true,
			CanManageRoles:      true,
			CanViewUsers:        true,
			CanEditUsers:        true,
			CanDeleteUsers:      true,
			CanManageRooms:      true,
			CanManageBookings:   true,
			CanViewBookings:     true,
			CanEditBookings:     true,
			CanDeleteBookings:   true,
			CanAccessSettings:   true,
			CanToggleUserStatus: true,
			CanManageStaff:      true,
		}
	case Staff:
		s := r.Stored
		// Role management, destructive deletes and account toggling stay
		// admin-only whatever the stored record says.
		return Set{
			CanManageUsers:      s.CanViewUsers,
			CanManageRoles:      false,
			CanViewUsers:        s.CanViewUsers,
			CanEditUsers:        false,
			CanDeleteUsers:      false,
			CanManageRooms:      s.CanManageRooms,
			CanManageBookings:   s.CanManageBookings,
			CanViewBookings:     s.CanManageBookings,
			CanEditBookings:     s.CanManageBookings,
			CanDeleteBookings:   false,
			CanAccessSettings:   s.CanAccessSettings,
			CanToggleUserStatus: false,
			CanManageStaff:      s.CanManageStaff,
		}
	case Guest:
		return Set{}
	default:
		return Set{}
	}
}

// Allows reports whether the set grants c. Unknown capabilities are denied.
func (s Set) Allows(c Capability) bool {
	switch c {
	case CanManageUsers:
		return s.CanManageUsers
	case CanManageRoles:
		return s.CanManageRoles
	case CanViewUsers:
		return s.CanViewUsers
	case CanEditUsers:
		return s.CanEditUsers
	case CanDeleteUsers:
		return s.CanDeleteUsers
	case CanManageRooms:
		return s.CanManageRooms
	case CanManageBookings:
		return s.CanManageBookings
	case CanViewBookings:
		return s.CanViewBookings
	case CanEditBookings:
		return s.CanEditBookings
	case CanDeleteBookings:
		return s.CanDeleteBookings
	case CanAccessSettings:
		return s.CanAccessSettings
	case CanToggleUserStatus:
		return s.CanToggleUserStatus
	case CanManageStaff:
		return s.CanManageStaff
	}
	return false
}

// ParseCapability validates a capability name received from a client.
func ParseCapability(name string) (Capability, bool) {
	for _, c := range Capabilities {
		if string(c) == name {
			return c, true
		}
	}
	return "", false
}
