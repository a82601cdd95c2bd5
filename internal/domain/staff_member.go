package domain

// StaffRole enumerates roster roles.
type StaffRole string

const (
	StaffRoleStaff StaffRole = "staff"
	StaffRoleAdmin StaffRole = "admin"
)

// Valid reports whether r is a known role.
func (r StaffRole) Valid() bool {
	return r == StaffRoleStaff || r == StaffRoleAdmin
}

// Status is the derived presence of a staff member.
type Status string

const (
	StatusInOffice    Status = "IN_OFFICE"
	StatusOutOfOffice Status = "OUT_OF_OFFICE"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusInOffice || s == StatusOutOfOffice
}

// StaffMember models an officer on the roster.
//
// CurrentStatus is a cached value; it is always re-derivable from the
// member's movements and is corrected by reconciliation.
type StaffMember struct {
	ID            string
	Name          string
	Position      string
	Username      string
	PasswordHash  string
	Role          StaffRole
	CurrentStatus Status
}

// IsAdmin reports whether the member may use administrative operations.
func (s StaffMember) IsAdmin() bool {
	return s.Role == StaffRoleAdmin
}
