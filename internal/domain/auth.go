package domain

import "time"

// Token represents issued authentication token metadata.
type Token struct {
	SubjectID string
	Role      StaffRole
	ExpiresAt time.Time
	IssuedAt  time.Time
}
