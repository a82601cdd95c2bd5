package presence

import (
	"time"

	"github.com/spec-kit/staff-presence/internal/dateutil"
	"github.com/spec-kit/staff-presence/internal/domain"
)

// DeriveStatus reports the status of staffID on reference. It is pure:
// OUT_OF_OFFICE iff one of the movements covers the reference date.
func DeriveStatus(staffID string, movements []domain.MovementRecord, reference time.Time) domain.Status {
	if len(movements) == 0 {
		return domain.StatusInOffice
	}
	if _, ok := FindCovering(movements, staffID, dateutil.NormalizeToMidnight(reference)); ok {
		return domain.StatusOutOfOffice
	}
	return domain.StatusInOffice
}

// DeriveStatusToday is DeriveStatus against the wall clock, read once.
func DeriveStatusToday(staffID string, movements []domain.MovementRecord) domain.Status {
	return DeriveStatus(staffID, movements, time.Now())
}
