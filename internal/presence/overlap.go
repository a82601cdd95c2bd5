// Package presence derives in-office/out-of-office status from movement
// records and keeps the persisted status of the roster in line with it.
package presence

import (
	"sort"
	"strings"
	"time"

	"github.com/spec-kit/staff-presence/internal/dateutil"
	"github.com/spec-kit/staff-presence/internal/domain"
)

// FindCovering returns the first movement, in input order, that belongs to
// staffID and whose [DateOut, DateReturn] interval contains target. Records
// with unparseable dates never cover anything.
func FindCovering(movements []domain.MovementRecord, staffID string, target time.Time) (domain.MovementRecord, bool) {
	id := canonicalID(staffID)
	for _, m := range movements {
		if canonicalID(m.StaffID) != id {
			continue
		}
		if covers(m, target) {
			return m, true
		}
	}
	return domain.MovementRecord{}, false
}

// MovementsOf returns the movements owned by staffID in input order.
func MovementsOf(movements []domain.MovementRecord, staffID string) []domain.MovementRecord {
	id := canonicalID(staffID)
	var owned []domain.MovementRecord
	for _, m := range movements {
		if canonicalID(m.StaffID) == id {
			owned = append(owned, m)
		}
	}
	return owned
}

// SortByDateOutDesc returns a copy of movements ordered most recent first.
// Records with equal or unparseable DateOut keep their relative order.
func SortByDateOutDesc(movements []domain.MovementRecord) []domain.MovementRecord {
	sorted := make([]domain.MovementRecord, len(movements))
	copy(sorted, movements)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, okA := dateutil.ParseDate(sorted[i].DateOut)
		b, okB := dateutil.ParseDate(sorted[j].DateOut)
		if !okA || !okB {
			return okA && !okB
		}
		return a.After(b)
	})
	return sorted
}

func covers(m domain.MovementRecord, target time.Time) bool {
	start, ok := dateutil.ParseDate(m.DateOut)
	if !ok {
		return false
	}
	end, ok := dateutil.ParseDate(m.DateReturn)
	if !ok {
		return false
	}
	return dateutil.IsWithinInclusive(target, start, end)
}

func canonicalID(id string) string {
	return strings.TrimSpace(id)
}
