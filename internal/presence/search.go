package presence

import (
	"strings"
	"time"

	"github.com/spec-kit/staff-presence/internal/domain"
)

// StaffOnDate is one roster row of a date query.
type StaffOnDate struct {
	Staff    domain.StaffMember
	Status   domain.Status
	Movement *domain.MovementRecord
}

// StatusReport is the roster as seen on a given date.
type StatusReport struct {
	Date  time.Time
	Rows  []StaffOnDate
	Out   int
	In    int
	Total int
}

// StatusOn computes each member's status on date, independent of the stored
// CurrentStatus. term filters by case-insensitive name or position match; an
// empty term keeps everyone.
func StatusOn(staff []domain.StaffMember, movements []domain.MovementRecord, date time.Time, term string) StatusReport {
	term = strings.ToLower(strings.TrimSpace(term))
	report := StatusReport{Date: date, Rows: make([]StaffOnDate, 0, len(staff))}

	for _, member := range staff {
		if term != "" &&
			!strings.Contains(strings.ToLower(member.Name), term) &&
			!strings.Contains(strings.ToLower(member.Position), term) {
			continue
		}
		row := StaffOnDate{Staff: member, Status: domain.StatusInOffice}
		if m, ok := FindCovering(movements, member.ID, date); ok {
			matched := m
			row.Status = domain.StatusOutOfOffice
			row.Movement = &matched
			report.Out++
		} else {
			report.In++
		}
		report.Rows = append(report.Rows, row)
	}
	report.Total = len(report.Rows)
	return report
}
