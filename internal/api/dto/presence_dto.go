package dto

import (
	"github.com/spec-kit/staff-presence/internal/dateutil"
	"github.com/spec-kit/staff-presence/internal/domain"
	"github.com/spec-kit/staff-presence/internal/presence"
)

// PresenceRow is one member's status with the movement explaining it.
type PresenceRow struct {
	Staff    StaffResponse     `json:"staff"`
	Status   domain.Status     `json:"status"`
	Movement *MovementResponse `json:"movement,omitempty"`
}

// PresenceResponse is a roster snapshot for one date.
type PresenceResponse struct {
	Date  string        `json:"date"`
	Total int           `json:"total"`
	Out   int           `json:"out"`
	In    int           `json:"in"`
	Staff []PresenceRow `json:"staff"`
}

// NewPresenceRows maps roster rows.
func NewPresenceRows(rows []presence.StaffOnDate) []PresenceRow {
	out := make([]PresenceRow, 0, len(rows))
	for _, row := range rows {
		r := PresenceRow{Staff: NewStaffResponse(row.Staff), Status: row.Status}
		if row.Movement != nil {
			m := NewMovementResponse(*row.Movement)
			r.Movement = &m
		}
		out = append(out, r)
	}
	return out
}

// NewPresenceResponse maps a date report.
func NewPresenceResponse(report presence.StatusReport) PresenceResponse {
	return PresenceResponse{
		Date:  dateutil.Format(report.Date),
		Total: report.Total,
		Out:   report.Out,
		In:    report.In,
		Staff: NewPresenceRows(report.Rows),
	}
}
