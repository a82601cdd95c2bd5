package dto

import (
	"time"

	"github.com/spec-kit/staff-presence/internal/dateutil"
	"github.com/spec-kit/staff-presence/internal/domain"
	"github.com/spec-kit/staff-presence/internal/service"
)

// CreateMovementRequest payload. Dates are YYYY-MM-DD; times are free text.
type CreateMovementRequest struct {
	DateOut    string `json:"date_out"`
	DateReturn string `json:"date_return"`
	TimeOut    string `json:"time_out"`
	TimeReturn string `json:"time_return"`
	Location   string `json:"location"`
	State      string `json:"state"`
	Purpose    string `json:"purpose"`
}

// MovementResponse representation.
type MovementResponse struct {
	ID                string              `json:"id"`
	StaffID           string              `json:"staff_id"`
	StaffName         string              `json:"staff_name"`
	DateOut           string              `json:"date_out"`
	DateReturn        string              `json:"date_return"`
	TimeOut           string              `json:"time_out"`
	TimeReturn        string              `json:"time_return"`
	Location          string              `json:"location"`
	State             string              `json:"state"`
	Purpose           string              `json:"purpose"`
	StatusFrequency   domain.Status       `json:"status_frequency"`
	CreatedAt         *time.Time          `json:"created_at,omitempty"`
	TimeStatus        dateutil.TimeStatus `json:"time_status,omitempty"`
	DateOutDisplay    string              `json:"date_out_display,omitempty"`
	DateReturnDisplay string              `json:"date_return_display,omitempty"`
}

// NewMovementResponse maps a domain movement.
func NewMovementResponse(m domain.MovementRecord) MovementResponse {
	resp := MovementResponse{
		ID:              m.ID,
		StaffID:         m.StaffID,
		StaffName:       m.StaffName,
		DateOut:         m.DateOut,
		DateReturn:      m.DateReturn,
		TimeOut:         m.TimeOut,
		TimeReturn:      m.TimeReturn,
		Location:        m.Location,
		State:           m.State,
		Purpose:         m.Purpose,
		StatusFrequency: m.StatusFrequency,
	}
	if !m.CreatedAt.IsZero() {
		created := m.CreatedAt
		resp.CreatedAt = &created
	}
	return resp
}

// NewMovementViewResponse maps an annotated movement.
func NewMovementViewResponse(v service.MovementView) MovementResponse {
	resp := NewMovementResponse(v.Movement)
	resp.TimeStatus = v.TimeStatus
	resp.DateOutDisplay = v.DateOutDisplay
	resp.DateReturnDisplay = v.DateReturnDisplay
	return resp
}
