package dto

import "github.com/spec-kit/staff-presence/internal/domain"

// StaffRequest payload for creating or updating a staff member. Omitted
// fields are left unchanged on update.
type StaffRequest struct {
	Name     *string           `json:"name"`
	Position *string           `json:"position"`
	Username *string           `json:"username"`
	Password *string           `json:"password"`
	Role     *domain.StaffRole `json:"role"`
}

// StaffResponse representation. The password hash is never exposed.
type StaffResponse struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Position      string           `json:"position"`
	Username      string           `json:"username"`
	Role          domain.StaffRole `json:"role"`
	CurrentStatus domain.Status    `json:"current_status"`
}

// NewStaffResponse maps a domain staff member.
func NewStaffResponse(s domain.StaffMember) StaffResponse {
	return StaffResponse{
		ID:            s.ID,
		Name:          s.Name,
		Position:      s.Position,
		Username:      s.Username,
		Role:          s.Role,
		CurrentStatus: s.CurrentStatus,
	}
}
