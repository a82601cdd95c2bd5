package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/staff-presence/internal/domain"
)

func TestStaffFromRecordDefaults(t *testing.T) {
	staff := StaffFromRecord(domain.Record{
		"id":       float64(1700000000000),
		"name":     "Aminah",
		"username": "  aminah ",
		"role":     nil,
	})

	assert.Equal(t, "1700000000000", staff.ID)
	assert.Equal(t, "aminah", staff.Username)
	assert.Equal(t, domain.StaffRoleStaff, staff.Role)
	assert.Equal(t, domain.StatusInOffice, staff.CurrentStatus)
	assert.Empty(t, staff.Position)
}

func TestStaffFromRecordNormalizesEnums(t *testing.T) {
	staff := StaffFromRecord(domain.Record{
		"id":            "s1",
		"role":          "ADMIN",
		"currentStatus": "out_of_office",
	})
	assert.Equal(t, domain.StaffRoleAdmin, staff.Role)
	assert.Equal(t, domain.StatusOutOfOffice, staff.CurrentStatus)

	bogus := StaffFromRecord(domain.Record{"role": "owner", "currentStatus": "AWAY"})
	assert.Equal(t, domain.StaffRoleStaff, bogus.Role)
	assert.Equal(t, domain.StatusInOffice, bogus.CurrentStatus)
}

func TestMovementFromRecordCanonicalizesDates(t *testing.T) {
	created := time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC)
	m := MovementFromRecord(domain.Record{
		"id":         "m1",
		"staffId":    int64(42),
		"dateOut":    "2024-03-10T00:00:00.000Z",
		"dateReturn": time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC),
		"location":   "Kuching",
		"createdAt":  created.Format(time.RFC3339Nano),
	})

	assert.Equal(t, "42", m.StaffID)
	assert.Equal(t, "2024-03-10", m.DateOut)
	assert.Equal(t, "2024-03-12", m.DateReturn)
	assert.Equal(t, domain.StatusInOffice, m.StatusFrequency)
	assert.True(t, created.Equal(m.CreatedAt))
}

func TestMovementRoundTripKeepsFields(t *testing.T) {
	in := domain.MovementRecord{
		ID:              "m2",
		StaffID:         "s1",
		StaffName:       "Aminah",
		DateOut:         "2024-05-01",
		DateReturn:      "2024-05-03",
		TimeOut:         "08:00",
		TimeReturn:      "17:00",
		Location:        "Miri",
		State:           "Sarawak",
		Purpose:         "Audit",
		StatusFrequency: domain.StatusOutOfOffice,
		CreatedAt:       time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, in, MovementFromRecord(MovementToRecord(in)))
}
