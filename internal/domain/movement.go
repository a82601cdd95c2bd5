package domain

import "time"

// MovementRecord is a declared absence interval. DateOut and DateReturn are
// inclusive calendar dates in YYYY-MM-DD form; the time fields are
// annotations only.
type MovementRecord struct {
	ID              string
	StaffID         string
	StaffName       string
	DateOut         string
	DateReturn      string
	TimeOut         string
	TimeReturn      string
	Location        string
	State           string
	Purpose         string
	StatusFrequency Status
	CreatedAt       time.Time
}
