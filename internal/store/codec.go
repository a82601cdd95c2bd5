// Package store is the record store facade consumed by the presence engine.
// It is the only place where loosely-typed records are turned into domain
// values.
package store

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spec-kit/staff-presence/internal/dateutil"
	"github.com/spec-kit/staff-presence/internal/domain"
)

// StaffFromRecord coerces a raw record into a StaffMember. Missing or
// malformed fields fall back to safe defaults and never fail.
func StaffFromRecord(rec domain.Record) domain.StaffMember {
	role := domain.StaffRole(strings.ToLower(asString(rec["role"])))
	if !role.Valid() {
		role = domain.StaffRoleStaff
	}
	status := domain.Status(strings.ToUpper(asString(rec["currentStatus"])))
	if !status.Valid() {
		status = domain.StatusInOffice
	}

	return domain.StaffMember{
		ID:            asString(rec["id"]),
		Name:          asString(rec["name"]),
		Position:      asString(rec["position"]),
		Username:      asString(rec["username"]),
		PasswordHash:  asString(rec["passwordHash"]),
		Role:          role,
		CurrentStatus: status,
	}
}

// StaffToRecord is the inverse of StaffFromRecord.
func StaffToRecord(s domain.StaffMember) domain.Record {
	return domain.Record{
		"id":            s.ID,
		"name":          s.Name,
		"position":      s.Position,
		"username":      s.Username,
		"passwordHash":  s.PasswordHash,
		"role":          string(s.Role),
		"currentStatus": string(s.CurrentStatus),
	}
}

// MovementFromRecord coerces a raw record into a MovementRecord. Dates are
// canonicalized to YYYY-MM-DD when they parse and kept verbatim otherwise.
func MovementFromRecord(rec domain.Record) domain.MovementRecord {
	freq := domain.Status(strings.ToUpper(asString(rec["statusFrequency"])))
	if !freq.Valid() {
		freq = domain.StatusInOffice
	}

	return domain.MovementRecord{
		ID:              asString(rec["id"]),
		StaffID:         asString(rec["staffId"]),
		StaffName:       asString(rec["staffName"]),
		DateOut:         asDate(rec["dateOut"]),
		DateReturn:      asDate(rec["dateReturn"]),
		TimeOut:         asString(rec["timeOut"]),
		TimeReturn:      asString(rec["timeReturn"]),
		Location:        asString(rec["location"]),
		State:           asString(rec["state"]),
		Purpose:         asString(rec["purpose"]),
		StatusFrequency: freq,
		CreatedAt:       asTime(rec["createdAt"]),
	}
}

// MovementToRecord is the inverse of MovementFromRecord.
func MovementToRecord(m domain.MovementRecord) domain.Record {
	return domain.Record{
		"id":              m.ID,
		"staffId":         m.StaffID,
		"staffName":       m.StaffName,
		"dateOut":         m.DateOut,
		"dateReturn":      m.DateReturn,
		"timeOut":         m.TimeOut,
		"timeReturn":      m.TimeReturn,
		"location":        m.Location,
		"state":           m.State,
		"purpose":         m.Purpose,
		"statusFrequency": string(m.StatusFrequency),
		"createdAt":       m.CreatedAt,
	}
}

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case []byte:
		return strings.TrimSpace(string(t))
	case float64:
		if t == math.Trunc(t) && !math.IsInf(t, 0) {
			return strconv.FormatFloat(t, 'f', -1, 64)
		}
		return strconv.FormatFloat(t, 'g', -1, 64)
	case float32:
		return asString(float64(t))
	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	case fmt.Stringer:
		return strings.TrimSpace(t.String())
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

func asDate(v any) string {
	if t, ok := v.(time.Time); ok {
		return dateutil.Format(t)
	}
	return dateutil.Canonical(asString(v))
}

func asTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t.UTC()
	case string:
		if parsed, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(t)); err == nil {
			return parsed.UTC()
		}
	}
	return time.Time{}
}
