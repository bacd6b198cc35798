package model

import (
	"fmt"
	"strings"
)

// Status is the operational state reported for a seaplane.
type Status int

const (
	StatusUnknown Status = iota
	StatusDocked
	StatusFlying
	StatusMaintenance
)

// ParseStatus maps the backend status value to a Status. Unrecognised or
// empty values yield StatusUnknown.
func ParseStatus(s string) Status {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "docked":
		return StatusDocked
	case "flying":
		return StatusFlying
	case "maintenance":
		return StatusMaintenance
	default:
		return StatusUnknown
	}
}

// String returns the backend representation of the status.
func (s Status) String() string {
	switch s {
	case StatusDocked:
		return "docked"
	case StatusFlying:
		return "flying"
	case StatusMaintenance:
		return "maintenance"
	default:
		return "unknown"
	}
}

// Label returns the capitalised status used in popups and detail panels.
func (s Status) Label() string {
	v := s.String()
	return strings.ToUpper(v[:1]) + v[1:]
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Status) UnmarshalText(b []byte) error {
	st := ParseStatus(string(b))
	if st == StatusUnknown && len(b) > 0 && string(b) != "unknown" {
		return fmt.Errorf("unknown status %q", string(b))
	}
	*s = st
	return nil
}
