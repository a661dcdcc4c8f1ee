package domain

import (
	"strconv"
	"strings"
	"time"
)

type technicianKind uint8

const (
	technicianNamed technicianKind = iota
	technicianAnyAvailable
)

// TimeOff is a named date-range override during which a technician does not work.
// Both bounds are inclusive calendar days.
type TimeOff struct {
	Name string
	From time.Time
	To   time.Time
}

// Contains reports whether the calendar day of date falls inside the range
func (t TimeOff) Contains(date time.Time) bool {
	day := dayKey(date)
	return day >= dayKey(t.From) && day <= dayKey(t.To)
}

// Technician is either a named technician with a calendar or the
// "any available" placeholder. The zero value is a named technician with ID 0.
type Technician struct {
	ID             int64
	Name           string
	Unavailability string // raw weekday list, e.g. "0, 3"
	TimeOff        *TimeOff

	kind technicianKind
}

// NewTechnician builds a named technician
func NewTechnician(id int64, name, unavailability string, timeOff *TimeOff) Technician {
	return Technician{
		ID:             id,
		Name:           name,
		Unavailability: unavailability,
		TimeOff:        timeOff,
		kind:           technicianNamed,
	}
}

// NoPreference builds the "any available" placeholder
func NoPreference() Technician {
	return Technician{Name: NoPreferenceName, kind: technicianAnyAvailable}
}

// IsNoPreference reports whether t is the placeholder
func (t Technician) IsNoPreference() bool {
	return t.kind == technicianAnyAvailable
}

// UnavailableWeekdays parses the raw unavailability list.
// Tokens are separated by commas or whitespace; anything that is not 0..6 is ignored.
func (t Technician) UnavailableWeekdays() map[time.Weekday]struct{} {
	days := make(map[time.Weekday]struct{})
	if t.IsNoPreference() {
		return days
	}

	fields := strings.FieldsFunc(t.Unavailability, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == ';'
	})
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 || n > 6 {
			continue
		}
		days[time.Weekday(n)] = struct{}{}
	}
	return days
}

// IsOffOn reports whether the technician has a time-off range covering date
func (t Technician) IsOffOn(date time.Time) bool {
	return !t.IsNoPreference() && t.TimeOff != nil && t.TimeOff.Contains(date)
}

// IsUnavailableOn reports time-off or a recurring unavailable weekday
func (t Technician) IsUnavailableOn(date time.Time) bool {
	if t.IsOffOn(date) {
		return true
	}
	_, off := t.UnavailableWeekdays()[date.Weekday()]
	return off
}

// SameAs compares identity: named technicians by ID, placeholders with each other
func (t Technician) SameAs(other Technician) bool {
	if t.IsNoPreference() || other.IsNoPreference() {
		return t.IsNoPreference() && other.IsNoPreference()
	}
	return t.ID == other.ID
}

func dayKey(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}
