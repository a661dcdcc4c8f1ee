package domain

import "time"

// BusinessHours are opening hours for one day, as whole hours of day
type BusinessHours struct {
	Start int
	End   int
}

// IsValid reports 0 <= Start < End <= 24
func (h BusinessHours) IsValid() bool {
	return h.Start >= 0 && h.End <= 24 && h.Start < h.End
}

// Window returns the half-open business window on the calendar day of date
func (h BusinessHours) Window(date time.Time) (time.Time, time.Time) {
	y, m, d := date.Date()
	loc := date.Location()
	return time.Date(y, m, d, h.Start, 0, 0, 0, loc), time.Date(y, m, d, h.End, 0, 0, 0, loc)
}

// StartOfDay re-anchors the calendar day of date at midnight in loc
func StartOfDay(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// IsSameDay reports whether two instants fall on the same calendar day in loc
func IsSameDay(a, b time.Time, loc *time.Location) bool {
	return dayKey(a.In(loc)) == dayKey(b.In(loc))
}

// IsDateInPast reports whether the calendar day of date is before the day of now
func IsDateInPast(date, now time.Time) bool {
	return dayKey(date) < dayKey(now.In(date.Location()))
}
