package scheduling

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// Interval полуинтервал [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps проверяет пересечение [start, end) с интервалом.
// Касание границ пересечением не считается. Пустой интервал [x, x)
// пересекается только если x лежит строго внутри.
func (i Interval) Overlaps(start, end time.Time) bool {
	return start.Before(i.End) && i.Start.Before(end)
}

// Overlaps сообщает, пересекается ли [start, end) хотя бы с одним занятым интервалом
func Overlaps(busy []Interval, start, end time.Time) bool {
	for _, b := range busy {
		if b.Overlaps(start, end) {
			return true
		}
	}
	return false
}

// OccupiedIntervals строит занятые интервалы активных записей на календарный день day.
// Время начала записи привязывается к часовому поясу day.
func OccupiedIntervals(appointments []*domain.Appointment, day time.Time) ([]Interval, error) {
	busy := make([]Interval, 0, len(appointments))
	y, m, d := day.Date()

	for _, a := range appointments {
		if a == nil || !a.IsActive() {
			continue
		}
		ay, am, ad := a.Date.Date()
		if ay != y || am != m || ad != d {
			continue
		}

		start, err := a.StartTime.On(day)
		if err != nil {
			return nil, fmt.Errorf("%w: appointment id=%d has bad start time: %v", ErrInvalidInput, a.ID, err)
		}

		minutes := 0
		for _, s := range a.Services {
			if s.DurationMinutes < 0 {
				return nil, fmt.Errorf("%w: appointment id=%d has negative service duration", ErrInvalidInput, a.ID)
			}
			minutes += s.DurationMinutes
		}

		busy = append(busy, Interval{Start: start, End: start.Add(time.Duration(minutes) * time.Minute)})
	}
	return busy, nil
}
