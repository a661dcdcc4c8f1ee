package scheduling

import (
	"fmt"
	"math"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// SlotQuery входные данные расчета слотов одного мастера на один день
type SlotQuery struct {
	Technician domain.Technician
	Services   []domain.ServiceGroup
	Date       time.Time // любой момент нужного дня в часовом поясе салона
	Hours      domain.BusinessHours
	Bookings   []*domain.Appointment
	Buffer     time.Duration
	Now        time.Time
	Step       time.Duration // 0 = domain.SlotStepMinutes
}

// AvailableSlots возвращает отсортированные времена начала, на которые мастер
// может выполнить все запрошенные услуги подряд. Пустой результат не является ошибкой.
func AvailableSlots(q SlotQuery) ([]time.Time, error) {
	if err := validateQuery(q); err != nil {
		return nil, err
	}

	day := domain.StartOfDay(q.Date, q.Date.Location())
	slots := make([]time.Time, 0)

	if q.Technician.IsUnavailableOn(day) || isClosed(q.Hours) {
		return slots, nil
	}

	busy, err := busyIntervals(q, day)
	if err != nil {
		return nil, err
	}

	total := totalDuration(q.Services)
	windowStart, windowEnd := q.Hours.Window(day)
	earliest := earliestStart(q, day)
	step := stepOf(q)

	for s := windowStart; !s.After(windowEnd); s = s.Add(step) {
		e := s.Add(total)
		if e.After(windowEnd) {
			break
		}
		if s.Before(earliest) {
			continue
		}
		if Overlaps(busy, s, e) {
			continue
		}
		slots = append(slots, s)
	}
	return slots, nil
}

// CheckSlot проверяет одно конкретное время начала по тем же правилам, что и AvailableSlots.
// Используется при создании записи для повторной проверки под блокировкой.
func CheckSlot(q SlotQuery, start time.Time) error {
	if err := validateQuery(q); err != nil {
		return err
	}

	day := domain.StartOfDay(q.Date, q.Date.Location())
	if q.Technician.IsUnavailableOn(day) {
		return ErrTechnicianUnavailable
	}
	if isClosed(q.Hours) {
		return fmt.Errorf("%w: salon is closed on %s", ErrSlotOutsideHours, day.Format(domain.DateFormat))
	}

	windowStart, windowEnd := q.Hours.Window(day)
	end := start.Add(totalDuration(q.Services))
	if start.Before(windowStart) || end.After(windowEnd) {
		return fmt.Errorf("%w: %s-%s", ErrSlotOutsideHours,
			start.Format(domain.TimeFormat), end.Format(domain.TimeFormat))
	}
	if start.Sub(windowStart)%stepOf(q) != 0 {
		return ErrSlotMisaligned
	}
	if start.Before(earliestStart(q, day)) {
		return ErrSlotTooSoon
	}

	busy, err := busyIntervals(q, day)
	if err != nil {
		return err
	}
	if Overlaps(busy, start, end) {
		return ErrSlotOverlaps
	}
	return nil
}

func validateQuery(q SlotQuery) error {
	if q.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if len(q.Services) == 0 {
		return fmt.Errorf("%w: no services requested", ErrInvalidInput)
	}
	for _, g := range q.Services {
		if len(g.Services) == 0 {
			return fmt.Errorf("%w: category %d has no services", ErrInvalidInput, g.CategoryID)
		}
		for _, s := range g.Services {
			if err := validateService(s); err != nil {
				return err
			}
		}
	}
	if !isClosed(q.Hours) && !q.Hours.IsValid() {
		return fmt.Errorf("%w: business hours %d-%d", ErrInvalidInput, q.Hours.Start, q.Hours.End)
	}
	if q.Step < 0 || q.Buffer < 0 {
		return fmt.Errorf("%w: step and buffer must not be negative", ErrInvalidInput)
	}
	return nil
}

func validateService(s domain.Service) error {
	if s.DurationMinutes <= 0 {
		return fmt.Errorf("%w: service id=%d has non-positive duration %d", ErrInvalidInput, s.ID, s.DurationMinutes)
	}
	if math.IsNaN(s.Price) || math.IsInf(s.Price, 0) || s.Price < 0 {
		return fmt.Errorf("%w: service id=%d has invalid price %v", ErrInvalidInput, s.ID, s.Price)
	}
	return nil
}

// isClosed: Start == End означает выходной день
func isClosed(h domain.BusinessHours) bool {
	return h.Start == h.End
}

func busyIntervals(q SlotQuery, day time.Time) ([]Interval, error) {
	// У "любого свободного мастера" нет собственного календаря
	if q.Technician.IsNoPreference() {
		return nil, nil
	}
	return OccupiedIntervals(q.Bookings, day)
}

func earliestStart(q SlotQuery, day time.Time) time.Time {
	if q.Now.IsZero() || !domain.IsSameDay(day, q.Now, day.Location()) {
		return time.Time{}
	}
	return q.Now.Add(q.Buffer)
}

func totalDuration(groups []domain.ServiceGroup) time.Duration {
	return time.Duration(domain.TotalMinutes(groups)) * time.Minute
}

func stepOf(q SlotQuery) time.Duration {
	if q.Step > 0 {
		return q.Step
	}
	return domain.SlotStepMinutes * time.Minute
}
