package scheduling

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных (длительность, цена, часы работы)
	ErrInvalidInput = errors.New("scheduling: invalid input")

	// ErrScheduleFetch возвращается, когда не удалось получить расписания мастеров
	ErrScheduleFetch = errors.New("scheduling: failed to fetch technician schedules")

	// ErrTechnicianUnavailable мастер не работает в этот день
	ErrTechnicianUnavailable = errors.New("scheduling: technician is unavailable on this date")

	// ErrSlotMisaligned время начала не попадает на сетку слотов
	ErrSlotMisaligned = errors.New("scheduling: start time is not on the slot grid")

	// ErrSlotOutsideHours слот выходит за часы работы салона
	ErrSlotOutsideHours = errors.New("scheduling: slot is outside business hours")

	// ErrSlotTooSoon слот начинается раньше, чем now + buffer
	ErrSlotTooSoon = errors.New("scheduling: slot starts too soon")

	// ErrSlotOverlaps слот пересекается с существующей записью
	ErrSlotOverlaps = errors.New("scheduling: slot overlaps an existing appointment")
)
