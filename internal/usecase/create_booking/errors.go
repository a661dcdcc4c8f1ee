package create_booking

import "errors"

var (
	// ErrTechnicianNotFound возвращается, когда мастер не найден
	ErrTechnicianNotFound = errors.New("create_booking: technician not found")

	// ErrTechnicianNotQualified возвращается, когда мастер не выполняет услуги этой категории
	ErrTechnicianNotQualified = errors.New("create_booking: technician does not perform these services")

	// ErrTechnicianDoubleBooked возвращается, когда один мастер указан в двух дорожках
	ErrTechnicianDoubleBooked = errors.New("create_booking: technician is assigned to more than one lane")

	// ErrTechnicianUnavailable возвращается, когда мастер не работает в этот день
	ErrTechnicianUnavailable = errors.New("create_booking: technician is unavailable on this date")

	// ErrServiceNotFound возвращается, когда хотя бы одна из услуг не найдена
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrInvalidDate возвращается, когда дата в прошлом
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrSlotNotAvailable возвращается, когда время уже занято
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrInvalidTimeSlot возвращается, когда время не на сетке или вне рабочих часов
	ErrInvalidTimeSlot = errors.New("create_booking: invalid time slot")

	// ErrTooLateToBook возвращается, когда до начала осталось меньше допустимого запаса
	ErrTooLateToBook = errors.New("create_booking: too late to book this slot")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
