package domain

// Scheduling constants
const (
	SlotStepMinutes        = 30 // шаг сетки кандидатов
	DefaultBufferTimeHours = 1  // минимальный запас до начала записи на сегодня
	MaxBufferTimeHours     = 72

	// Порог, до которого раскладка услуг ищется полным перебором
	ExhaustiveMaxItems = 20
	ExhaustiveMaxLanes = 4
)

// Business validation constants
const (
	MaxGroupSize                = 12
	MaxServiceQuantity          = 12
	MaxServicesPerRequest       = 30
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// NoPreferenceName имя записи-заглушки "любой свободный мастер" в каталоге
const NoPreferenceName = "No Preference"

// InactiveStatuses статусы, не занимающие время мастера
var InactiveStatuses = []AppointmentStatus{
	StatusCancelledByCustomer,
	StatusCancelledBySalon,
	StatusNoShow,
}
