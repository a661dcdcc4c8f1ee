package domain

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusBooked              AppointmentStatus = "booked"
	StatusCompleted           AppointmentStatus = "completed"
	StatusCancelledByCustomer AppointmentStatus = "cancelled_by_customer"
	StatusCancelledBySalon    AppointmentStatus = "cancelled_by_salon"
	StatusNoShow              AppointmentStatus = "no_show"
)

// AppointmentService is a service line of an appointment, denormalized for history
type AppointmentService struct {
	ServiceID       int64
	Name            string
	DurationMinutes int
	Price           float64
}

// Appointment is one technician's block of consecutive services for a customer
type Appointment struct {
	ID           int64
	CustomerID   int64
	TechnicianID *int64  // nil: booked with "No Preference"
	GroupID      *string // shared by all appointments of one group booking
	Date         time.Time
	StartTime    types.TimeString
	Services     []AppointmentService
	Status       AppointmentStatus

	Notes              *string
	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TotalMinutes returns the summed duration of all services
func (a *Appointment) TotalMinutes() int {
	total := 0
	for _, s := range a.Services {
		total += s.DurationMinutes
	}
	return total
}

// TotalPrice returns the summed price of all services
func (a *Appointment) TotalPrice() float64 {
	total := 0.0
	for _, s := range a.Services {
		total += s.Price
	}
	return total
}

// IsActive returns true if the appointment still occupies technician time
func (a *Appointment) IsActive() bool {
	for _, s := range InactiveStatuses {
		if a.Status == s {
			return false
		}
	}
	return true
}

// CanBeCancelled returns true if the appointment can be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusBooked
}

// IsCancelled returns true if the appointment has been cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == StatusCancelledByCustomer || a.Status == StatusCancelledBySalon
}

// DailyCalendarFilter фильтр календаря салона на день
type DailyCalendarFilter struct {
	Date            time.Time
	TechnicianID    *int64 // опционально
	IncludeInactive bool
}
