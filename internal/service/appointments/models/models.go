package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// CancelAppointmentRequest запрос на отмену записи
type CancelAppointmentRequest struct {
	UserID             int64  `json:"userId"`
	CancellationReason string `json:"cancellationReason"`
}

// GetCustomerAppointmentsRequest запрос на получение записей клиента
type GetCustomerAppointmentsRequest struct {
	UserID     int64   `json:"userId"`     // кто запрашивает
	CustomerID int64   `json:"customerId"` // чьи записи
	Status     *string `json:"status,omitempty"`
}

// GetDailyCalendarRequest запрос календаря салона на день
type GetDailyCalendarRequest struct {
	UserID          int64     `json:"userId"`
	Date            time.Time `json:"date"`
	TechnicianID    *int64    `json:"technicianId,omitempty"`
	IncludeInactive bool      `json:"includeInactive,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetDailyCalendarRequest) ToDomainFilter() domain.DailyCalendarFilter {
	return domain.DailyCalendarFilter{
		Date:            r.Date,
		TechnicianID:    r.TechnicianID,
		IncludeInactive: r.IncludeInactive,
	}
}

// Response модели

// ServiceLine услуга в составе записи
type ServiceLine struct {
	ServiceID       int64   `json:"serviceId"`
	Name            string  `json:"name"`
	DurationMinutes int     `json:"durationMinutes"`
	Price           float64 `json:"price"`
}

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID              int64         `json:"id"`
	CustomerID      int64         `json:"customerId"`
	TechnicianID    *int64        `json:"technicianId"` // null: "любой свободный мастер"
	GroupID         *string       `json:"groupId,omitempty"`
	Date            string        `json:"date"`      // "2025-10-15"
	StartTime       string        `json:"startTime"` // "10:00"
	DurationMinutes int           `json:"durationMinutes"`
	TotalPrice      float64       `json:"totalPrice"`
	Status          string        `json:"status"`
	Services        []ServiceLine `json:"services"`
	Notes           *string       `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	services := make([]ServiceLine, len(a.Services))
	for i, s := range a.Services {
		services[i] = ServiceLine{
			ServiceID:       s.ServiceID,
			Name:            s.Name,
			DurationMinutes: s.DurationMinutes,
			Price:           s.Price,
		}
	}

	resp := &AppointmentResponse{
		ID:                 a.ID,
		CustomerID:         a.CustomerID,
		TechnicianID:       a.TechnicianID,
		GroupID:            a.GroupID,
		Date:               a.Date.Format(domain.DateFormat),
		StartTime:          a.StartTime.String(),
		DurationMinutes:    a.TotalMinutes(),
		TotalPrice:         a.TotalPrice(),
		Status:             string(a.Status),
		Services:           services,
		Notes:              a.Notes,
		CancellationReason: a.CancellationReason,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}

	if a.CancelledAt != nil {
		cancelledStr := a.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
	}

	for _, a := range appointments {
		if item := FromDomainAppointment(a); item != nil {
			resp.Appointments = append(resp.Appointments, *item)
		}
	}

	return resp
}

// ToDomainAppointmentStatus конвертирует строку в domain.AppointmentStatus с валидацией
func ToDomainAppointmentStatus(status string) (domain.AppointmentStatus, error) {
	s := domain.AppointmentStatus(status)

	validStatuses := []domain.AppointmentStatus{
		domain.StatusBooked,
		domain.StatusCompleted,
		domain.StatusCancelledByCustomer,
		domain.StatusCancelledBySalon,
		domain.StatusNoShow,
	}

	for _, valid := range validStatuses {
		if s == valid {
			return s, nil
		}
	}

	return "", ErrInvalidStatus
}
