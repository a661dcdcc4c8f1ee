package models

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// Request модели

// UpdateSettingsRequest запрос на обновление настроек салона
// Все поля опциональны - обновляются только переданные значения
type UpdateSettingsRequest struct {
	UserID          int64      `json:"userId"`
	BufferTimeHours *int       `json:"bufferTimeHours,omitempty"`
	BusinessHours   []DayHours `json:"businessHours,omitempty"`
}

// Response модели

// DayHours часы работы на день недели (0 = воскресенье). StartHour == EndHour означает выходной
type DayHours struct {
	Weekday   int  `json:"weekday"`
	StartHour int  `json:"startHour"`
	EndHour   int  `json:"endHour"`
	IsOpen    bool `json:"isOpen"`
}

// SettingsResponse ответ с настройками салона
type SettingsResponse struct {
	BufferTimeHours int        `json:"bufferTimeHours"`
	BusinessHours   []DayHours `json:"businessHours"` // всегда 7 элементов, по порядку дней недели
	UpdatedAt       *time.Time `json:"updatedAt,omitempty"`
}

// Методы конвертации

// FromDomainSettings конвертирует domain модель в DTO
func FromDomainSettings(s *domain.SalonSettings) *SettingsResponse {
	if s == nil {
		return nil
	}

	resp := &SettingsResponse{
		BufferTimeHours: s.BufferTimeHours,
		BusinessHours:   make([]DayHours, 0, 7),
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		h := s.BusinessHours[d]
		resp.BusinessHours = append(resp.BusinessHours, DayHours{
			Weekday:   int(d),
			StartHour: h.Start,
			EndHour:   h.End,
			IsOpen:    h.IsValid(),
		})
	}
	if !s.UpdatedAt.IsZero() {
		updatedAt := s.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}

	return resp
}

// ToDomainHours конвертирует часы работы в domain модель
func (d DayHours) ToDomainHours() (time.Weekday, domain.BusinessHours) {
	return time.Weekday(d.Weekday), domain.BusinessHours{Start: d.StartHour, End: d.EndHour}
}
