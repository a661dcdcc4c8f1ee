package update_settings

import (
	"github.com/m04kA/SMC-SalonBooking/internal/service/settings/models"
)

// UpdateSettingsRequest HTTP request model. Все поля опциональны
type UpdateSettingsRequest struct {
	BufferTimeHours *int              `json:"bufferTimeHours,omitempty"`
	BusinessHours   []DayHoursRequest `json:"businessHours,omitempty"`
}

// DayHoursRequest часы работы на день недели (0 = воскресенье).
// isOpen == false делает день выходным независимо от часов
type DayHoursRequest struct {
	Weekday   int  `json:"weekday"`
	StartHour int  `json:"startHour"`
	EndHour   int  `json:"endHour"`
	IsOpen    bool `json:"isOpen"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateSettingsRequest) ToServiceRequest(userID int64) *models.UpdateSettingsRequest {
	var hours []models.DayHours
	if len(r.BusinessHours) > 0 {
		hours = make([]models.DayHours, len(r.BusinessHours))
		for i, d := range r.BusinessHours {
			day := models.DayHours{
				Weekday:   d.Weekday,
				StartHour: d.StartHour,
				EndHour:   d.EndHour,
				IsOpen:    d.IsOpen,
			}
			if !d.IsOpen {
				day.StartHour, day.EndHour = 0, 0
			}
			hours[i] = day
		}
	}

	return &models.UpdateSettingsRequest{
		UserID:          userID,
		BufferTimeHours: r.BufferTimeHours,
		BusinessHours:   hours,
	}
}
