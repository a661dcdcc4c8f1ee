package get_daily_calendar

import (
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/appointments/models"
)

// ToServiceRequest собирает запрос к сервису из query параметров
func ToServiceRequest(userID int64, dateStr, technicianIDStr, includeInactiveStr string) (*models.GetDailyCalendarRequest, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, fmt.Errorf("date %q: %w", dateStr, err)
	}

	req := &models.GetDailyCalendarRequest{
		UserID: userID,
		Date:   date,
	}

	if technicianIDStr != "" {
		technicianID, err := strconv.ParseInt(technicianIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("technicianId %q: %w", technicianIDStr, err)
		}
		req.TechnicianID = &technicianID
	}

	if includeInactiveStr != "" {
		includeInactive, err := strconv.ParseBool(includeInactiveStr)
		if err != nil {
			return nil, fmt.Errorf("includeInactive %q: %w", includeInactiveStr, err)
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
