package get_available_slots

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date            string          `json:"date"`
	TechnicianID    int64           `json:"technicianId"`
	TechnicianName  string          `json:"technicianName"`
	DurationMinutes int             `json:"durationMinutes"`
	Slots           []AvailableSlot `json:"slots"`
}

// AvailableSlot время начала в часовом поясе салона и как абсолютный момент
type AvailableSlot struct {
	StartTime string `json:"startTime"` // "10:30"
	StartsAt  string `json:"startsAt"`  // RFC 3339
	EndsAt    string `json:"endsAt"`    // RFC 3339
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	duration := time.Duration(resp.TotalMinutes) * time.Minute

	slots := make([]AvailableSlot, len(resp.Slots))
	for i, start := range resp.Slots {
		slots[i] = AvailableSlot{
			StartTime: start.Format(domain.TimeFormat),
			StartsAt:  start.Format(time.RFC3339),
			EndsAt:    start.Add(duration).Format(time.RFC3339),
		}
	}

	return &AvailableSlotsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		TechnicianID:    resp.TechnicianID,
		TechnicianName:  resp.TechnicianName,
		DurationMinutes: resp.TotalMinutes,
		Slots:           slots,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(technicianID int64, serviceIDs []int64, dateStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		TechnicianID: technicianID,
		ServiceIDs:   serviceIDs,
		Date:         date,
	}, nil
}

// ParseServiceIDs разбирает "1,2,2": порядок и повторы сохраняются
func ParseServiceIDs(raw string) ([]int64, error) {
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, errors.New("empty service id")
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("service id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
