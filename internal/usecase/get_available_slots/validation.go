package get_available_slots

import (
	"fmt"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.TechnicianID <= 0 {
		return fmt.Errorf("%w: technicianID must be positive", ErrInvalidInput)
	}

	if len(req.ServiceIDs) == 0 {
		return fmt.Errorf("%w: at least one service is required", ErrInvalidInput)
	}
	if len(req.ServiceIDs) > domain.MaxServicesPerRequest {
		return fmt.Errorf("%w: at most %d services per request", ErrInvalidInput, domain.MaxServicesPerRequest)
	}
	for _, id := range req.ServiceIDs {
		if id <= 0 {
			return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
		}
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}

// resolveServices раскладывает найденные услуги в порядке запроса (с повторами).
// Возвращает ID первой ненайденной услуги.
func resolveServices(ids []int64, found []domain.Service) ([]domain.Service, int64, bool) {
	byID := make(map[int64]domain.Service, len(found))
	for _, s := range found {
		byID[s.ID] = s
	}

	result := make([]domain.Service, 0, len(ids))
	for _, id := range ids {
		s, ok := byID[id]
		if !ok {
			return nil, id, false
		}
		result = append(result, s)
	}
	return result, 0, true
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	result := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
