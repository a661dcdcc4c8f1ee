package get_group_slots

import (
	"fmt"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.GroupSize < 1 || req.GroupSize > domain.MaxGroupSize {
		return fmt.Errorf("%w: groupSize must be in 1..%d", ErrInvalidInput, domain.MaxGroupSize)
	}

	if len(req.Items) == 0 {
		return fmt.Errorf("%w: at least one service is required", ErrInvalidInput)
	}

	total := 0
	for _, item := range req.Items {
		if item.ServiceID <= 0 {
			return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
		}
		if item.Quantity < 1 || item.Quantity > domain.MaxServiceQuantity {
			return fmt.Errorf("%w: quantity of service %d must be in 1..%d",
				ErrInvalidInput, item.ServiceID, domain.MaxServiceQuantity)
		}
		total += item.Quantity
	}
	if total > domain.MaxServicesPerRequest {
		return fmt.Errorf("%w: at most %d services per group", ErrInvalidInput, domain.MaxServicesPerRequest)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}

// expandItems повторяет каждую услугу quantity раз в порядке запроса.
// Возвращает ID первой ненайденной услуги.
func expandItems(items []Item, found []domain.Service) ([]domain.Service, int64, bool) {
	byID := make(map[int64]domain.Service, len(found))
	for _, s := range found {
		byID[s.ID] = s
	}

	result := make([]domain.Service, 0, len(items))
	for _, item := range items {
		s, ok := byID[item.ServiceID]
		if !ok {
			return nil, item.ServiceID, false
		}
		for i := 0; i < item.Quantity; i++ {
			result = append(result, s)
		}
	}
	return result, 0, true
}

func serviceIDs(items []Item) []int64 {
	seen := make(map[int64]struct{}, len(items))
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ServiceID]; ok {
			continue
		}
		seen[item.ServiceID] = struct{}{}
		ids = append(ids, item.ServiceID)
	}
	return ids
}

func nonEmptyLanes(lanes []domain.Lane) []domain.Lane {
	result := make([]domain.Lane, 0, len(lanes))
	for _, l := range lanes {
		if !l.IsEmpty() {
			result = append(result, l)
		}
	}
	return result
}
