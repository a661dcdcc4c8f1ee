package create_booking

import (
	"fmt"
	"unicode/utf8"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: startTime: %v", ErrInvalidInput, err)
	}

	if len(req.Lanes) == 0 || len(req.Lanes) > domain.MaxGroupSize {
		return fmt.Errorf("%w: lanes count must be in 1..%d", ErrInvalidInput, domain.MaxGroupSize)
	}

	seen := make(map[int64]struct{}, len(req.Lanes))
	for i, lane := range req.Lanes {
		if len(lane.ServiceIDs) == 0 || len(lane.ServiceIDs) > domain.MaxServicesPerRequest {
			return fmt.Errorf("%w: lane %d must have 1..%d services", ErrInvalidInput, i, domain.MaxServicesPerRequest)
		}
		for _, id := range lane.ServiceIDs {
			if id <= 0 {
				return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
			}
		}

		if lane.TechnicianID == nil {
			continue
		}
		if *lane.TechnicianID <= 0 {
			return fmt.Errorf("%w: technicianID must be positive", ErrInvalidInput)
		}
		if _, dup := seen[*lane.TechnicianID]; dup {
			return fmt.Errorf("%w: id=%d", ErrTechnicianDoubleBooked, *lane.TechnicianID)
		}
		seen[*lane.TechnicianID] = struct{}{}
	}

	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes are longer than %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

func serviceIDs(lanes []LaneRequest) []int64 {
	seen := make(map[int64]struct{})
	ids := make([]int64, 0)
	for _, lane := range lanes {
		for _, id := range lane.ServiceIDs {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}

// resolveLane собирает услуги дорожки в порядке запроса.
// Возвращает ID первой ненайденной услуги.
func resolveLane(ids []int64, byID map[int64]domain.Service) (domain.Lane, int64, bool) {
	lane := domain.Lane{Services: make([]domain.Service, 0, len(ids))}
	for _, id := range ids {
		s, ok := byID[id]
		if !ok {
			return domain.Lane{}, id, false
		}
		lane.Services = append(lane.Services, s)
	}
	return lane, 0, true
}

func containsTechnician(techs []domain.Technician, id int64) bool {
	for _, t := range techs {
		if !t.IsNoPreference() && t.ID == id {
			return true
		}
	}
	return false
}
