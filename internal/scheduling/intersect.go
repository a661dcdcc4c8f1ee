package scheduling

import (
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// GroupQuery общие параметры дня для всех дорожек групповой записи
type GroupQuery struct {
	Date   time.Time
	Hours  domain.BusinessHours
	Buffer time.Duration
	Now    time.Time
	Step   time.Duration
}

func (q GroupQuery) slotQuery(tech domain.Technician, lane domain.Lane, bookings []*domain.Appointment) SlotQuery {
	return SlotQuery{
		Technician: tech,
		Services:   lane.Groups(),
		Date:       q.Date,
		Hours:      q.Hours,
		Bookings:   bookings,
		Buffer:     q.Buffer,
		Now:        q.Now,
		Step:       q.Step,
	}
}

// CommonSlots возвращает времена начала, свободные одновременно для всех пар (мастер, дорожка).
// Если хотя бы у одного мастера нет слотов, результат пустой.
func CommonSlots(
	techs []domain.Technician,
	lanes []domain.Lane,
	schedules map[int64][]*domain.Appointment,
	q GroupQuery,
) ([]time.Time, error) {
	if len(techs) != len(lanes) {
		return nil, fmt.Errorf("%w: %d technicians for %d lanes", ErrInvalidInput, len(techs), len(lanes))
	}
	if len(techs) == 0 {
		return []time.Time{}, nil
	}

	sets := make([][]time.Time, 0, len(techs))
	for i, tech := range techs {
		var bookings []*domain.Appointment
		if !tech.IsNoPreference() {
			bookings = schedules[tech.ID]
		}

		slots, err := AvailableSlots(q.slotQuery(tech, lanes[i], bookings))
		if err != nil {
			return nil, err
		}
		if len(slots) == 0 {
			return []time.Time{}, nil
		}
		sets = append(sets, slots)
	}

	return IntersectSlots(sets...), nil
}

// IntersectSlots пересекает наборы по точному совпадению момента времени, результат по возрастанию
func IntersectSlots(sets ...[]time.Time) []time.Time {
	result := make([]time.Time, 0)
	if len(sets) == 0 {
		return result
	}

	counts := make(map[int64]int)
	for _, set := range sets {
		seen := make(map[int64]struct{}, len(set))
		for _, t := range set {
			key := t.UnixNano()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			counts[key]++
		}
	}

	added := make(map[int64]struct{})
	for _, t := range sets[0] {
		key := t.UnixNano()
		if _, dup := added[key]; dup || counts[key] != len(sets) {
			continue
		}
		added[key] = struct{}{}
		result = append(result, t)
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Before(result[j]) })
	return result
}
