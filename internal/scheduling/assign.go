package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// ScheduleFetcher пакетно получает активные записи мастеров на день
type ScheduleFetcher interface {
	GetActiveByTechniciansAndDate(ctx context.Context, technicianIDs []int64, date time.Time) (map[int64][]*domain.Appointment, error)
}

// Assignment мастера по дорожкам и общие свободные слоты.
// Пустое значение означает, что групповая запись на этот день невозможна.
type Assignment struct {
	Technicians []domain.Technician
	CommonSlots []time.Time
}

// IsEmpty сообщает, что подходящей комбинации мастеров не нашлось
func (a Assignment) IsEmpty() bool {
	return len(a.Technicians) == 0
}

// UsesPlaceholder сообщает, что хотя бы одна дорожка отдана "любому свободному мастеру"
func (a Assignment) UsesPlaceholder() bool {
	for _, t := range a.Technicians {
		if t.IsNoPreference() {
			return true
		}
	}
	return false
}

func emptyAssignment() Assignment {
	return Assignment{Technicians: []domain.Technician{}, CommonSlots: []time.Time{}}
}

// Assign простой однопроходный подбор без учета расписаний: для каждой дорожки
// первый еще не занятый именной мастер, иначе заглушка, иначе nil.
func Assign(candidates [][]domain.Technician) []*domain.Technician {
	used := make(map[int64]struct{})
	result := make([]*domain.Technician, len(candidates))

	for i, lane := range candidates {
		var pick *domain.Technician
		for _, c := range lane {
			if c.IsNoPreference() {
				continue
			}
			if _, taken := used[c.ID]; taken {
				continue
			}
			pick = &c
			break
		}
		if pick == nil {
			for _, c := range lane {
				if c.IsNoPreference() {
					pick = &c
					break
				}
			}
		}

		if pick != nil && !pick.IsNoPreference() {
			used[pick.ID] = struct{}{}
		}
		result[i] = pick
	}
	return result
}

// Assigner подбор мастеров с учетом их расписаний
type Assigner struct {
	fetcher ScheduleFetcher
}

func NewAssigner(fetcher ScheduleFetcher) *Assigner {
	return &Assigner{fetcher: fetcher}
}

// AssignWithAvailability одним запросом получает расписания всех кандидатов
// и перебором ищет комбинацию с наибольшим числом общих слотов.
func (a *Assigner) AssignWithAvailability(
	ctx context.Context,
	candidates [][]domain.Technician,
	lanes []domain.Lane,
	q GroupQuery,
) (Assignment, error) {
	if len(candidates) != len(lanes) {
		return Assignment{}, fmt.Errorf("%w: %d candidate lists for %d lanes", ErrInvalidInput, len(candidates), len(lanes))
	}
	if len(lanes) == 0 {
		return emptyAssignment(), nil
	}

	ids := realTechnicianIDs(candidates)
	schedules := make(map[int64][]*domain.Appointment)
	if len(ids) > 0 {
		fetched, err := a.fetcher.GetActiveByTechniciansAndDate(ctx, ids, q.Date)
		if err != nil {
			return Assignment{}, fmt.Errorf("%w: %v", ErrScheduleFetch, err)
		}
		if fetched != nil {
			schedules = fetched
		}
	}

	return SearchAssignment(candidates, lanes, schedules, q)
}

// SearchAssignment перебирает назначения по уже загруженным расписаниям.
// Возвращает лучшую комбинацию только из именных мастеров, если она дает хоть один слот,
// иначе лучшую с заглушками, иначе пустой результат. При равенстве выигрывает найденная первой.
func SearchAssignment(
	candidates [][]domain.Technician,
	lanes []domain.Lane,
	schedules map[int64][]*domain.Appointment,
	q GroupQuery,
) (Assignment, error) {
	if len(candidates) != len(lanes) {
		return Assignment{}, fmt.Errorf("%w: %d candidate lists for %d lanes", ErrInvalidInput, len(candidates), len(lanes))
	}
	if len(lanes) == 0 {
		return emptyAssignment(), nil
	}

	s := &assignmentSearch{
		candidates: orderCandidates(candidates),
		lanes:      lanes,
		schedules:  schedules,
		query:      q,
		memo:       make(map[memoKey][]time.Time),
	}
	if err := s.search(0, nil, nil); err != nil {
		return Assignment{}, err
	}

	switch {
	case s.bestReal != nil:
		return *s.bestReal, nil
	case s.bestAny != nil:
		return *s.bestAny, nil
	default:
		return emptyAssignment(), nil
	}
}

type memoKey struct {
	technicianID int64
	noPreference bool
	lane         int
}

type assignmentSearch struct {
	candidates [][]domain.Technician
	lanes      []domain.Lane
	schedules  map[int64][]*domain.Appointment
	query      GroupQuery
	memo       map[memoKey][]time.Time

	bestReal *Assignment
	bestAny  *Assignment
}

// search: picked и common не изменяются после передачи, каждая ветка получает свои копии.
// Ветка с пустым промежуточным пересечением обрывается: дальше оно может только сужаться.
func (s *assignmentSearch) search(lane int, picked []domain.Technician, common []time.Time) error {
	if lane == len(s.lanes) {
		s.record(picked, common)
		return nil
	}

	for _, c := range s.candidates[lane] {
		if !c.IsNoPreference() && isPicked(picked, c.ID) {
			continue
		}

		slots, err := s.slotsFor(c, lane)
		if err != nil {
			return err
		}

		next := slots
		if lane > 0 {
			next = IntersectSlots(common, slots)
		}
		if len(next) == 0 {
			continue
		}

		branch := make([]domain.Technician, len(picked), len(picked)+1)
		copy(branch, picked)
		if err := s.search(lane+1, append(branch, c), next); err != nil {
			return err
		}
	}
	return nil
}

func (s *assignmentSearch) record(picked []domain.Technician, common []time.Time) {
	if len(common) == 0 {
		return
	}
	candidate := Assignment{Technicians: picked, CommonSlots: common}

	allReal := !candidate.UsesPlaceholder()
	if allReal && (s.bestReal == nil || len(common) > len(s.bestReal.CommonSlots)) {
		s.bestReal = &candidate
	}
	if s.bestAny == nil || len(common) > len(s.bestAny.CommonSlots) {
		s.bestAny = &candidate
	}
}

func (s *assignmentSearch) slotsFor(tech domain.Technician, lane int) ([]time.Time, error) {
	key := memoKey{technicianID: tech.ID, noPreference: tech.IsNoPreference(), lane: lane}
	if slots, ok := s.memo[key]; ok {
		return slots, nil
	}

	var bookings []*domain.Appointment
	if !tech.IsNoPreference() {
		bookings = s.schedules[tech.ID]
	}

	slots, err := AvailableSlots(s.query.slotQuery(tech, s.lanes[lane], bookings))
	if err != nil {
		return nil, err
	}
	s.memo[key] = slots
	return slots, nil
}

// orderCandidates: именные мастера в исходном порядке без повторов, затем одна заглушка
func orderCandidates(candidates [][]domain.Technician) [][]domain.Technician {
	ordered := make([][]domain.Technician, len(candidates))
	for i, lane := range candidates {
		named := make([]domain.Technician, 0, len(lane))
		seen := make(map[int64]struct{})
		hasPlaceholder := false

		for _, c := range lane {
			if c.IsNoPreference() {
				hasPlaceholder = true
				continue
			}
			if _, dup := seen[c.ID]; dup {
				continue
			}
			seen[c.ID] = struct{}{}
			named = append(named, c)
		}
		if hasPlaceholder {
			named = append(named, domain.NoPreference())
		}
		ordered[i] = named
	}
	return ordered
}

func realTechnicianIDs(candidates [][]domain.Technician) []int64 {
	ids := make([]int64, 0)
	seen := make(map[int64]struct{})
	for _, lane := range candidates {
		for _, c := range lane {
			if c.IsNoPreference() {
				continue
			}
			if _, dup := seen[c.ID]; dup {
				continue
			}
			seen[c.ID] = struct{}{}
			ids = append(ids, c.ID)
		}
	}
	return ids
}

func isPicked(picked []domain.Technician, id int64) bool {
	for _, p := range picked {
		if !p.IsNoPreference() && p.ID == id {
			return true
		}
	}
	return false
}
