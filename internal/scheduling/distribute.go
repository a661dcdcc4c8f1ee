package scheduling

import (
	"fmt"
	"sort"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// Distributor раскладывает экземпляры услуг групповой записи по параллельным дорожкам.
// Малые входы (не больше MaxExhaustiveItems услуг и MaxExhaustiveLanes дорожек)
// раскладываются перебором с минимизацией разброса, большие - жадно.
type Distributor struct {
	MaxExhaustiveItems int
	MaxExhaustiveLanes int
}

// NewDistributor создает раскладчик; неположительные лимиты заменяются значениями по умолчанию
func NewDistributor(maxItems, maxLanes int) Distributor {
	if maxItems <= 0 {
		maxItems = domain.ExhaustiveMaxItems
	}
	if maxLanes <= 0 {
		maxLanes = domain.ExhaustiveMaxLanes
	}
	return Distributor{MaxExhaustiveItems: maxItems, MaxExhaustiveLanes: maxLanes}
}

// Distribute раскладывает услуги с лимитами по умолчанию
func Distribute(services []domain.Service, laneCount int) ([]domain.Lane, error) {
	return NewDistributor(0, 0).Distribute(services, laneCount)
}

// Distribute возвращает ровно max(laneCount, maxDup) дорожек, где maxDup - наибольшее
// число повторов одного id. Каждая услуга попадает ровно в одну дорожку, в дорожке
// нет двух услуг с одинаковым id.
func (d Distributor) Distribute(services []domain.Service, laneCount int) ([]domain.Lane, error) {
	if laneCount < 0 {
		return nil, fmt.Errorf("%w: lane count must not be negative, got %d", ErrInvalidInput, laneCount)
	}
	for _, s := range services {
		if err := validateService(s); err != nil {
			return nil, err
		}
	}

	n := laneCount
	if dup := maxDuplicates(services); dup > n {
		n = dup
	}

	items := make([]domain.Service, len(services))
	copy(items, services)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].DurationMinutes > items[j].DurationMinutes
	})

	var placement []int
	if len(items) <= d.MaxExhaustiveItems && n <= d.MaxExhaustiveLanes {
		placement = exhaustivePlacement(items, n)
	} else {
		placement = greedyPlacement(items, n)
	}

	lanes := make([]domain.Lane, n)
	for i := range lanes {
		lanes[i] = domain.Lane{Services: []domain.Service{}}
	}
	for i, lane := range placement {
		lanes[lane].Services = append(lanes[lane].Services, items[i])
	}
	return lanes, nil
}

func maxDuplicates(services []domain.Service) int {
	counts := make(map[int64]int)
	best := 0
	for _, s := range services {
		counts[s.ID]++
		if counts[s.ID] > best {
			best = counts[s.ID]
		}
	}
	return best
}

// greedyPlacement кладет каждую услугу в наименее загруженную дорожку без такого же id
func greedyPlacement(items []domain.Service, n int) []int {
	totals := make([]int, n)
	seen := make([]map[int64]struct{}, n)
	for i := range seen {
		seen[i] = make(map[int64]struct{})
	}

	placement := make([]int, len(items))
	for i, item := range items {
		best := -1
		for lane := 0; lane < n; lane++ {
			if _, dup := seen[lane][item.ID]; dup {
				continue
			}
			if best == -1 || totals[lane] < totals[best] {
				best = lane
			}
		}
		// best != -1: дорожек не меньше, чем повторов любого id
		placement[i] = best
		totals[best] += item.DurationMinutes
		seen[best][item.ID] = struct{}{}
	}
	return placement
}

// laneFrame неизменяемый снимок частичной раскладки
type laneFrame struct {
	totals    []int
	counts    []int
	placement []int // дорожка для items[0:len(placement)]
}

func (f laneFrame) place(lane, minutes int) laneFrame {
	next := laneFrame{
		totals:    append([]int(nil), f.totals...),
		counts:    append([]int(nil), f.counts...),
		placement: make([]int, len(f.placement), len(f.placement)+1),
	}
	copy(next.placement, f.placement)
	next.totals[lane] += minutes
	next.counts[lane]++
	next.placement = append(next.placement, lane)
	return next
}

func (f laneFrame) spread() int {
	minTotal, maxTotal := f.totals[0], f.totals[0]
	for _, t := range f.totals[1:] {
		if t < minTotal {
			minTotal = t
		}
		if t > maxTotal {
			maxTotal = t
		}
	}
	return maxTotal - minTotal
}

// exhaustivePlacement перебор в глубину на явном стеке снимков.
// Ветка отсекается, если ее текущий разброс уже больше лучшего найденного.
// Пустые дорожки взаимозаменяемы, поэтому пробуется только первая из них.
func exhaustivePlacement(items []domain.Service, n int) []int {
	if len(items) == 0 {
		return []int{}
	}

	// prevSame[i] - индексы более ранних услуг с тем же id
	prevSame := make([][]int, len(items))
	for i := range items {
		for j := 0; j < i; j++ {
			if items[j].ID == items[i].ID {
				prevSame[i] = append(prevSame[i], j)
			}
		}
	}

	var (
		best       []int
		bestSpread = -1
	)

	stack := []laneFrame{{
		totals:    make([]int, n),
		counts:    make([]int, n),
		placement: []int{},
	}}

	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		spread := frame.spread()
		// отсечение эвристическое: разброс частичной раскладки еще может уменьшиться, оптимум не гарантируется
		if bestSpread >= 0 && spread > bestSpread {
			continue
		}

		idx := len(frame.placement)
		if idx == len(items) {
			if bestSpread < 0 || spread < bestSpread {
				best, bestSpread = frame.placement, spread
				if bestSpread == 0 {
					break
				}
			}
			continue
		}

		children := make([]laneFrame, 0, n)
		triedEmpty := false
		for lane := 0; lane < n; lane++ {
			if frame.counts[lane] == 0 {
				if triedEmpty {
					continue
				}
				triedEmpty = true
			}
			if laneHasDuplicate(frame, prevSame[idx], lane) {
				continue
			}
			children = append(children, frame.place(lane, items[idx].DurationMinutes))
		}

		// в обратном порядке, чтобы первой раскрывалась дорожка с меньшим индексом
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}

	return best
}

func laneHasDuplicate(f laneFrame, earlier []int, lane int) bool {
	for _, j := range earlier {
		if f.placement[j] == lane {
			return true
		}
	}
	return false
}
