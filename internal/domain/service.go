package domain

// Service represents a salon service from the catalog
type Service struct {
	ID              int64
	Name            string
	CategoryID      int64
	DurationMinutes int
	Price           float64
}

// ServiceGroup is a set of requested services belonging to one category
type ServiceGroup struct {
	CategoryID int64
	Services   []Service
}

// TotalMinutes returns the summed duration of the group
func (g ServiceGroup) TotalMinutes() int {
	total := 0
	for _, s := range g.Services {
		total += s.DurationMinutes
	}
	return total
}

// GroupByCategory groups services by category, keeping first-appearance order
func GroupByCategory(services []Service) []ServiceGroup {
	groups := make([]ServiceGroup, 0)
	index := make(map[int64]int)

	for _, s := range services {
		i, ok := index[s.CategoryID]
		if !ok {
			index[s.CategoryID] = len(groups)
			groups = append(groups, ServiceGroup{CategoryID: s.CategoryID})
			i = len(groups) - 1
		}
		groups[i].Services = append(groups[i].Services, s)
	}
	return groups
}

// TotalMinutes sums durations across all groups
func TotalMinutes(groups []ServiceGroup) int {
	total := 0
	for _, g := range groups {
		total += g.TotalMinutes()
	}
	return total
}
