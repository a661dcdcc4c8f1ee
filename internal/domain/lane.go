package domain

// Lane is an ordered list of services performed consecutively by one technician
type Lane struct {
	Services []Service
}

// TotalMinutes returns the summed duration of the lane
func (l Lane) TotalMinutes() int {
	total := 0
	for _, s := range l.Services {
		total += s.DurationMinutes
	}
	return total
}

// IsEmpty reports whether no services were placed in the lane
func (l Lane) IsEmpty() bool {
	return len(l.Services) == 0
}

// Contains reports whether a service with the given id is already in the lane
func (l Lane) Contains(serviceID int64) bool {
	for _, s := range l.Services {
		if s.ID == serviceID {
			return true
		}
	}
	return false
}

// ServiceIDs returns ids of the lane services in order
func (l Lane) ServiceIDs() []int64 {
	ids := make([]int64, len(l.Services))
	for i, s := range l.Services {
		ids[i] = s.ID
	}
	return ids
}

// CategoryIDs returns distinct categories in first-appearance order
func (l Lane) CategoryIDs() []int64 {
	groups := GroupByCategory(l.Services)
	ids := make([]int64, len(groups))
	for i, g := range groups {
		ids[i] = g.CategoryID
	}
	return ids
}

// Groups returns the lane services grouped by category
func (l Lane) Groups() []ServiceGroup {
	return GroupByCategory(l.Services)
}
