package scheduling

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

func lane(services ...domain.Service) domain.Lane {
	return domain.Lane{Services: services}
}

func groupQuery(date time.Time) GroupQuery {
	return GroupQuery{
		Date:  date,
		Hours: domain.BusinessHours{Start: 9, End: 17},
		Now:   at(date.AddDate(0, 0, -2), 10, 0),
	}
}

func names(techs []domain.Technician) []string {
	out := make([]string, len(techs))
	for i, t := range techs {
		out[i] = t.Name
	}
	return out
}

func TestAssign_Simple(t *testing.T) {
	anna, bella := tech(1, "Anna"), tech(2, "Bella")
	np := domain.NoPreference()

	result := Assign([][]domain.Technician{
		{anna, bella},
		{anna, np},
		{bella},
		{anna},
	})

	require.Len(t, result, 4)
	require.NotNil(t, result[0])
	assert.Equal(t, "Anna", result[0].Name)
	require.NotNil(t, result[1])
	assert.True(t, result[1].IsNoPreference())
	require.NotNil(t, result[2])
	assert.Equal(t, "Bella", result[2].Name)
	assert.Nil(t, result[3])
}

func TestAssign_PrefersNamedOverPlaceholder(t *testing.T) {
	result := Assign([][]domain.Technician{
		{domain.NoPreference(), tech(3, "Cora")},
		{domain.NoPreference()},
		{domain.NoPreference()},
	})

	assert.Equal(t, "Cora", result[0].Name)
	assert.True(t, result[1].IsNoPreference())
	assert.True(t, result[2].IsNoPreference())
}

func TestAssign_NeverReusesNamedTechnician(t *testing.T) {
	a, b, c := tech(1, "A"), tech(2, "B"), tech(3, "C")
	candidates := [][]domain.Technician{{a, b}, {a, b}, {b, a, c}, {c}, {a}}

	seen := make(map[int64]bool)
	for _, picked := range Assign(candidates) {
		if picked == nil || picked.IsNoPreference() {
			continue
		}
		assert.False(t, seen[picked.ID], "technician %d used twice", picked.ID)
		seen[picked.ID] = true
	}
}

func TestAssignWithAvailability_PrefersAllRealCombination(t *testing.T) {
	d := monday
	anna, bella := tech(1, "Anna"), tech(2, "Bella")
	fetcher := &fakeFetcher{schedules: map[int64][]*domain.Appointment{
		1: {appt(10, d, "09:00", 180)},
	}}

	result, err := NewAssigner(fetcher).AssignWithAvailability(context.Background(),
		[][]domain.Technician{{anna, domain.NoPreference()}, {bella, domain.NoPreference()}},
		[]domain.Lane{lane(svc(1, 1, 60)), lane(svc(2, 2, 60))},
		groupQuery(d),
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"Anna", "Bella"}, names(result.Technicians))
	assert.False(t, result.UsesPlaceholder())
	assert.Equal(t, []string{"12:00", "12:30", "13:00", "13:30", "14:00", "14:30", "15:00", "15:30", "16:00"},
		clockTimes(result.CommonSlots))
	assert.Equal(t, 1, fetcher.calls)
	assert.ElementsMatch(t, []int64{1, 2}, fetcher.lastIDs)
}

func TestAssignWithAvailability_MaximizesCommonSlots(t *testing.T) {
	d := monday
	anna, bella := tech(1, "Anna"), tech(2, "Bella")
	fetcher := &fakeFetcher{schedules: map[int64][]*domain.Appointment{
		1: {appt(10, d, "12:00", 30)},
	}}

	// Anna на длинной дорожке дает 11 общих слотов, на короткой 13
	result, err := NewAssigner(fetcher).AssignWithAvailability(context.Background(),
		[][]domain.Technician{{anna, bella}, {anna, bella}},
		[]domain.Lane{lane(svc(1, 1, 90)), lane(svc(2, 1, 30))},
		groupQuery(d),
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"Bella", "Anna"}, names(result.Technicians))
	assert.Len(t, result.CommonSlots, 13)
}

func TestAssignWithAvailability_FallsBackToPlaceholder(t *testing.T) {
	d := monday
	anna, bella := tech(1, "Anna"), tech(2, "Bella")
	fetcher := &fakeFetcher{schedules: map[int64][]*domain.Appointment{
		1: {appt(10, d, "09:00", 480)},
	}}

	result, err := NewAssigner(fetcher).AssignWithAvailability(context.Background(),
		[][]domain.Technician{{anna, domain.NoPreference()}, {bella}},
		[]domain.Lane{lane(svc(1, 1, 60)), lane(svc(2, 2, 60))},
		groupQuery(d),
	)
	require.NoError(t, err)

	require.Len(t, result.Technicians, 2)
	assert.True(t, result.Technicians[0].IsNoPreference())
	assert.Equal(t, "Bella", result.Technicians[1].Name)
	assert.True(t, result.UsesPlaceholder())
	assert.Len(t, result.CommonSlots, 15)
}

func TestAssignWithAvailability_PlaceholderInSeveralLanes(t *testing.T) {
	fetcher := &fakeFetcher{}

	result, err := NewAssigner(fetcher).AssignWithAvailability(context.Background(),
		[][]domain.Technician{{domain.NoPreference()}, {domain.NoPreference()}},
		[]domain.Lane{lane(svc(1, 1, 30)), lane(svc(2, 1, 30))},
		groupQuery(monday),
	)
	require.NoError(t, err)

	assert.Len(t, result.Technicians, 2)
	assert.Len(t, result.CommonSlots, 16)
	// нет именных мастеров - нечего запрашивать
	assert.Equal(t, 0, fetcher.calls)
}

func TestAssignWithAvailability_TieKeepsFirstFound(t *testing.T) {
	a, b, c := tech(1, "A"), tech(2, "B"), tech(3, "C")

	result, err := NewAssigner(&fakeFetcher{}).AssignWithAvailability(context.Background(),
		[][]domain.Technician{{a, b}, {c}},
		[]domain.Lane{lane(svc(1, 1, 30)), lane(svc(2, 2, 30))},
		groupQuery(monday),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, names(result.Technicians))
}

func TestAssignWithAvailability_NoFeasibleCombination(t *testing.T) {
	d := monday
	fetcher := &fakeFetcher{schedules: map[int64][]*domain.Appointment{
		1: {appt(10, d, "09:00", 480)},
		2: {appt(11, d, "09:00", 480)},
	}}

	result, err := NewAssigner(fetcher).AssignWithAvailability(context.Background(),
		[][]domain.Technician{{tech(1, "Anna")}, {tech(2, "Bella")}},
		[]domain.Lane{lane(svc(1, 1, 60)), lane(svc(2, 2, 60))},
		groupQuery(d),
	)
	require.NoError(t, err)

	assert.True(t, result.IsEmpty())
	assert.NotNil(t, result.Technicians)
	assert.NotNil(t, result.CommonSlots)
	assert.Empty(t, result.CommonSlots)
}

func TestAssignWithAvailability_SameTechnicianOnlyLane(t *testing.T) {
	anna := tech(1, "Anna")

	result, err := NewAssigner(&fakeFetcher{}).AssignWithAvailability(context.Background(),
		[][]domain.Technician{{anna}, {anna}},
		[]domain.Lane{lane(svc(1, 1, 30)), lane(svc(2, 1, 30))},
		groupQuery(monday),
	)
	require.NoError(t, err)
	assert.True(t, result.IsEmpty())
}

func TestAssignWithAvailability_FetchError(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("connection refused")}

	_, err := NewAssigner(fetcher).AssignWithAvailability(context.Background(),
		[][]domain.Technician{{tech(1, "Anna")}},
		[]domain.Lane{lane(svc(1, 1, 30))},
		groupQuery(monday),
	)
	assert.ErrorIs(t, err, ErrScheduleFetch)
}

func TestAssignWithAvailability_LengthMismatch(t *testing.T) {
	_, err := NewAssigner(&fakeFetcher{}).AssignWithAvailability(context.Background(),
		[][]domain.Technician{{tech(1, "Anna")}},
		nil,
		groupQuery(monday),
	)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
