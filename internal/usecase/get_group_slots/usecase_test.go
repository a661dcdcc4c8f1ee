package get_group_slots

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/scheduling"
	"github.com/m04kA/SMC-SalonBooking/pkg/metrics"
)

var salonTZ = mustLoad("America/Los_Angeles")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type skilledTechnician struct {
	tech       domain.Technician
	categories map[int64]bool
}

type fakeCatalog struct {
	services    []domain.Service
	technicians []skilledTechnician
	findErr     error

	mu    sync.Mutex
	finds int
}

func (f *fakeCatalog) GetServicesByIDs(_ context.Context, ids []int64) ([]domain.Service, error) {
	result := make([]domain.Service, 0)
	for _, s := range f.services {
		for _, id := range ids {
			if s.ID == id {
				result = append(result, s)
			}
		}
	}
	return result, nil
}

func (f *fakeCatalog) FindTechniciansForCategories(_ context.Context, categoryIDs []int64) ([]domain.Technician, error) {
	f.mu.Lock()
	f.finds++
	f.mu.Unlock()

	if f.findErr != nil {
		return nil, f.findErr
	}
	result := make([]domain.Technician, 0)
	for _, st := range f.technicians {
		ok := true
		for _, c := range categoryIDs {
			if !st.categories[c] {
				ok = false
				break
			}
		}
		if ok {
			result = append(result, st.tech)
		}
	}
	return result, nil
}

type fakeFetcher struct {
	schedules map[int64][]*domain.Appointment
	err       error
}

func (f *fakeFetcher) GetActiveByTechniciansAndDate(_ context.Context, ids []int64, _ time.Time) (map[int64][]*domain.Appointment, error) {
	if f.err != nil {
		return nil, f.err
	}
	result := make(map[int64][]*domain.Appointment, len(ids))
	for _, id := range ids {
		result[id] = f.schedules[id]
	}
	return result, nil
}

type fakeSettings struct{}

func (fakeSettings) GetBufferTimeHours(context.Context) (int, error) { return 1, nil }

func (fakeSettings) GetBusinessHoursForDate(context.Context, time.Time) (domain.BusinessHours, error) {
	return domain.BusinessHours{Start: 9, End: 17}, nil
}

type fakeMetrics struct {
	runs     int
	outcomes []string
}

func (m *fakeMetrics) ObserveSchedulingRun(string, time.Duration, int) { m.runs++ }
func (m *fakeMetrics) IncGroupAssignment(outcome string)                { m.outcomes = append(m.outcomes, outcome) }

var (
	monday = time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)

	anna  = domain.NewTechnician(1, "Anna", "", nil)
	bella = domain.NewTechnician(2, "Bella", "", nil)
)

type fixture struct {
	catalog *fakeCatalog
	fetcher *fakeFetcher
	metrics *fakeMetrics
}

func newFixture() *fixture {
	return &fixture{
		catalog: &fakeCatalog{
			services: []domain.Service{
				{ID: 10, Name: "Manicure", CategoryID: 1, DurationMinutes: 30, Price: 25},
				{ID: 11, Name: "Gel polish", CategoryID: 1, DurationMinutes: 45, Price: 40},
				{ID: 20, Name: "Eyelash extension", CategoryID: 3, DurationMinutes: 90, Price: 120},
			},
			technicians: []skilledTechnician{
				{tech: anna, categories: map[int64]bool{1: true}},
				{tech: bella, categories: map[int64]bool{1: true}},
				{tech: domain.NoPreference(), categories: map[int64]bool{1: true}},
			},
		},
		fetcher: &fakeFetcher{schedules: map[int64][]*domain.Appointment{
			1: {{
				ID:        100,
				Date:      monday,
				StartTime: "09:00",
				Status:    domain.StatusBooked,
				Services:  []domain.AppointmentService{{DurationMinutes: 180}},
			}},
		}},
		metrics: &fakeMetrics{},
	}
}

func (f *fixture) useCase() *UseCase {
	return NewUseCase(
		f.catalog,
		scheduling.NewDistributor(0, 0),
		scheduling.NewAssigner(f.fetcher),
		fakeSettings{},
		f.metrics,
		fixedTime{now: time.Date(2025, 6, 8, 12, 0, 0, 0, salonTZ)},
		nopLogger{},
	)
}

func TestUseCase_Execute_AssignsDistinctRealTechnicians(t *testing.T) {
	f := newFixture()

	resp, err := f.useCase().Execute(context.Background(), &Request{
		Items:     []Item{{ServiceID: 10, Quantity: 2}},
		GroupSize: 2,
		Date:      monday,
	})
	require.NoError(t, err)

	require.Len(t, resp.Lanes, 2)
	for _, lane := range resp.Lanes {
		assert.Equal(t, []int64{10}, lane.ServiceIDs())
	}

	require.Len(t, resp.AssignedTechnicians, 2)
	assert.Equal(t, int64(1), resp.AssignedTechnicians[0].ID)
	assert.Equal(t, int64(2), resp.AssignedTechnicians[1].ID)

	// Анна занята до 12:00
	require.Len(t, resp.CommonSlots, 10)
	assert.Equal(t, "12:00", resp.CommonSlots[0].Format(domain.TimeFormat))
	assert.Equal(t, "16:30", resp.CommonSlots[9].Format(domain.TimeFormat))

	assert.Equal(t, []string{metrics.OutcomeAllReal}, f.metrics.outcomes)
	assert.Equal(t, 2, f.catalog.finds)
}

func TestUseCase_Execute_DuplicatesRaiseLaneCount(t *testing.T) {
	f := newFixture()

	resp, err := f.useCase().Execute(context.Background(), &Request{
		Items:     []Item{{ServiceID: 10, Quantity: 3}, {ServiceID: 11, Quantity: 1}},
		GroupSize: 1,
		Date:      monday,
	})
	require.NoError(t, err)

	require.Len(t, resp.Lanes, 3)
	total := 0
	for _, lane := range resp.Lanes {
		total += len(lane.Services)
	}
	assert.Equal(t, 4, total)

	// Двоих именных мастеров на три дорожки не хватает; Анна занята утром,
	// поэтому больше всего общих слотов дает Белла плюс две заглушки
	require.Len(t, resp.AssignedTechnicians, 3)
	placeholders := 0
	for _, tech := range resp.AssignedTechnicians {
		if tech.IsNoPreference() {
			placeholders++
			continue
		}
		assert.Equal(t, int64(2), tech.ID)
	}
	assert.Equal(t, 2, placeholders)
	assert.Len(t, resp.CommonSlots, 14) // дорожка 75 минут: 09:00 .. 15:30
	assert.Equal(t, []string{metrics.OutcomeWithPlaceholder}, f.metrics.outcomes)
}

func TestUseCase_Execute_LaneWithoutCandidatesIsInfeasible(t *testing.T) {
	f := newFixture()

	resp, err := f.useCase().Execute(context.Background(), &Request{
		Items:     []Item{{ServiceID: 10, Quantity: 1}, {ServiceID: 20, Quantity: 1}},
		GroupSize: 1,
		Date:      monday,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Lanes)
	assert.Empty(t, resp.AssignedTechnicians)
	assert.Empty(t, resp.CommonSlots)
	assert.Equal(t, []string{metrics.OutcomeNone}, f.metrics.outcomes)
}

func TestUseCase_Execute_SearchesAssignmentOrder(t *testing.T) {
	f := newFixture()
	// Без заглушки: ресницы умеют Анна и Белла, маникюр только Анна.
	// Жадно Анна уходит на первую подходящую дорожку, и маникюр остается без мастера
	f.catalog.technicians = []skilledTechnician{
		{tech: anna, categories: map[int64]bool{1: true, 3: true}},
		{tech: bella, categories: map[int64]bool{3: true}},
	}
	f.fetcher.schedules = map[int64][]*domain.Appointment{}

	resp, err := f.useCase().Execute(context.Background(), &Request{
		Items:     []Item{{ServiceID: 20, Quantity: 1}, {ServiceID: 10, Quantity: 1}},
		GroupSize: 2,
		Date:      monday,
	})
	require.NoError(t, err)

	require.Len(t, resp.Lanes, 2)
	require.Len(t, resp.AssignedTechnicians, 2)
	for i, lane := range resp.Lanes {
		switch {
		case lane.Contains(20):
			assert.Equal(t, int64(2), resp.AssignedTechnicians[i].ID, "lashes lane")
		case lane.Contains(10):
			assert.Equal(t, int64(1), resp.AssignedTechnicians[i].ID, "manicure lane")
		}
	}

	// дорожка 90 минут ограничивает общее окно: 09:00 .. 15:30
	require.Len(t, resp.CommonSlots, 14)
	assert.Equal(t, "09:00", resp.CommonSlots[0].Format(domain.TimeFormat))
	assert.Equal(t, []string{metrics.OutcomeAllReal}, f.metrics.outcomes)
}

func TestUseCase_Execute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(f *fixture)
		req     Request
		wantErr error
	}{
		{name: "no items", req: Request{GroupSize: 1, Date: monday}, wantErr: ErrInvalidInput},
		{name: "zero group", req: Request{Items: []Item{{ServiceID: 10, Quantity: 1}}, Date: monday}, wantErr: ErrInvalidInput},
		{name: "group too large", req: Request{Items: []Item{{ServiceID: 10, Quantity: 1}}, GroupSize: 13, Date: monday}, wantErr: ErrInvalidInput},
		{name: "zero quantity", req: Request{Items: []Item{{ServiceID: 10}}, GroupSize: 1, Date: monday}, wantErr: ErrInvalidInput},
		{
			name:    "past date",
			req:     Request{Items: []Item{{ServiceID: 10, Quantity: 1}}, GroupSize: 1, Date: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
			wantErr: ErrInvalidDate,
		},
		{name: "unknown service", req: Request{Items: []Item{{ServiceID: 99, Quantity: 1}}, GroupSize: 1, Date: monday}, wantErr: ErrServiceNotFound},
		{
			name:    "technician lookup failure",
			mutate:  func(f *fixture) { f.catalog.findErr = errors.New("down") },
			req:     Request{Items: []Item{{ServiceID: 10, Quantity: 2}}, GroupSize: 2, Date: monday},
			wantErr: ErrInternal,
		},
		{
			name:    "schedule fetch failure",
			mutate:  func(f *fixture) { f.fetcher.err = errors.New("down") },
			req:     Request{Items: []Item{{ServiceID: 10, Quantity: 2}}, GroupSize: 2, Date: monday},
			wantErr: ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			if tt.mutate != nil {
				tt.mutate(f)
			}
			req := tt.req
			_, err := f.useCase().Execute(context.Background(), &req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExpandItems(t *testing.T) {
	found := []domain.Service{{ID: 1}, {ID: 2}}

	got, _, ok := expandItems([]Item{{ServiceID: 2, Quantity: 2}, {ServiceID: 1, Quantity: 1}}, found)
	require.True(t, ok)
	assert.Equal(t, []int64{2, 2, 1}, []int64{got[0].ID, got[1].ID, got[2].ID})

	_, missing, ok := expandItems([]Item{{ServiceID: 3, Quantity: 1}}, found)
	assert.False(t, ok)
	assert.Equal(t, int64(3), missing)
}
