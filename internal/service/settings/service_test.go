package settings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	settingsRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/settings"
	"github.com/m04kA/SMC-SalonBooking/internal/service/settings/models"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
)

const staffID = int64(99)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type passthroughTx struct{ calls int }

func (p *passthroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	p.calls++
	return fn(ctx)
}

type fakeRepo struct {
	buffer    *int
	bufferErr error
	hours     map[time.Weekday]domain.BusinessHours
	hoursErr  error
	upsertErr error
}

func (f *fakeRepo) GetBufferTimeHours(context.Context) (int, error) {
	if f.bufferErr != nil {
		return 0, f.bufferErr
	}
	if f.buffer == nil {
		return 0, settingsRepo.ErrSettingNotFound
	}
	return *f.buffer, nil
}

func (f *fakeRepo) UpsertBufferTimeHours(_ context.Context, hours int) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.buffer = &hours
	return nil
}

func (f *fakeRepo) GetBusinessHours(_ context.Context, weekday time.Weekday) (*domain.BusinessHours, error) {
	if f.hoursErr != nil {
		return nil, f.hoursErr
	}
	h, ok := f.hours[weekday]
	if !ok {
		return nil, settingsRepo.ErrBusinessHoursNotFound
	}
	return &h, nil
}

func (f *fakeRepo) GetAllBusinessHours(context.Context) (map[time.Weekday]domain.BusinessHours, time.Time, error) {
	if f.hoursErr != nil {
		return nil, time.Time{}, f.hoursErr
	}
	result := make(map[time.Weekday]domain.BusinessHours, len(f.hours))
	for d, h := range f.hours {
		result[d] = h
	}
	return result, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), nil
}

func (f *fakeRepo) UpsertBusinessHours(_ context.Context, weekday time.Weekday, hours domain.BusinessHours) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	if f.hours == nil {
		f.hours = make(map[time.Weekday]domain.BusinessHours)
	}
	f.hours[weekday] = hours
	return nil
}

var defaults = Defaults{
	BufferTimeHours: 1,
	Weekday:         domain.BusinessHours{Start: 9, End: 19},
	Sunday:          domain.BusinessHours{Start: 10, End: 17},
}

func newService(repo *fakeRepo) (*Service, *passthroughTx) {
	tx := &passthroughTx{}
	return NewService(repo, tx, defaults, []int64{staffID}, nopLogger{}), tx
}

func TestService_GetBufferTimeHours(t *testing.T) {
	tests := []struct {
		name    string
		repo    *fakeRepo
		want    int
		wantErr error
	}{
		{name: "stored", repo: &fakeRepo{buffer: ptr.Ptr(3)}, want: 3},
		{name: "stored zero", repo: &fakeRepo{buffer: ptr.Ptr(0)}, want: 0},
		{name: "missing falls back", repo: &fakeRepo{}, want: 1},
		{name: "unparsable falls back", repo: &fakeRepo{bufferErr: settingsRepo.ErrInvalidValue}, want: 1},
		{name: "out of range falls back", repo: &fakeRepo{buffer: ptr.Ptr(500)}, want: 1},
		{name: "repository failure", repo: &fakeRepo{bufferErr: errors.New("down")}, wantErr: ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService(tt.repo)
			got, err := svc.GetBufferTimeHours(context.Background())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_GetBusinessHoursForDate(t *testing.T) {
	monday := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)
	saturday := time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)

	svc, _ := newService(&fakeRepo{hours: map[time.Weekday]domain.BusinessHours{
		time.Monday:   {Start: 8, End: 20},
		time.Saturday: {Start: 0, End: 0},
	}})

	h, err := svc.GetBusinessHoursForDate(context.Background(), monday)
	require.NoError(t, err)
	assert.Equal(t, domain.BusinessHours{Start: 8, End: 20}, h)

	h, err = svc.GetBusinessHoursForDate(context.Background(), sunday)
	require.NoError(t, err)
	assert.Equal(t, defaults.Sunday, h)

	h, err = svc.GetBusinessHoursForDate(context.Background(), saturday)
	require.NoError(t, err)
	assert.Equal(t, h.Start, h.End, "closed day is kept as is")

	failing, _ := newService(&fakeRepo{hoursErr: errors.New("down")})
	_, err = failing.GetBusinessHoursForDate(context.Background(), monday)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestService_GetSettings(t *testing.T) {
	svc, _ := newService(&fakeRepo{
		buffer: ptr.Ptr(2),
		hours:  map[time.Weekday]domain.BusinessHours{time.Tuesday: {Start: 11, End: 15}},
	})

	resp, err := svc.GetSettings(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, resp.BufferTimeHours)
	require.Len(t, resp.BusinessHours, 7)
	assert.Equal(t, models.DayHours{Weekday: 0, StartHour: 10, EndHour: 17, IsOpen: true}, resp.BusinessHours[0])
	assert.Equal(t, models.DayHours{Weekday: 2, StartHour: 11, EndHour: 15, IsOpen: true}, resp.BusinessHours[2])
	assert.Equal(t, 9, resp.BusinessHours[5].StartHour)
	assert.NotNil(t, resp.UpdatedAt)
}

func TestService_UpdateSettings(t *testing.T) {
	t.Run("staff updates buffer and hours in one transaction", func(t *testing.T) {
		repo := &fakeRepo{}
		svc, tx := newService(repo)

		resp, err := svc.UpdateSettings(context.Background(), &models.UpdateSettingsRequest{
			UserID:          staffID,
			BufferTimeHours: ptr.Ptr(4),
			BusinessHours: []models.DayHours{
				{Weekday: 1, StartHour: 10, EndHour: 18},
				{Weekday: 6, StartHour: 0, EndHour: 0},
			},
		})
		require.NoError(t, err)

		assert.Equal(t, 1, tx.calls)
		assert.Equal(t, 4, resp.BufferTimeHours)
		assert.Equal(t, 10, resp.BusinessHours[1].StartHour)
		assert.False(t, resp.BusinessHours[6].IsOpen)
	})

	t.Run("non staff denied", func(t *testing.T) {
		svc, tx := newService(&fakeRepo{})
		_, err := svc.UpdateSettings(context.Background(), &models.UpdateSettingsRequest{
			UserID:          1,
			BufferTimeHours: ptr.Ptr(2),
		})
		assert.ErrorIs(t, err, ErrAccessDenied)
		assert.Zero(t, tx.calls)
	})

	invalid := []struct {
		name string
		req  models.UpdateSettingsRequest
	}{
		{name: "empty", req: models.UpdateSettingsRequest{}},
		{name: "negative buffer", req: models.UpdateSettingsRequest{BufferTimeHours: ptr.Ptr(-1)}},
		{name: "buffer too large", req: models.UpdateSettingsRequest{BufferTimeHours: ptr.Ptr(73)}},
		{name: "bad weekday", req: models.UpdateSettingsRequest{BusinessHours: []models.DayHours{{Weekday: 7, StartHour: 9, EndHour: 17}}}},
		{name: "reversed hours", req: models.UpdateSettingsRequest{BusinessHours: []models.DayHours{{Weekday: 1, StartHour: 18, EndHour: 9}}}},
		{name: "past midnight", req: models.UpdateSettingsRequest{BusinessHours: []models.DayHours{{Weekday: 1, StartHour: 9, EndHour: 25}}}},
		{
			name: "duplicate weekday",
			req: models.UpdateSettingsRequest{BusinessHours: []models.DayHours{
				{Weekday: 1, StartHour: 9, EndHour: 17},
				{Weekday: 1, StartHour: 10, EndHour: 17},
			}},
		},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService(&fakeRepo{})
			req := tt.req
			req.UserID = staffID
			_, err := svc.UpdateSettings(context.Background(), &req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	t.Run("repository failure", func(t *testing.T) {
		svc, _ := newService(&fakeRepo{upsertErr: errors.New("down")})
		_, err := svc.UpdateSettings(context.Background(), &models.UpdateSettingsRequest{
			UserID:          staffID,
			BufferTimeHours: ptr.Ptr(2),
		})
		assert.ErrorIs(t, err, ErrInternal)
	})
}
