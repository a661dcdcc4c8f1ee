package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

func TestIntersectSlots(t *testing.T) {
	d := monday
	a := []time.Time{at(d, 11, 0), at(d, 9, 0), at(d, 10, 0)}
	b := []time.Time{at(d, 10, 0), at(d, 11, 0), at(d, 12, 0)}

	got := IntersectSlots(a, b)
	assert.Equal(t, []string{"10:00", "11:00"}, clockTimes(got))

	assert.Empty(t, IntersectSlots(a, nil))
	assert.Empty(t, IntersectSlots())
}

func TestIntersectSlots_SameInstantDifferentZone(t *testing.T) {
	d := monday
	local := at(d, 10, 0)

	got := IntersectSlots([]time.Time{local}, []time.Time{local.UTC()})
	require.Len(t, got, 1)
	assert.True(t, got[0].Equal(local))
}

func TestCommonSlots_SubsetOfEachTechnician(t *testing.T) {
	d := monday
	anna, bella := tech(1, "Anna"), tech(2, "Bella")
	lanes := []domain.Lane{lane(svc(1, 1, 60)), lane(svc(2, 2, 30))}
	schedules := map[int64][]*domain.Appointment{
		1: {appt(1, d, "10:00", 60)},
		2: {appt(2, d, "13:00", 90)},
	}
	q := groupQuery(d)

	common, err := CommonSlots([]domain.Technician{anna, bella}, lanes, schedules, q)
	require.NoError(t, err)
	require.NotEmpty(t, common)

	for i, tc := range []domain.Technician{anna, bella} {
		own, err := AvailableSlots(q.slotQuery(tc, lanes[i], schedules[tc.ID]))
		require.NoError(t, err)
		for _, s := range common {
			assert.Contains(t, own, s)
		}
	}
	assert.NotContains(t, clockTimes(common), "10:00")
	assert.NotContains(t, clockTimes(common), "13:00")
}

func TestCommonSlots_EmptyWhenOneTechnicianHasNone(t *testing.T) {
	d := monday
	common, err := CommonSlots(
		[]domain.Technician{tech(1, "Anna"), domain.NewTechnician(2, "Bella", "1", nil)},
		[]domain.Lane{lane(svc(1, 1, 30)), lane(svc(2, 1, 30))},
		nil,
		groupQuery(d),
	)
	require.NoError(t, err)
	assert.NotNil(t, common)
	assert.Empty(t, common)
}

func TestCommonSlots_PlaceholderIgnoresSchedules(t *testing.T) {
	d := monday
	common, err := CommonSlots(
		[]domain.Technician{domain.NoPreference()},
		[]domain.Lane{lane(svc(1, 1, 30))},
		map[int64][]*domain.Appointment{0: {appt(1, d, "09:00", 480)}},
		groupQuery(d),
	)
	require.NoError(t, err)
	assert.Len(t, common, 16)
}

func TestCommonSlots_LengthMismatch(t *testing.T) {
	_, err := CommonSlots([]domain.Technician{tech(1, "Anna")}, nil, nil, groupQuery(monday))
	assert.ErrorIs(t, err, ErrInvalidInput)
}
