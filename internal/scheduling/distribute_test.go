package scheduling

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

func TestDistribute_RaisesLaneCountToDuplicates(t *testing.T) {
	items := []domain.Service{svc(1, 1, 5), svc(1, 1, 5), svc(1, 1, 5)}

	lanes, err := Distribute(items, 2)
	require.NoError(t, err)

	require.Len(t, lanes, 3)
	for _, lane := range lanes {
		require.Len(t, lane.Services, 1)
		assert.Equal(t, int64(1), lane.Services[0].ID)
	}
}

func TestDistribute_KeepsRequestedEmptyLanes(t *testing.T) {
	lanes, err := Distribute([]domain.Service{svc(1, 1, 30)}, 3)
	require.NoError(t, err)

	require.Len(t, lanes, 3)
	assert.Len(t, lanes[0].Services, 1)
	assert.True(t, lanes[1].IsEmpty())
	assert.True(t, lanes[2].IsEmpty())
}

func TestDistribute_Balances(t *testing.T) {
	items := []domain.Service{svc(1, 1, 30), svc(2, 1, 30), svc(3, 2, 30), svc(4, 2, 30)}

	lanes, err := Distribute(items, 2)
	require.NoError(t, err)

	require.Len(t, lanes, 2)
	assert.Equal(t, 60, lanes[0].TotalMinutes())
	assert.Equal(t, 60, lanes[1].TotalMinutes())
}

func TestDistribute_Deterministic(t *testing.T) {
	items := []domain.Service{svc(1, 1, 45), svc(2, 1, 30), svc(1, 1, 45), svc(3, 2, 60), svc(4, 2, 15)}

	first, err := Distribute(items, 2)
	require.NoError(t, err)
	second, err := Distribute(items, 2)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDistribute_GreedyPath(t *testing.T) {
	items := []domain.Service{svc(1, 1, 60), svc(2, 1, 45), svc(3, 1, 30), svc(4, 1, 15), svc(5, 1, 15)}

	lanes, err := NewDistributor(2, 2).Distribute(items, 2)
	require.NoError(t, err)

	// 60->0, 45->1, 30->1, 15->0, 15->0 (при равенстве сумм берется меньший индекс)
	require.Len(t, lanes, 2)
	assert.Equal(t, []int64{1, 4, 5}, lanes[0].ServiceIDs())
	assert.Equal(t, []int64{2, 3}, lanes[1].ServiceIDs())
}

func TestDistribute_InvalidInput(t *testing.T) {
	_, err := Distribute([]domain.Service{svc(1, 1, 30)}, -1)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Distribute([]domain.Service{svc(1, 1, -30)}, 1)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Distribute([]domain.Service{svc(1, 1, 30), svc(2, 1, 0)}, 2)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDistribute_Empty(t *testing.T) {
	lanes, err := Distribute(nil, 2)
	require.NoError(t, err)
	require.Len(t, lanes, 2)
	assert.True(t, lanes[0].IsEmpty())

	lanes, err = Distribute(nil, 0)
	require.NoError(t, err)
	assert.Empty(t, lanes)
}

// Число дорожек, сохранение мультимножества и отсутствие дублей внутри дорожки
func TestDistribute_Properties(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))

	for run := 0; run < 150; run++ {
		count := 1 + rnd.Intn(12)
		if run%3 == 0 {
			count = 21 + rnd.Intn(10) // жадная ветка
		}
		items := make([]domain.Service, count)
		for i := range items {
			id := int64(1 + rnd.Intn(6))
			items[i] = svc(id, id%3, 15*int(id))
		}
		requested := rnd.Intn(5)

		lanes, err := Distribute(items, requested)
		require.NoError(t, err)

		expected := requested
		if dup := maxDuplicates(items); dup > expected {
			expected = dup
		}
		require.Len(t, lanes, expected, "run %d", run)

		var got []int64
		for _, lane := range lanes {
			seen := make(map[int64]bool)
			for _, s := range lane.Services {
				assert.False(t, seen[s.ID], "run %d: duplicate id %d in lane", run, s.ID)
				seen[s.ID] = true
				got = append(got, s.ID)
			}
		}

		want := make([]int64, len(items))
		for i, s := range items {
			want[i] = s.ID
		}
		sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
		sort.Slice(want, func(i, j int) bool { return want[i] < want[j] })
		assert.Equal(t, want, got, "run %d", run)
	}
}
