package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTechnician_UnavailableWeekdays(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		wants []time.Weekday
	}{
		{name: "comma separated", raw: "0,3", wants: []time.Weekday{time.Sunday, time.Wednesday}},
		{name: "spaces and commas", raw: " 1, 5 ", wants: []time.Weekday{time.Monday, time.Friday}},
		{name: "invalid tokens ignored", raw: "7, x, -1, 2", wants: []time.Weekday{time.Tuesday}},
		{name: "empty", raw: "", wants: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tech := NewTechnician(1, "Anna", tt.raw, nil)
			days := tech.UnavailableWeekdays()
			assert.Len(t, days, len(tt.wants))
			for _, d := range tt.wants {
				assert.Contains(t, days, d)
			}
		})
	}
}

func TestTechnician_IsUnavailableOn(t *testing.T) {
	wednesday := time.Date(2025, time.June, 11, 0, 0, 0, 0, time.UTC)
	thursday := wednesday.AddDate(0, 0, 1)

	tech := NewTechnician(1, "Anna", "3", nil)
	assert.True(t, tech.IsUnavailableOn(wednesday))
	assert.False(t, tech.IsUnavailableOn(thursday))

	vacation := &TimeOff{
		Name: "vacation",
		From: time.Date(2025, time.June, 12, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, time.June, 14, 0, 0, 0, 0, time.UTC),
	}
	onVacation := NewTechnician(2, "Bella", "", vacation)
	assert.True(t, onVacation.IsOffOn(thursday))
	assert.True(t, onVacation.IsOffOn(vacation.To.Add(23*time.Hour)))
	assert.False(t, onVacation.IsOffOn(wednesday))
}

func TestNoPreference(t *testing.T) {
	np := NoPreference()

	assert.True(t, np.IsNoPreference())
	assert.Equal(t, NoPreferenceName, np.Name)
	assert.Empty(t, np.UnavailableWeekdays())
	assert.False(t, np.IsUnavailableOn(time.Now()))

	// имя не делает мастера заглушкой
	named := NewTechnician(5, NoPreferenceName, "", nil)
	assert.False(t, named.IsNoPreference())

	assert.True(t, np.SameAs(NoPreference()))
	assert.False(t, np.SameAs(named))
	assert.True(t, named.SameAs(NewTechnician(5, "other", "", nil)))
}
