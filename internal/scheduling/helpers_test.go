package scheduling

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

var salonTZ = mustLocation("America/Los_Angeles")

func mustLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, salonTZ)
}

func at(date time.Time, hour, minute int) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, salonTZ)
}

func svc(id, category int64, minutes int) domain.Service {
	return domain.Service{ID: id, Name: "service", CategoryID: category, DurationMinutes: minutes, Price: 25}
}

func appt(id int64, date time.Time, start string, minutes ...int) *domain.Appointment {
	services := make([]domain.AppointmentService, len(minutes))
	for i, m := range minutes {
		services[i] = domain.AppointmentService{ServiceID: int64(i + 1), DurationMinutes: m}
	}
	y, mo, d := date.Date()
	return &domain.Appointment{
		ID:        id,
		Date:      time.Date(y, mo, d, 0, 0, 0, 0, time.UTC),
		StartTime: types.TimeString(start),
		Services:  services,
		Status:    domain.StatusBooked,
	}
}

func tech(id int64, name string) domain.Technician {
	return domain.NewTechnician(id, name, "", nil)
}

func clockTimes(slots []time.Time) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.Format(domain.TimeFormat)
	}
	return out
}

type fakeFetcher struct {
	schedules map[int64][]*domain.Appointment
	err       error
	calls     int
	lastIDs   []int64
}

func (f *fakeFetcher) GetActiveByTechniciansAndDate(_ context.Context, ids []int64, _ time.Time) (map[int64][]*domain.Appointment, error) {
	f.calls++
	f.lastIDs = ids
	if f.err != nil {
		return nil, f.err
	}
	return f.schedules, nil
}
