package get_group_slots

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// Item услуга и сколько раз ее нужно выполнить (по одной на человека)
type Item struct {
	ServiceID int64
	Quantity  int
}

// Request модель запроса на расчет групповой записи
type Request struct {
	Items     []Item
	GroupSize int       // сколько человек пришло, минимальное число дорожек
	Date      time.Time // дата без времени
}

// Response модель ответа групповой записи.
// AssignedTechnicians[i] обслуживает Lanes[i]; пустые AssignedTechnicians и CommonSlots
// означают, что на этот день группу разместить нельзя.
type Response struct {
	Date                time.Time
	Lanes               []domain.Lane
	AssignedTechnicians []domain.Technician
	CommonSlots         []time.Time
}
