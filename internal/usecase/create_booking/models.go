package create_booking

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// LaneRequest услуги одного мастера, выполняемые подряд
type LaneRequest struct {
	TechnicianID *int64  // nil - "любой свободный мастер"
	ServiceIDs   []int64 // в порядке выполнения
}

// Request модель запроса на создание записи (одной или групповой)
type Request struct {
	CustomerID int64
	Date       time.Time
	StartTime  types.TimeString // общее время начала для всех дорожек
	Lanes      []LaneRequest
	Notes      *string
}

// Response модель ответа: по одной записи на дорожку
type Response struct {
	GroupID      *string
	Appointments []*domain.Appointment
}
