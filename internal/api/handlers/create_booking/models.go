package create_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/appointments/models"
	createBooking "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_booking"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	Date      string        `json:"date"`      // "2025-10-15"
	StartTime string        `json:"startTime"` // "10:00"
	Lanes     []LaneRequest `json:"lanes"`
	Notes     *string       `json:"notes,omitempty"`
}

// LaneRequest услуги одного мастера. technicianId == null - "любой свободный мастер"
type LaneRequest struct {
	TechnicianID *int64  `json:"technicianId"`
	ServiceIDs   []int64 `json:"serviceIds"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	GroupID      *string                      `json:"groupId,omitempty"`
	Appointments []models.AppointmentResponse `json:"appointments"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(customerID int64) (*createBooking.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, fmt.Errorf("date %q: %w", r.Date, err)
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	lanes := make([]createBooking.LaneRequest, len(r.Lanes))
	for i, l := range r.Lanes {
		lanes[i] = createBooking.LaneRequest{
			TechnicianID: l.TechnicianID,
			ServiceIDs:   l.ServiceIDs,
		}
	}

	return &createBooking.Request{
		CustomerID: customerID,
		Date:       date,
		StartTime:  startTime,
		Lanes:      lanes,
		Notes:      r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	list := models.FromDomainAppointmentList(resp.Appointments)
	return &BookingResponse{
		GroupID:      resp.GroupID,
		Appointments: list.Appointments,
	}
}
