package get_group_slots

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	getGroupSlots "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_group_slots"
)

// GroupSlotsRequest HTTP request model
type GroupSlotsRequest struct {
	Date      string        `json:"date"` // "2025-10-15"
	GroupSize int           `json:"groupSize"`
	Items     []ItemRequest `json:"items"`
}

// ItemRequest услуга и количество человек, которым она нужна
type ItemRequest struct {
	ServiceID int64 `json:"serviceId"`
	Quantity  int   `json:"quantity"`
}

// GroupSlotsResponse HTTP response model. Feasible == false: на этот день группу разместить нельзя
type GroupSlotsResponse struct {
	Date        string         `json:"date"`
	Feasible    bool           `json:"feasible"`
	Lanes       []LaneResponse `json:"lanes"`
	CommonSlots []Slot         `json:"commonSlots"`
}

// LaneResponse дорожка и назначенный на нее мастер
type LaneResponse struct {
	TechnicianID    *int64        `json:"technicianId"` // null: "любой свободный мастер"
	TechnicianName  string        `json:"technicianName,omitempty"`
	NoPreference    bool          `json:"noPreference"`
	DurationMinutes int           `json:"durationMinutes"`
	Services        []LaneService `json:"services"`
}

// LaneService услуга в дорожке в порядке выполнения
type LaneService struct {
	ServiceID       int64   `json:"serviceId"`
	Name            string  `json:"name"`
	DurationMinutes int     `json:"durationMinutes"`
	Price           float64 `json:"price"`
}

// Slot общее время начала для всех дорожек
type Slot struct {
	StartTime string `json:"startTime"` // "10:30"
	StartsAt  string `json:"startsAt"`  // RFC 3339
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *GroupSlotsRequest) ToUseCaseRequest() (*getGroupSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	items := make([]getGroupSlots.Item, len(r.Items))
	for i, it := range r.Items {
		items[i] = getGroupSlots.Item{ServiceID: it.ServiceID, Quantity: it.Quantity}
	}

	return &getGroupSlots.Request{
		Items:     items,
		GroupSize: r.GroupSize,
		Date:      date,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response.
// Дорожки отдаются только вместе с назначенными мастерами
func FromUseCaseResponse(resp *getGroupSlots.Response) *GroupSlotsResponse {
	out := &GroupSlotsResponse{
		Date:        resp.Date.Format(domain.DateFormat),
		Lanes:       make([]LaneResponse, 0, len(resp.AssignedTechnicians)),
		CommonSlots: make([]Slot, 0, len(resp.CommonSlots)),
	}

	if len(resp.AssignedTechnicians) == 0 || len(resp.AssignedTechnicians) != len(resp.Lanes) {
		return out
	}

	for i, tech := range resp.AssignedTechnicians {
		out.Lanes = append(out.Lanes, fromLane(resp.Lanes[i], tech))
	}
	for _, start := range resp.CommonSlots {
		out.CommonSlots = append(out.CommonSlots, Slot{
			StartTime: start.Format(domain.TimeFormat),
			StartsAt:  start.Format(time.RFC3339),
		})
	}
	out.Feasible = len(out.CommonSlots) > 0

	return out
}

func fromLane(lane domain.Lane, tech domain.Technician) LaneResponse {
	services := make([]LaneService, len(lane.Services))
	for i, s := range lane.Services {
		services[i] = LaneService{
			ServiceID:       s.ID,
			Name:            s.Name,
			DurationMinutes: s.DurationMinutes,
			Price:           s.Price,
		}
	}

	resp := LaneResponse{
		TechnicianName:  tech.Name,
		NoPreference:    tech.IsNoPreference(),
		DurationMinutes: lane.TotalMinutes(),
		Services:        services,
	}
	if !tech.IsNoPreference() {
		id := tech.ID
		resp.TechnicianID = &id
	}
	return resp
}
