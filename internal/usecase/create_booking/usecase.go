package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SalonBooking/internal/scheduling"
)

// UseCase use case для создания записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	catalogRepo     CatalogRepository
	settings        SettingsProvider
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	catalogRepo CatalogRepository,
	settings SettingsProvider,
	txManager TransactionManager,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		catalogRepo:     catalogRepo,
		settings:        settings,
		txManager:       txManager,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

type plannedLane struct {
	technician domain.Technician
	lane       domain.Lane
}

// Execute выполняет use case создания записи
// Проверка слота и вставка выполняются в сериализуемой транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: customer=%d, date=%s, time=%s, lanes=%d",
		req.CustomerID, req.Date.Format(domain.DateFormat), req.StartTime, len(req.Lanes))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Текущее время и день в часовом поясе салона
	now := uc.timeProvider.Now()
	day := domain.StartOfDay(req.Date, now.Location())
	if domain.IsDateInPast(day, now) {
		uc.logger.Warn("CreateBooking: date %s is in the past", day.Format(domain.DateFormat))
		return nil, ErrInvalidDate
	}
	start, err := req.StartTime.On(day)
	if err != nil {
		uc.logger.Warn("CreateBooking: invalid start time %s: %v", req.StartTime, err)
		return nil, fmt.Errorf("%w: startTime: %v", ErrInvalidInput, err)
	}

	// 3. Услуги и мастера по дорожкам
	plan, err := uc.planLanes(ctx, req.Lanes)
	if err != nil {
		return nil, err
	}

	// 4. Настройки салона на этот день
	hours, err := uc.settings.GetBusinessHoursForDate(ctx, day)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get business hours: %v", err)
		return nil, fmt.Errorf("%w: failed to get business hours: %v", ErrInternal, err)
	}
	bufferHours, err := uc.settings.GetBufferTimeHours(ctx)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get buffer time: %v", err)
		return nil, fmt.Errorf("%w: failed to get buffer time: %v", ErrInternal, err)
	}

	var groupID *string
	if len(plan) > 1 {
		id := uuid.New().String()
		groupID = &id
	}

	// Переменная для хранения результата
	var created []*domain.Appointment

	// 5. Повторная проверка и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		created = make([]*domain.Appointment, 0, len(plan))

		for i, p := range plan {
			// 5.1. Записи мастера на этот день с блокировкой (FOR UPDATE)
			var bookings []*domain.Appointment
			if !p.technician.IsNoPreference() {
				var err error
				bookings, err = uc.appointmentRepo.GetActiveByTechnicianAndDate(txCtx, p.technician.ID, day)
				if err != nil {
					uc.logger.Error("CreateBooking: failed to get appointments for technician id=%d: %v", p.technician.ID, err)
					return fmt.Errorf("%w: failed to get appointments: %w", ErrInternal, err)
				}
			}

			// 5.2. Проверяем слот по тем же правилам, что и при расчете
			err := scheduling.CheckSlot(scheduling.SlotQuery{
				Technician: p.technician,
				Services:   p.lane.Groups(),
				Date:       day,
				Hours:      hours,
				Bookings:   bookings,
				Buffer:     time.Duration(bufferHours) * time.Hour,
				Now:        now,
				Step:       domain.SlotStepMinutes * time.Minute,
			}, start)
			if err != nil {
				uc.logger.Warn("CreateBooking: lane %d (technician=%s) rejected: %v", i, p.technician.Name, err)
				return mapSlotError(err)
			}

			// 5.3. Создаем запись с денормализацией услуг
			appointment, err := uc.appointmentRepo.Create(txCtx, newAppointment(req, day, groupID, p))
			if err != nil {
				if errors.Is(err, appointmentRepo.ErrSlotNotAvailable) {
					uc.logger.Warn("CreateBooking: slot taken concurrently for technician id=%d", p.technician.ID)
					return ErrSlotNotAvailable
				}
				uc.logger.Error("CreateBooking: failed to create appointment: %v", err)
				return fmt.Errorf("%w: failed to create appointment: %w", ErrInternal, err)
			}
			created = append(created, appointment)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created %d appointments for customer=%d", len(created), req.CustomerID)

	return &Response{
		GroupID:      groupID,
		Appointments: created,
	}, nil
}

// planLanes загружает услуги и мастеров и проверяет, что мастер выполняет услуги своей дорожки
func (uc *UseCase) planLanes(ctx context.Context, lanes []LaneRequest) ([]plannedLane, error) {
	found, err := uc.catalogRepo.GetServicesByIDs(ctx, serviceIDs(lanes))
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get services: %v", err)
		return nil, fmt.Errorf("%w: failed to get services: %v", ErrInternal, err)
	}
	byID := make(map[int64]domain.Service, len(found))
	for _, s := range found {
		byID[s.ID] = s
	}

	plan := make([]plannedLane, 0, len(lanes))
	for i, l := range lanes {
		lane, missing, ok := resolveLane(l.ServiceIDs, byID)
		if !ok {
			uc.logger.Warn("CreateBooking: service id=%d not found", missing)
			return nil, fmt.Errorf("%w: id=%d", ErrServiceNotFound, missing)
		}
		if id, repeated := repeatedService(lane); repeated {
			return nil, fmt.Errorf("%w: lane %d repeats service %d", ErrInvalidInput, i, id)
		}

		if l.TechnicianID == nil {
			plan = append(plan, plannedLane{technician: domain.NoPreference(), lane: lane})
			continue
		}

		tech, err := uc.catalogRepo.GetTechnicianByID(ctx, *l.TechnicianID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrTechnicianNotFound) {
				uc.logger.Warn("CreateBooking: technician id=%d not found", *l.TechnicianID)
				return nil, fmt.Errorf("%w: id=%d", ErrTechnicianNotFound, *l.TechnicianID)
			}
			uc.logger.Error("CreateBooking: failed to get technician id=%d: %v", *l.TechnicianID, err)
			return nil, fmt.Errorf("%w: failed to get technician: %v", ErrInternal, err)
		}

		if !tech.IsNoPreference() {
			qualified, err := uc.catalogRepo.FindTechniciansForCategories(ctx, lane.CategoryIDs())
			if err != nil {
				uc.logger.Error("CreateBooking: failed to check technician id=%d: %v", tech.ID, err)
				return nil, fmt.Errorf("%w: failed to check technician: %v", ErrInternal, err)
			}
			if !containsTechnician(qualified, tech.ID) {
				uc.logger.Warn("CreateBooking: technician id=%d cannot perform categories %v", tech.ID, lane.CategoryIDs())
				return nil, fmt.Errorf("%w: id=%d", ErrTechnicianNotQualified, tech.ID)
			}
		}

		plan = append(plan, plannedLane{technician: *tech, lane: lane})
	}
	return plan, nil
}

func newAppointment(req *Request, day time.Time, groupID *string, p plannedLane) *domain.Appointment {
	services := make([]domain.AppointmentService, len(p.lane.Services))
	for i, s := range p.lane.Services {
		services[i] = domain.AppointmentService{
			ServiceID:       s.ID,
			Name:            s.Name,
			DurationMinutes: s.DurationMinutes,
			Price:           s.Price,
		}
	}

	var technicianID *int64
	if !p.technician.IsNoPreference() {
		id := p.technician.ID
		technicianID = &id
	}

	return &domain.Appointment{
		CustomerID:   req.CustomerID,
		TechnicianID: technicianID,
		GroupID:      groupID,
		Date:         day,
		StartTime:    req.StartTime,
		Services:     services,
		Status:       domain.StatusBooked,
		Notes:        req.Notes,
	}
}

func mapSlotError(err error) error {
	switch {
	case errors.Is(err, scheduling.ErrTechnicianUnavailable):
		return ErrTechnicianUnavailable
	case errors.Is(err, scheduling.ErrSlotOverlaps):
		return ErrSlotNotAvailable
	case errors.Is(err, scheduling.ErrSlotMisaligned), errors.Is(err, scheduling.ErrSlotOutsideHours):
		return fmt.Errorf("%w: %v", ErrInvalidTimeSlot, err)
	case errors.Is(err, scheduling.ErrSlotTooSoon):
		return ErrTooLateToBook
	default:
		return fmt.Errorf("%w: failed to check slot: %v", ErrInternal, err)
	}
}

// repeatedService: один человек не получает одну услугу дважды
func repeatedService(lane domain.Lane) (int64, bool) {
	seen := make(map[int64]struct{}, len(lane.Services))
	for _, s := range lane.Services {
		if _, ok := seen[s.ID]; ok {
			return s.ID, true
		}
		seen[s.ID] = struct{}{}
	}
	return 0, false
}
