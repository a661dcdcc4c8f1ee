package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SalonBooking/internal/scheduling"
)

const operationName = "single_technician"

// UseCase use case для получения свободных слотов одного мастера
type UseCase struct {
	catalogRepo     CatalogRepository
	appointmentRepo AppointmentRepository
	settings        SettingsProvider
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	catalogRepo CatalogRepository,
	appointmentRepo AppointmentRepository,
	settings SettingsProvider,
	metrics Metrics,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		catalogRepo:     catalogRepo,
		appointmentRepo: appointmentRepo,
		settings:        settings,
		metrics:         metrics,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// Execute выполняет use case получения свободных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: technician=%d, services=%v, date=%s",
		req.TechnicianID, req.ServiceIDs, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Текущее время и день в часовом поясе салона
	now := uc.timeProvider.Now()
	day := domain.StartOfDay(req.Date, now.Location())
	if domain.IsDateInPast(day, now) {
		uc.logger.Warn("GetAvailableSlots: date %s is in the past", day.Format(domain.DateFormat))
		return nil, ErrInvalidDate
	}

	// 3. Получаем мастера
	technician, err := uc.catalogRepo.GetTechnicianByID(ctx, req.TechnicianID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrTechnicianNotFound) {
			uc.logger.Warn("GetAvailableSlots: technician id=%d not found", req.TechnicianID)
			return nil, ErrTechnicianNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get technician id=%d: %v", req.TechnicianID, err)
		return nil, fmt.Errorf("%w: failed to get technician: %v", ErrInternal, err)
	}

	// 4. Получаем услуги
	found, err := uc.catalogRepo.GetServicesByIDs(ctx, uniqueIDs(req.ServiceIDs))
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get services: %v", err)
		return nil, fmt.Errorf("%w: failed to get services: %v", ErrInternal, err)
	}
	services, missing, ok := resolveServices(req.ServiceIDs, found)
	if !ok {
		uc.logger.Warn("GetAvailableSlots: service id=%d not found", missing)
		return nil, fmt.Errorf("%w: id=%d", ErrServiceNotFound, missing)
	}
	groups := domain.GroupByCategory(services)

	// 5. Настройки салона на этот день
	hours, err := uc.settings.GetBusinessHoursForDate(ctx, day)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get business hours: %v", err)
		return nil, fmt.Errorf("%w: failed to get business hours: %v", ErrInternal, err)
	}
	bufferHours, err := uc.settings.GetBufferTimeHours(ctx)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get buffer time: %v", err)
		return nil, fmt.Errorf("%w: failed to get buffer time: %v", ErrInternal, err)
	}

	// 6. Записи мастера на этот день ("No Preference" без календаря)
	var bookings []*domain.Appointment
	if !technician.IsNoPreference() {
		bookings, err = uc.appointmentRepo.GetActiveByTechnicianAndDate(ctx, technician.ID, day)
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to get appointments for technician id=%d: %v", technician.ID, err)
			return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}
	}

	// 7. Расчет слотов
	started := time.Now()
	slots, err := scheduling.AvailableSlots(scheduling.SlotQuery{
		Technician: *technician,
		Services:   groups,
		Date:       day,
		Hours:      hours,
		Bookings:   bookings,
		Buffer:     time.Duration(bufferHours) * time.Hour,
		Now:        now,
		Step:       domain.SlotStepMinutes * time.Minute,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to compute slots: %v", err)
		return nil, fmt.Errorf("%w: failed to compute slots: %v", ErrInternal, err)
	}
	uc.metrics.ObserveSchedulingRun(operationName, time.Since(started), len(slots))

	uc.logger.Info("GetAvailableSlots: %d slots for technician=%d on %s",
		len(slots), req.TechnicianID, day.Format(domain.DateFormat))

	return &Response{
		Date:           day,
		TechnicianID:   technician.ID,
		TechnicianName: technician.Name,
		TotalMinutes:   domain.TotalMinutes(groups),
		Slots:          slots,
	}, nil
}
