package get_group_slots

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/scheduling"
	"github.com/m04kA/SMC-SalonBooking/pkg/metrics"
)

const operationName = "group_booking"

// UseCase use case для расчета групповой записи
type UseCase struct {
	catalogRepo  CatalogRepository
	distributor  Distributor
	assigner     Assigner
	settings     SettingsProvider
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	catalogRepo CatalogRepository,
	distributor Distributor,
	assigner Assigner,
	settings SettingsProvider,
	metrics Metrics,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		catalogRepo:  catalogRepo,
		distributor:  distributor,
		assigner:     assigner,
		settings:     settings,
		metrics:      metrics,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Execute раскладывает услуги группы по дорожкам, подбирает мастеров и ищет общие свободные слоты
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetGroupSlots: items=%d, groupSize=%d, date=%s",
		len(req.Items), req.GroupSize, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetGroupSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Текущее время и день в часовом поясе салона
	now := uc.timeProvider.Now()
	day := domain.StartOfDay(req.Date, now.Location())
	if domain.IsDateInPast(day, now) {
		uc.logger.Warn("GetGroupSlots: date %s is in the past", day.Format(domain.DateFormat))
		return nil, ErrInvalidDate
	}

	// 3. Получаем услуги и разворачиваем количество
	found, err := uc.catalogRepo.GetServicesByIDs(ctx, serviceIDs(req.Items))
	if err != nil {
		uc.logger.Error("GetGroupSlots: failed to get services: %v", err)
		return nil, fmt.Errorf("%w: failed to get services: %v", ErrInternal, err)
	}
	services, missing, ok := expandItems(req.Items, found)
	if !ok {
		uc.logger.Warn("GetGroupSlots: service id=%d not found", missing)
		return nil, fmt.Errorf("%w: id=%d", ErrServiceNotFound, missing)
	}

	started := time.Now()

	// 4. Раскладываем услуги по дорожкам, пустые дорожки отбрасываем
	allLanes, err := uc.distributor.Distribute(services, req.GroupSize)
	if err != nil {
		uc.logger.Error("GetGroupSlots: failed to distribute services: %v", err)
		return nil, fmt.Errorf("%w: failed to distribute services: %v", ErrInternal, err)
	}
	lanes := nonEmptyLanes(allLanes)
	uc.logger.Info("GetGroupSlots: %d services distributed into %d lanes", len(services), len(lanes))

	// 5. Кандидаты для каждой дорожки, параллельно
	candidates, err := uc.findCandidates(ctx, lanes)
	if err != nil {
		uc.logger.Error("GetGroupSlots: failed to find technicians: %v", err)
		return nil, fmt.Errorf("%w: failed to find technicians: %v", ErrInternal, err)
	}

	// 6. Быстрая проверка: если хоть у одной дорожки нет кандидатов, группа не помещается.
	// Распределение мастеров между дорожками решает только перебор на шаге 8
	for i, lane := range candidates {
		if len(lane) == 0 {
			uc.logger.Info("GetGroupSlots: no technician can perform lane %d (categories %v)", i, lanes[i].CategoryIDs())
			return uc.infeasible(day, lanes, started), nil
		}
	}

	// 7. Настройки салона на этот день
	hours, err := uc.settings.GetBusinessHoursForDate(ctx, day)
	if err != nil {
		uc.logger.Error("GetGroupSlots: failed to get business hours: %v", err)
		return nil, fmt.Errorf("%w: failed to get business hours: %v", ErrInternal, err)
	}
	bufferHours, err := uc.settings.GetBufferTimeHours(ctx)
	if err != nil {
		uc.logger.Error("GetGroupSlots: failed to get buffer time: %v", err)
		return nil, fmt.Errorf("%w: failed to get buffer time: %v", ErrInternal, err)
	}

	// 8. Подбор мастеров с учетом расписаний
	assignment, err := uc.assigner.AssignWithAvailability(ctx, candidates, lanes, scheduling.GroupQuery{
		Date:   day,
		Hours:  hours,
		Buffer: time.Duration(bufferHours) * time.Hour,
		Now:    now,
		Step:   domain.SlotStepMinutes * time.Minute,
	})
	if err != nil {
		uc.logger.Error("GetGroupSlots: failed to assign technicians: %v", err)
		return nil, fmt.Errorf("%w: failed to assign technicians: %v", ErrInternal, err)
	}

	uc.metrics.ObserveSchedulingRun(operationName, time.Since(started), len(assignment.CommonSlots))
	uc.metrics.IncGroupAssignment(outcomeOf(assignment))

	uc.logger.Info("GetGroupSlots: %d lanes, %d common slots on %s, placeholder=%t",
		len(lanes), len(assignment.CommonSlots), day.Format(domain.DateFormat), assignment.UsesPlaceholder())

	return &Response{
		Date:                day,
		Lanes:               lanes,
		AssignedTechnicians: assignment.Technicians,
		CommonSlots:         assignment.CommonSlots,
	}, nil
}

func (uc *UseCase) findCandidates(ctx context.Context, lanes []domain.Lane) ([][]domain.Technician, error) {
	candidates := make([][]domain.Technician, len(lanes))

	g, gctx := errgroup.WithContext(ctx)
	for i, lane := range lanes {
		i, categories := i, lane.CategoryIDs()
		g.Go(func() error {
			techs, err := uc.catalogRepo.FindTechniciansForCategories(gctx, categories)
			if err != nil {
				return fmt.Errorf("lane %d: %w", i, err)
			}
			candidates[i] = techs
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return candidates, nil
}

func (uc *UseCase) infeasible(day time.Time, lanes []domain.Lane, started time.Time) *Response {
	uc.metrics.ObserveSchedulingRun(operationName, time.Since(started), 0)
	uc.metrics.IncGroupAssignment(metrics.OutcomeNone)

	return &Response{
		Date:                day,
		Lanes:               lanes,
		AssignedTechnicians: []domain.Technician{},
		CommonSlots:         []time.Time{},
	}
}

func outcomeOf(a scheduling.Assignment) string {
	switch {
	case a.IsEmpty():
		return metrics.OutcomeNone
	case a.UsesPlaceholder():
		return metrics.OutcomeWithPlaceholder
	default:
		return metrics.OutcomeAllReal
	}
}
