package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	settingsRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/settings"
	"github.com/m04kA/SMC-SalonBooking/internal/service/settings/models"
)

// Defaults значения из конфигурации, если в БД ничего не задано
type Defaults struct {
	BufferTimeHours int
	Weekday         domain.BusinessHours // понедельник - суббота
	Sunday          domain.BusinessHours
}

// HoursFor возвращает часы работы по умолчанию для дня недели
func (d Defaults) HoursFor(weekday time.Weekday) domain.BusinessHours {
	if weekday == time.Sunday {
		return d.Sunday
	}
	return d.Weekday
}

// Service сервис настроек салона
type Service struct {
	settingsRepo SettingsRepository
	txManager    TransactionManager
	defaults     Defaults
	staff        map[int64]struct{}
	logger       Logger
}

// NewService создает новый экземпляр сервиса настроек
func NewService(
	settingsRepo SettingsRepository,
	txManager TransactionManager,
	defaults Defaults,
	staffUserIDs []int64,
	logger Logger,
) *Service {
	staff := make(map[int64]struct{}, len(staffUserIDs))
	for _, id := range staffUserIDs {
		staff[id] = struct{}{}
	}

	return &Service{
		settingsRepo: settingsRepo,
		txManager:    txManager,
		defaults:     defaults,
		staff:        staff,
		logger:       logger,
	}
}

// GetBufferTimeHours возвращает запас до записи на сегодня.
// Если значение не задано или вне диапазона, используется значение по умолчанию.
func (s *Service) GetBufferTimeHours(ctx context.Context) (int, error) {
	hours, err := s.settingsRepo.GetBufferTimeHours(ctx)
	switch {
	case errors.Is(err, settingsRepo.ErrSettingNotFound), errors.Is(err, settingsRepo.ErrInvalidValue):
		s.logger.Warn("GetBufferTimeHours: %v, using default %dh", err, s.defaults.BufferTimeHours)
		return s.defaults.BufferTimeHours, nil
	case err != nil:
		s.logger.Error("GetBufferTimeHours: repository error: %v", err)
		return 0, fmt.Errorf("%w: GetBufferTimeHours - repository error: %v", ErrInternal, err)
	}

	if hours > domain.MaxBufferTimeHours {
		s.logger.Warn("GetBufferTimeHours: stored value %dh is out of range, using default %dh",
			hours, s.defaults.BufferTimeHours)
		return s.defaults.BufferTimeHours, nil
	}
	return hours, nil
}

// GetBusinessHoursForDate возвращает часы работы на день недели даты.
// Выходной день отдается как Start == End.
func (s *Service) GetBusinessHoursForDate(ctx context.Context, date time.Time) (domain.BusinessHours, error) {
	weekday := date.Weekday()

	hours, err := s.settingsRepo.GetBusinessHours(ctx, weekday)
	if errors.Is(err, settingsRepo.ErrBusinessHoursNotFound) {
		return s.defaults.HoursFor(weekday), nil
	}
	if err != nil {
		s.logger.Error("GetBusinessHoursForDate: repository error for weekday=%d: %v", weekday, err)
		return domain.BusinessHours{}, fmt.Errorf("%w: GetBusinessHoursForDate - repository error: %v", ErrInternal, err)
	}

	if !isAcceptableHours(*hours) {
		s.logger.Warn("GetBusinessHoursForDate: stored hours %d-%d for weekday=%d are invalid, using defaults",
			hours.Start, hours.End, weekday)
		return s.defaults.HoursFor(weekday), nil
	}
	return *hours, nil
}

// GetSettings возвращает все настройки салона
// Публичный метод - доступен всем
func (s *Service) GetSettings(ctx context.Context) (*models.SettingsResponse, error) {
	s.logger.Info("GetSettings: fetching salon settings")

	buffer, err := s.GetBufferTimeHours(ctx)
	if err != nil {
		return nil, err
	}

	stored, updatedAt, err := s.settingsRepo.GetAllBusinessHours(ctx)
	if err != nil {
		s.logger.Error("GetSettings: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetSettings - repository error: %v", ErrInternal, err)
	}

	settings := &domain.SalonSettings{
		BufferTimeHours: buffer,
		BusinessHours:   make(map[time.Weekday]domain.BusinessHours, 7),
		UpdatedAt:       updatedAt,
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		if h, ok := stored[d]; ok && isAcceptableHours(h) {
			settings.BusinessHours[d] = h
			continue
		}
		settings.BusinessHours[d] = s.defaults.HoursFor(d)
	}

	return models.FromDomainSettings(settings), nil
}

// UpdateSettings обновляет настройки салона
// Доступно только персоналу, все изменения применяются одной транзакцией
func (s *Service) UpdateSettings(ctx context.Context, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("UpdateSettings: updating settings by user=%d", req.UserID)

	if _, ok := s.staff[req.UserID]; !ok {
		s.logger.Warn("UpdateSettings: user=%d is not staff", req.UserID)
		return nil, ErrAccessDenied
	}

	if err := validateUpdate(req); err != nil {
		s.logger.Warn("UpdateSettings: validation failed: %v", err)
		return nil, err
	}

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		if req.BufferTimeHours != nil {
			if err := s.settingsRepo.UpsertBufferTimeHours(txCtx, *req.BufferTimeHours); err != nil {
				return fmt.Errorf("%w: UpdateSettings - buffer: %v", ErrInternal, err)
			}
		}
		for _, day := range req.BusinessHours {
			weekday, hours := day.ToDomainHours()
			if err := s.settingsRepo.UpsertBusinessHours(txCtx, weekday, hours); err != nil {
				return fmt.Errorf("%w: UpdateSettings - hours for weekday=%d: %v", ErrInternal, weekday, err)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("UpdateSettings: %v", err)
		return nil, err
	}

	s.logger.Info("UpdateSettings: successfully updated settings by user=%d", req.UserID)
	return s.GetSettings(ctx)
}

func validateUpdate(req *models.UpdateSettingsRequest) error {
	if req.BufferTimeHours == nil && len(req.BusinessHours) == 0 {
		return fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	if req.BufferTimeHours != nil {
		if *req.BufferTimeHours < 0 || *req.BufferTimeHours > domain.MaxBufferTimeHours {
			return fmt.Errorf("%w: bufferTimeHours must be in 0..%d", ErrInvalidInput, domain.MaxBufferTimeHours)
		}
	}

	seen := make(map[int]struct{}, len(req.BusinessHours))
	for _, day := range req.BusinessHours {
		if day.Weekday < 0 || day.Weekday > 6 {
			return fmt.Errorf("%w: weekday must be in 0..6, got %d", ErrInvalidInput, day.Weekday)
		}
		if _, dup := seen[day.Weekday]; dup {
			return fmt.Errorf("%w: weekday %d is listed twice", ErrInvalidInput, day.Weekday)
		}
		seen[day.Weekday] = struct{}{}

		_, hours := day.ToDomainHours()
		if !isAcceptableHours(hours) {
			return fmt.Errorf("%w: hours %d-%d are invalid", ErrInvalidInput, day.StartHour, day.EndHour)
		}
	}
	return nil
}

// isAcceptableHours: обычный рабочий день или выходной (Start == End)
func isAcceptableHours(h domain.BusinessHours) bool {
	if h.Start == h.End {
		return h.Start >= 0 && h.Start <= 24
	}
	return h.IsValid()
}
