package get_group_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/scheduling"
)

// CatalogRepository интерфейс каталога услуг и мастеров
type CatalogRepository interface {
	GetServicesByIDs(ctx context.Context, ids []int64) ([]domain.Service, error)
	FindTechniciansForCategories(ctx context.Context, categoryIDs []int64) ([]domain.Technician, error)
}

// Distributor раскладка услуг по дорожкам
type Distributor interface {
	Distribute(services []domain.Service, laneCount int) ([]domain.Lane, error)
}

// Assigner подбор мастеров по дорожкам с учетом расписаний
type Assigner interface {
	AssignWithAvailability(ctx context.Context, candidates [][]domain.Technician, lanes []domain.Lane, q scheduling.GroupQuery) (scheduling.Assignment, error)
}

// SettingsProvider интерфейс настроек салона
type SettingsProvider interface {
	GetBufferTimeHours(ctx context.Context) (int, error)
	GetBusinessHoursForDate(ctx context.Context, date time.Time) (domain.BusinessHours, error)
}

// Metrics интерфейс метрик расчета расписания
type Metrics interface {
	ObserveSchedulingRun(operation string, duration time.Duration, slots int)
	IncGroupAssignment(outcome string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
