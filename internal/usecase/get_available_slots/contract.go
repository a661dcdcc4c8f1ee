package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// CatalogRepository интерфейс каталога услуг и мастеров
type CatalogRepository interface {
	GetTechnicianByID(ctx context.Context, id int64) (*domain.Technician, error)
	GetServicesByIDs(ctx context.Context, ids []int64) ([]domain.Service, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetActiveByTechnicianAndDate(ctx context.Context, technicianID int64, date time.Time) ([]*domain.Appointment, error)
}

// SettingsProvider интерфейс настроек салона
type SettingsProvider interface {
	GetBufferTimeHours(ctx context.Context) (int, error)
	GetBusinessHoursForDate(ctx context.Context, date time.Time) (domain.BusinessHours, error)
}

// Metrics интерфейс метрик расчета расписания
type Metrics interface {
	ObserveSchedulingRun(operation string, duration time.Duration, slots int)
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

// RealTimeProvider реальный провайдер времени в часовом поясе салона
type RealTimeProvider struct {
	Location *time.Location
}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	if p.Location == nil {
		return time.Now()
	}
	return time.Now().In(p.Location)
}
