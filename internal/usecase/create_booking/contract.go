package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error)
	GetActiveByTechnicianAndDate(ctx context.Context, technicianID int64, date time.Time) ([]*domain.Appointment, error)
}

// CatalogRepository интерфейс каталога услуг и мастеров
type CatalogRepository interface {
	GetServicesByIDs(ctx context.Context, ids []int64) ([]domain.Service, error)
	GetTechnicianByID(ctx context.Context, id int64) (*domain.Technician, error)
	FindTechniciansForCategories(ctx context.Context, categoryIDs []int64) ([]domain.Technician, error)
}

// SettingsProvider интерфейс настроек салона
type SettingsProvider interface {
	GetBufferTimeHours(ctx context.Context) (int, error)
	GetBusinessHoursForDate(ctx context.Context, date time.Time) (domain.BusinessHours, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
