package settings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// SettingsRepository интерфейс репозитория настроек салона
type SettingsRepository interface {
	GetBufferTimeHours(ctx context.Context) (int, error)
	UpsertBufferTimeHours(ctx context.Context, hours int) error
	GetBusinessHours(ctx context.Context, weekday time.Weekday) (*domain.BusinessHours, error)
	GetAllBusinessHours(ctx context.Context) (map[time.Weekday]domain.BusinessHours, time.Time, error)
	UpsertBusinessHours(ctx context.Context, weekday time.Weekday, hours domain.BusinessHours) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
