package settings

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/psqlbuilder"
)

// Repository репозиторий настроек салона
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetBufferTimeHours получает минимальный запас до записи на сегодня (в часах)
func (r *Repository) GetBufferTimeHours(ctx context.Context) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("value").
		From("salon_settings").
		Where(squirrel.Eq{"key": domain.SettingKeyBufferTimeHours}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: GetBufferTimeHours - build select query: %v", ErrBuildQuery, err)
	}

	var raw string
	err = executor.QueryRowContext(ctx, query, args...).Scan(&raw)
	if err == sql.ErrNoRows {
		return 0, ErrSettingNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("%w: GetBufferTimeHours - scan value: %v", ErrScanRow, err)
	}

	hours, err := strconv.Atoi(raw)
	if err != nil || hours < 0 {
		return 0, fmt.Errorf("%w: GetBufferTimeHours - %q", ErrInvalidValue, raw)
	}
	return hours, nil
}

// UpsertBufferTimeHours сохраняет запас до записи
func (r *Repository) UpsertBufferTimeHours(ctx context.Context, hours int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("salon_settings").
		Columns("key", "value").
		Values(domain.SettingKeyBufferTimeHours, strconv.Itoa(hours)).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpsertBufferTimeHours - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: UpsertBufferTimeHours - execute insert: %w", ErrExecQuery, err)
	}
	return nil
}

// GetBusinessHours получает часы работы на день недели
func (r *Repository) GetBusinessHours(ctx context.Context, weekday time.Weekday) (*domain.BusinessHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("start_hour", "end_hour").
		From("business_hours").
		Where(squirrel.Eq{"weekday": int(weekday)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetBusinessHours - build select query: %v", ErrBuildQuery, err)
	}

	var hours domain.BusinessHours
	err = executor.QueryRowContext(ctx, query, args...).Scan(&hours.Start, &hours.End)
	if err == sql.ErrNoRows {
		return nil, ErrBusinessHoursNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetBusinessHours - scan hours: %v", ErrScanRow, err)
	}
	return &hours, nil
}

// GetAllBusinessHours получает часы работы на всю неделю.
// Дни без строки в таблице отсутствуют в результате.
func (r *Repository) GetAllBusinessHours(ctx context.Context) (map[time.Weekday]domain.BusinessHours, time.Time, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("weekday", "start_hour", "end_hour", "updated_at").
		From("business_hours").
		OrderBy("weekday ASC").
		ToSql()
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("%w: GetAllBusinessHours - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("%w: GetAllBusinessHours - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make(map[time.Weekday]domain.BusinessHours, 7)
	var lastUpdated time.Time
	for rows.Next() {
		var (
			weekday   int
			hours     domain.BusinessHours
			updatedAt sql.NullTime
		)
		if err := rows.Scan(&weekday, &hours.Start, &hours.End, &updatedAt); err != nil {
			return nil, time.Time{}, fmt.Errorf("%w: GetAllBusinessHours - scan row: %v", ErrScanRow, err)
		}
		result[time.Weekday(weekday)] = hours
		if updatedAt.Time.After(lastUpdated) {
			lastUpdated = updatedAt.Time
		}
	}

	if err := rows.Err(); err != nil {
		return nil, time.Time{}, fmt.Errorf("%w: GetAllBusinessHours - rows error: %v", ErrScanRow, err)
	}
	return result, lastUpdated, nil
}

// UpsertBusinessHours сохраняет часы работы на день недели
func (r *Repository) UpsertBusinessHours(ctx context.Context, weekday time.Weekday, hours domain.BusinessHours) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("business_hours").
		Columns("weekday", "start_hour", "end_hour").
		Values(int(weekday), hours.Start, hours.End).
		Suffix("ON CONFLICT (weekday) DO UPDATE SET start_hour = EXCLUDED.start_hour, end_hour = EXCLUDED.end_hour, updated_at = NOW()").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpsertBusinessHours - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: UpsertBusinessHours - execute insert: %w", ErrExecQuery, err)
	}
	return nil
}
