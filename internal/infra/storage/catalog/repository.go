package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/psqlbuilder"
)

var technicianColumns = []string{
	"t.id",
	"t.name",
	"t.unavailability",
	"t.time_off_name",
	"t.time_off_from",
	"t.time_off_to",
}

// Repository репозиторий каталога услуг и мастеров (только чтение)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetServicesByIDs получает активные услуги по списку ID.
// Ненайденные ID просто отсутствуют в результате, проверка остается вызывающей стороне.
func (r *Repository) GetServicesByIDs(ctx context.Context, ids []int64) ([]domain.Service, error) {
	if len(ids) == 0 {
		return []domain.Service{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "category_id", "duration_minutes", "price").
		From("services").
		Where(squirrel.Eq{"id": ids, "is_active": true}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetServicesByIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetServicesByIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	services := make([]domain.Service, 0, len(ids))
	for rows.Next() {
		var s domain.Service
		if err := rows.Scan(&s.ID, &s.Name, &s.CategoryID, &s.DurationMinutes, &s.Price); err != nil {
			return nil, fmt.Errorf("%w: GetServicesByIDs - scan row: %v", ErrScanRow, err)
		}
		services = append(services, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetServicesByIDs - rows error: %v", ErrScanRow, err)
	}
	return services, nil
}

// GetTechnicianByID получает активного мастера по ID
func (r *Repository) GetTechnicianByID(ctx context.Context, id int64) (*domain.Technician, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(technicianColumns...).
		From("technicians t").
		Where(squirrel.Eq{"t.id": id, "t.is_active": true}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetTechnicianByID - build select query: %v", ErrBuildQuery, err)
	}

	tech, err := scanTechnician(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrTechnicianNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetTechnicianByID - scan technician: %v", ErrScanRow, err)
	}
	return &tech, nil
}

// FindTechniciansForCategories получает мастеров, которые умеют ВСЕ указанные категории.
// Запись "No Preference" возвращается как заглушка "любой свободный мастер".
func (r *Repository) FindTechniciansForCategories(ctx context.Context, categoryIDs []int64) ([]domain.Technician, error) {
	distinct := uniqueIDs(categoryIDs)
	if len(distinct) == 0 {
		return []domain.Technician{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(technicianColumns...).
		From("technicians t").
		Join("technician_categories tc ON tc.technician_id = t.id").
		Where(squirrel.Eq{"tc.category_id": distinct, "t.is_active": true}).
		GroupBy("t.id").
		Having("COUNT(DISTINCT tc.category_id) = ?", len(distinct)).
		OrderBy("t.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindTechniciansForCategories - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindTechniciansForCategories - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	technicians := make([]domain.Technician, 0)
	for rows.Next() {
		tech, err := scanTechnician(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: FindTechniciansForCategories - scan row: %v", ErrScanRow, err)
		}
		technicians = append(technicians, tech)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: FindTechniciansForCategories - rows error: %v", ErrScanRow, err)
	}
	return technicians, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTechnician(row rowScanner) (domain.Technician, error) {
	var (
		id             int64
		name           string
		unavailability string
		timeOffName    sql.NullString
		timeOffFrom    sql.NullTime
		timeOffTo      sql.NullTime
	)

	if err := row.Scan(&id, &name, &unavailability, &timeOffName, &timeOffFrom, &timeOffTo); err != nil {
		return domain.Technician{}, err
	}

	if name == domain.NoPreferenceName {
		return domain.NoPreference(), nil
	}

	var timeOff *domain.TimeOff
	if timeOffFrom.Valid && timeOffTo.Valid {
		timeOff = &domain.TimeOff{
			Name: timeOffName.String,
			From: timeOffFrom.Time,
			To:   timeOffTo.Time,
		}
	}
	return domain.NewTechnician(id, name, unavailability, timeOff), nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	result := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
