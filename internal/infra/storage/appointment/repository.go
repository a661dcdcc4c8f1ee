package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/psqlbuilder"
)

const uniqueViolationCode = "23505"

var appointmentColumns = []string{
	"id",
	"customer_id",
	"technician_id",
	"group_id",
	"appointment_date",
	"start_time",
	"status",
	"notes",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий записей клиентов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает запись вместе со списком услуг.
// Должен вызываться внутри транзакции: запись и ее услуги вставляются двумя запросами.
// Занятое время мастера (уникальный индекс) возвращается как ErrSlotNotAvailable.
func (r *Repository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"customer_id",
			"technician_id",
			"group_id",
			"appointment_date",
			"start_time",
			"status",
			"notes",
		).
		Values(
			a.CustomerID,
			a.TechnicianID,
			a.GroupID,
			a.Date.Format(domain.DateFormat),
			a.StartTime,
			a.Status,
			a.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&a.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, mapWriteError("Create - execute insert", err)
	}
	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	if len(a.Services) == 0 {
		return a, nil
	}

	insert := psqlbuilder.Insert("appointment_services").
		Columns("appointment_id", "position", "service_id", "service_name", "duration_minutes", "price")
	for i, s := range a.Services {
		insert = insert.Values(a.ID, i, s.ServiceID, s.Name, s.DurationMinutes, s.Price)
	}

	query, args, err = insert.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build services insert: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, mapWriteError("Create - insert services", err)
	}

	return a, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - execute query: %w", ErrExecQuery, err)
	}
	appointments, err := r.scanAppointments(rows)
	if err != nil {
		return nil, err
	}
	if len(appointments) == 0 {
		return nil, ErrAppointmentNotFound
	}

	if err := r.loadServices(ctx, executor, appointments); err != nil {
		return nil, err
	}
	return appointments[0], nil
}

// GetByCustomerID получает историю записей клиента, опционально по статусу
func (r *Repository) GetByCustomerID(ctx context.Context, customerID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"customer_id": customerID}).
		OrderBy("appointment_date DESC", "start_time DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	return r.query(ctx, executor, "GetByCustomerID", selectBuilder)
}

// GetByDate получает календарь салона на день, опционально по одному мастеру
func (r *Repository) GetByDate(ctx context.Context, filter domain.DailyCalendarFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"appointment_date": filter.Date.Format(domain.DateFormat)}).
		OrderBy("start_time ASC", "technician_id ASC")

	if filter.TechnicianID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"technician_id": *filter.TechnicianID})
	}
	if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": inactiveStatuses()})
	}

	return r.query(ctx, executor, "GetByDate", selectBuilder)
}

// GetActiveByTechnicianAndDate получает активные записи мастера на день.
// Внутри транзакции строки блокируются (FOR UPDATE) до ее завершения.
func (r *Repository) GetActiveByTechnicianAndDate(ctx context.Context, technicianID int64, date time.Time) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{
			"technician_id":    technicianID,
			"appointment_date": date.Format(domain.DateFormat),
		}).
		Where(squirrel.NotEq{"status": inactiveStatuses()}).
		OrderBy("start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	return r.query(ctx, executor, "GetActiveByTechnicianAndDate", selectBuilder)
}

// GetActiveByTechniciansAndDate одним запросом получает активные записи нескольких мастеров на день.
// В результате есть ключ для каждого запрошенного мастера, даже без записей.
func (r *Repository) GetActiveByTechniciansAndDate(ctx context.Context, technicianIDs []int64, date time.Time) (map[int64][]*domain.Appointment, error) {
	result := make(map[int64][]*domain.Appointment, len(technicianIDs))
	for _, id := range technicianIDs {
		result[id] = []*domain.Appointment{}
	}
	if len(technicianIDs) == 0 {
		return result, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{
			"technician_id":    technicianIDs,
			"appointment_date": date.Format(domain.DateFormat),
		}).
		Where(squirrel.NotEq{"status": inactiveStatuses()}).
		OrderBy("technician_id ASC", "start_time ASC")

	appointments, err := r.query(ctx, executor, "GetActiveByTechniciansAndDate", selectBuilder)
	if err != nil {
		return nil, err
	}

	for _, a := range appointments {
		if a.TechnicianID == nil {
			continue
		}
		result[*a.TechnicianID] = append(result[*a.TechnicianID], a)
	}
	return result, nil
}

// Cancel отменяет активную запись с указанием причины
func (r *Repository) Cancel(ctx context.Context, id int64, status domain.AppointmentStatus, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", status).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": domain.StatusBooked}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

func (r *Repository) query(ctx context.Context, executor DBExecutor, op string, b squirrel.SelectBuilder) ([]*domain.Appointment, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}

	appointments, err := r.scanAppointments(rows)
	if err != nil {
		return nil, err
	}
	if err := r.loadServices(ctx, executor, appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}

// scanAppointments сканирует строки и закрывает rows
func (r *Repository) scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	defer rows.Close()

	appointments := make([]*domain.Appointment, 0)
	for rows.Next() {
		var (
			a                    domain.Appointment
			technicianID         sql.NullInt64
			groupID              sql.NullString
			createdAt, updatedAt sql.NullTime
		)

		err := rows.Scan(
			&a.ID,
			&a.CustomerID,
			&technicianID,
			&groupID,
			&a.Date,
			&a.StartTime,
			&a.Status,
			&a.Notes,
			&a.CancellationReason,
			&a.CancelledAt,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}

		if technicianID.Valid {
			id := technicianID.Int64
			a.TechnicianID = &id
		}
		if groupID.Valid {
			g := groupID.String
			a.GroupID = &g
		}
		a.CreatedAt = createdAt.Time
		a.UpdatedAt = updatedAt.Time
		a.Services = []domain.AppointmentService{}

		appointments = append(appointments, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}
	return appointments, nil
}

// loadServices подгружает услуги одним запросом для всех записей
func (r *Repository) loadServices(ctx context.Context, executor DBExecutor, appointments []*domain.Appointment) error {
	if len(appointments) == 0 {
		return nil
	}

	byID := make(map[int64]*domain.Appointment, len(appointments))
	ids := make([]int64, 0, len(appointments))
	for _, a := range appointments {
		byID[a.ID] = a
		ids = append(ids, a.ID)
	}

	query, args, err := psqlbuilder.Select("appointment_id", "service_id", "service_name", "duration_minutes", "price").
		From("appointment_services").
		Where(squirrel.Eq{"appointment_id": ids}).
		OrderBy("appointment_id ASC", "position ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadServices - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadServices - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			appointmentID int64
			s             domain.AppointmentService
		)
		if err := rows.Scan(&appointmentID, &s.ServiceID, &s.Name, &s.DurationMinutes, &s.Price); err != nil {
			return fmt.Errorf("%w: loadServices - scan row: %v", ErrScanRow, err)
		}
		if a, ok := byID[appointmentID]; ok {
			a.Services = append(a.Services, s)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadServices - rows error: %v", ErrScanRow, err)
	}
	return nil
}

func inactiveStatuses() []string {
	statuses := make([]string, len(domain.InactiveStatuses))
	for i, s := range domain.InactiveStatuses {
		statuses[i] = string(s)
	}
	return statuses
}

// mapWriteError сохраняет исходную ошибку драйвера в цепочке, чтобы менеджер транзакций
// мог распознать конфликт сериализации
func mapWriteError(op string, err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s: %v", ErrSlotNotAvailable, op, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrExecQuery, op, err)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode
}
