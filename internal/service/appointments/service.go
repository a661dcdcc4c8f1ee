package appointments

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-SalonBooking/internal/service/appointments/models"
)

// Service сервис для работы с записями клиентов
type Service struct {
	appointmentRepo AppointmentRepository
	staff           map[int64]struct{}
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей.
// staffUserIDs - пользователи с правами персонала салона.
func NewService(
	appointmentRepo AppointmentRepository,
	staffUserIDs []int64,
	logger Logger,
) *Service {
	staff := make(map[int64]struct{}, len(staffUserIDs))
	for _, id := range staffUserIDs {
		staff[id] = struct{}{}
	}

	return &Service{
		appointmentRepo: appointmentRepo,
		staff:           staff,
		logger:          logger,
	}
}

// GetByID получает запись по ID
// Клиент видит только свои записи, персонал видит все
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for user=%d", id, userID)

	appointment, err := s.getAppointment(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if appointment.CustomerID != userID && !s.IsStaff(userID) {
		s.logger.Warn("GetByID: access denied for user=%d to appointment id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched appointment id=%d", id)
	return models.FromDomainAppointment(appointment), nil
}

// GetCustomerAppointments получает историю записей клиента
// Опционально фильтрует по статусу
func (s *Service) GetCustomerAppointments(ctx context.Context, req *models.GetCustomerAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetCustomerAppointments: fetching appointments for customer=%d by user=%d, status=%v",
		req.CustomerID, req.UserID, req.Status)

	if req.CustomerID != req.UserID && !s.IsStaff(req.UserID) {
		s.logger.Warn("GetCustomerAppointments: access denied for user=%d to customer=%d", req.UserID, req.CustomerID)
		return nil, ErrAccessDenied
	}

	var domainStatus *domain.AppointmentStatus
	if req.Status != nil {
		status, err := models.ToDomainAppointmentStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetCustomerAppointments: invalid status=%s for customer=%d", *req.Status, req.CustomerID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	appointments, err := s.appointmentRepo.GetByCustomerID(ctx, req.CustomerID, domainStatus)
	if err != nil {
		s.logger.Error("GetCustomerAppointments: repository error for customer=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: GetCustomerAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetCustomerAppointments: successfully fetched %d appointments for customer=%d",
		len(appointments), req.CustomerID)
	return models.FromDomainAppointmentList(appointments), nil
}

// GetDailyCalendar получает все записи салона на день
// Доступно только персоналу
func (s *Service) GetDailyCalendar(ctx context.Context, req *models.GetDailyCalendarRequest) (*models.AppointmentListResponse, error) {
	logMsg := fmt.Sprintf("GetDailyCalendar: fetching calendar for date=%s, user=%d",
		req.Date.Format(domain.DateFormat), req.UserID)
	if req.TechnicianID != nil {
		logMsg += fmt.Sprintf(", technician=%d", *req.TechnicianID)
	}
	if req.IncludeInactive {
		logMsg += ", includeInactive=true"
	}
	s.logger.Info(logMsg)

	if !s.IsStaff(req.UserID) {
		s.logger.Warn("GetDailyCalendar: user=%d is not staff", req.UserID)
		return nil, ErrAccessDenied
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	appointments, err := s.appointmentRepo.GetByDate(ctx, req.ToDomainFilter())
	if err != nil {
		s.logger.Error("GetDailyCalendar: repository error for date=%s: %v", req.Date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: GetDailyCalendar - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetDailyCalendar: successfully fetched %d appointments", len(appointments))
	return models.FromDomainAppointmentList(appointments), nil
}

// Cancel отменяет запись
// Клиент отменяет свою запись (cancelled_by_customer), персонал любую (cancelled_by_salon)
func (s *Service) Cancel(ctx context.Context, appointmentID int64, req *models.CancelAppointmentRequest) error {
	s.logger.Info("Cancel: cancelling appointment id=%d by user=%d", appointmentID, req.UserID)

	if utf8.RuneCountInString(req.CancellationReason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: cancellation reason is longer than %d characters",
			ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	appointment, err := s.getAppointment(ctx, "Cancel", appointmentID)
	if err != nil {
		return err
	}

	if !appointment.CanBeCancelled() {
		s.logger.Warn("Cancel: appointment id=%d cannot be cancelled, status=%s", appointmentID, appointment.Status)
		return ErrCannotCancel
	}

	var cancelStatus domain.AppointmentStatus
	switch {
	case appointment.CustomerID == req.UserID:
		cancelStatus = domain.StatusCancelledByCustomer
	case s.IsStaff(req.UserID):
		cancelStatus = domain.StatusCancelledBySalon
	default:
		s.logger.Warn("Cancel: access denied for user=%d to cancel appointment id=%d", req.UserID, appointmentID)
		return ErrAccessDenied
	}

	if err := s.appointmentRepo.Cancel(ctx, appointmentID, cancelStatus, req.CancellationReason); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			// статус успел смениться между чтением и обновлением
			s.logger.Warn("Cancel: appointment id=%d is no longer active", appointmentID)
			return ErrCannotCancel
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled appointment id=%d with status=%s", appointmentID, cancelStatus)
	return nil
}

// IsStaff сообщает, что пользователь относится к персоналу салона
func (s *Service) IsStaff(userID int64) bool {
	_, ok := s.staff[userID]
	return ok
}

func (s *Service) getAppointment(ctx context.Context, op string, id int64) (*domain.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%d not found", op, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return appointment, nil
}
