package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_booking"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

const (
	msgInvalidRequestBody     = "некорректное тело запроса"
	msgMissingUserID          = "отсутствует ID пользователя"
	msgInvalidDate            = "некорректный формат даты записи, ожидается YYYY-MM-DD"
	msgInvalidTime            = "некорректный формат времени начала, ожидается HH:MM"
	msgSlotNotAvailable       = "выбранное время уже занято"
	msgTechnicianNotFound     = "мастер не найден"
	msgServiceNotFound        = "услуга не найдена"
	msgTechnicianNotQualified = "мастер не выполняет выбранные услуги"
	msgTechnicianDoubleBooked = "один мастер указан в нескольких дорожках"
	msgTechnicianUnavailable  = "мастер не работает в выбранную дату"
	msgInvalidBookingDate     = "дата записи уже прошла"
	msgInvalidTimeSlot        = "время не совпадает с сеткой слотов или выходит за часы работы"
	msgTooLateToBook          = "слишком поздно для записи на это время"
	msgInvalidInput           = "некорректные данные записи"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		if errors.Is(err, types.ErrInvalidTimeString) {
			handlers.RespondBadRequest(w, msgInvalidTime)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /appointments - Slot not available: user_id=%d, date=%s, start=%s",
				userID, req.Date, req.StartTime)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrTechnicianNotFound):
			h.logger.Warn("POST /appointments - Technician not found: user_id=%d, error=%v", userID, err)
			handlers.RespondNotFound(w, msgTechnicianNotFound)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /appointments - Service not found: user_id=%d, error=%v", userID, err)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrTechnicianNotQualified):
			h.logger.Warn("POST /appointments - Technician not qualified: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgTechnicianNotQualified)

		case errors.Is(err, createBooking.ErrTechnicianDoubleBooked):
			h.logger.Warn("POST /appointments - Technician in several lanes: user_id=%d", userID)
			handlers.RespondBadRequest(w, msgTechnicianDoubleBooked)

		case errors.Is(err, createBooking.ErrTechnicianUnavailable):
			h.logger.Warn("POST /appointments - Technician unavailable: user_id=%d, date=%s", userID, req.Date)
			handlers.RespondBadRequest(w, msgTechnicianUnavailable)

		case errors.Is(err, createBooking.ErrInvalidDate):
			h.logger.Warn("POST /appointments - Date in past: user_id=%d, date=%s", userID, req.Date)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, createBooking.ErrInvalidTimeSlot):
			h.logger.Warn("POST /appointments - Invalid time slot: user_id=%d, date=%s, start=%s",
				userID, req.Date, req.StartTime)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, createBooking.ErrTooLateToBook):
			h.logger.Warn("POST /appointments - Too late to book: user_id=%d, date=%s, start=%s",
				userID, req.Date, req.StartTime)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /appointments - Appointments created successfully: user_id=%d, date=%s, start=%s, count=%d",
		userID, req.Date, req.StartTime, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusCreated, response)
}
