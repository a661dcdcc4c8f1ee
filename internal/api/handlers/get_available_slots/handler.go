package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_available_slots"
)

const (
	msgInvalidTechnicianID = "некорректный ID мастера"
	msgMissingServiceIDs   = "список услуг обязателен"
	msgInvalidServiceIDs   = "некорректный список услуг, ожидается serviceIds=1,2"
	msgMissingDate         = "дата обязательна"
	msgInvalidDate         = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgDateInPast          = "дата уже прошла"
	msgInvalidInput        = "некорректные параметры запроса"
	msgTechnicianNotFound  = "мастер не найден"
	msgServiceNotFound     = "услуга не найдена"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/technicians/{technicianId}/available-slots
// Query params: serviceIds (required, через запятую), date (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	// Извлекаем technicianId из URL
	technicianID, err := strconv.ParseInt(vars["technicianId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /technicians/{id}/available-slots - Invalid technician ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTechnicianID)
		return
	}

	// Извлекаем serviceIds из query параметров
	serviceIDsStr := r.URL.Query().Get("serviceIds")
	if serviceIDsStr == "" {
		h.logger.Warn("GET /technicians/{id}/available-slots - Missing service IDs")
		handlers.RespondBadRequest(w, msgMissingServiceIDs)
		return
	}

	serviceIDs, err := ParseServiceIDs(serviceIDsStr)
	if err != nil {
		h.logger.Warn("GET /technicians/{id}/available-slots - Invalid service IDs: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceIDs)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /technicians/{id}/available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(technicianID, serviceIDs, dateStr)
	if err != nil {
		h.logger.Warn("GET /technicians/{id}/available-slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrTechnicianNotFound):
			h.logger.Warn("GET /technicians/{id}/available-slots - Technician not found: technician_id=%d", technicianID)
			handlers.RespondNotFound(w, msgTechnicianNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /technicians/{id}/available-slots - Service not found: technician_id=%d, service_ids=%v",
				technicianID, serviceIDs)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			h.logger.Warn("GET /technicians/{id}/available-slots - Date in past: technician_id=%d, date=%s",
				technicianID, dateStr)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /technicians/{id}/available-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /technicians/{id}/available-slots - Failed to get slots: technician_id=%d, service_ids=%v, error=%v",
				technicianID, serviceIDs, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /technicians/{id}/available-slots - Slots retrieved successfully: technician_id=%d, date=%s, slots_count=%d",
		technicianID, dateStr, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, response)
}
