package get_group_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	getGroupSlots "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_group_slots"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgDateInPast         = "дата уже прошла"
	msgInvalidInput       = "некорректный состав группы или услуг"
	msgServiceNotFound    = "услуга не найдена"
)

type Handler struct {
	useCase GetGroupSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetGroupSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/group-slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req GroupSlotsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /group-slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /group-slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getGroupSlots.ErrServiceNotFound):
			h.logger.Warn("POST /group-slots - Service not found: %v", err)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getGroupSlots.ErrInvalidDate):
			h.logger.Warn("POST /group-slots - Date in past: date=%s", req.Date)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, getGroupSlots.ErrInvalidInput):
			h.logger.Warn("POST /group-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /group-slots - Failed to compute group slots: date=%s, group_size=%d, error=%v",
				req.Date, req.GroupSize, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /group-slots - Group slots computed: date=%s, group_size=%d, lanes=%d, slots_count=%d",
		req.Date, req.GroupSize, len(response.Lanes), len(response.CommonSlots))
	handlers.RespondJSON(w, http.StatusOK, response)
}
