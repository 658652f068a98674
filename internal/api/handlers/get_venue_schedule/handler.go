package get_venue_schedule

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-VenueBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	getVenueSchedule "github.com/m04kA/SMC-VenueBookingService/internal/usecase/get_venue_schedule"
)

const (
	msgMissingDate   = "дата обязательна"
	msgInvalidDate   = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgVenueNotFound = "площадка не найдена"
)

type Handler struct {
	useCase GetVenueScheduleUseCase
	logger  Logger
}

func NewHandler(useCase GetVenueScheduleUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/venues/{venue}/schedule
// Query params: date (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	venue := mux.Vars(r)["venue"]

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /venues/{venue}/schedule - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		h.logger.Warn("GET /venues/{venue}/schedule - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getVenueSchedule.Request{Venue: venue, Date: date})
	if err != nil {
		switch {
		case errors.Is(err, getVenueSchedule.ErrVenueNotFound):
			h.logger.Warn("GET /venues/{venue}/schedule - Venue not found: venue=%s", venue)
			handlers.RespondNotFound(w, msgVenueNotFound)

		case errors.Is(err, getVenueSchedule.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgVenueNotFound)

		default:
			h.logger.Error("GET /venues/{venue}/schedule - Failed to get schedule: venue=%s, error=%v", venue, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /venues/{venue}/schedule - Schedule retrieved: venue=%s, date=%s, occupied=%d",
		venue, dateStr, len(result.Occupied))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
