package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-VenueBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-VenueBookingService/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-VenueBookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgUnauthorized        = "пользователь не определен"
	msgInvalidDate         = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime         = "некорректный формат времени, ожидается HH:MM"
	msgInvalidDateTime     = "некорректный формат startAt/endAt, ожидается RFC 3339"
	msgInvalidInput        = "некорректные данные заявки"
	msgInvalidInterval     = "некорректный интервал: время начала должно быть раньше окончания в пределах одного дня"
	msgOverlappingInterval = "интервалы заявки пересекаются между собой"
	msgVenueNotFound       = "площадка не найдена"
	msgVenueInactive       = "площадка недоступна для бронирования"
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

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом дат и времени)
	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		switch {
		case errors.Is(err, errInvalidTime):
			handlers.RespondBadRequest(w, msgInvalidTime)
		case errors.Is(err, errInvalidDateTime):
			handlers.RespondBadRequest(w, msgInvalidDateTime)
		default:
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createBooking.ErrInvalidInterval):
			h.logger.Warn("POST /bookings - Invalid interval: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidInterval)

		case errors.Is(err, createBooking.ErrOverlappingIntervals):
			h.logger.Warn("POST /bookings - Overlapping intervals: user_id=%d", userID)
			handlers.RespondBadRequest(w, msgOverlappingInterval)

		case errors.Is(err, createBooking.ErrVenueNotFound):
			h.logger.Warn("POST /bookings - Venue not found: venue=%s", req.Venue)
			handlers.RespondNotFound(w, msgVenueNotFound)

		case errors.Is(err, createBooking.ErrVenueInactive):
			h.logger.Warn("POST /bookings - Venue inactive: venue=%s", req.Venue)
			handlers.RespondError(w, http.StatusConflict, msgVenueInactive)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, venue=%s, error=%v",
				userID, req.Venue, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking request created successfully: booking_id=%d, user_id=%d, venue=%s",
		result.ID, userID, result.Venue)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
