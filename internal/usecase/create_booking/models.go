package create_booking

import (
	"time"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
)

// Request модель запроса на создание заявки
type Request struct {
	UserID           int64                // ID пользователя
	Venue            string               // название площадки
	EventTitle       string               // название мероприятия
	OrganizationName string               // организация-заявитель
	DayIntervals     []domain.DayInterval // интервалы по дням (приоритетнее StartAt/EndAt)
	StartAt          *time.Time           // общее начало, если интервалы не заданы
	EndAt            *time.Time           // общее окончание, если интервалы не заданы
}

// Response модель ответа с созданной заявкой
type Response struct {
	ID               int64
	Venue            string
	EventTitle       string
	OrganizationName string
	RequestedBy      int64
	Status           string
	DayIntervals     []domain.DayInterval
	StartAt          *time.Time
	EndAt            *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
