package get_venue_schedule

import (
	"time"

	"github.com/m04kA/SMC-VenueBookingService/pkg/types"
)

// Request модель запроса расписания площадки
type Request struct {
	Venue string    // название площадки
	Date  time.Time // дата (без времени)
}

// Response расписание площадки на дату
type Response struct {
	Venue    string
	Date     time.Time
	Occupied []Occupancy // одобренные интервалы, по времени начала
	Pending  []Occupancy // ожидающие рассмотрения интервалы
}

// Occupancy интервал занятости площадки
type Occupancy struct {
	BookingID        int64
	OrganizationName string
	EventTitle       string
	StartTime        types.TimeString
	EndTime          types.TimeString
}
