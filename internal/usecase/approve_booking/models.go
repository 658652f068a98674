package approve_booking

import "github.com/m04kA/SMC-VenueBookingService/internal/domain"

// Request модель запроса на одобрение заявки
type Request struct {
	BookingID int64 // ID заявки
	AdminID   int64 // ID администратора
}

// Response модель ответа
type Response struct {
	Booking          *domain.BookingRequest // одобренная заявка
	AutoRejected     []int64                // заявки, отклоненные из-за пересечения
	FailedRejections []int64                // пересекающиеся заявки, которые не удалось отклонить
	ConflictsChecked bool                   // false, если список ожидающих заявок получить не удалось
}
