package approve_booking

import (
	"github.com/m04kA/SMC-VenueBookingService/internal/service/bookings/models"
	approveBooking "github.com/m04kA/SMC-VenueBookingService/internal/usecase/approve_booking"
)

// ApproveBookingResponse HTTP response model
type ApproveBookingResponse struct {
	Booking          *models.BookingResponse `json:"booking"`
	AutoRejected     []int64                 `json:"autoRejected"`
	FailedRejections []int64                 `json:"failedRejections,omitempty"`
	ConflictsChecked bool                    `json:"conflictsChecked"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *approveBooking.Response) *ApproveBookingResponse {
	autoRejected := resp.AutoRejected
	if autoRejected == nil {
		autoRejected = []int64{}
	}
	return &ApproveBookingResponse{
		Booking:          models.FromDomainBooking(resp.Booking),
		AutoRejected:     autoRejected,
		FailedRejections: resp.FailedRejections,
		ConflictsChecked: resp.ConflictsChecked,
	}
}
