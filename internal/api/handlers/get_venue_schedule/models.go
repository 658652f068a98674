package get_venue_schedule

import (
	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	getVenueSchedule "github.com/m04kA/SMC-VenueBookingService/internal/usecase/get_venue_schedule"
)

// ScheduleResponse HTTP response model
type ScheduleResponse struct {
	Venue    string              `json:"venue"`
	Date     string              `json:"date"`
	Occupied []OccupancyResponse `json:"occupied"`
	Pending  []OccupancyResponse `json:"pending"`
}

// OccupancyResponse интервал занятости
type OccupancyResponse struct {
	BookingID        int64  `json:"bookingId"`
	OrganizationName string `json:"organizationName"`
	EventTitle       string `json:"eventTitle"`
	StartTime        string `json:"startTime"`
	EndTime          string `json:"endTime"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getVenueSchedule.Response) *ScheduleResponse {
	return &ScheduleResponse{
		Venue:    resp.Venue,
		Date:     resp.Date.Format(domain.DateFormat),
		Occupied: fromOccupancies(resp.Occupied),
		Pending:  fromOccupancies(resp.Pending),
	}
}

func fromOccupancies(list []getVenueSchedule.Occupancy) []OccupancyResponse {
	out := make([]OccupancyResponse, 0, len(list))
	for _, o := range list {
		out = append(out, OccupancyResponse{
			BookingID:        o.BookingID,
			OrganizationName: o.OrganizationName,
			EventTitle:       o.EventTitle,
			StartTime:        o.StartTime.String(),
			EndTime:          o.EndTime.String(),
		})
	}
	return out
}
