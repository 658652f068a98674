package create_booking

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	"github.com/m04kA/SMC-VenueBookingService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if strings.TrimSpace(req.Venue) == "" {
		return fmt.Errorf("%w: venue is required", ErrInvalidInput)
	}
	if len(req.Venue) > domain.MaxVenueNameLength {
		return fmt.Errorf("%w: venue name is too long", ErrInvalidInput)
	}

	if strings.TrimSpace(req.OrganizationName) == "" {
		return fmt.Errorf("%w: organizationName is required", ErrInvalidInput)
	}
	if len(req.OrganizationName) > domain.MaxOrganizationNameLength {
		return fmt.Errorf("%w: organizationName is too long", ErrInvalidInput)
	}

	if strings.TrimSpace(req.EventTitle) == "" {
		return fmt.Errorf("%w: eventTitle is required", ErrInvalidInput)
	}
	if len(req.EventTitle) > domain.MaxEventTitleLength {
		return fmt.Errorf("%w: eventTitle is too long", ErrInvalidInput)
	}

	if len(req.DayIntervals) == 0 && (req.StartAt == nil || req.EndAt == nil) {
		return fmt.Errorf("%w: dayIntervals or startAt/endAt are required", ErrInvalidInput)
	}

	if len(req.DayIntervals) > domain.MaxDayIntervalsPerRequest {
		return fmt.Errorf("%w: at most %d day intervals allowed", ErrInvalidInput, domain.MaxDayIntervalsPerRequest)
	}

	return nil
}

// normalizeIntervals проверяет интервалы и сортирует их по дате и времени начала
func normalizeIntervals(intervals []domain.DayInterval) ([]domain.DayInterval, error) {
	result := make([]domain.DayInterval, 0, len(intervals))
	for i, interval := range intervals {
		normalized, err := domain.NewDayInterval(interval.Date, interval.StartTime, interval.EndTime)
		if err != nil {
			return nil, fmt.Errorf("%w: dayIntervals[%d]: %v", ErrInvalidInterval, i, err)
		}
		result = append(result, normalized)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].SameDate(result[j]) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].StartMinutes() < result[j].StartMinutes()
	})

	for i := 1; i < len(result); i++ {
		prev, cur := result[i-1], result[i]
		if prev.SameDate(cur) && cur.StartMinutes() < prev.EndMinutes() {
			return nil, fmt.Errorf("%w: %s %s-%s and %s-%s",
				ErrOverlappingIntervals, cur.DateKey(), prev.StartTime, prev.EndTime, cur.StartTime, cur.EndTime)
		}
	}

	return result, nil
}

// validateTimeRange проверяет общий диапазон: начало раньше конца, один календарный день в loc
// Многодневные мероприятия задаются через dayIntervals
func validateTimeRange(startAt, endAt time.Time, loc *time.Location) error {
	if !startAt.Before(endAt) {
		return fmt.Errorf("%w: startAt must be before endAt", ErrInvalidInterval)
	}

	start, end := startAt.In(loc), endAt.In(loc)
	if !domain.DateOnly(start).Equal(domain.DateOnly(end)) {
		return fmt.Errorf("%w: startAt and endAt must be on the same day, use dayIntervals for multi-day events", ErrInvalidInterval)
	}

	// Конфликты проверяются с точностью до минуты
	if _, err := domain.NewDayInterval(start, types.NewTimeString(start), types.NewTimeString(end)); err != nil {
		return fmt.Errorf("%w: startAt-endAt: %v", ErrInvalidInterval, err)
	}

	return nil
}
