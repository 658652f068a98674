package domain

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-VenueBookingService/pkg/types"
)

// Half-day rule: a morning booking that ends by 12:30 leaves the venue free
// for a booking that starts exactly at 13:00.
const (
	HalfDayMorningEndMinutes     = 12*60 + 30 // 750
	HalfDayAfternoonStartMinutes = 13 * 60    // 780
)

var (
	ErrIntervalDateRequired = errors.New("day interval: date is required")
	ErrIntervalInvalidTime  = errors.New("day interval: invalid time format")
	ErrIntervalEmpty        = errors.New("day interval: start time must be before end time")
)

// DayInterval one calendar date plus a start/end clock time on that date
type DayInterval struct {
	Date      time.Time // midnight UTC, only Y-M-D is meaningful
	StartTime types.TimeString
	EndTime   types.TimeString
}

// NewDayInterval creates a validated interval
func NewDayInterval(date time.Time, start, end types.TimeString) (DayInterval, error) {
	d := DayInterval{
		Date:      DateOnly(date),
		StartTime: start,
		EndTime:   end,
	}
	if err := d.Validate(); err != nil {
		return DayInterval{}, err
	}
	return d, nil
}

// Validate checks the interval invariants
func (d DayInterval) Validate() error {
	if d.Date.IsZero() {
		return ErrIntervalDateRequired
	}
	if d.StartTime.Validate() != nil || d.EndTime.Validate() != nil {
		return ErrIntervalInvalidTime
	}
	if !d.StartTime.IsBefore(d.EndTime) {
		return ErrIntervalEmpty
	}
	return nil
}

// DateKey returns the calendar date as YYYY-MM-DD
func (d DayInterval) DateKey() string {
	return d.Date.Format(DateFormat)
}

// SameDate returns true if both intervals fall on the same calendar date
func (d DayInterval) SameDate(other DayInterval) bool {
	return d.DateKey() == other.DateKey()
}

// StartMinutes minutes since midnight
func (d DayInterval) StartMinutes() int {
	return d.StartTime.MustMinutes()
}

// EndMinutes minutes since midnight
func (d DayInterval) EndMinutes() int {
	return d.EndTime.MustMinutes()
}

// ConflictsWith reports whether candidate cannot coexist with d, where d is an
// already approved occupancy. The check is not symmetric because of the half-day rule.
func (d DayInterval) ConflictsWith(candidate DayInterval) bool {
	if !d.SameDate(candidate) {
		return false
	}

	aStart, aEnd := d.StartMinutes(), d.EndMinutes()
	cStart, cEnd := candidate.StartMinutes(), candidate.EndMinutes()

	// exact match on 13:00 only
	if aEnd <= HalfDayMorningEndMinutes && cStart == HalfDayAfternoonStartMinutes && cEnd > cStart {
		return false
	}

	// half-open: touching intervals do not overlap
	return aStart < cEnd && cStart < aEnd
}

// FirstConflict scans every same-date pair and returns the candidate interval
// of the first conflicting pair.
func FirstConflict(approved, candidate []DayInterval) (DayInterval, bool) {
	for _, a := range approved {
		for _, c := range candidate {
			if a.ConflictsWith(c) {
				return c, true
			}
		}
	}
	return DayInterval{}, false
}

// DateOnly truncates t to its calendar date (midnight UTC)
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func timeOfDay(t time.Time) types.TimeString {
	return types.NewTimeString(t)
}
