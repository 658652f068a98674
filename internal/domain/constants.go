package domain

// Business validation constants
const (
	MaxVenueNameLength        = 200
	MaxOrganizationNameLength = 200
	MaxEventTitleLength       = 300
	MaxRejectionReasonLength  = 500
	MaxDayIntervalsPerRequest = 31
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// AllStatuses every known booking status
var AllStatuses = []BookingStatus{
	StatusPending,
	StatusApproved,
	StatusRejected,
	StatusCancelled,
}

// ActiveStatuses statuses that occupy (or may occupy) a venue
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusApproved,
}
