package domain

import "time"

// Venue a bookable physical space
type Venue struct {
	ID        int64
	Name      string
	Capacity  int
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
