package domain

import "time"

// TripFilter narrows the trips a report is computed over. Zero values mean
// "no constraint".
type TripFilter struct {
	VehicleID  *int64
	CustomerID *int64
	StartDate  time.Time
	EndDate    time.Time
}

// HasDateRange reports whether both ends of the range are set.
func (f TripFilter) HasDateRange() bool {
	return !f.StartDate.IsZero() && !f.EndDate.IsZero()
}
