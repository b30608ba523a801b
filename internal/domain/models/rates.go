package models

// RateConfiguration is fixed for the duration of one report computation.
type RateConfiguration struct {
	AllowanceRate         float64 `json:"allowanceRate"`
	DistanceRate          float64 `json:"distanceRate"`
	FreeDistanceThreshold float64 `json:"freeDistanceThreshold"`
	TripFeeRate           float64 `json:"tripFeeRate"`
}

// Defaults shown on the settings page when a rate was never saved.
const (
	DefaultAllowanceRate         = 150
	DefaultDistanceRate          = 1.2
	DefaultFreeDistanceThreshold = 1500
	DefaultTripFeeRate           = 30
)

// WithDisplayDefaults fills unset (zero) rates with the display defaults.
// Report computation uses the stored values as they are.
func (r RateConfiguration) WithDisplayDefaults() RateConfiguration {
	if r.AllowanceRate == 0 {
		r.AllowanceRate = DefaultAllowanceRate
	}
	if r.DistanceRate == 0 {
		r.DistanceRate = DefaultDistanceRate
	}
	if r.FreeDistanceThreshold == 0 {
		r.FreeDistanceThreshold = DefaultFreeDistanceThreshold
	}
	if r.TripFeeRate == 0 {
		r.TripFeeRate = DefaultTripFeeRate
	}
	return r
}

// ThresholdDistanceCost is the billing formula described on the settings
// page: only the distance beyond the free threshold is charged.
func (r RateConfiguration) ThresholdDistanceCost(distance float64) float64 {
	billable := distance - r.FreeDistanceThreshold
	if billable <= 0 {
		return 0
	}
	return billable * r.DistanceRate
}
