package aggregate

import "fleetreport/internal/domain/models"

// Distances holds the summed distance figures of a set of trips.
type Distances struct {
	Actual    float64 `json:"actual"`
	Estimated float64 `json:"estimated"`
	// Delta is the sum of per-trip (actual - estimated); it is signed.
	Delta float64 `json:"delta"`
}

func SumDistances(trips []models.TripRecord) Distances {
	var d Distances
	for _, t := range trips {
		actual := t.ActualDistance.NonNegative()
		estimated := t.EstimatedDistance.NonNegative()
		d.Actual += actual
		d.Estimated += estimated
		d.Delta += actual - estimated
	}
	return d
}

// DistanceCost charges the estimated distance of every trip at distanceRate.
// The free-distance threshold is not subtracted here.
func DistanceCost(trips []models.TripRecord, distanceRate float64) float64 {
	var total float64
	for _, t := range trips {
		total += t.EstimatedDistance.NonNegative() * distanceRate
	}
	return total
}

// TripFee is a flat fee per trip.
func TripFee(tripCount int, tripFeeRate float64) float64 {
	return float64(tripCount) * tripFeeRate
}
