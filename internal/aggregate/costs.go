package aggregate

import "fleetreport/internal/domain/models"

// CompanyExpenses are the costs the company bears directly.
type CompanyExpenses struct {
	DistanceCheckFee float64 `json:"distanceCheckFee"`
	FuelCost         float64 `json:"fuelCost"`
	TollFee          float64 `json:"tollFee"`
	RepairCost       float64 `json:"repairCost"`
	Total            float64 `json:"total"`
}

func SumCompanyExpenses(trips []models.TripRecord) CompanyExpenses {
	var e CompanyExpenses
	for _, t := range trips {
		e.DistanceCheckFee += t.DistanceCheckFee.Float()
		e.FuelCost += t.FuelCost.Float()
		e.TollFee += t.TollFee.Float()
		e.RepairCost += t.RepairCost.Float()
	}
	e.Total = e.DistanceCheckFee + e.FuelCost + e.TollFee + e.RepairCost
	return e
}

func SumAllowance(trips []models.TripRecord) float64 {
	var total float64
	for _, t := range trips {
		total += t.TotalAllowance.Float()
	}
	return total
}

// SumItemValue adds the line value of every item of every trip.
func SumItemValue(trips []models.TripRecord) float64 {
	var total float64
	for _, t := range trips {
		for _, it := range t.Items {
			total += it.LineValue()
		}
	}
	return total
}

// Totals is the full set of figures for one group, vehicle or selection.
type Totals struct {
	TripCount     int       `json:"tripCount"`
	Distance      Distances `json:"distance"`
	Allowance     float64   `json:"allowance"`
	ItemValue     float64   `json:"itemValue"`
	DistanceCost  float64   `json:"distanceCost"`
	TripFee       float64   `json:"tripFee"`
	DriverPayable float64   `json:"driverPayable"`

	CompanyExpenses CompanyExpenses `json:"companyExpenses"`
	GrandTotal      float64         `json:"grandTotal"`
}

// Summarize computes Totals for trips under rates. An empty list yields
// all-zero totals.
func Summarize(trips []models.TripRecord, rates models.RateConfiguration) Totals {
	t := Totals{
		TripCount:       len(trips),
		Distance:        SumDistances(trips),
		Allowance:       SumAllowance(trips),
		ItemValue:       SumItemValue(trips),
		DistanceCost:    DistanceCost(trips, rates.DistanceRate),
		TripFee:         TripFee(len(trips), rates.TripFeeRate),
		CompanyExpenses: SumCompanyExpenses(trips),
	}
	t.DriverPayable = t.Allowance + t.ItemValue + t.DistanceCost + t.TripFee
	t.GrandTotal = t.DriverPayable + t.CompanyExpenses.Total
	return t
}
