package models

import "time"

// DriverType tells which of the vehicle's drivers made the trip.
type DriverType string

const (
	DriverMain   DriverType = "main"
	DriverBackup DriverType = "backup"
	DriverOther  DriverType = "other"
)

// TripRecord is one vehicle movement to a customer.
type TripRecord struct {
	ID                int64      `json:"id"`
	DepartureDate     time.Time  `json:"departureDate"`
	ReturnDate        time.Time  `json:"returnDate"`
	DepartureTime     string     `json:"departureTime,omitempty"`
	ReturnTime        string     `json:"returnTime,omitempty"`
	ActualDistance    Amount     `json:"actualDistance"`
	EstimatedDistance Amount     `json:"estimatedDistance"`
	TotalAllowance    Amount     `json:"totalAllowance"`
	DistanceCheckFee  Amount     `json:"distanceCheckFee"`
	FuelCost          Amount     `json:"fuelCost"`
	TollFee           Amount     `json:"tollFee"`
	RepairCost        Amount     `json:"repairCost"`
	DocumentNumber    string     `json:"documentNumber"`
	DriverType        DriverType `json:"driverType"`
	DriverName        string     `json:"driverName"`
	Remark            string     `json:"remark"`

	CustomerID int64      `json:"customerId"`
	Customer   Customer   `json:"customer"`
	VehicleID  *int64     `json:"vehicleId,omitempty"`
	Vehicle    *Vehicle   `json:"vehicle,omitempty"`
	Items      []TripItem `json:"tripItems"`
}

// TripItem is a cargo line carried back on a trip.
type TripItem struct {
	ID         int64  `json:"id"`
	TripID     int64  `json:"tripId"`
	Quantity   Amount `json:"quantity"`
	Unit       string `json:"unit"`
	UnitPrice  Amount `json:"unitPrice"`
	TotalPrice Amount `json:"totalPrice"`
	Remark     string `json:"remark"`
	Item       *Item  `json:"item,omitempty"`
}

// Item is the catalog entry a trip item refers to.
type Item struct {
	ID          int64  `json:"id"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Unit        string `json:"unit"`
}

// LineValue is TotalPrice when positive, otherwise UnitPrice x Quantity,
// never below zero.
func (ti TripItem) LineValue() float64 {
	if total := ti.TotalPrice.Float(); total > 0 {
		return total
	}
	v := ti.UnitPrice.Float() * ti.Quantity.Float()
	if v < 0 {
		return 0
	}
	return v
}

// Name picks the most descriptive label available for the line.
func (ti TripItem) Name() string {
	if ti.Item != nil {
		if ti.Item.Description != "" {
			return ti.Item.Description
		}
		if ti.Item.Code != "" {
			return ti.Item.Code
		}
	}
	return ti.Remark
}
