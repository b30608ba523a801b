package aggregate

import (
	"sort"
	"strconv"

	"fleetreport/internal/domain/models"
)

// UnassignedVehicle labels trips recorded without a vehicle.
const UnassignedVehicle = "unassigned"

type GroupReport struct {
	ReportGroup
	Drivers []string      `json:"drivers"`
	Items   []ItemSummary `json:"items"`
	Totals  Totals        `json:"totals"`
}

type VehicleReport struct {
	VehicleID     int64           `json:"vehicleId"`
	Label         string          `json:"label"`
	Vehicle       *models.Vehicle `json:"vehicle,omitempty"`
	Drivers       []string        `json:"drivers"`
	Groups        []GroupReport   `json:"groups"`
	Items         []ItemSummary   `json:"items"`
	CustomerItems []ItemSummary   `json:"customerItems"`
	Totals        Totals          `json:"totals"`
}

// Report is the fully aggregated trip report of one selection.
type Report struct {
	Rates    models.RateConfiguration `json:"rates"`
	Vehicles []VehicleReport          `json:"vehicles"`
	Items    []ItemSummary            `json:"items"`
	Totals   Totals                   `json:"totals"`
}

// GroupCount is the number of report rows across all vehicles.
func (r Report) GroupCount() int {
	n := 0
	for _, v := range r.Vehicles {
		n += len(v.Groups)
	}
	return n
}

// BuildReport groups trips by vehicle, then into report rows, and computes
// totals at every level.
func BuildReport(trips []models.TripRecord, rates models.RateConfiguration) Report {
	rep := Report{
		Rates:    rates,
		Vehicles: []VehicleReport{},
		Items:    AggregateItems(trips),
		Totals:   Summarize(trips, rates),
	}

	for _, vt := range groupByVehicle(trips) {
		vr := VehicleReport{
			VehicleID:     vt.id,
			Label:         vt.label,
			Vehicle:       vt.vehicle,
			Drivers:       VehicleDrivers(vt.trips, vt.vehicle),
			Groups:        []GroupReport{},
			Items:         AggregateItems(vt.trips),
			CustomerItems: AggregateItemsByCustomer(vt.trips),
			Totals:        Summarize(vt.trips, rates),
		}
		for _, g := range ReportGroups(vt.trips) {
			vr.Groups = append(vr.Groups, GroupReport{
				ReportGroup: g,
				Drivers:     CustomerDrivers(g.Trips),
				Items:       AggregateItems(g.Trips),
				Totals:      Summarize(g.Trips, rates),
			})
		}
		rep.Vehicles = append(rep.Vehicles, vr)
	}
	return rep
}

type vehicleTrips struct {
	id      int64
	label   string
	vehicle *models.Vehicle
	trips   []models.TripRecord
}

func vehicleIDOf(t models.TripRecord) int64 {
	if t.VehicleID != nil {
		return *t.VehicleID
	}
	if t.Vehicle != nil {
		return t.Vehicle.ID
	}
	return 0
}

// groupByVehicle orders vehicles by plate with the unassigned bucket last.
func groupByVehicle(trips []models.TripRecord) []vehicleTrips {
	index := map[int64]int{}
	out := []vehicleTrips{}
	for _, t := range trips {
		id := vehicleIDOf(t)
		i, ok := index[id]
		if !ok {
			i = len(out)
			index[id] = i
			vt := vehicleTrips{id: id, label: UnassignedVehicle}
			if id != 0 {
				vt.label = "#" + strconv.FormatInt(id, 10)
			}
			if id != 0 && t.Vehicle != nil {
				vt.vehicle = t.Vehicle
				vt.label = t.Vehicle.LicensePlate
			}
			out = append(out, vt)
		}
		if out[i].vehicle == nil && id != 0 && t.Vehicle != nil {
			out[i].vehicle = t.Vehicle
			out[i].label = t.Vehicle.LicensePlate
		}
		out[i].trips = append(out[i].trips, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if (out[i].id == 0) != (out[j].id == 0) {
			return out[j].id == 0
		}
		return out[i].label < out[j].label
	})
	return out
}
