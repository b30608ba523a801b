package aggregate

import (
	"strings"

	"fleetreport/internal/domain/models"
)

// TripDriver resolves who drove a trip: the name recorded on the trip, else
// the vehicle's bound driver for the trip's driver type. Empty if unknown.
func TripDriver(t models.TripRecord, v *models.Vehicle) string {
	if name := strings.TrimSpace(t.DriverName); name != "" {
		return name
	}
	if v == nil {
		v = t.Vehicle
	}
	if v == nil {
		return ""
	}
	switch t.DriverType {
	case models.DriverBackup:
		if v.BackupDriver != nil {
			return strings.TrimSpace(v.BackupDriver.Name)
		}
	case models.DriverOther:
		return ""
	default:
		if v.MainDriver != nil {
			return strings.TrimSpace(v.MainDriver.Name)
		}
	}
	return ""
}

// VehicleDrivers lists the distinct drivers of a vehicle's trips.
func VehicleDrivers(trips []models.TripRecord, v *models.Vehicle) []string {
	return uniqueDrivers(trips, v)
}

// CustomerDrivers lists the distinct drivers of one customer's trips, each
// resolved against the trip's own vehicle.
func CustomerDrivers(trips []models.TripRecord) []string {
	return uniqueDrivers(trips, nil)
}

func uniqueDrivers(trips []models.TripRecord, v *models.Vehicle) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, t := range trips {
		name := TripDriver(t, v)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
