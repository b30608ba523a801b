package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	intconfig "fleetreport/internal/config"
	intdb "fleetreport/internal/db"
	"fleetreport/internal/domain"
	"fleetreport/internal/domain/models"
)

type TripsRepository struct {
	DB *sql.DB
}

func (r TripsRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const reportTripsSelect = `
	SELECT
		t.id,
		t.departure_date,
		t.return_date,
		COALESCE(t.departure_time,''),
		COALESCE(t.return_time,''),
		COALESCE(CAST(t.actual_distance AS CHAR),''),
		COALESCE(CAST(t.estimated_distance AS CHAR),''),
		COALESCE(CAST(t.total_allowance AS CHAR),''),
		COALESCE(CAST(t.distance_check_fee AS CHAR),''),
		COALESCE(CAST(t.fuel_cost AS CHAR),''),
		COALESCE(CAST(t.toll_fee AS CHAR),''),
		COALESCE(CAST(t.repair_cost AS CHAR),''),
		COALESCE(t.document_number,''),
		COALESCE(t.driver_type,''),
		COALESCE(t.driver_name,''),
		COALESCE(t.remark,''),
		t.customer_id,
		COALESCE(c.name,''),
		t.vehicle_id,
		COALESCE(v.license_plate,''),
		COALESCE(v.brand,''),
		COALESCE(v.model,''),
		COALESCE(v.vehicle_type,''),
		COALESCE(v.image_url,''),
		v.main_driver_id,
		COALESCE(md.name,''),
		v.backup_driver_id,
		COALESCE(bd.name,'')
	FROM trips t
	LEFT JOIN customers c ON c.id = t.customer_id
	LEFT JOIN vehicles v ON v.id = t.vehicle_id
	LEFT JOIN drivers md ON md.id = v.main_driver_id
	LEFT JOIN drivers bd ON bd.id = v.backup_driver_id
`

// ListReportTrips returns the trips matching f with customer, vehicle (and
// its drivers) and trip items attached. Numeric columns are read as text.
func (r TripsRepository) ListReportTrips(ctx context.Context, f domain.TripFilter) ([]models.TripRecord, error) {
	db := r.db()
	if db == nil {
		return nil, domain.ErrNotConnected
	}

	where := []string{"1=1"}
	args := []any{}
	if f.VehicleID != nil {
		where = append(where, "t.vehicle_id = ?")
		args = append(args, *f.VehicleID)
	}
	if f.CustomerID != nil {
		where = append(where, "t.customer_id = ?")
		args = append(args, *f.CustomerID)
	}
	if !f.StartDate.IsZero() {
		where = append(where, "t.departure_date >= ?")
		args = append(args, f.StartDate.Format("2006-01-02"))
	}
	if !f.EndDate.IsZero() {
		where = append(where, "t.departure_date <= ?")
		args = append(args, f.EndDate.Format("2006-01-02"))
	}

	query := reportTripsSelect + " WHERE " + strings.Join(where, " AND ") + " ORDER BY t.departure_date ASC, t.id ASC"
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query trips: %w", err)
	}
	defer rows.Close()

	vehicles := map[int64]*models.Vehicle{}
	out := []models.TripRecord{}
	for rows.Next() {
		var (
			t                                  models.TripRecord
			returnDate                         sql.NullTime
			actual, estimated, allowance       string
			checkFee, fuel, toll, repair       string
			driverType                         string
			vehicleID, mainDriver, backupDrive sql.NullInt64
			v                                  models.Vehicle
			mainName, backupName               string
		)
		if err := rows.Scan(
			&t.ID,
			&t.DepartureDate,
			&returnDate,
			&t.DepartureTime,
			&t.ReturnTime,
			&actual,
			&estimated,
			&allowance,
			&checkFee,
			&fuel,
			&toll,
			&repair,
			&t.DocumentNumber,
			&driverType,
			&t.DriverName,
			&t.Remark,
			&t.CustomerID,
			&t.Customer.Name,
			&vehicleID,
			&v.LicensePlate,
			&v.Brand,
			&v.Model,
			&v.VehicleType,
			&v.ImageURL,
			&mainDriver,
			&mainName,
			&backupDrive,
			&backupName,
		); err != nil {
			return nil, fmt.Errorf("scan trip: %w", err)
		}
		if returnDate.Valid {
			t.ReturnDate = returnDate.Time
		}
		t.ActualDistance = models.AmountOf(actual)
		t.EstimatedDistance = models.AmountOf(estimated)
		t.TotalAllowance = models.AmountOf(allowance)
		t.DistanceCheckFee = models.AmountOf(checkFee)
		t.FuelCost = models.AmountOf(fuel)
		t.TollFee = models.AmountOf(toll)
		t.RepairCost = models.AmountOf(repair)
		t.DriverType = normalizeDriverType(driverType)
		t.Customer.ID = t.CustomerID

		if vehicleID.Valid {
			t.VehicleID = intdb.Int64Ptr(vehicleID)
			cached, ok := vehicles[vehicleID.Int64]
			if !ok {
				v.ID = vehicleID.Int64
				if mainDriver.Valid {
					v.MainDriver = &models.Driver{ID: mainDriver.Int64, Name: mainName}
				}
				if backupDrive.Valid {
					v.BackupDriver = &models.Driver{ID: backupDrive.Int64, Name: backupName}
				}
				cached = &v
				vehicles[vehicleID.Int64] = cached
			}
			t.Vehicle = cached
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachItems(ctx, db, out); err != nil {
		return nil, err
	}
	return out, nil
}

// attachItems loads trip_items for trips in one query. A schema without the
// table yields trips without items.
func (r TripsRepository) attachItems(ctx context.Context, db *sql.DB, trips []models.TripRecord) error {
	if len(trips) == 0 || !intdb.HasTable(ctx, db, "trip_items") {
		return nil
	}

	ids := make([]int64, len(trips))
	pos := make(map[int64]int, len(trips))
	for i, t := range trips {
		ids[i] = t.ID
		pos[t.ID] = i
	}

	query := `
		SELECT
			ti.id,
			ti.trip_id,
			COALESCE(CAST(ti.quantity AS CHAR),''),
			COALESCE(ti.unit,''),
			COALESCE(CAST(ti.unit_price AS CHAR),''),
			COALESCE(CAST(ti.total_price AS CHAR),''),
			COALESCE(ti.remark,''),
			ti.item_id,
			COALESCE(i.code,''),
			COALESCE(i.description,''),
			COALESCE(i.unit,'')
		FROM trip_items ti
		LEFT JOIN items i ON i.id = ti.item_id
		WHERE ti.trip_id IN (` + intdb.Placeholders(len(ids)) + `)
		ORDER BY ti.trip_id ASC, ti.id ASC`

	rows, err := db.QueryContext(ctx, query, intdb.Int64Args(ids)...)
	if err != nil {
		return fmt.Errorf("query trip items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			ti                    models.TripItem
			qty, unitPrice, total string
			itemID                sql.NullInt64
			code, desc, itemUnit  string
		)
		if err := rows.Scan(&ti.ID, &ti.TripID, &qty, &ti.Unit, &unitPrice, &total, &ti.Remark, &itemID, &code, &desc, &itemUnit); err != nil {
			return fmt.Errorf("scan trip item: %w", err)
		}
		ti.Quantity = models.AmountOf(qty)
		ti.UnitPrice = models.AmountOf(unitPrice)
		ti.TotalPrice = models.AmountOf(total)
		if itemID.Valid {
			ti.Item = &models.Item{ID: itemID.Int64, Code: code, Description: desc, Unit: itemUnit}
		}
		if i, ok := pos[ti.TripID]; ok {
			trips[i].Items = append(trips[i].Items, ti)
		}
	}
	return rows.Err()
}

func normalizeDriverType(s string) models.DriverType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "backup":
		return models.DriverBackup
	case "other":
		return models.DriverOther
	default:
		return models.DriverMain
	}
}
