package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	intconfig "fleetreport/internal/config"
	intdb "fleetreport/internal/db"
	"fleetreport/internal/domain"
	"fleetreport/internal/domain/models"

	"github.com/go-sql-driver/mysql"
)

const mysqlDuplicateEntry = 1062

type VehiclesRepository struct {
	DB *sql.DB
}

func (r VehiclesRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const vehicleSelect = `
	SELECT
		v.id,
		v.license_plate,
		COALESCE(v.brand,''),
		COALESCE(v.model,''),
		COALESCE(v.vehicle_type,''),
		COALESCE(v.image_url,''),
		v.main_driver_id,
		COALESCE(md.name,''),
		COALESCE(md.phone,''),
		v.backup_driver_id,
		COALESCE(bd.name,''),
		COALESCE(bd.phone,'')
	FROM vehicles v
	LEFT JOIN drivers md ON md.id = v.main_driver_id
	LEFT JOIN drivers bd ON bd.id = v.backup_driver_id
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVehicle(s rowScanner) (models.Vehicle, error) {
	var (
		v                   models.Vehicle
		mainID, backupID    sql.NullInt64
		mainName, mainPhone string
		backName, backPhone string
	)
	if err := s.Scan(
		&v.ID,
		&v.LicensePlate,
		&v.Brand,
		&v.Model,
		&v.VehicleType,
		&v.ImageURL,
		&mainID,
		&mainName,
		&mainPhone,
		&backupID,
		&backName,
		&backPhone,
	); err != nil {
		return v, err
	}
	if mainID.Valid {
		v.MainDriver = &models.Driver{ID: mainID.Int64, Name: mainName, Phone: mainPhone}
	}
	if backupID.Valid {
		v.BackupDriver = &models.Driver{ID: backupID.Int64, Name: backName, Phone: backPhone}
	}
	return v, nil
}

// List returns vehicles, optionally filtered by plate/brand/model.
func (r VehiclesRepository) List(ctx context.Context, q string) ([]models.Vehicle, error) {
	db := r.db()
	if db == nil {
		return nil, domain.ErrNotConnected
	}

	query := vehicleSelect
	args := []any{}
	if q = strings.TrimSpace(q); q != "" {
		query += " WHERE (v.license_plate LIKE ? OR v.brand LIKE ? OR v.model LIKE ?)"
		like := "%" + q + "%"
		args = append(args, like, like, like)
	}
	query += " ORDER BY v.license_plate ASC, v.id ASC"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query vehicles: %w", err)
	}
	defer rows.Close()

	list := []models.Vehicle{}
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vehicle: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

func (r VehiclesRepository) GetByID(ctx context.Context, id int64) (models.Vehicle, error) {
	db := r.db()
	if db == nil {
		return models.Vehicle{}, domain.ErrNotConnected
	}
	v, err := scanVehicle(db.QueryRowContext(ctx, vehicleSelect+" WHERE v.id = ? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Vehicle{}, domain.NotFoundError{Resource: "vehicle", Err: err}
	}
	if err != nil {
		return models.Vehicle{}, fmt.Errorf("get vehicle: %w", err)
	}
	return v, nil
}

func (r VehiclesRepository) Create(ctx context.Context, p models.VehiclePayload) (int64, error) {
	db := r.db()
	if db == nil {
		return 0, domain.ErrNotConnected
	}
	res, err := db.ExecContext(ctx, `
		INSERT INTO vehicles (license_plate, brand, model, vehicle_type, main_driver_id, backup_driver_id, image_url)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, strings.TrimSpace(p.LicensePlate),
		intdb.NullIfEmpty(strings.TrimSpace(p.Brand)),
		intdb.NullIfEmpty(strings.TrimSpace(p.Model)),
		intdb.NullIfEmpty(p.VehicleType),
		intdb.NullInt64(p.MainDriverID),
		intdb.NullInt64(p.BackupDriverID),
		intdb.NullIfEmpty(strings.TrimSpace(p.ImageURL)),
	)
	if err != nil {
		return 0, vehicleWriteError(err)
	}
	return res.LastInsertId()
}

func (r VehiclesRepository) Update(ctx context.Context, id int64, p models.VehiclePayload) error {
	db := r.db()
	if db == nil {
		return domain.ErrNotConnected
	}
	res, err := db.ExecContext(ctx, `
		UPDATE vehicles
		SET license_plate = ?, brand = ?, model = ?, vehicle_type = ?,
		    main_driver_id = ?, backup_driver_id = ?, image_url = ?
		WHERE id = ?
	`, strings.TrimSpace(p.LicensePlate),
		intdb.NullIfEmpty(strings.TrimSpace(p.Brand)),
		intdb.NullIfEmpty(strings.TrimSpace(p.Model)),
		intdb.NullIfEmpty(p.VehicleType),
		intdb.NullInt64(p.MainDriverID),
		intdb.NullInt64(p.BackupDriverID),
		intdb.NullIfEmpty(strings.TrimSpace(p.ImageURL)),
		id,
	)
	if err != nil {
		return vehicleWriteError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "vehicle"}
	}
	return nil
}

func (r VehiclesRepository) Delete(ctx context.Context, id int64) error {
	db := r.db()
	if db == nil {
		return domain.ErrNotConnected
	}
	res, err := db.ExecContext(ctx, `DELETE FROM vehicles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete vehicle: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "vehicle"}
	}
	return nil
}

func vehicleWriteError(err error) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
		return domain.ConflictError{Resource: "vehicle", Msg: "license plate already registered", Err: err}
	}
	return fmt.Errorf("write vehicle: %w", err)
}
