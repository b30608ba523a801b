package repositories

import (
	"context"
	"database/sql"
	"fmt"

	intconfig "fleetreport/internal/config"
	intdb "fleetreport/internal/db"
	"fleetreport/internal/domain"
	"fleetreport/internal/domain/models"
)

// Keys of the rate settings in settings(setting_key, setting_value).
const (
	SettingAllowanceRate         = "allowance_rate"
	SettingDistanceRate          = "distance_rate"
	SettingFreeDistanceThreshold = "free_distance_threshold"
	SettingTripFeeRate           = "trip_fee_rate"
)

type SettingsRepository struct {
	DB *sql.DB
}

func (r SettingsRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// GetRates returns the stored rates. Unknown or unparsable values are zero;
// callers decide whether to apply display defaults.
func (r SettingsRepository) GetRates(ctx context.Context) (models.RateConfiguration, error) {
	var rates models.RateConfiguration
	db := r.db()
	if db == nil {
		return rates, domain.ErrNotConnected
	}
	if !intdb.HasTable(ctx, db, "settings") {
		return rates, nil
	}

	rows, err := db.QueryContext(ctx, `
		SELECT setting_key, COALESCE(setting_value,'')
		FROM settings
		WHERE setting_key IN (?,?,?,?)
	`, SettingAllowanceRate, SettingDistanceRate, SettingFreeDistanceThreshold, SettingTripFeeRate)
	if err != nil {
		return rates, fmt.Errorf("query settings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return rates, fmt.Errorf("scan setting: %w", err)
		}
		n := models.AmountOf(value).Float()
		switch key {
		case SettingAllowanceRate:
			rates.AllowanceRate = n
		case SettingDistanceRate:
			rates.DistanceRate = n
		case SettingFreeDistanceThreshold:
			rates.FreeDistanceThreshold = n
		case SettingTripFeeRate:
			rates.TripFeeRate = n
		}
	}
	return rates, rows.Err()
}
