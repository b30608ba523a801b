package services

import (
	"context"
	"fmt"

	"fleetreport/internal/aggregate"
	"fleetreport/internal/domain"
	"fleetreport/internal/domain/models"
	"fleetreport/internal/repositories"
	"fleetreport/internal/utils"
)

// ReportService loads trips and rates and aggregates them into a report.
type ReportService struct {
	TripsRepo    repositories.TripsRepository
	SettingsRepo repositories.SettingsRepository
	RequestID    string
	Loader       func(context.Context, domain.TripFilter) ([]models.TripRecord, models.RateConfiguration, error)
}

func (s ReportService) Build(ctx context.Context, f domain.TripFilter) (aggregate.Report, error) {
	if f.HasDateRange() && f.EndDate.Before(f.StartDate) {
		return aggregate.Report{}, domain.ValidationError{Field: "end_date", Msg: "is before start_date"}
	}

	trips, rates, err := s.load(ctx, f)
	if err != nil {
		return aggregate.Report{}, err
	}

	rep := aggregate.BuildReport(trips, rates)
	utils.LogEvent(s.RequestID, "reports", "build",
		fmt.Sprintf("trips=%d vehicles=%d groups=%d", len(trips), len(rep.Vehicles), rep.GroupCount()))
	return rep, nil
}

func (s ReportService) load(ctx context.Context, f domain.TripFilter) ([]models.TripRecord, models.RateConfiguration, error) {
	if s.Loader != nil {
		return s.Loader(ctx, f)
	}
	trips, err := s.TripsRepo.ListReportTrips(ctx, f)
	if err != nil {
		return nil, models.RateConfiguration{}, err
	}
	rates, err := s.SettingsRepo.GetRates(ctx)
	if err != nil {
		return nil, models.RateConfiguration{}, err
	}
	return trips, rates, nil
}
