package services

import (
	"bytes"
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"fleetreport/internal/aggregate"
	intconfig "fleetreport/internal/config"
	"fleetreport/internal/domain"
	"fleetreport/internal/pageflow"
	"fleetreport/internal/utils"
)

// ErrExportInProgress is returned while another export is running.
var ErrExportInProgress error = domain.ConflictError{Resource: "export", Msg: "an export is already in progress"}

// exportInFlight is shared by every Exporter and entry point.
var exportInFlight atomic.Bool

const reportTitle = "Trip report"

// Exporter turns a trip report into a paginated PDF.
type Exporter struct {
	Reports   ReportService
	Layout    intconfig.ReportEnv
	RequestID string
	Now       func() time.Time
	// Loader replaces Reports when set.
	Loader func(context.Context, domain.TripFilter) (aggregate.Report, error)
}

// Download returns the PDF as a file named after the export day.
func (e Exporter) Download(ctx context.Context, f domain.TripFilter) ([]byte, string, error) {
	pdf, err := e.export(ctx, f, "download")
	if err != nil {
		return nil, "", err
	}
	return pdf, fmt.Sprintf("trip-report-%s.pdf", utils.FormatDate(e.now())), nil
}

// Print returns the same PDF, meant to be shown inline for printing.
func (e Exporter) Print(ctx context.Context, f domain.TripFilter) ([]byte, string, error) {
	pdf, err := e.export(ctx, f, "print")
	if err != nil {
		return nil, "", err
	}
	return pdf, fmt.Sprintf("trip-report-%s.pdf", utils.FormatDate(e.now())), nil
}

// claimExport takes the process-wide export slot. Callers must defer the
// returned release.
func claimExport() (release func(), err error) {
	if !exportInFlight.CompareAndSwap(false, true) {
		return nil, ErrExportInProgress
	}
	return func() { exportInFlight.Store(false) }, nil
}

func (e Exporter) export(ctx context.Context, f domain.TripFilter, action string) ([]byte, error) {
	release, err := claimExport()
	if err != nil {
		return nil, err
	}
	defer release()

	rep, err := e.load(ctx, f)
	if err != nil {
		return nil, err
	}

	var vehicle string
	if f.VehicleID != nil && len(rep.Vehicles) == 1 {
		vehicle = rep.Vehicles[0].Label
	}
	out, pages, err := e.renderPDF(rep, utils.DateRangeLabel(f.StartDate, f.EndDate), vehicle)
	if err != nil {
		utils.LogFailure(e.RequestID, "export", action, err)
		return nil, err
	}
	utils.LogEvent(e.RequestID, "export", action, fmt.Sprintf("pages=%d bytes=%d", pages, len(out)))
	return out, nil
}

// renderPDF lays the report out on pages and renders them in order. It
// returns the document and its page count.
func (e Exporter) renderPDF(rep aggregate.Report, period, vehicle string) ([]byte, int, error) {
	layout, pages, err := e.paginate(rep, period, vehicle)
	if err != nil {
		return nil, 0, err
	}

	stamp := utils.FormatDateTime(e.now())
	for _, p := range pages {
		layout.renderPage(p, len(pages), stamp)
		if err := layout.pdf.Error(); err != nil {
			return nil, 0, fmt.Errorf("render page %d: %w", p.Number, err)
		}
	}

	out, err := layout.output()
	if err != nil {
		return nil, 0, err
	}
	return out, len(pages), nil
}

// paginate renders the print template and splits it into pages measured
// on a fresh layout.
func (e Exporter) paginate(rep aggregate.Report, period, vehicle string) (*pdfLayout, []pageflow.Page, error) {
	layout, err := newPDFLayout(e.Layout)
	if err != nil {
		return nil, nil, err
	}
	if err := layout.loadFonts(); err != nil {
		return nil, nil, err
	}

	html, err := renderPrintTemplate(newPrintData(rep, reportTitle, period, vehicle))
	if err != nil {
		return nil, nil, err
	}
	tpl, err := ParsePrintTemplate(bytes.NewReader(html))
	if err != nil {
		return nil, nil, err
	}

	pages, err := pageflow.Build(tpl, layout.Capacity(), layout)
	if err != nil {
		return nil, nil, err
	}
	return layout, pages, nil
}

func (e Exporter) load(ctx context.Context, f domain.TripFilter) (aggregate.Report, error) {
	if e.Loader != nil {
		return e.Loader(ctx, f)
	}
	reports := e.Reports
	reports.RequestID = e.RequestID
	return reports.Build(ctx, f)
}

func (e Exporter) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}
