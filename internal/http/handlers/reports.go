package handlers

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"fleetreport/internal/aggregate"
	intconfig "fleetreport/internal/config"
	"fleetreport/internal/domain"
	"fleetreport/internal/http/middleware"
	"fleetreport/internal/services"
	"fleetreport/internal/utils"

	"github.com/gin-gonic/gin"
)

const exportFailedMsg = "failed to generate PDF"

var layoutMu sync.RWMutex

var reportLayout = intconfig.ReportEnv{PageSize: "A4", Orientation: "L", MarginMM: 10, FooterMM: 8, TemplateWidthPX: 1200}

// reportLoader replaces the database-backed report in tests.
var reportLoader func(context.Context, domain.TripFilter) (aggregate.Report, error)

// SetReportLayout stores the page settings used by PDF exports.
func SetReportLayout(env intconfig.ReportEnv) {
	layoutMu.Lock()
	defer layoutMu.Unlock()
	reportLayout = env
}

type reportQuery struct {
	VehicleID  *int64 `form:"vehicle_id" binding:"omitempty,gt=0"`
	CustomerID *int64 `form:"customer_id" binding:"omitempty,gt=0"`
	StartDate  string `form:"start_date" binding:"omitempty,isodate"`
	EndDate    string `form:"end_date" binding:"omitempty,isodate"`
}

func bindReportFilter(c *gin.Context) (domain.TripFilter, bool) {
	var q reportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_query", "invalid report filter", validationDetails(err))
		return domain.TripFilter{}, false
	}
	f := domain.TripFilter{VehicleID: q.VehicleID, CustomerID: q.CustomerID}
	if s := strings.TrimSpace(q.StartDate); s != "" {
		f.StartDate, _ = utils.ParseDate(s)
	}
	if s := strings.TrimSpace(q.EndDate); s != "" {
		f.EndDate, _ = utils.ParseDate(s)
	}
	return f, true
}

func reportService(c *gin.Context) services.ReportService {
	return services.ReportService{RequestID: middleware.GetRequestID(c)}
}

func exporter(c *gin.Context) services.Exporter {
	layoutMu.RLock()
	layout := reportLayout
	layoutMu.RUnlock()
	return services.Exporter{
		Reports:   reportService(c),
		Layout:    layout,
		RequestID: middleware.GetRequestID(c),
		Loader:    reportLoader,
	}
}

// GET /api/reports/trips?vehicle_id=1&start_date=2024-05-01&end_date=2024-05-31
func GetTripReport(c *gin.Context) {
	f, ok := bindReportFilter(c)
	if !ok {
		return
	}
	var (
		rep aggregate.Report
		err error
	)
	if reportLoader != nil {
		rep, err = reportLoader(c.Request.Context(), f)
	} else {
		rep, err = reportService(c).Build(c.Request.Context(), f)
	}
	if err != nil {
		utils.LogFailure(middleware.GetRequestID(c), "reports", "build", err)
		RespondDomainError(c, err, "failed to build report")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"period": utils.DateRangeLabel(f.StartDate, f.EndDate),
		"report": rep,
	})
}

// GET /api/reports/trips/pdf
func DownloadTripReportPDF(c *gin.Context) {
	sendPDF(c, "attachment", exporter(c).Download)
}

// GET /api/reports/trips/print
func PrintTripReportPDF(c *gin.Context) {
	sendPDF(c, "inline", exporter(c).Print)
}

type pdfExport func(context.Context, domain.TripFilter) ([]byte, string, error)

func sendPDF(c *gin.Context, disposition string, export pdfExport) {
	f, ok := bindReportFilter(c)
	if !ok {
		return
	}
	pdf, filename, err := export(c.Request.Context(), f)
	if err != nil {
		utils.LogFailure(middleware.GetRequestID(c), "reports", "pdf", err)
		RespondDomainError(c, err, exportFailedMsg)
		return
	}
	c.Header("Content-Disposition", disposition+`; filename="`+filename+`"`)
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// GET /api/reports/trips/xlsx
func DownloadTripReportXLSX(c *gin.Context) {
	f, ok := bindReportFilter(c)
	if !ok {
		return
	}
	out, filename, err := exporter(c).Workbook(c.Request.Context(), f)
	if err != nil {
		utils.LogFailure(middleware.GetRequestID(c), "reports", "xlsx", err)
		RespondDomainError(c, err, "failed to generate workbook")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", out)
}
