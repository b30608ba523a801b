package services

import (
	"context"
	"fmt"
	"strings"

	"fleetreport/internal/aggregate"
	"fleetreport/internal/domain"
	"fleetreport/internal/utils"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Summary"
	detailSheet  = "Details"
	itemsSheet   = "Items"
)

// Workbook exports the report as XLSX. It shares the export slot with the
// PDF entry points.
func (e Exporter) Workbook(ctx context.Context, f domain.TripFilter) ([]byte, string, error) {
	release, err := claimExport()
	if err != nil {
		return nil, "", err
	}
	defer release()

	rep, err := e.load(ctx, f)
	if err != nil {
		return nil, "", err
	}
	out, err := BuildWorkbook(rep, utils.DateRangeLabel(f.StartDate, f.EndDate))
	if err != nil {
		utils.LogFailure(e.RequestID, "export", "xlsx", err)
		return nil, "", err
	}
	utils.LogEvent(e.RequestID, "export", "xlsx", fmt.Sprintf("vehicles=%d bytes=%d", len(rep.Vehicles), len(out)))
	return out, fmt.Sprintf("trip-report-%s.xlsx", utils.FormatDate(e.now())), nil
}

// sheetWriter keeps the first error of a series of cell writes.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func (w *sheetWriter) set(col, row int, v any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetCellValue(w.sheet, cell, v)
}

func (w *sheetWriter) row(row int, values ...any) {
	for i, v := range values {
		w.set(i+1, row, v)
	}
}

func (w *sheetWriter) sum(col, row, from, to int) {
	if w.err != nil || to < from {
		return
	}
	cell, _ := excelize.CoordinatesToCellName(col, row)
	first, _ := excelize.CoordinatesToCellName(col, from)
	last, _ := excelize.CoordinatesToCellName(col, to)
	w.err = w.f.SetCellFormula(w.sheet, cell, fmt.Sprintf("SUM(%s:%s)", first, last))
}

func (w *sheetWriter) style(fromCol, fromRow, toCol, toRow, style int) {
	if w.err != nil {
		return
	}
	a, _ := excelize.CoordinatesToCellName(fromCol, fromRow)
	b, _ := excelize.CoordinatesToCellName(toCol, toRow)
	w.err = w.f.SetCellStyle(w.sheet, a, b, style)
}

type workbookStyles struct {
	header, total, title, money int
}

func newWorkbookStyles(f *excelize.File) (workbookStyles, error) {
	var s workbookStyles
	var err error
	border := []excelize.Border{{Type: "bottom", Color: "#000000", Style: 1}}
	if s.header, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 11},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"#DCE6F1"}, Pattern: 1},
		Border: border,
	}); err != nil {
		return s, err
	}
	if s.total, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"#F2F2F2"}, Pattern: 1},
		Border: []excelize.Border{{Type: "top", Color: "#000000", Style: 1}},
		NumFmt: 4,
	}); err != nil {
		return s, err
	}
	if s.title, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 13},
	}); err != nil {
		return s, err
	}
	s.money, err = f.NewStyle(&excelize.Style{NumFmt: 4})
	return s, err
}

// BuildWorkbook writes a summary sheet (one row per vehicle), a detail sheet
// (one table per vehicle, one row per report group) and the merged items.
func BuildWorkbook(rep aggregate.Report, period string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	for _, name := range []string{detailSheet, itemsSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
	}
	st, err := newWorkbookStyles(f)
	if err != nil {
		return nil, err
	}

	if err := writeSummarySheet(f, st, rep, period); err != nil {
		return nil, err
	}
	if err := writeDetailSheet(f, st, rep); err != nil {
		return nil, err
	}
	if err := writeItemsSheet(f, st, rep); err != nil {
		return nil, err
	}

	if idx, err := f.GetSheetIndex(summarySheet); err == nil {
		f.SetActiveSheet(idx)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSummarySheet(f *excelize.File, st workbookStyles, rep aggregate.Report, period string) error {
	w := &sheetWriter{f: f, sheet: summarySheet}
	w.row(1, reportTitle, utils.Safe(period, "all dates"))
	w.style(1, 1, 1, 1, st.title)

	headers := []any{"Vehicle", "Drivers", "Trips", "Actual km", "Estimated km", "Allowance",
		"Items", "Distance cost", "Trip fee", "Driver payable", "Company expenses", "Grand total"}
	w.row(3, headers...)
	w.style(1, 3, len(headers), 3, st.header)

	row := 4
	for _, v := range rep.Vehicles {
		t := v.Totals
		w.row(row, v.Label, strings.Join(v.Drivers, ", "), t.TripCount,
			t.Distance.Actual, t.Distance.Estimated, t.Allowance, t.ItemValue,
			t.DistanceCost, t.TripFee, t.DriverPayable, t.CompanyExpenses.Total, t.GrandTotal)
		w.style(6, row, len(headers), row, st.money)
		row++
	}
	w.set(1, row, "TOTAL")
	for col := 3; col <= len(headers); col++ {
		w.sum(col, row, 4, row-1)
	}
	w.style(1, row, len(headers), row, st.total)

	if w.err == nil {
		w.err = f.SetColWidth(summarySheet, "A", "B", 22)
	}
	if w.err == nil {
		w.err = f.SetColWidth(summarySheet, "C", "L", 15)
	}
	return w.err
}

func writeDetailSheet(f *excelize.File, st workbookStyles, rep aggregate.Report) error {
	w := &sheetWriter{f: f, sheet: detailSheet}
	headers := []any{"Date range", "Document", "Customer", "Drivers", "Trips", "Estimated km",
		"Allowance", "Items", "Distance cost", "Trip fee", "Driver payable"}

	row := 1
	for _, v := range rep.Vehicles {
		w.set(1, row, "Vehicle "+v.Label)
		if w.err == nil {
			last, _ := excelize.CoordinatesToCellName(len(headers), row)
			w.err = f.MergeCell(detailSheet, fmt.Sprintf("A%d", row), last)
		}
		w.style(1, row, 1, row, st.title)
		row++

		w.row(row, headers...)
		w.style(1, row, len(headers), row, st.header)
		row++

		start := row
		for _, g := range v.Groups {
			t := g.Totals
			w.row(row, g.DateRange, g.DocumentNumber, g.Customer.Name, strings.Join(g.Drivers, ", "),
				t.TripCount, t.Distance.Estimated, t.Allowance, t.ItemValue,
				t.DistanceCost, t.TripFee, t.DriverPayable)
			w.style(7, row, len(headers), row, st.money)
			row++
		}
		w.set(1, row, "TOTAL")
		for col := 5; col <= len(headers); col++ {
			w.sum(col, row, start, row-1)
		}
		w.style(1, row, len(headers), row, st.total)
		row += 3
	}

	if w.err == nil {
		w.err = f.SetColWidth(detailSheet, "A", "A", 24)
	}
	if w.err == nil {
		w.err = f.SetColWidth(detailSheet, "B", "D", 20)
	}
	if w.err == nil {
		w.err = f.SetColWidth(detailSheet, "E", "K", 14)
	}
	return w.err
}

func writeItemsSheet(f *excelize.File, st workbookStyles, rep aggregate.Report) error {
	w := &sheetWriter{f: f, sheet: itemsSheet}
	headers := []any{"Code", "Description", "Unit", "Quantity", "Total price"}
	w.row(1, headers...)
	w.style(1, 1, len(headers), 1, st.header)

	row := 2
	for _, it := range rep.Items {
		w.row(row, it.Code, it.Description, it.Unit, it.Quantity, it.TotalPrice)
		w.style(5, row, 5, row, st.money)
		row++
	}
	w.set(1, row, "TOTAL")
	w.sum(4, row, 2, row-1)
	w.sum(5, row, 2, row-1)
	w.style(1, row, len(headers), row, st.total)

	if w.err == nil {
		w.err = f.SetColWidth(itemsSheet, "A", "A", 14)
	}
	if w.err == nil {
		w.err = f.SetColWidth(itemsSheet, "B", "B", 36)
	}
	return w.err
}
