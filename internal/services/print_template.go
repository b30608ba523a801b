package services

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"strings"

	"fleetreport/internal/aggregate"
	"fleetreport/internal/pageflow"
	"fleetreport/internal/utils"

	"github.com/PuerkitoBio/goquery"
)

type lineStyle int

const (
	styleBody lineStyle = iota
	styleHeading
	styleTitle
)

type rowStyle int

const (
	rowBody rowStyle = iota
	rowHead
	rowFoot
)

// textContent is the content of header, summary and trailing blocks.
type textContent struct {
	Lines []textLine
}

type textLine struct {
	Text  string
	Style lineStyle
}

// rowContent is the content of thead, tbody and tfoot rows. Widths are
// relative weights shared by every row of the table.
type rowContent struct {
	Cells  []string
	Widths []float64
	Align  []string
	Style  rowStyle
}

// regionContent is the whole template in source order, drawn as one unit.
type regionContent struct {
	Parts []pageflow.Block
}

type printColumn struct {
	Title string
	Width int
	Align string
}

var printColumns = []printColumn{
	{"Date range", 15, "L"},
	{"Document", 10, "L"},
	{"Vehicle", 10, "L"},
	{"Customer", 16, "L"},
	{"Drivers", 14, "L"},
	{"Trips", 6, "R"},
	{"Est. km", 8, "R"},
	{"Allowance", 10, "R"},
	{"Items", 10, "R"},
	{"Distance cost", 10, "R"},
	{"Trip fee", 8, "R"},
	{"Driver payable", 11, "R"},
}

type printRow struct {
	Key   string
	Cells []string
}

type printData struct {
	Title      string
	Period     string
	Vehicle    string
	Columns    []printColumn
	Summary    []string
	Rates      string
	Rows       []printRow
	Foot       []string
	Items      []string
	Expenses   []string
	GrandTotal string
}

var printTemplate = template.Must(template.New("trip-report").Parse(`<div id="print-template">
<header id="report-header">
  <h1>{{.Title}}</h1>
  <p>Period: {{.Period}}</p>
  {{if .Vehicle}}<p>Vehicle: {{.Vehicle}}</p>{{end}}
</header>
<section id="report-summary">
  <h2>Summary</h2>
  {{range .Summary}}<p>{{.}}</p>
  {{end}}<p>{{.Rates}}</p>
</section>
<table id="report-table">
  <thead><tr>{{range .Columns}}<th data-width="{{.Width}}" data-align="{{.Align}}">{{.Title}}</th>{{end}}</tr></thead>
  <tbody>
  {{range .Rows}}<tr data-key="{{.Key}}">{{range .Cells}}<td>{{.}}</td>{{end}}</tr>
  {{end}}</tbody>
  <tfoot><tr>{{range .Foot}}<td>{{.}}</td>{{end}}</tr></tfoot>
</table>
{{if not .Rows}}<p id="report-empty">No trips were recorded for the selected period.</p>{{end}}
<section id="report-trailing">
  <h2>Detailed summary</h2>
  <h3>Items</h3>
  {{range .Items}}<p>{{.}}</p>
  {{else}}<p>No items</p>
  {{end}}<h3>Company expenses</h3>
  {{range .Expenses}}<p>{{.}}</p>
  {{end}}<h3>Grand total: {{.GrandTotal}}</h3>
</section>
</div>`))

func newPrintData(rep aggregate.Report, title, period, vehicle string) printData {
	d := printData{
		Title:   title,
		Period:  utils.Safe(period, "all dates"),
		Vehicle: vehicle,
		Columns: printColumns,
		Rates: fmt.Sprintf("Rates: allowance %s, distance %s per km, trip fee %s",
			utils.FormatMoney(rep.Rates.AllowanceRate),
			utils.FormatMoney(rep.Rates.DistanceRate),
			utils.FormatMoney(rep.Rates.TripFeeRate)),
		GrandTotal: utils.FormatMoney(rep.Totals.GrandTotal),
	}

	for _, v := range rep.Vehicles {
		d.Summary = append(d.Summary, fmt.Sprintf("%s: %d trips, %s km estimated, driver payable %s, grand total %s",
			v.Label, v.Totals.TripCount,
			utils.FormatQuantity(v.Totals.Distance.Estimated),
			utils.FormatMoney(v.Totals.DriverPayable),
			utils.FormatMoney(v.Totals.GrandTotal)))

		for _, g := range v.Groups {
			d.Rows = append(d.Rows, printRow{
				Key: strings.Join([]string{v.Label, g.DateRange, g.DocumentNumber, g.CustomerKey}, "|"),
				Cells: []string{
					g.DateRange,
					utils.Safe(g.DocumentNumber, "-"),
					v.Label,
					utils.Safe(g.Customer.Name, "-"),
					utils.Safe(strings.Join(g.Drivers, ", "), "-"),
					strconv.Itoa(g.Totals.TripCount),
					utils.FormatQuantity(g.Totals.Distance.Estimated),
					utils.FormatMoney(g.Totals.Allowance),
					utils.FormatMoney(g.Totals.ItemValue),
					utils.FormatMoney(g.Totals.DistanceCost),
					utils.FormatMoney(g.Totals.TripFee),
					utils.FormatMoney(g.Totals.DriverPayable),
				},
			})
		}
	}

	t := rep.Totals
	d.Foot = []string{
		"Total", "", "", "", "",
		strconv.Itoa(t.TripCount),
		utils.FormatQuantity(t.Distance.Estimated),
		utils.FormatMoney(t.Allowance),
		utils.FormatMoney(t.ItemValue),
		utils.FormatMoney(t.DistanceCost),
		utils.FormatMoney(t.TripFee),
		utils.FormatMoney(t.DriverPayable),
	}

	for _, it := range rep.Items {
		d.Items = append(d.Items, fmt.Sprintf("%s: %s %s, %s",
			utils.Safe(it.Description, utils.Safe(it.Code, "unnamed item")),
			utils.FormatQuantity(it.Quantity), it.Unit,
			utils.FormatMoney(it.TotalPrice)))
	}

	e := t.CompanyExpenses
	d.Expenses = []string{
		"Distance check fee: " + utils.FormatMoney(e.DistanceCheckFee),
		"Fuel: " + utils.FormatMoney(e.FuelCost),
		"Toll: " + utils.FormatMoney(e.TollFee),
		"Repair: " + utils.FormatMoney(e.RepairCost),
		"Total: " + utils.FormatMoney(e.Total),
	}
	return d
}

func renderPrintTemplate(d printData) ([]byte, error) {
	var buf bytes.Buffer
	if err := printTemplate.Execute(&buf, d); err != nil {
		return nil, fmt.Errorf("render print template: %w", err)
	}
	return buf.Bytes(), nil
}

// ParsePrintTemplate reads the rendered print template into the blocks the
// page flow works on. The root, header, table and table head are required.
func ParsePrintTemplate(r io.Reader) (pageflow.Template, error) {
	var tpl pageflow.Template

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return tpl, fmt.Errorf("parse print template: %w", err)
	}

	root := doc.Find("#print-template").First()
	if root.Length() == 0 {
		return tpl, incomplete("print template")
	}

	header := root.Find("#report-header").First()
	if header.Length() == 0 {
		return tpl, incomplete("header")
	}
	tpl.Header = textBlock(pageflow.KindHeader, "header", header)

	if s := root.Find("#report-summary").First(); s.Length() > 0 {
		tpl.Summary = textBlock(pageflow.KindSummary, "summary", s)
	}

	table := root.Find("#report-table").First()
	if table.Length() == 0 {
		return tpl, incomplete("table")
	}
	headRow := table.Find("thead tr").First()
	if headRow.Length() == 0 {
		return tpl, incomplete("thead")
	}

	var widths []float64
	var align []string
	headRow.Find("th").Each(func(_ int, th *goquery.Selection) {
		w, err := strconv.ParseFloat(strings.TrimSpace(th.AttrOr("data-width", "")), 64)
		if err != nil || w <= 0 {
			w = 1
		}
		widths = append(widths, w)
		align = append(align, th.AttrOr("data-align", "L"))
	})

	tpl.Table = &pageflow.Table{
		Head: rowBlock(pageflow.KindTableHead, "thead", headRow, "th", widths, align, rowHead),
	}
	table.Find("tbody tr").Each(func(i int, tr *goquery.Selection) {
		key := tr.AttrOr("data-key", "row-"+strconv.Itoa(i))
		tpl.Table.Rows = append(tpl.Table.Rows, *rowBlock(pageflow.KindRow, key, tr, "td", widths, align, rowBody))
	})
	if footRow := table.Find("tfoot tr").First(); footRow.Length() > 0 {
		tpl.Table.Foot = rowBlock(pageflow.KindTableFoot, "tfoot", footRow, "td", widths, align, rowFoot)
	}

	if s := root.Find("#report-trailing").First(); s.Length() > 0 {
		tpl.Trailing = textBlock(pageflow.KindTrailing, "trailing", s)
	}
	tpl.Region = regionBlock(root, tpl)
	return tpl, nil
}

// regionBlock collects the parsed sections of root in document order. The
// empty-table note has no block of its own and is added as a body line.
func regionBlock(root *goquery.Selection, tpl pageflow.Template) *pageflow.Block {
	var parts []pageflow.Block
	add := func(b *pageflow.Block) {
		if b != nil {
			parts = append(parts, *b)
		}
	}
	root.Children().Each(func(_ int, s *goquery.Selection) {
		switch s.AttrOr("id", "") {
		case "report-header":
			add(tpl.Header)
		case "report-summary":
			add(tpl.Summary)
		case "report-table":
			add(tpl.Table.Head)
			parts = append(parts, tpl.Table.Rows...)
			add(tpl.Table.Foot)
		case "report-trailing":
			add(tpl.Trailing)
		case "report-empty":
			if text := utils.NormalizeSpace(s.Text()); text != "" {
				add(&pageflow.Block{Kind: pageflow.KindRegion, Key: "empty", Content: textContent{
					Lines: []textLine{{Text: text, Style: styleBody}},
				}})
			}
		}
	})
	return &pageflow.Block{Kind: pageflow.KindRegion, Key: "region", Content: regionContent{Parts: parts}}
}

func incomplete(section string) error {
	return fmt.Errorf("%w: missing %s", pageflow.ErrTemplateIncomplete, section)
}

func textBlock(kind pageflow.BlockKind, key string, sel *goquery.Selection) *pageflow.Block {
	var c textContent
	sel.Find("h1,h2,h3,p,li").Each(func(_ int, s *goquery.Selection) {
		text := utils.NormalizeSpace(s.Text())
		if text == "" {
			return
		}
		style := styleBody
		switch goquery.NodeName(s) {
		case "h1":
			style = styleTitle
		case "h2", "h3":
			style = styleHeading
		}
		c.Lines = append(c.Lines, textLine{Text: text, Style: style})
	})
	return &pageflow.Block{Kind: kind, Key: key, Content: c}
}

func rowBlock(kind pageflow.BlockKind, key string, tr *goquery.Selection, cellSel string, widths []float64, align []string, style rowStyle) *pageflow.Block {
	c := rowContent{Widths: widths, Align: align, Style: style}
	tr.Find(cellSel).Each(func(_ int, s *goquery.Selection) {
		c.Cells = append(c.Cells, utils.NormalizeSpace(s.Text()))
	})
	return &pageflow.Block{Kind: kind, Key: key, Content: c}
}
