package services

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	intconfig "fleetreport/internal/config"
	"fleetreport/internal/pageflow"

	"github.com/phpdave11/gofpdf"
)

const (
	coreFontFamily = "Helvetica"
	utf8FontFamily = "report"

	cellPadMM  = 1.2
	blockGapMM = 2.0
)

type fontState struct {
	Style  string
	Size   float64
	LineMM float64
}

var (
	fontTitle   = fontState{Style: "B", Size: 14, LineMM: 7}
	fontHeading = fontState{Style: "B", Size: 10.5, LineMM: 5.5}
	fontBody    = fontState{Style: "", Size: 9, LineMM: 4.5}
	fontCell    = fontState{Style: "", Size: 8, LineMM: 4}
	fontCellB   = fontState{Style: "B", Size: 8, LineMM: 4}
	fontFooter  = fontState{Style: "", Size: 7.5, LineMM: 4}
)

// pdfLayout measures and draws print-template blocks on a gofpdf document.
// Measuring and drawing share the same line splitting, so a measured page
// renders at the measured height.
type pdfLayout struct {
	pdf *gofpdf.Fpdf
	cfg intconfig.ReportEnv

	family string
	utf8   bool
	tr     func(string) string

	pageW, pageH float64
	contentW     float64
}

func newPDFLayout(cfg intconfig.ReportEnv) (*pdfLayout, error) {
	if cfg.MarginMM < 0 || cfg.FooterMM < 0 || cfg.TemplateWidthPX <= 0 {
		return nil, fmt.Errorf("invalid report page settings")
	}
	orientation := strings.ToUpper(strings.TrimSpace(cfg.Orientation))
	if orientation != "P" {
		orientation = "L"
	}
	size := strings.TrimSpace(cfg.PageSize)
	if size == "" {
		size = "A4"
	}

	pdf := gofpdf.New(orientation, "mm", size, "")
	pdf.SetMargins(cfg.MarginMM, cfg.MarginMM, cfg.MarginMM)
	pdf.SetAutoPageBreak(false, 0)
	if err := pdf.Error(); err != nil {
		return nil, err
	}

	l := &pdfLayout{pdf: pdf, cfg: cfg, family: coreFontFamily}
	l.pageW, l.pageH = pdf.GetPageSize()
	l.contentW = l.pageW - 2*cfg.MarginMM
	if l.contentW <= 0 || l.pageH-2*cfg.MarginMM-cfg.FooterMM <= 0 {
		return nil, fmt.Errorf("margins leave no printable area on %s", size)
	}
	l.tr = pdf.UnicodeTranslatorFromDescriptor("")
	return l, nil
}

// loadFonts registers the configured UTF-8 font. Without one, the core
// Helvetica font is used with cp1252 translation.
func (l *pdfLayout) loadFonts() error {
	path := strings.TrimSpace(l.cfg.FontPath)
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("report font: %w", err)
	}
	l.pdf.AddUTF8Font(utf8FontFamily, "", path)
	l.pdf.AddUTF8Font(utf8FontFamily, "B", path)
	if err := l.pdf.Error(); err != nil {
		return fmt.Errorf("report font %s: %w", path, err)
	}
	l.family = utf8FontFamily
	l.utf8 = true
	l.tr = func(s string) string { return s }
	l.setFont(fontBody)
	return l.pdf.Error()
}

// pxPerMM converts layout millimetres to template pixels.
func (l *pdfLayout) pxPerMM() float64 {
	return l.cfg.TemplateWidthPX / l.contentW
}

// Capacity is the usable page height in template pixels: the printable
// height (page minus margins and footer) scaled like the page width.
func (l *pdfLayout) Capacity() float64 {
	return (l.pageH - 2*l.cfg.MarginMM - l.cfg.FooterMM) * l.pxPerMM()
}

// Height implements pageflow.Measurer in template pixels.
func (l *pdfLayout) Height(b pageflow.Block) float64 {
	return l.heightMM(b) * l.pxPerMM()
}

func (l *pdfLayout) heightMM(b pageflow.Block) float64 {
	switch c := b.Content.(type) {
	case textContent:
		var h float64
		for _, line := range c.Lines {
			fs := lineFont(line.Style)
			l.setFont(fs)
			h += float64(len(l.split(line.Text, l.contentW))) * fs.LineMM
		}
		return h + blockGapMM
	case rowContent:
		return l.rowHeightMM(c)
	case regionContent:
		var h float64
		for _, part := range c.Parts {
			h += l.heightMM(part)
		}
		return h
	default:
		return 0
	}
}

func (l *pdfLayout) rowHeightMM(c rowContent) float64 {
	fs := cellFont(c.Style)
	l.setFont(fs)
	widths := l.columnWidths(c)
	lines := 1
	for i, cell := range c.Cells {
		if n := len(l.split(cell, widths[i]-2*cellPadMM)); n > lines {
			lines = n
		}
	}
	return float64(lines)*fs.LineMM + 2*cellPadMM
}

// columnWidths spreads the content width over the cells by their weights.
// Missing weights count as 1.
func (l *pdfLayout) columnWidths(c rowContent) []float64 {
	out := make([]float64, len(c.Cells))
	var total float64
	for i := range c.Cells {
		w := 1.0
		if i < len(c.Widths) && c.Widths[i] > 0 {
			w = c.Widths[i]
		}
		out[i] = w
		total += w
	}
	for i := range out {
		out[i] = out[i] / total * l.contentW
	}
	return out
}

// split wraps text to width w with the current font; at least one line.
func (l *pdfLayout) split(text string, w float64) []string {
	if w <= 0 || text == "" {
		return []string{text}
	}
	var lines []string
	if l.utf8 {
		lines = l.pdf.SplitText(text, w)
	} else {
		for _, b := range l.pdf.SplitLines([]byte(l.tr(text)), w) {
			lines = append(lines, string(b))
		}
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}

func (l *pdfLayout) setFont(fs fontState) {
	l.pdf.SetFont(l.family, fs.Style, fs.Size)
}

// out prepares text for drawing. Split lines of the core font are already
// translated.
func (l *pdfLayout) out(s string, translated bool) string {
	if translated || l.utf8 {
		return s
	}
	return l.tr(s)
}

// renderPage draws one page: its blocks top to bottom, then the footer with
// page number and generation stamp.
func (l *pdfLayout) renderPage(p pageflow.Page, total int, stamp string) {
	l.pdf.AddPage()
	y := l.cfg.MarginMM
	for _, b := range p.Blocks() {
		y = l.drawBlock(b, y)
	}
	l.drawFooter(p.Number, total, stamp)
}

func (l *pdfLayout) drawBlock(b pageflow.Block, y float64) float64 {
	switch c := b.Content.(type) {
	case textContent:
		for _, line := range c.Lines {
			fs := lineFont(line.Style)
			l.setFont(fs)
			for _, part := range l.split(line.Text, l.contentW) {
				l.pdf.SetXY(l.cfg.MarginMM, y)
				l.pdf.CellFormat(l.contentW, fs.LineMM, l.out(part, true), "", 0, "L", false, 0, "")
				y += fs.LineMM
			}
		}
		return y + blockGapMM
	case rowContent:
		return l.drawRow(c, y)
	case regionContent:
		for _, part := range c.Parts {
			y = l.drawBlock(part, y)
		}
		return y
	default:
		return y
	}
}

func (l *pdfLayout) drawRow(c rowContent, y float64) float64 {
	h := l.rowHeightMM(c)
	fs := cellFont(c.Style)
	l.setFont(fs)
	widths := l.columnWidths(c)

	fill := c.Style == rowHead
	if fill {
		l.pdf.SetFillColor(230, 230, 230)
	}
	x := l.cfg.MarginMM
	for i, cell := range c.Cells {
		w := widths[i]
		if fill {
			l.pdf.Rect(x, y, w, h, "FD")
		} else {
			l.pdf.Rect(x, y, w, h, "D")
		}
		align := "L"
		if i < len(c.Align) && c.Align[i] != "" && c.Style != rowHead {
			align = c.Align[i]
		}
		for j, part := range l.split(cell, w-2*cellPadMM) {
			l.pdf.SetXY(x+cellPadMM, y+cellPadMM+float64(j)*fs.LineMM)
			l.pdf.CellFormat(w-2*cellPadMM, fs.LineMM, l.out(part, true), "", 0, align, false, 0, "")
		}
		x += w
	}
	return y + h
}

func (l *pdfLayout) drawFooter(page, total int, stamp string) {
	l.setFont(fontFooter)
	y := l.pageH - l.cfg.MarginMM - fontFooter.LineMM
	half := l.contentW / 2
	l.pdf.SetXY(l.cfg.MarginMM, y)
	l.pdf.CellFormat(half, fontFooter.LineMM, l.out("Generated "+stamp, false), "", 0, "L", false, 0, "")
	l.pdf.SetXY(l.cfg.MarginMM+half, y)
	l.pdf.CellFormat(half, fontFooter.LineMM, fmt.Sprintf("page %d/%d", page, total), "", 0, "R", false, 0, "")
}

func (l *pdfLayout) output() ([]byte, error) {
	var buf bytes.Buffer
	if err := l.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func lineFont(s lineStyle) fontState {
	switch s {
	case styleTitle:
		return fontTitle
	case styleHeading:
		return fontHeading
	default:
		return fontBody
	}
}

func cellFont(s rowStyle) fontState {
	if s == rowBody {
		return fontCell
	}
	return fontCellB
}
