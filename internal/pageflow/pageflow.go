// Package pageflow splits a rendered report into page-sized chunks.
//
// A report template is a header, an optional summary, one table (head, body
// rows, optional foot) and an optional trailing block. Build walks it once,
// greedily filling pages up to a height capacity. Blocks are never split: a
// block taller than a page overflows the page it lands on.
package pageflow

import (
	"errors"
	"fmt"
)

type BlockKind int

const (
	KindHeader BlockKind = iota + 1
	KindSummary
	KindTableHead
	KindRow
	KindTableFoot
	KindTrailing
	KindRegion
)

func (k BlockKind) String() string {
	switch k {
	case KindHeader:
		return "header"
	case KindSummary:
		return "summary"
	case KindTableHead:
		return "thead"
	case KindRow:
		return "row"
	case KindTableFoot:
		return "tfoot"
	case KindTrailing:
		return "trailing"
	case KindRegion:
		return "region"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Block is an opaque renderable unit. Content belongs to whoever renders
// and measures it.
type Block struct {
	Kind    BlockKind
	Key     string
	Content any
}

// Table is the source table of a template.
type Table struct {
	Head *Block
	Rows []Block
	Foot *Block
}

// Template is the source content in its fixed order. Region stands for the
// whole report and is only used when the table has no rows.
type Template struct {
	Header   *Block
	Summary  *Block
	Table    *Table
	Trailing *Block
	Region   *Block
}

// Measurer returns the rendered height of a block, in the same unit as the
// page capacity.
type Measurer interface {
	Height(b Block) float64
}

// MeasureFunc adapts a function to Measurer.
type MeasureFunc func(b Block) float64

func (f MeasureFunc) Height(b Block) float64 { return f(b) }

// ErrTemplateIncomplete means a required section of the template is
// missing. Nothing is produced in that case.
var ErrTemplateIncomplete = errors.New("pageflow: template incomplete")

func missing(section string) error {
	return fmt.Errorf("%w: missing %s", ErrTemplateIncomplete, section)
}

// TableFragment is the part of the table placed on one page.
type TableFragment struct {
	Head Block
	Rows []Block
	Foot *Block
}

// Page is one output page. A page built by the empty-table fallback carries
// only Region.
type Page struct {
	Number   int
	Header   *Block
	Summary  *Block
	Table    *TableFragment
	Trailing *Block
	Region   *Block
}

// Blocks lists the page content top to bottom.
func (p Page) Blocks() []Block {
	if p.Region != nil {
		return []Block{*p.Region}
	}
	var out []Block
	if p.Header != nil {
		out = append(out, *p.Header)
	}
	if p.Summary != nil {
		out = append(out, *p.Summary)
	}
	if p.Table != nil {
		out = append(out, p.Table.Head)
		out = append(out, p.Table.Rows...)
		if p.Table.Foot != nil {
			out = append(out, *p.Table.Foot)
		}
	}
	if p.Trailing != nil {
		out = append(out, *p.Trailing)
	}
	return out
}

// Rows returns the table rows placed on the page.
func (p Page) Rows() []Block {
	if p.Table == nil {
		return nil
	}
	return p.Table.Rows
}

// Height sums the heights of the page blocks.
func (p Page) Height(m Measurer) float64 {
	var h float64
	for _, b := range p.Blocks() {
		h += m.Height(b)
	}
	return h
}
