package pageflow

// Build lays tpl out on pages of the given capacity.
//
// Header and table head are repeated on every page that carries table
// content. A block that does not fit moves to a new page, unless the current
// page holds nothing but the header and an empty table head: moving it would
// only leave a blank page behind.
//
// When the table is absent or has no rows, the result is a single page
// holding tpl.Region.
func Build(tpl Template, capacity float64, m Measurer) ([]Page, error) {
	if tpl.Header == nil {
		return nil, missing("header")
	}
	if tpl.Table == nil || len(tpl.Table.Rows) == 0 {
		if tpl.Region == nil {
			return nil, missing("region")
		}
		region := *tpl.Region
		return []Page{{Number: 1, Region: &region}}, nil
	}
	if tpl.Table.Head == nil {
		return nil, missing("thead")
	}

	b := &builder{tpl: tpl, capacity: capacity, m: m}
	b.newPage()

	if tpl.Summary != nil {
		h := m.Height(*tpl.Summary)
		if !b.fits(h) && !b.fresh() {
			b.newPage()
		}
		summary := *tpl.Summary
		b.cur.Summary = &summary
		b.used += h
	}

	b.openTable()
	for _, row := range tpl.Table.Rows {
		h := m.Height(row)
		if !b.fits(h) && !b.fresh() {
			b.newPage()
			b.openTable()
		}
		b.cur.Table.Rows = append(b.cur.Table.Rows, row)
		b.used += h
	}

	if tpl.Table.Foot != nil {
		h := m.Height(*tpl.Table.Foot)
		if !b.fits(h) && !b.fresh() {
			b.newPage()
			b.openTable()
		}
		foot := *tpl.Table.Foot
		b.cur.Table.Foot = &foot
		b.used += h
	}

	if tpl.Trailing != nil {
		h := m.Height(*tpl.Trailing)
		if !b.fits(h) && !b.fresh() {
			b.newPage()
		}
		trailing := *tpl.Trailing
		b.cur.Trailing = &trailing
		b.used += h
	}

	b.closePage()
	return b.pages, nil
}

// builder is the (current page, current table) accumulator of one Build.
type builder struct {
	tpl      Template
	capacity float64
	m        Measurer

	pages []Page
	cur   *Page
	used  float64
}

func (b *builder) newPage() {
	b.closePage()
	header := *b.tpl.Header
	b.cur = &Page{Number: len(b.pages) + 1, Header: &header}
	b.used = b.m.Height(header)
}

// closePage drops a table fragment that never received content, then
// commits the page.
func (b *builder) closePage() {
	if b.cur == nil {
		return
	}
	if t := b.cur.Table; t != nil && len(t.Rows) == 0 && t.Foot == nil {
		b.cur.Table = nil
	}
	b.pages = append(b.pages, *b.cur)
	b.cur = nil
}

func (b *builder) openTable() {
	head := *b.tpl.Table.Head
	b.cur.Table = &TableFragment{Head: head}
	b.used += b.m.Height(head)
}

func (b *builder) fits(h float64) bool {
	return b.used+h <= b.capacity
}

// fresh reports whether the page holds only the header and, possibly, an
// empty table head.
func (b *builder) fresh() bool {
	p := b.cur
	if p.Summary != nil || p.Trailing != nil {
		return false
	}
	return p.Table == nil || (len(p.Table.Rows) == 0 && p.Table.Foot == nil)
}
