package pageflow

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// heights keyed by Block.Key; unknown keys fall back by kind.
type fakeLayout map[string]float64

func (f fakeLayout) Height(b Block) float64 {
	if h, ok := f[b.Key]; ok {
		return h
	}
	switch b.Kind {
	case KindHeader:
		return 10
	case KindTableHead:
		return 5
	default:
		return 0
	}
}

func blk(kind BlockKind, key string) *Block {
	return &Block{Kind: kind, Key: key}
}

func rows(n int) []Block {
	out := make([]Block, n)
	for i := range out {
		out[i] = Block{Kind: KindRow, Key: fmt.Sprintf("r%d", i+1)}
	}
	return out
}

func rowKeys(pages []Page) []string {
	var out []string
	for _, p := range pages {
		for _, r := range p.Rows() {
			out = append(out, r.Key)
		}
	}
	return out
}

func uniformRows(n int, h float64, layout fakeLayout) fakeLayout {
	for i := 1; i <= n; i++ {
		layout[fmt.Sprintf("r%d", i)] = h
	}
	return layout
}

func TestBuildSplitsWhereRowOverflows(t *testing.T) {
	layout := uniformRows(10, 10, fakeLayout{})
	tpl := Template{
		Header: blk(KindHeader, "header"),
		Table:  &Table{Head: blk(KindTableHead, "thead"), Rows: rows(10)},
	}

	pages, err := Build(tpl, 85, layout)
	require.NoError(t, err)

	require.Len(t, pages, 2)
	assert.Equal(t, []string{"r1", "r2", "r3", "r4", "r5", "r6", "r7"}, keys(pages[0].Rows()))
	assert.Equal(t, []string{"r8", "r9", "r10"}, keys(pages[1].Rows()))
	assert.Equal(t, "header", pages[1].Header.Key)
	assert.Equal(t, "thead", pages[1].Table.Head.Key)
	assert.Equal(t, 1, pages[0].Number)
	assert.Equal(t, 2, pages[1].Number)
	assert.LessOrEqual(t, pages[0].Height(layout), 85.0)
}

func keys(bs []Block) []string {
	out := make([]string, len(bs))
	for i, b := range bs {
		out[i] = b.Key
	}
	return out
}

func TestBuildOversizedSummaryGetsItsOwnPage(t *testing.T) {
	layout := uniformRows(3, 10, fakeLayout{"summary": 200})
	tpl := Template{
		Header:  blk(KindHeader, "header"),
		Summary: blk(KindSummary, "summary"),
		Table:   &Table{Head: blk(KindTableHead, "thead"), Rows: rows(3)},
	}

	pages, err := Build(tpl, 100, layout)
	require.NoError(t, err)

	require.Len(t, pages, 2)
	require.NotNil(t, pages[0].Summary)
	assert.Nil(t, pages[0].Table, "empty table head must not be left on the summary page")
	assert.Equal(t, []string{"r1", "r2", "r3"}, keys(pages[1].Rows()))
	assert.Nil(t, pages[1].Summary)
}

func TestBuildSummaryMovesRowsNotPage(t *testing.T) {
	layout := uniformRows(2, 30, fakeLayout{"summary": 40})
	tpl := Template{
		Header:  blk(KindHeader, "header"),
		Summary: blk(KindSummary, "summary"),
		Table:   &Table{Head: blk(KindTableHead, "thead"), Rows: rows(2)},
	}

	pages, err := Build(tpl, 100, layout)
	require.NoError(t, err)

	require.Len(t, pages, 2)
	assert.Equal(t, []string{"r1"}, keys(pages[0].Rows()))
	assert.Equal(t, []string{"r2"}, keys(pages[1].Rows()))
}

func TestBuildOversizedRowOverflowsAlone(t *testing.T) {
	layout := fakeLayout{"r1": 10, "r2": 500, "r3": 10}
	tpl := Template{
		Header: blk(KindHeader, "header"),
		Table:  &Table{Head: blk(KindTableHead, "thead"), Rows: rows(3)},
	}

	pages, err := Build(tpl, 100, layout)
	require.NoError(t, err)

	require.Len(t, pages, 3)
	assert.Equal(t, []string{"r1", "r2", "r3"}, rowKeys(pages))
	assert.Equal(t, []string{"r2"}, keys(pages[1].Rows()))
	assert.Greater(t, pages[1].Height(layout), 100.0)
}

func TestBuildFootMovesWithFreshTable(t *testing.T) {
	layout := uniformRows(3, 25, fakeLayout{"tfoot": 20})
	tpl := Template{
		Header: blk(KindHeader, "header"),
		Table:  &Table{Head: blk(KindTableHead, "thead"), Rows: rows(3), Foot: blk(KindTableFoot, "tfoot")},
	}

	pages, err := Build(tpl, 90, layout)
	require.NoError(t, err)

	require.Len(t, pages, 2)
	assert.Nil(t, pages[0].Table.Foot)
	require.NotNil(t, pages[1].Table)
	assert.Empty(t, pages[1].Table.Rows)
	assert.Equal(t, "tfoot", pages[1].Table.Foot.Key)
	assert.Equal(t, "thead", pages[1].Table.Head.Key)
}

func TestBuildTrailingKeptWholeOnNewPage(t *testing.T) {
	layout := uniformRows(2, 20, fakeLayout{"trailing": 300})
	tpl := Template{
		Header:   blk(KindHeader, "header"),
		Table:    &Table{Head: blk(KindTableHead, "thead"), Rows: rows(2)},
		Trailing: blk(KindTrailing, "trailing"),
	}

	pages, err := Build(tpl, 100, layout)
	require.NoError(t, err)

	require.Len(t, pages, 2)
	assert.Nil(t, pages[0].Trailing)
	assert.Nil(t, pages[1].Table)
	assert.Equal(t, []string{"header", "trailing"}, keys(pages[1].Blocks()))
}

func TestBuildTrailingStaysWhenItFits(t *testing.T) {
	layout := uniformRows(2, 20, fakeLayout{"trailing": 40, "tfoot": 5})
	tpl := Template{
		Header:   blk(KindHeader, "header"),
		Table:    &Table{Head: blk(KindTableHead, "thead"), Rows: rows(2), Foot: blk(KindTableFoot, "tfoot")},
		Trailing: blk(KindTrailing, "trailing"),
	}

	pages, err := Build(tpl, 100, layout)
	require.NoError(t, err)

	require.Len(t, pages, 1)
	assert.Equal(t, []string{"header", "thead", "r1", "r2", "tfoot", "trailing"}, keys(pages[0].Blocks()))
	assert.Equal(t, 100.0, pages[0].Height(layout))
}

func TestBuildEmptyTableFallsBackToRegion(t *testing.T) {
	tpl := Template{
		Header: blk(KindHeader, "header"),
		Table:  &Table{Head: blk(KindTableHead, "thead")},
		Region: blk(KindRegion, "whole"),
	}

	pages, err := Build(tpl, 100, fakeLayout{})
	require.NoError(t, err)

	require.Len(t, pages, 1)
	require.NotNil(t, pages[0].Region)
	assert.Equal(t, []string{"whole"}, keys(pages[0].Blocks()))
}

func TestBuildRejectsIncompleteTemplates(t *testing.T) {
	cases := map[string]Template{
		"no header": {Table: &Table{Head: blk(KindTableHead, "thead"), Rows: rows(1)}},
		"no thead":  {Header: blk(KindHeader, "h"), Table: &Table{Rows: rows(1)}},
		"no region": {Header: blk(KindHeader, "h")},
	}
	for name, tpl := range cases {
		pages, err := Build(tpl, 100, fakeLayout{})
		assert.ErrorIsf(t, err, ErrTemplateIncomplete, name)
		assert.Nilf(t, pages, name)
	}
}

func TestBuildKeepsEveryRowExactlyOnce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for iter := 0; iter < 200; iter++ {
		n := 1 + rng.Intn(60)
		layout := fakeLayout{
			"summary":  float64(rng.Intn(120)),
			"tfoot":    float64(rng.Intn(40)),
			"trailing": float64(rng.Intn(150)),
		}
		for i := 1; i <= n; i++ {
			layout[fmt.Sprintf("r%d", i)] = float64(1 + rng.Intn(130))
		}
		capacity := float64(40 + rng.Intn(200))
		tpl := Template{
			Header:   blk(KindHeader, "header"),
			Summary:  blk(KindSummary, "summary"),
			Table:    &Table{Head: blk(KindTableHead, "thead"), Rows: rows(n), Foot: blk(KindTableFoot, "tfoot")},
			Trailing: blk(KindTrailing, "trailing"),
		}

		pages, err := Build(tpl, capacity, layout)
		require.NoError(t, err)

		want := keys(rows(n))
		assert.Equal(t, want, rowKeys(pages))

		var summaries, feet, trailings int
		for i, p := range pages {
			assert.Equal(t, i+1, p.Number)
			require.NotNil(t, p.Header)
			content := len(p.Rows())
			if p.Summary != nil {
				summaries++
				content++
			}
			if p.Table != nil && p.Table.Foot != nil {
				feet++
				content++
			}
			if p.Trailing != nil {
				trailings++
				content++
			}
			assert.Positive(t, content, "page %d is blank", p.Number)
			if p.Height(layout) > capacity {
				assert.Equalf(t, 1, content, "page %d overflows with more than one block", p.Number)
			}
		}
		assert.Equal(t, 1, summaries)
		assert.Equal(t, 1, feet)
		assert.Equal(t, 1, trailings)
	}
}

func TestMeasureFunc(t *testing.T) {
	m := MeasureFunc(func(b Block) float64 { return float64(len(b.Key)) })
	p := Page{Header: blk(KindHeader, "abc"), Trailing: blk(KindTrailing, "de")}
	assert.Equal(t, 5.0, p.Height(m))
}
