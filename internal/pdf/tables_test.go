package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gridLines builds the rules of a simple table: horizontal boundaries at ys,
// vertical boundaries at xs.
func gridLines(xs, ys []float64) []Line {
	var out []Line
	for _, y := range ys {
		out = append(out, Line{X0: xs[0], Y0: y, X1: xs[len(xs)-1], Y1: y})
	}
	for _, x := range xs {
		out = append(out, Line{X0: x, Y0: ys[len(ys)-1], X1: x, Y1: ys[0]})
	}
	return out
}

func TestDetectTablesSimpleGrid(t *testing.T) {
	lines := gridLines([]float64{50, 200, 400}, []float64{700, 650, 600})
	runs := []TextRun{
		{Text: "표시번호", X: 60, Y: 670, W: 40},
		{Text: "접수", X: 210, Y: 670, W: 20},
		{Text: "1", X: 60, Y: 620, W: 8},
		{Text: "2024년1월3일", X: 210, Y: 620, W: 60},
	}

	tables := detectTables(lines, nil, runs)
	require.Len(t, tables, 1)
	require.Len(t, tables[0].Rows, 2)
	assert.Equal(t, []string{"표시번호", "접수"}, tables[0].Rows[0].Cells)
	assert.Equal(t, []string{"1", "2024년1월3일"}, tables[0].Rows[1].Cells)
	assert.InDelta(t, 700.0, tables[0].Rows[0].YTop, 0.01)
	assert.InDelta(t, 650.0, tables[0].Rows[0].YBottom, 0.01)
}

func TestDetectTablesIgnoresRedRules(t *testing.T) {
	lines := gridLines([]float64{50, 400}, []float64{700, 650, 600})
	// A red strike-through must not add a row boundary.
	lines = append(lines, Line{X0: 50, Y0: 625, X1: 400, Y1: 625, Stroke: []float64{1, 0, 0}})

	tables := detectTables(lines, nil, nil)
	require.Len(t, tables, 1)
	assert.Len(t, tables[0].Rows, 2)
}

func TestDetectTablesSnapsCloseBoundaries(t *testing.T) {
	lines := gridLines([]float64{50, 400}, []float64{700, 650, 600})
	// A second rule 2pt off an existing boundary collapses into it.
	lines = append(lines, Line{X0: 50, Y0: 648, X1: 400, Y1: 648})

	tables := detectTables(lines, nil, nil)
	require.Len(t, tables, 1)
	assert.Len(t, tables[0].Rows, 2)
}

func TestDetectTablesSplitsOnGap(t *testing.T) {
	lines := gridLines([]float64{50, 400}, []float64{700, 650, 600})
	lines = append(lines, gridLines([]float64{50, 400}, []float64{400, 350, 300})...)

	tables := detectTables(lines, nil, nil)
	assert.Len(t, tables, 2)
}

func TestDetectTablesThinRectRules(t *testing.T) {
	// Rules drawn as 1pt filled rects.
	var rects []Rect
	for _, y := range []float64{700, 650, 600} {
		rects = append(rects, Rect{X0: 50, Y0: y, X1: 400, Y1: y + 1, Fill: []float64{0}})
	}
	for _, x := range []float64{50, 400} {
		rects = append(rects, Rect{X0: x, Y0: 600, X1: x + 1, Y1: 700, Fill: []float64{0}})
	}

	tables := detectTables(nil, rects, nil)
	require.Len(t, tables, 1)
	assert.Len(t, tables[0].Rows, 2)
}

func TestDetectTablesNoGrid(t *testing.T) {
	assert.Nil(t, detectTables(nil, nil, []TextRun{{Text: "x", X: 1, Y: 1}}))
}

func TestFallbackTables(t *testing.T) {
	runs := []TextRun{
		{Text: "1", X: 60, Y: 700, W: 8},
		{Text: "소유권보존", X: 120, Y: 700, W: 60},
		{Text: "소유자", X: 60, Y: 680, W: 30},
	}
	tables := fallbackTables(runs)
	require.Len(t, tables, 1)
	require.Len(t, tables[0].Rows, 2)
	assert.Equal(t, []string{"1", "소유권보존"}, tables[0].Rows[0].Cells)
	assert.Equal(t, []string{"소유자"}, tables[0].Rows[1].Cells)
}

func TestIsDarkRule(t *testing.T) {
	assert.True(t, isDarkRule(nil))
	assert.True(t, isDarkRule([]float64{0}))
	assert.True(t, isDarkRule([]float64{0.2, 0.2, 0.2}))
	assert.False(t, isDarkRule([]float64{1, 0, 0}))
	assert.False(t, isDarkRule([]float64{0.9, 0.1, 0.1}))
	assert.False(t, isDarkRule([]float64{220, 30, 30}))
	assert.True(t, isDarkRule([]float64{0, 0, 0, 1}))
	assert.False(t, isDarkRule([]float64{0.1, 0.9, 0.8, 0}))
}
