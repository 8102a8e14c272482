package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/junsik/pdf-extractor/internal/pdf"
)

func TestIsRed(t *testing.T) {
	th := DefaultRedThresholds()

	tests := []struct {
		name string
		c    []float64
		want bool
	}{
		{"unit red", []float64{0.8, 0.1, 0.1}, true},
		{"unit gray", []float64{0.5, 0.5, 0.5}, false},
		{"unit dark", []float64{0, 0, 0}, false},
		{"byte red", []float64{200, 50, 50}, true},
		{"byte orange", []float64{200, 120, 30}, false},
		{"cmyk red", []float64{0.1, 0.8, 0.6, 0}, true},
		{"cmyk blue", []float64{0.9, 0.6, 0.1, 0}, false},
		{"grayscale", []float64{0.5}, false},
		{"unset", nil, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, th.IsRed(tc.c))
		})
	}
}

func TestCancelDetectorLineBands(t *testing.T) {
	d := NewCancelDetector(DefaultRedThresholds())
	d.AnalyzePage(0, &pdf.Page{
		Lines: []pdf.Line{
			{X0: 50, Y0: 100, X1: 400, Y1: 100, Stroke: []float64{1, 0, 0}},
			// Black rule: not cancellation evidence.
			{X0: 50, Y0: 300, X1: 400, Y1: 300, Stroke: []float64{0, 0, 0}},
		},
	})

	assert.True(t, d.RowCancelled(0, 100))
	assert.True(t, d.RowCancelled(0, 104))
	assert.True(t, d.RowCancelled(0, 96))
	assert.False(t, d.RowCancelled(0, 110))
	assert.False(t, d.RowCancelled(0, 300))
	// Other pages are untouched.
	assert.False(t, d.RowCancelled(1, 100))
}

func TestCancelDetectorRangeAndMarks(t *testing.T) {
	d := NewCancelDetector(DefaultRedThresholds())
	d.AnalyzePage(2, &pdf.Page{
		Marks: []pdf.Mark{
			{Y: 50, Fill: []float64{0.9, 0.05, 0.05}},
			{Y: 500, Fill: []float64{0, 0, 0}},
		},
	})

	assert.True(t, d.RangeCancelled(2, 40, 45))
	// Bound order must not matter.
	assert.True(t, d.RangeCancelled(2, 45, 40))
	assert.False(t, d.RangeCancelled(2, 60, 80))
	assert.False(t, d.RangeCancelled(2, 490, 492))
}

func TestCancelDetectorRectSpan(t *testing.T) {
	d := NewCancelDetector(DefaultRedThresholds())
	d.AnalyzePage(0, &pdf.Page{
		Rects: []pdf.Rect{{X0: 50, Y0: 200, X1: 400, Y1: 260, Fill: []float64{0.9, 0.1, 0.1}}},
	})

	// The full vertical span of a red rect is struck, padding included.
	assert.True(t, d.RowCancelled(0, 200))
	assert.True(t, d.RowCancelled(0, 230))
	assert.True(t, d.RowCancelled(0, 265))
	assert.False(t, d.RowCancelled(0, 280))
}

func TestMergeRanges(t *testing.T) {
	merged := mergeRanges([]yRange{{100, 110}, {90, 102}, {200, 210}})
	assert.Equal(t, []yRange{{90, 110}, {200, 210}}, merged)
}
