package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsWatermarkColor(t *testing.T) {
	assert.True(t, isWatermarkColor([]float64{0.8, 0.8, 0.8}))
	assert.True(t, isWatermarkColor([]float64{0.6}))
	assert.True(t, isWatermarkColor([]float64{200, 200, 200}))
	assert.False(t, isWatermarkColor(nil))
	assert.False(t, isWatermarkColor([]float64{0, 0, 0}))
	assert.False(t, isWatermarkColor([]float64{1, 1, 1}))
	assert.False(t, isWatermarkColor([]float64{0.8, 0.4, 0.8}))
}

func TestFilterWatermark(t *testing.T) {
	marks := []Mark{
		{X: 100, Y: 500, Size: 40, Fill: []float64{0.85, 0.85, 0.85}},
		{X: 100, Y: 100, Size: 12, Fill: []float64{0, 0, 0}},
	}
	zones := buildWatermarkZones(marks)
	assert.Len(t, zones, 1)

	runs := []TextRun{
		{Text: "열", X: 110, Y: 510, W: 30},
		{Text: "소유자", X: 100, Y: 100, W: 30},
	}
	kept := filterWatermark(runs, zones)
	assert.Len(t, kept, 1)
	assert.Equal(t, "소유자", kept[0].Text)
}

func TestStripViewingPhrase(t *testing.T) {
	assert.Equal(t, "등기사항전부증명서", stripViewingPhrase("등기사항전부증명서열람용"))
	assert.Equal(t, "갑구 ", stripViewingPhrase("갑구 열 람 용"))
	assert.Equal(t, "소유자 김", stripViewingPhrase("소유자 김"))
}
