package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpretStrokedLine(t *testing.T) {
	stream := []byte("1 0 0 RG 100 200 m 400 200 l S")
	lines, rects, marks := interpret(stream)

	require.Len(t, lines, 1)
	assert.Empty(t, rects)
	assert.Empty(t, marks)
	assert.Equal(t, 100.0, lines[0].X0)
	assert.Equal(t, 200.0, lines[0].Y0)
	assert.Equal(t, 400.0, lines[0].X1)
	assert.Equal(t, []float64{1, 0, 0}, lines[0].Stroke)
}

func TestInterpretFilledRect(t *testing.T) {
	stream := []byte("0.9 0.1 0.1 rg 50 60 200 10 re f")
	lines, rects, _ := interpret(stream)

	assert.Empty(t, lines)
	require.Len(t, rects, 1)
	assert.Equal(t, 50.0, rects[0].X0)
	assert.Equal(t, 60.0, rects[0].Y0)
	assert.Equal(t, 250.0, rects[0].X1)
	assert.Equal(t, 70.0, rects[0].Y1)
	assert.Nil(t, rects[0].Stroke)
	assert.Equal(t, []float64{0.9, 0.1, 0.1}, rects[0].Fill)
}

func TestInterpretCTMTranslation(t *testing.T) {
	stream := []byte("q 1 0 0 1 10 20 cm 0 0 m 5 0 l S Q 0 0 m 5 0 l S")
	lines, _, _ := interpret(stream)

	require.Len(t, lines, 2)
	assert.Equal(t, 10.0, lines[0].X0)
	assert.Equal(t, 20.0, lines[0].Y0)
	assert.Equal(t, 15.0, lines[0].X1)
	// Q restores the untranslated CTM.
	assert.Equal(t, 0.0, lines[1].X0)
	assert.Equal(t, 0.0, lines[1].Y0)
}

func TestInterpretTextMarks(t *testing.T) {
	stream := []byte(`BT /F1 12 Tf 1 0 0 1 72 700 Tm 0.8 0.1 0.1 rg (hello) Tj 0 -14 Td (world) Tj ET`)
	_, _, marks := interpret(stream)

	require.Len(t, marks, 2)
	assert.Equal(t, 72.0, marks[0].X)
	assert.Equal(t, 700.0, marks[0].Y)
	assert.Equal(t, []float64{0.8, 0.1, 0.1}, marks[0].Fill)
	assert.Equal(t, 686.0, marks[1].Y)
	assert.InDelta(t, 12.0, marks[0].Size, 0.01)
}

func TestInterpretGrayColor(t *testing.T) {
	stream := []byte("0.75 g BT 1 0 0 1 10 10 Tm (w) Tj ET")
	_, _, marks := interpret(stream)

	require.Len(t, marks, 1)
	assert.Equal(t, []float64{0.75}, marks[0].Fill)
}

func TestInterpretCMYK(t *testing.T) {
	stream := []byte("0.1 0.9 0.8 0 K 0 0 m 10 0 l S")
	lines, _, _ := interpret(stream)

	require.Len(t, lines, 1)
	assert.Equal(t, []float64{0.1, 0.9, 0.8, 0}, lines[0].Stroke)
}

func TestInterpretSCN(t *testing.T) {
	stream := []byte("/CS0 CS 1 0 0 SCN 0 0 m 10 0 l S")
	lines, _, _ := interpret(stream)

	require.Len(t, lines, 1)
	assert.Equal(t, []float64{1, 0, 0}, lines[0].Stroke)
}

func TestInterpretSkipsInlineImage(t *testing.T) {
	stream := []byte("BI /W 2 /H 2 ID \x00\xff\x00\xff EI 0 0 m 10 0 l S")
	lines, _, _ := interpret(stream)

	require.Len(t, lines, 1)
}

func TestInterpretMalformedOperands(t *testing.T) {
	// Short operand stacks must not panic or emit garbage.
	stream := []byte("1 0 RG m l re S Q Q")
	lines, rects, marks := interpret(stream)

	assert.Empty(t, lines)
	assert.Empty(t, rects)
	assert.Empty(t, marks)
}

func TestInterpretStringEscapes(t *testing.T) {
	stream := []byte(`BT 1 0 0 1 5 5 Tm (a \( b \) c (nested)) Tj ET 0 0 m 1 0 l S`)
	lines, _, marks := interpret(stream)

	assert.Len(t, marks, 1)
	assert.Len(t, lines, 1)
}

func TestParseFloat(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"0", 0, true},
		{"12.5", 12.5, true},
		{"-3.25", -3.25, true},
		{".5", 0.5, true},
		{"-", 0, false},
		{".", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseFloat([]byte(tt.in))
		assert.Equal(t, tt.ok, ok, tt.in)
		if tt.ok {
			assert.InDelta(t, tt.want, got, 1e-9, tt.in)
		}
	}
}
