// Package pdf exposes per-page text and geometry primitives extracted from a
// PDF byte buffer: positioned text runs, vector line segments, rectangles,
// text marks with stroke/fill color, and ruled-table detection with row
// bounding boxes. All coordinates are PDF user space (origin bottom-left,
// y grows upward).
package pdf

import "fmt"

// Line is a straight vector segment with its stroke color.
type Line struct {
	X0, Y0 float64
	X1, Y1 float64
	Stroke []float64
}

// Rect is a rectangle with stroke and/or fill color. Y1 >= Y0.
type Rect struct {
	X0, Y0 float64
	X1, Y1 float64
	Stroke []float64
	Fill   []float64
}

// Mark is a text-show event from the content stream. It carries position and
// color but no decoded text: glyph decoding requires font CMaps the geometry
// pass does not need. Size is the effective font size in user space.
type Mark struct {
	X, Y   float64
	Size   float64
	Stroke []float64
	Fill   []float64
}

// TextRun is a positioned run of decoded text.
type TextRun struct {
	Text     string
	X, Y     float64
	W        float64
	FontSize float64
}

// Row is one table row: its vertical span and cleaned cell strings.
type Row struct {
	YTop    float64
	YBottom float64
	Cells   []string
}

// Table is a detected ruled table.
type Table struct {
	X0, Y0 float64
	X1, Y1 float64
	Rows   []Row
}

// Page holds everything extracted from a single page.
type Page struct {
	Number int
	Width  float64
	Height float64

	// Text is the watermark-filtered extracted text.
	Text string

	Lines  []Line
	Rects  []Rect
	Marks  []Mark
	Runs   []TextRun
	Tables []Table

	// GeometryErr records a failed content-stream pass. Text extraction and
	// fallback tables still work without geometry.
	GeometryErr error
}

// ReadError reports input that could not be opened as a PDF at all.
type ReadError struct {
	Op  string
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("pdf %s: %v", e.Op, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}
