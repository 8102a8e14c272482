package pdf

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	ledongthuc "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Document is an opened PDF. It pairs a pdfcpu context (structure, decoded
// content streams) with a ledongthuc reader (decoded text runs) over the same
// bytes.
type Document struct {
	ctx    *model.Context
	reader *ledongthuc.Reader
	dims   []dim

	PageCount int
}

type dim struct {
	w, h float64
}

// Open parses buf as a PDF. It fails only when the input cannot be read as a
// PDF at all; per-page damage surfaces later as degraded Page output.
func Open(buf []byte) (*Document, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(buf), conf)
	if err != nil {
		return nil, &ReadError{Op: "read", Err: err}
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, &ReadError{Op: "page count", Err: err}
	}
	if ctx.PageCount < 1 {
		return nil, &ReadError{Op: "page count", Err: fmt.Errorf("document has no pages")}
	}

	r, err := ledongthuc.NewReader(bytes.NewReader(buf), int64(len(buf)))
	if err != nil {
		return nil, &ReadError{Op: "open", Err: err}
	}

	d := &Document{ctx: ctx, reader: r, PageCount: ctx.PageCount}
	if pd, err := ctx.PageDims(); err == nil {
		for _, p := range pd {
			d.dims = append(d.dims, dim{w: p.Width, h: p.Height})
		}
	}
	return d, nil
}

// Page extracts primitives for page n (1-based). Extraction is best-effort:
// a failed geometry pass leaves Lines/Rects/Marks empty, records GeometryErr,
// and routes table detection through the text-line fallback.
func (d *Document) Page(n int) (*Page, error) {
	if n < 1 || n > d.PageCount {
		return nil, fmt.Errorf("page %d out of range 1..%d", n, d.PageCount)
	}
	p := &Page{Number: n}
	if n-1 < len(d.dims) {
		p.Width = d.dims[n-1].w
		p.Height = d.dims[n-1].h
	}

	runs := d.textRuns(n)

	p.Lines, p.Rects, p.Marks, p.GeometryErr = d.geometry(n)
	zones := buildWatermarkZones(p.Marks)
	runs = filterWatermark(runs, zones)
	p.Runs = runs
	p.Text = assembleText(runs)

	p.Tables = safeTables(p.Lines, p.Rects, runs)
	if len(p.Tables) == 0 && p.GeometryErr != nil {
		p.Tables = fallbackTables(runs)
	}
	return p, nil
}

// Pages extracts every page in order.
func (d *Document) Pages() ([]*Page, error) {
	out := make([]*Page, 0, d.PageCount)
	for n := 1; n <= d.PageCount; n++ {
		p, err := d.Page(n)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Text concatenates the filtered text of all pages.
func (d *Document) Text() (string, error) {
	pages, err := d.Pages()
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for i, p := range pages {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(p.Text)
	}
	return b.String(), nil
}

// textRuns decodes text via ledongthuc. Its font handling panics on some
// malformed embedded fonts, so the call is fenced.
func (d *Document) textRuns(n int) (runs []TextRun) {
	defer func() {
		if recover() != nil {
			runs = nil
		}
	}()
	page := d.reader.Page(n)
	if page.V.IsNull() {
		return nil
	}
	content := page.Content()
	for _, t := range content.Text {
		if t.S == "" {
			continue
		}
		runs = append(runs, TextRun{
			Text:     t.S,
			X:        t.X,
			Y:        t.Y,
			W:        t.W,
			FontSize: t.FontSize,
		})
	}
	return mergeAdjacentRuns(runs)
}

// mergeAdjacentRuns joins per-glyph runs that sit on the same baseline with no
// visible gap, so downstream regexes see whole words.
func mergeAdjacentRuns(runs []TextRun) []TextRun {
	if len(runs) == 0 {
		return nil
	}
	sort.SliceStable(runs, func(i, j int) bool {
		if dy := runs[i].Y - runs[j].Y; dy > 0.5 {
			return true
		} else if dy < -0.5 {
			return false
		}
		return runs[i].X < runs[j].X
	})
	out := []TextRun{runs[0]}
	for _, r := range runs[1:] {
		last := &out[len(out)-1]
		sameLine := r.Y-last.Y < 0.5 && last.Y-r.Y < 0.5
		gap := r.X - (last.X + last.W)
		if sameLine && gap <= maxGlue(last.FontSize) && gap > -1.0 {
			last.Text += r.Text
			last.W = r.X + r.W - last.X
			continue
		}
		out = append(out, r)
	}
	return out
}

func maxGlue(fontSize float64) float64 {
	if fontSize <= 0 {
		return 1.0
	}
	return fontSize * 0.12
}

// assembleText lays runs out as lines of text, top-down, spacing cells apart.
func assembleText(runs []TextRun) string {
	lines := groupLines(runs)
	var b strings.Builder
	for _, ln := range lines {
		var lb strings.Builder
		lastEnd := ln[0].X
		for i, r := range ln {
			if i > 0 && r.X-lastEnd > 1.0 {
				lb.WriteByte(' ')
			}
			lb.WriteString(r.Text)
			lastEnd = r.X + r.W
		}
		line := strings.TrimSpace(stripViewingPhrase(lb.String()))
		if line == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}
	return b.String()
}

// geometry runs the content-stream interpreter over the page's decoded
// content.
func (d *Document) geometry(n int) (lines []Line, rects []Rect, marks []Mark, err error) {
	defer func() {
		if r := recover(); r != nil {
			lines, rects, marks = nil, nil, nil
			err = fmt.Errorf("content stream pass: %v", r)
		}
	}()
	rd, err := pdfcpu.ExtractPageContent(d.ctx, n)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("extract page %d content: %w", n, err)
	}
	if rd == nil {
		return nil, nil, nil, nil
	}
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("read page %d content: %w", n, err)
	}
	lines, rects, marks = interpret(data)
	return lines, rects, marks, nil
}

func safeTables(lines []Line, rects []Rect, runs []TextRun) (tables []Table) {
	defer func() {
		if recover() != nil {
			tables = fallbackTables(runs)
		}
	}()
	return detectTables(lines, rects, runs)
}
