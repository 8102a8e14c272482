package pdf

import (
	"sort"
	"strings"
)

const (
	snapTol      = 5.0
	ruleTol      = 1.5
	minHRuleLen  = 30.0
	minVRuleLen  = 8.0
	tableGap     = 72.0
	cellGapSplit = 14.0
)

// isDarkRule reports whether a color can belong to a table grid. Strike-through
// rules are drawn in red and must not contribute boundaries, so anything with a
// dominant warm channel is rejected. A nil color means the device default
// (black) and qualifies.
func isDarkRule(c []float64) bool {
	if c == nil {
		return true
	}
	switch len(c) {
	case 1:
		return c[0] < 0.45 || c[0] > 1.5 && c[0] < 115
	case 3:
		max := 1.0
		if c[0] > 1.5 || c[1] > 1.5 || c[2] > 1.5 {
			max = 255.0
		}
		return c[0] < 0.45*max && c[1] < 0.45*max && c[2] < 0.45*max
	case 4:
		return c[3] > 0.55 || c[0] > 0.4 && c[1] > 0.4 && c[2] > 0.4
	}
	return false
}

type hRule struct {
	y      float64
	x0, x1 float64
}

type vRule struct {
	x      float64
	y0, y1 float64
}

func collectRules(lines []Line, rects []Rect) (hs []hRule, vs []vRule) {
	add := func(x0, y0, x1, y1 float64) {
		if x1 < x0 {
			x0, x1 = x1, x0
		}
		if y1 < y0 {
			y0, y1 = y1, y0
		}
		if y1-y0 <= ruleTol && x1-x0 >= minHRuleLen {
			hs = append(hs, hRule{y: (y0 + y1) / 2, x0: x0, x1: x1})
		} else if x1-x0 <= ruleTol && y1-y0 >= minVRuleLen {
			vs = append(vs, vRule{x: (x0 + x1) / 2, y0: y0, y1: y1})
		}
	}
	for _, l := range lines {
		if isDarkRule(l.Stroke) {
			add(l.X0, l.Y0, l.X1, l.Y1)
		}
	}
	for _, r := range rects {
		c := r.Stroke
		if c == nil {
			c = r.Fill
		}
		if !isDarkRule(c) {
			continue
		}
		w, h := r.X1-r.X0, r.Y1-r.Y0
		if h <= ruleTol || w <= ruleTol {
			// Thin filled rects are how many generators draw rules.
			add(r.X0, r.Y0, r.X1, r.Y1)
			continue
		}
		if r.Stroke != nil {
			add(r.X0, r.Y0, r.X1, r.Y0)
			add(r.X0, r.Y1, r.X1, r.Y1)
			add(r.X0, r.Y0, r.X0, r.Y1)
			add(r.X1, r.Y0, r.X1, r.Y1)
		}
	}
	return hs, vs
}

// snapH merges horizontal rules within snapTol into single boundaries.
func snapH(hs []hRule) []hRule {
	if len(hs) == 0 {
		return nil
	}
	sort.Slice(hs, func(i, j int) bool { return hs[i].y < hs[j].y })
	var out []hRule
	cur := hs[0]
	count := 1.0
	for _, h := range hs[1:] {
		if h.y-cur.y/count <= snapTol {
			cur.y += h.y
			count++
			if h.x0 < cur.x0 {
				cur.x0 = h.x0
			}
			if h.x1 > cur.x1 {
				cur.x1 = h.x1
			}
		} else {
			out = append(out, hRule{y: cur.y / count, x0: cur.x0, x1: cur.x1})
			cur = h
			count = 1
		}
	}
	out = append(out, hRule{y: cur.y / count, x0: cur.x0, x1: cur.x1})
	return out
}

func snapV(vs []vRule) []vRule {
	if len(vs) == 0 {
		return nil
	}
	sort.Slice(vs, func(i, j int) bool { return vs[i].x < vs[j].x })
	var out []vRule
	cur := vs[0]
	count := 1.0
	for _, v := range vs[1:] {
		if v.x-cur.x/count <= snapTol {
			cur.x += v.x
			count++
			if v.y0 < cur.y0 {
				cur.y0 = v.y0
			}
			if v.y1 > cur.y1 {
				cur.y1 = v.y1
			}
		} else {
			out = append(out, vRule{x: cur.x / count, y0: cur.y0, y1: cur.y1})
			cur = v
			count = 1
		}
	}
	out = append(out, vRule{x: cur.x / count, y0: cur.y0, y1: cur.y1})
	return out
}

// detectTables builds ruled tables from page geometry and assigns text runs to
// cells. Tables are separated where consecutive horizontal boundaries sit more
// than tableGap apart.
func detectTables(lines []Line, rects []Rect, runs []TextRun) []Table {
	hs, vs := collectRules(lines, rects)
	hs = snapH(hs)
	vs = snapV(vs)
	if len(hs) < 3 || len(vs) < 2 {
		return nil
	}
	// Top-down groups of horizontal boundaries.
	sort.Slice(hs, func(i, j int) bool { return hs[i].y > hs[j].y })
	var groups [][]hRule
	cur := []hRule{hs[0]}
	for _, h := range hs[1:] {
		if cur[len(cur)-1].y-h.y > tableGap {
			groups = append(groups, cur)
			cur = nil
		}
		cur = append(cur, h)
	}
	groups = append(groups, cur)

	var tables []Table
	for _, g := range groups {
		if len(g) < 3 {
			continue
		}
		t := buildTable(g, vs, runs)
		if t != nil {
			tables = append(tables, *t)
		}
	}
	return tables
}

func buildTable(g []hRule, vs []vRule, runs []TextRun) *Table {
	top, bottom := g[0].y, g[len(g)-1].y
	minX, maxX := g[0].x0, g[0].x1
	for _, h := range g[1:] {
		if h.x0 < minX {
			minX = h.x0
		}
		if h.x1 > maxX {
			maxX = h.x1
		}
	}
	if top <= bottom {
		return nil
	}
	// Verticals count when they cover most of the table's y-span.
	var xs []float64
	for _, v := range vs {
		lo, hi := v.y0, v.y1
		if lo < bottom {
			lo = bottom
		}
		if hi > top {
			hi = top
		}
		if (hi-lo)/(top-bottom) > 0.5 {
			xs = append(xs, v.x)
		}
	}
	xs = dedupSorted(xs)
	if len(xs) < 2 {
		return nil
	}
	t := &Table{X0: xs[0], Y0: bottom, X1: xs[len(xs)-1], Y1: top}
	for i := 0; i+1 < len(g); i++ {
		yTop, yBot := g[i].y, g[i+1].y
		row := Row{YTop: yTop, YBottom: yBot, Cells: make([]string, len(xs)-1)}
		for j := 0; j+1 < len(xs); j++ {
			row.Cells[j] = cellText(runs, xs[j], xs[j+1], yBot, yTop)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func dedupSorted(xs []float64) []float64 {
	sort.Float64s(xs)
	var out []float64
	for _, x := range xs {
		if len(out) == 0 || x-out[len(out)-1] > snapTol {
			out = append(out, x)
		}
	}
	return out
}

// cellText gathers runs whose center falls inside the cell, ordered top-down
// then left-right, joining vertical clusters with newlines.
func cellText(runs []TextRun, x0, x1, y0, y1 float64) string {
	var in []TextRun
	for _, r := range runs {
		cx := r.X + r.W/2
		if cx >= x0 && cx < x1 && r.Y >= y0 && r.Y < y1 {
			in = append(in, r)
		}
	}
	if len(in) == 0 {
		return ""
	}
	sort.Slice(in, func(i, j int) bool {
		if dy := in[i].Y - in[j].Y; dy > 2.5 {
			return true
		} else if dy < -2.5 {
			return false
		}
		return in[i].X < in[j].X
	})
	var b strings.Builder
	lastY := in[0].Y
	lastEnd := in[0].X
	for i, r := range in {
		if i > 0 {
			if lastY-r.Y > 2.5 {
				b.WriteByte('\n')
			} else if r.X-lastEnd > 1.0 {
				b.WriteByte(' ')
			}
		}
		b.WriteString(r.Text)
		lastY = r.Y
		lastEnd = r.X + r.W
	}
	return strings.TrimSpace(b.String())
}

// fallbackTables degrades to text-line pseudo-rows when grid detection finds
// nothing usable. Cells split on wide horizontal gaps.
func fallbackTables(runs []TextRun) []Table {
	if len(runs) == 0 {
		return nil
	}
	lines := groupLines(runs)
	t := Table{}
	first := true
	for _, ln := range lines {
		row := Row{YTop: ln[0].Y + lineBandTol, YBottom: ln[0].Y - lineBandTol}
		var cell strings.Builder
		lastEnd := ln[0].X
		for i, r := range ln {
			if i > 0 && r.X-lastEnd > cellGapSplit {
				row.Cells = append(row.Cells, strings.TrimSpace(cell.String()))
				cell.Reset()
			} else if i > 0 && r.X-lastEnd > 1.0 {
				cell.WriteByte(' ')
			}
			cell.WriteString(r.Text)
			lastEnd = r.X + r.W
		}
		row.Cells = append(row.Cells, strings.TrimSpace(cell.String()))
		t.Rows = append(t.Rows, row)
		for _, r := range ln {
			if first || r.X < t.X0 {
				t.X0 = r.X
			}
			if first || r.X+r.W > t.X1 {
				t.X1 = r.X + r.W
			}
			if first || r.Y < t.Y0 {
				t.Y0 = r.Y
			}
			if first || r.Y > t.Y1 {
				t.Y1 = r.Y
			}
			first = false
		}
	}
	if len(t.Rows) == 0 {
		return nil
	}
	return []Table{t}
}

const lineBandTol = 3.0

// groupLines clusters runs into visual lines, top-down.
func groupLines(runs []TextRun) [][]TextRun {
	sorted := make([]TextRun, len(runs))
	copy(sorted, runs)
	sort.Slice(sorted, func(i, j int) bool {
		if dy := sorted[i].Y - sorted[j].Y; dy > lineBandTol {
			return true
		} else if dy < -lineBandTol {
			return false
		}
		return sorted[i].X < sorted[j].X
	})
	var out [][]TextRun
	for _, r := range sorted {
		if n := len(out); n > 0 && out[n-1][0].Y-r.Y <= lineBandTol {
			out[n-1] = append(out[n-1], r)
		} else {
			out = append(out, []TextRun{r})
		}
	}
	return out
}
