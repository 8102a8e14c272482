package registry

import (
	"sort"

	"github.com/junsik/pdf-extractor/internal/pdf"
)

// RedThresholds tunes red-ink classification. The values are empirical and
// configurable (REGX_RED* environment variables).
type RedThresholds struct {
	UnitR  float64 // RGB unit scale: R above
	UnitGB float64 // RGB unit scale: G and B below
	ByteR  float64 // RGB 0-255 scale: R above
	ByteGB float64 // RGB 0-255 scale: G and B below

	CMYKMagenta float64 // magenta above
	CMYKYellow  float64 // yellow above
	CMYKCyan    float64 // cyan below
}

// DefaultRedThresholds returns the tuned defaults.
func DefaultRedThresholds() RedThresholds {
	return RedThresholds{
		UnitR:       0.7,
		UnitGB:      0.3,
		ByteR:       180,
		ByteGB:      80,
		CMYKMagenta: 0.5,
		CMYKYellow:  0.3,
		CMYKCyan:    0.2,
	}
}

// IsRed classifies a raw color channel slice. Absent color is never red.
func (t RedThresholds) IsRed(c []float64) bool {
	switch len(c) {
	case 3:
		r, g, b := c[0], c[1], c[2]
		if r > t.UnitR && g < t.UnitGB && b < t.UnitGB {
			return true
		}
		return r > t.ByteR && g < t.ByteGB && b < t.ByteGB
	case 4:
		cy, m, y := c[0], c[1], c[2]
		return m > t.CMYKMagenta && y > t.CMYKYellow && cy < t.CMYKCyan
	}
	return false
}

type yRange struct {
	lo, hi float64
}

// rowBandPad is how far a red stroke reaches above and below its own y when
// deciding whether a row is struck through.
const rowBandPad = 6.0

// CancelDetector accumulates per-page red-ink evidence: merged y-bands from
// red lines (padded) and red rects (full vertical span), plus discrete red
// character y-points.
type CancelDetector struct {
	thresholds RedThresholds
	bands      map[int][]yRange
	markYs     map[int][]float64
}

func NewCancelDetector(t RedThresholds) *CancelDetector {
	return &CancelDetector{
		thresholds: t,
		bands:      make(map[int][]yRange),
		markYs:     make(map[int][]float64),
	}
}

// AnalyzePage records the red primitives of one page.
func (d *CancelDetector) AnalyzePage(pageIndex int, p *pdf.Page) {
	var ranges []yRange
	for _, l := range p.Lines {
		if d.thresholds.IsRed(l.Stroke) {
			y := (l.Y0 + l.Y1) / 2
			ranges = append(ranges, yRange{y - rowBandPad, y + rowBandPad})
		}
	}
	for _, r := range p.Rects {
		if d.thresholds.IsRed(r.Stroke) || d.thresholds.IsRed(r.Fill) {
			ranges = append(ranges, yRange{r.Y0 - rowBandPad, r.Y1 + rowBandPad})
		}
	}
	if len(ranges) > 0 {
		d.bands[pageIndex] = mergeRanges(ranges)
	}

	var ys []float64
	for _, m := range p.Marks {
		if d.thresholds.IsRed(m.Stroke) || d.thresholds.IsRed(m.Fill) {
			ys = append(ys, m.Y)
		}
	}
	if len(ys) > 0 {
		d.markYs[pageIndex] = ys
	}
}

// RowCancelled reports whether a single y coordinate lies in a red band or
// near a red character.
func (d *CancelDetector) RowCancelled(pageIndex int, y float64) bool {
	return d.RangeCancelled(pageIndex, y, y)
}

// RangeCancelled reports whether any part of [yLo, yHi] is struck. The order
// of the bounds does not matter.
func (d *CancelDetector) RangeCancelled(pageIndex int, yLo, yHi float64) bool {
	if yLo > yHi {
		yLo, yHi = yHi, yLo
	}
	for _, b := range d.bands[pageIndex] {
		if b.lo <= yHi && yLo <= b.hi {
			return true
		}
	}
	for _, y := range d.markYs[pageIndex] {
		if y >= yLo-rowBandPad && y <= yHi+rowBandPad {
			return true
		}
	}
	return false
}

func mergeRanges(ranges []yRange) []yRange {
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].lo < ranges[j].lo })
	merged := []yRange{ranges[0]}
	for _, r := range ranges[1:] {
		last := &merged[len(merged)-1]
		if r.lo <= last.hi {
			if r.hi > last.hi {
				last.hi = r.hi
			}
		} else {
			merged = append(merged, r)
		}
	}
	return merged
}
