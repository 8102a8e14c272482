package pdf

import (
	"regexp"
	"strings"
)

// viewingCopyRe matches the 열람용 phrase stamped across issued copies, with
// arbitrary spacing between the syllables.
var viewingCopyRe = regexp.MustCompile(`열\s*람\s*용`)

// isWatermarkColor reports the light-gray band watermark glyphs are painted
// in: every channel strictly between 0.5 and 1.0 (unit or byte scale).
func isWatermarkColor(c []float64) bool {
	if len(c) == 0 {
		return false
	}
	byteScale := false
	for _, v := range c {
		if v > 1.0 {
			byteScale = true
			break
		}
	}
	for _, v := range c {
		if byteScale {
			v /= 255.0
		}
		if v <= 0.5 || v >= 1.0 {
			return false
		}
	}
	return true
}

// watermarkZones collects bounding boxes of gray text marks. Runs falling
// inside a zone are watermark glyphs rendered over the page body.
type watermarkZones []Rect

func buildWatermarkZones(marks []Mark) watermarkZones {
	var zones watermarkZones
	for _, m := range marks {
		c := m.Fill
		if c == nil {
			c = m.Stroke
		}
		if !isWatermarkColor(c) {
			continue
		}
		sz := m.Size
		if sz <= 0 {
			sz = 12
		}
		// Generous box around the show position: marks carry no glyph widths.
		zones = append(zones, Rect{
			X0: m.X - 2,
			Y0: m.Y - 2,
			X1: m.X + sz*4,
			Y1: m.Y + sz + 2,
		})
	}
	return zones
}

func (z watermarkZones) contains(r TextRun) bool {
	cx := r.X + r.W/2
	for _, b := range z {
		if cx >= b.X0 && cx <= b.X1 && r.Y >= b.Y0 && r.Y <= b.Y1 {
			return true
		}
	}
	return false
}

// filterWatermark drops runs covered by watermark zones.
func filterWatermark(runs []TextRun, zones watermarkZones) []TextRun {
	if len(zones) == 0 {
		return runs
	}
	out := runs[:0:0]
	for _, r := range runs {
		if !zones.contains(r) {
			out = append(out, r)
		}
	}
	return out
}

// stripViewingPhrase removes the 열람용 stamp text, a second line of defense
// for generators that paint the stamp in body color.
func stripViewingPhrase(s string) string {
	if !strings.Contains(s, "열") {
		return s
	}
	return viewingCopyRe.ReplaceAllString(s, "")
}
