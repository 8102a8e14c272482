package registry

import (
	"regexp"
	"strings"
)

// tableRow is one raw table row tagged with its page and cancellation state.
type tableRow struct {
	Cells       []string
	Page        int
	Y           float64
	IsCancelled bool
}

var (
	digitStartRe = regexp.MustCompile(`^\d`)

	rowWatermarkLineRe = regexp.MustCompile(`(?m)^\s*(열|람|용)\s*$`)
	rowWatermarkTailRe = regexp.MustCompile(`\n\s*(열|람|용)\s*$`)
	rowWatermarkHeadRe = regexp.MustCompile(`^\s*(열|람|용)\s*\n`)
	excessBlankLinesRe = regexp.MustCompile(`\n{3,}`)

	watermarkTokenRes = []*regexp.Regexp{
		regexp.MustCompile(`(?:^|\s)열(?:\s|$)`),
		regexp.MustCompile(`(?:^|\s)람(?:\s|$)`),
		regexp.MustCompile(`(?:^|\s)용(?:\s|$)`),
	}
)

// contaminationMarkers are column headers and list titles from neighboring
// sections; a continuation row starting with one of these leaked in from a
// foreign table and must not be merged into the current record.
var contaminationMarkers = []string{
	"등기명의인", "순위번호", "주요등기사항", "대상소유자",
	"공동담보", "매각", "매매", "목록번호", "거래가액",
}

// stripRowWatermarkFragments clears 열/람/용 watermark syllables that land as
// standalone cell lines. Applied only when at least two of the three tokens
// appear in the row, to avoid touching legitimate text.
func stripRowWatermarkFragments(cells []string) []string {
	flat := strings.ReplaceAll(strings.Join(cells, " "), "\n", " ")
	found := 0
	for _, re := range watermarkTokenRes {
		if re.MatchString(flat) {
			found++
		}
	}
	if found < 2 {
		return cells
	}
	out := make([]string, len(cells))
	for i, c := range cells {
		if c == "" {
			continue
		}
		s := rowWatermarkLineRe.ReplaceAllString(c, "")
		s = rowWatermarkTailRe.ReplaceAllString(s, "")
		s = rowWatermarkHeadRe.ReplaceAllString(s, "")
		s = excessBlankLinesRe.ReplaceAllString(s, "\n\n")
		out[i] = strings.TrimSpace(s)
	}
	return out
}

// skipHeaderRows drops section-title rows (【 】 markers), column-header rows
// matching the section's leading keyword, and fully empty rows.
func skipHeaderRows(rows []tableRow, keyword string) []tableRow {
	var out []tableRow
	for _, row := range rows {
		var first []string
		for _, c := range row.Cells[:min(2, len(row.Cells))] {
			if c != "" {
				first = append(first, c)
			}
		}
		head := strings.Join(first, " ")
		if strings.Contains(head, "【") || strings.Contains(head, "】") {
			continue
		}
		if strings.Contains(CleanText(head), keyword) {
			continue
		}
		empty := true
		for _, c := range row.Cells {
			if c != "" {
				empty = false
				break
			}
		}
		if empty {
			continue
		}
		out = append(out, row)
	}
	return out
}

// mergeContinuationRows folds rows without a leading rank digit into the
// previous logical row, appending cell text with newlines and propagating the
// cancellation flag upward. With guardContamination, stray header fragments
// from neighboring sections are discarded instead of merged.
func mergeContinuationRows(rows []tableRow, guardContamination bool) []tableRow {
	var merged []tableRow
	for _, row := range rows {
		rank := ""
		if len(row.Cells) > 0 {
			rank = CleanText(row.Cells[0])
		}

		if guardContamination && rank != "" && !digitStartRe.MatchString(rank) {
			contaminated := false
			for _, marker := range contaminationMarkers {
				if strings.Contains(rank, marker) {
					contaminated = true
					break
				}
			}
			if contaminated {
				continue
			}
		}

		if rank != "" && digitStartRe.MatchString(rank) {
			merged = append(merged, row)
			continue
		}
		if len(merged) == 0 {
			continue
		}
		prev := &merged[len(merged)-1]
		for i, c := range row.Cells {
			if i >= len(prev.Cells) || c == "" {
				continue
			}
			if prev.Cells[i] != "" {
				prev.Cells[i] += "\n" + c
			} else {
				prev.Cells[i] = c
			}
		}
		if row.IsCancelled {
			prev.IsCancelled = true
		}
	}
	return merged
}
