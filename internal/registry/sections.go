package registry

import (
	"regexp"
	"strings"

	"github.com/junsik/pdf-extractor/internal/pdf"
)

// Section identifiers. sectionSkip resets the classifier: rows that follow
// belong to a list we do not parse (collateral list, auction-sale list)
// until a recognized header reappears.
const (
	sectionTitleLand      = "title_land"
	sectionTitleBuilding  = "title_building_1dong"
	sectionTitleExclusive = "title_exclusive"
	sectionLandRightLand  = "land_right_land"
	sectionLandRightRatio = "land_right_ratio"
	sectionA              = "section_a"
	sectionB              = "section_b"
	sectionMajorSummary   = "major_summary"
	sectionSummaryOwners  = "major_summary_owners"
	sectionSummaryRights  = "major_summary_rights"
	sectionTradeList      = "trade_list"
	sectionSkip           = "__skip__"
)

type sectionPattern struct {
	id   string
	re   *regexp.Regexp
	skip bool
}

// v101SectionPatterns: order matters. 대지권의 목적인 토지의 표시 contains
// 토지의 표시, so land_right_land must be tested before title_land; the
// 표제부 prefix is optional because some layouts keep the title outside the
// table.
var v101SectionPatterns = []sectionPattern{
	{id: sectionLandRightLand, re: regexp.MustCompile(`대지권의\s*목적인\s*토지의\s*표시`)},
	{id: sectionLandRightRatio, re: regexp.MustCompile(`대지권의\s*표시`)},

	{id: sectionTitleExclusive, re: regexp.MustCompile(`(?:표\s*제\s*부.*)?전유부분의\s*건물의\s*표시`)},
	{id: sectionTitleBuilding, re: regexp.MustCompile(`(?:표\s*제\s*부.*)?1동의\s*건물의\s*표시`)},
	{id: sectionTitleLand, re: regexp.MustCompile(`(?:표\s*제\s*부.*)?토지의\s*표시`)},

	{id: sectionA, re: regexp.MustCompile(`갑\s*구.*소유권에\s*관한\s*사항`)},
	{id: sectionB, re: regexp.MustCompile(`을\s*구.*소유권\s*이외의\s*권리`)},

	{id: sectionMajorSummary, re: regexp.MustCompile(`주\s*요\s*등\s*기\s*사\s*항\s*요\s*약`)},

	{id: sectionTradeList, re: regexp.MustCompile(`매\s*매\s*목\s*록`)},

	{id: "_skip_collateral", re: regexp.MustCompile(`공\s*동\s*담\s*보\s*목\s*록`), skip: true},
	{id: "_skip_sale_list", re: regexp.MustCompile(`매\s*각\s*물\s*건\s*목\s*록`), skip: true},
}

// v100SectionPatterns: the earlier generation required the 표제부 prefix and
// skipped the summary pages instead of parsing them.
var v100SectionPatterns = []sectionPattern{
	{id: sectionTitleLand, re: regexp.MustCompile(`표\s*제\s*부.*토지의\s*표시`)},
	{id: sectionTitleBuilding, re: regexp.MustCompile(`표\s*제\s*부.*1동의\s*건물의\s*표시`)},
	{id: sectionTitleExclusive, re: regexp.MustCompile(`표\s*제\s*부.*전유부분의\s*건물의\s*표시`)},
	{id: sectionLandRightLand, re: regexp.MustCompile(`대지권의\s*목적인\s*토지의\s*표시`)},
	{id: sectionLandRightRatio, re: regexp.MustCompile(`대지권의\s*표시`)},
	{id: sectionA, re: regexp.MustCompile(`갑\s*구.*소유권에\s*관한\s*사항`)},
	{id: sectionB, re: regexp.MustCompile(`을\s*구.*소유권\s*이외의\s*권리`)},
	{id: "_skip_collateral", re: regexp.MustCompile(`공\s*동\s*담\s*보\s*목\s*록`), skip: true},
	{id: "_skip_sale_list", re: regexp.MustCompile(`매\s*각\s*물\s*건\s*목\s*록`), skip: true},
	{id: "_skip_summary", re: regexp.MustCompile(`주\s*요\s*등\s*기\s*사\s*항\s*요\s*약`), skip: true},
	{id: "_skip_ownership_summary", re: regexp.MustCompile(`등\s*기\s*명\s*의\s*인.*등\s*록\s*번\s*호`), skip: true},
}

// classifier threads the "current section" state through the page loop.
// The state persists across tables and pages until a header changes it;
// tables routinely continue across page breaks without repeating headers.
type classifier struct {
	patterns []sectionPattern
	current  string
}

func newClassifier(patterns []sectionPattern) *classifier {
	return &classifier{patterns: patterns}
}

// detect matches header text against the ordered pattern list. Returns the
// section id, sectionSkip for skip-tagged patterns, or "".
func (c *classifier) detect(text string) string {
	clean := CleanText(text)
	for _, p := range c.patterns {
		if p.re.MatchString(clean) {
			if p.skip {
				return sectionSkip
			}
			return p.id
		}
	}
	return ""
}

// classifyByColumns identifies a section from the column-header row alone,
// for tables whose title sits outside the extracted grid. Matching is done
// on despaced text because header words arrive split across lines.
func (c *classifier) classifyByColumns(headerCells []string, current string) string {
	var b strings.Builder
	for _, cell := range headerCells {
		b.WriteString(CleanText(cell))
		b.WriteByte(' ')
	}
	compact := strings.ReplaceAll(strings.TrimSpace(b.String()), " ", "")

	if strings.Contains(compact, "등기명의인") &&
		(strings.Contains(compact, "최종지분") || strings.Contains(compact, "지분") || strings.Contains(compact, "순위번호")) {
		return sectionSummaryOwners
	}
	if (strings.Contains(compact, "주요등기사항") || strings.Contains(compact, "등기목적")) &&
		(strings.Contains(compact, "대상소유자") || strings.Contains(compact, "대상소유")) {
		return sectionSummaryRights
	}
	if current == sectionMajorSummary && strings.Contains(compact, "등기목적") && strings.Contains(compact, "접수") {
		return sectionSummaryRights
	}
	if strings.Contains(compact, "표시번호") && strings.Contains(compact, "지목") && strings.Contains(compact, "면적") {
		return sectionTitleLand
	}
	if strings.Contains(compact, "표시번호") && strings.Contains(compact, "건물내역") {
		if strings.Contains(compact, "전유") {
			return sectionTitleExclusive
		}
		return sectionTitleBuilding
	}
	return ""
}

// detectNearTable scans the text band above a table's bounding box for a
// section header that the grid did not capture. The band reaches 150pt up
// and 15pt into the table.
func (c *classifier) detectNearTable(p *pdf.Page, t pdf.Table) string {
	yLo := t.Y1 - 15
	yHi := t.Y1 + 150
	var b strings.Builder
	for _, r := range p.Runs {
		if r.Y >= yLo && r.Y <= yHi {
			b.WriteString(r.Text)
			b.WriteByte(' ')
		}
	}
	if strings.TrimSpace(b.String()) == "" {
		return ""
	}
	return c.detect(b.String())
}

// inferMajorSummaryTables splits rows that were lumped under major_summary
// into owner and right rows by their header markers, falling back to weak
// per-row features when no headers survived.
func inferMajorSummaryTables(rows []tableRow) (owners, rights []tableRow) {
	mode := ""
	for _, row := range rows {
		compact := strings.ReplaceAll(CleanText(strings.Join(row.Cells, " ")), " ", "")
		if strings.Contains(compact, "등기명의인") &&
			(strings.Contains(compact, "최종지분") || strings.Contains(compact, "지분") || strings.Contains(compact, "순위번호")) {
			mode = "owners"
			owners = append(owners, row)
			continue
		}
		if strings.Contains(compact, "순위번호") &&
			(strings.Contains(compact, "등기목적") || strings.Contains(compact, "주요등기사항")) {
			mode = "rights"
			rights = append(rights, row)
			continue
		}
		switch mode {
		case "owners":
			owners = append(owners, row)
		case "rights":
			rights = append(rights, row)
		}
	}
	if len(owners) == 0 && len(rights) == 0 {
		for _, row := range rows {
			compact := strings.ReplaceAll(CleanText(strings.Join(row.Cells, " ")), " ", "")
			if strings.Contains(compact, "등기명의인") {
				owners = append(owners, row)
			} else if strings.Contains(compact, "등기목적") || strings.Contains(compact, "주요등기사항") {
				rights = append(rights, row)
			}
		}
	}
	return owners, rights
}
