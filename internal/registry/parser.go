package registry

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/junsik/pdf-extractor/internal/pdf"
)

var (
	uniqueNumberSplitRe = regexp.MustCompile(`고유번호\s*[:：]?\s*([\d\s-]{10,})`)
	uniqueNumberRe      = regexp.MustCompile(`고유번호\s*([\d-]+)`)
	addressHeaderRe     = regexp.MustCompile(`\[(?:토지|건물|집합건물)\]\s*([^\n]+)`)
	viewedAtRe          = regexp.MustCompile(`열람일시\s*[:：]\s*(.+)`)
	issuedAtRe          = regexp.MustCompile(`(?:발행일시|출력일시)\s*[:：]\s*(.+)`)

	roadAddressRe = regexp.MustCompile(
		`\[도로명주소\]\s*\n?\s*` +
			`((?:서울|부산|대구|인천|광주|대전|울산|세종|경기|강원|충북|충남|전북|전남|경북|경남|제주)` +
			`[^\n\[]{5,})`)

	landTitleKeywordRe     = regexp.MustCompile(`토지의\s*표시`)
	aggregateKeywordRe     = regexp.MustCompile(`전유부분의\s*건물의\s*표시|대지권의\s*표시`)
	buildingTitleKeywordRe = regexp.MustCompile(`1동의\s*건물의\s*표시`)
)

// Parser extracts a registry document from raw PDF bytes using one
// generation's heuristics.
type Parser struct {
	opts Options
	log  zerolog.Logger
}

func NewParser(opts Options, log zerolog.Logger) *Parser {
	return &Parser{opts: opts, log: log.With().Str("parser_version", opts.Version).Logger()}
}

func (p *Parser) Options() Options { return p.opts }

// Parse reads the document page by page, classifies every table into a
// section stream, then parses each stream. Section parsers run behind
// recover guards so one malformed section degrades to a warning instead of
// failing the document.
func (p *Parser) Parse(buf []byte) (*Document, error) {
	doc, err := pdf.Open(buf)
	if err != nil {
		return nil, fmt.Errorf("registry parse: %w", err)
	}

	detector := NewCancelDetector(p.opts.Red)
	cls := newClassifier(p.opts.SectionPatterns)
	sections := sectionRows{}
	pageTexts := make([]string, 0, doc.PageCount)

	for i := 0; i < doc.PageCount; i++ {
		page, err := doc.Page(i + 1)
		if err != nil {
			p.log.Warn().Int("page", i+1).Err(err).Msg("page read failed")
			pageTexts = append(pageTexts, "")
			continue
		}
		detector.AnalyzePage(i, page)
		pageTexts = append(pageTexts, page.Text)

		if page.GeometryErr != nil {
			p.log.Warn().Int("page", i+1).Err(page.GeometryErr).Msg("page geometry degraded")
		}
		p.classifyPageTables(page, i, cls, detector, sections)
	}

	rawText := strings.Join(pageTexts, "\n")

	uniqueNumber := p.extractUniqueNumber(rawText)
	propertyType := p.detectPropertyType(rawText)
	propertyAddress := extractAddress(rawText)
	viewedAt, issuedAt := extractTimestamps(rawText)

	// Section-based correction: the header marker is missing or garbled on
	// some layouts, but the tables that were found tell the real type.
	if len(sections[sectionTitleLand]) > 0 {
		propertyType = PropertyLand
	}
	if len(sections[sectionTitleExclusive]) > 0 ||
		len(sections[sectionLandRightLand]) > 0 ||
		len(sections[sectionLandRightRatio]) > 0 {
		propertyType = PropertyAggregateBuilding
	}

	var warnings []string
	guard := func(name string, fn func()) {
		defer func() {
			if r := recover(); r != nil {
				warnings = append(warnings, fmt.Sprintf("%s parse failed: %v", name, r))
				p.log.Warn().Str("section", name).Interface("panic", r).Msg("section parse failed")
			}
		}()
		fn()
	}

	title := TitleInfo{}
	guard("title", func() { title = parseTitle(sections, propertyType, p.opts) })
	title.UniqueNumber = uniqueNumber
	title.PropertyType = propertyType
	title.Address = propertyAddress
	if m := roadAddressRe.FindStringSubmatch(rawText); m != nil {
		title.RoadAddress = strPtr(CleanText(m[1]))
	}

	var sectionAEntries []SectionAEntry
	guard("section_a", func() { sectionAEntries = parseSectionA(sections[sectionA], p.opts) })

	// 매매목록 rows occasionally land in the section_b stream when both sit
	// in one detected grid. Split them back out before parsing.
	bRows, tradeFromB := splitTradeRows(sections[sectionB])

	var sectionBEntries []SectionBEntry
	guard("section_b", func() { sectionBEntries = parseSectionB(bRows, p.opts) })

	var tradeLists []TradeList
	if p.opts.ParseTradeList {
		guard("trade_list", func() {
			tradeLists = parseTradeLists([][]tableRow{append(sections[sectionTradeList], tradeFromB...)})
		})
	}

	var summary *MajorSummary
	if p.opts.ParseSummary {
		guard("major_summary", func() {
			ownerRows := sections[sectionSummaryOwners]
			rightRows := sections[sectionSummaryRights]
			if len(ownerRows) == 0 && len(rightRows) == 0 && len(sections[sectionMajorSummary]) > 0 {
				ownerRows, rightRows = inferMajorSummaryTables(sections[sectionMajorSummary])
			}
			summary = parseMajorSummary(ownerRows, rightRows, rawText, p.opts)
		})
	}

	applyTextCancellations(sectionAAsCancelEntries(sectionAEntries))
	applyTextCancellations(sectionBAsCancelEntries(sectionBEntries))
	mapCancellations(sectionAAsCancelEntries(sectionAEntries))
	mapCancellations(sectionBAsCancelEntries(sectionBEntries))

	result := &Document{
		UniqueNumber:    uniqueNumber,
		PropertyType:    propertyType,
		PropertyAddress: propertyAddress,
		TitleInfo:       title,
		SectionA:        sectionAEntries,
		SectionB:        sectionBEntries,
		TradeLists:      tradeLists,
		MajorSummary:    summary,
		ViewedAt:        viewedAt,
		IssuedAt:        issuedAt,
		RawText:         rawText,
		ParseDate:       time.Now().Format(time.RFC3339),
	}

	if p.opts.CollectStats {
		result.ParseWarnings = append(warnings, p.qualityWarnings(rawText, propertyType, sections, sectionAEntries, summary)...)
		result.ParseStats = parseStats(doc.PageCount, rawText, sections)
	} else if len(warnings) > 0 {
		result.ParseWarnings = warnings
	}

	p.log.Info().
		Str("property_type", propertyType).
		Int("pages", doc.PageCount).
		Int("section_a", len(sectionAEntries)).
		Int("section_b", len(sectionBEntries)).
		Int("warnings", len(result.ParseWarnings)).
		Msg("registry document parsed")

	return result, nil
}

// classifyPageTables routes every table row on a page into its section
// stream. Section state carries across tables and pages: continuation tables
// repeat no headers.
func (p *Parser) classifyPageTables(page *pdf.Page, pageIndex int, cls *classifier, detector *CancelDetector, sections sectionRows) {
	for _, t := range page.Tables {
		if len(t.Rows) == 0 {
			continue
		}
		headerText := strings.Join(t.Rows[0].Cells, " ")
		detected := cls.detect(headerText)

		if p.opts.ClassifyByColumns {
			ctx := detected
			if ctx == "" {
				ctx = cls.current
			}
			if byCols := cls.classifyByColumns(t.Rows[0].Cells, ctx); byCols != "" {
				detected = byCols
			}
		}
		if detected == "" && p.opts.DetectNearTable {
			detected = cls.detectNearTable(page, t)
		}

		if detected == sectionSkip {
			cls.current = ""
			continue
		}
		if detected != "" {
			cls.current = detected
		}
		if cls.current == "" {
			continue
		}

		for _, row := range t.Rows {
			cells := make([]string, len(row.Cells))
			for ci, c := range row.Cells {
				cells[ci] = CleanCell(c)
			}
			if p.opts.StripRowWatermark {
				cells = stripRowWatermarkFragments(cells)
			}
			sections[cls.current] = append(sections[cls.current], tableRow{
				Cells:       cells,
				Page:        pageIndex,
				Y:           row.YTop,
				IsCancelled: detector.RangeCancelled(pageIndex, row.YTop, row.YBottom),
			})
		}
	}
}

func (p *Parser) extractUniqueNumber(rawText string) string {
	if p.opts.DespaceUniqueNumber {
		// Digits arrive split by spaces or line breaks on some generators.
		if m := uniqueNumberSplitRe.FindStringSubmatch(rawText); m != nil {
			return strings.Join(strings.Fields(m[1]), "")
		}
		return ""
	}
	if m := uniqueNumberRe.FindStringSubmatch(rawText); m != nil {
		return m[1]
	}
	return ""
}

func (p *Parser) detectPropertyType(rawText string) string {
	firstPage := truncateRunes(rawText, 1000)
	switch {
	case strings.Contains(firstPage, "- 토지 -"), strings.Contains(firstPage, "[토지]"):
		return PropertyLand
	case strings.Contains(firstPage, "- 집합건물 -"), strings.Contains(firstPage, "[집합건물]"):
		return PropertyAggregateBuilding
	case strings.Contains(firstPage, "- 건물 -"), strings.Contains(firstPage, "[건물]"):
		return PropertyBuilding
	}
	if p.opts.ExtendedTypeDetection {
		switch {
		case landTitleKeywordRe.MatchString(firstPage):
			return PropertyLand
		case aggregateKeywordRe.MatchString(firstPage):
			return PropertyAggregateBuilding
		case buildingTitleKeywordRe.MatchString(firstPage):
			return PropertyBuilding
		}
	}
	return PropertyBuilding
}

func extractAddress(rawText string) string {
	if m := addressHeaderRe.FindStringSubmatch(rawText); m != nil {
		return CleanText(m[1])
	}
	return ""
}

func extractTimestamps(rawText string) (viewedAt, issuedAt *string) {
	if m := viewedAtRe.FindStringSubmatch(rawText); m != nil {
		viewedAt = strPtr(NormalizeTimestamp(CleanText(m[1])))
	}
	if m := issuedAtRe.FindStringSubmatch(rawText); m != nil {
		issuedAt = strPtr(NormalizeTimestamp(CleanText(m[1])))
	}
	return viewedAt, issuedAt
}

func splitTradeRows(rows []tableRow) (section, trade []tableRow) {
	inTrade := false
	for _, row := range rows {
		compact := strings.ReplaceAll(strings.Join(row.Cells, ""), " ", "")
		if strings.Contains(compact, "매매목록") {
			inTrade = true
		}
		if inTrade {
			trade = append(trade, row)
		} else {
			section = append(section, row)
		}
	}
	return section, trade
}

func (p *Parser) qualityWarnings(rawText, propertyType string, sections sectionRows, sectionAEntries []SectionAEntry, summary *MajorSummary) []string {
	var w []string
	if len([]rune(strings.TrimSpace(rawText))) < 200 {
		w = append(w, "TEXT_TOO_SHORT_POSSIBLE_SCANNED_PDF")
	}
	switch propertyType {
	case PropertyLand:
		if len(sections[sectionTitleLand]) == 0 {
			w = append(w, "MISSING_TITLE_LAND_TABLE")
		}
	case PropertyBuilding:
		if len(sections[sectionTitleBuilding]) == 0 {
			w = append(w, "MISSING_TITLE_BUILDING_TABLE")
		}
	case PropertyAggregateBuilding:
		if len(sections[sectionTitleBuilding]) == 0 {
			w = append(w, "MISSING_TITLE_BUILDING_TABLE")
		}
		if len(sections[sectionTitleExclusive]) == 0 {
			w = append(w, "MISSING_TITLE_EXCLUSIVE_TABLE")
		}
		if len(sections[sectionLandRightRatio]) == 0 {
			w = append(w, "MISSING_LAND_RIGHT_RATIO_TABLE")
		}
	}
	if len(sectionAEntries) == 0 {
		w = append(w, "MISSING_SECTION_A")
	}
	for _, pat := range p.opts.SectionPatterns {
		if pat.id == sectionMajorSummary && pat.re.MatchString(CleanText(rawText)) && summary == nil {
			w = append(w, "MISSING_MAJOR_SUMMARY")
		}
	}
	return w
}

func parseStats(pages int, rawText string, sections sectionRows) map[string]any {
	found := make([]string, 0, len(sections))
	rowsBySection := make(map[string]int, len(sections))
	for k, v := range sections {
		found = append(found, k)
		rowsBySection[k] = len(v)
	}
	sort.Strings(found)
	return map[string]any{
		"pages":           pages,
		"text_len":        len([]rune(rawText)),
		"sections_found":  found,
		"rows_by_section": rowsBySection,
	}
}
