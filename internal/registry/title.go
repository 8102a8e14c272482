package registry

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	areaSqmRe      = regexp.MustCompile(`([\d,.]+)\s*㎡`)
	buildingNameRe = regexp.MustCompile(`(\S+(?:아파트|타워|빌|맨션|주택|빌라|오피스텔|빌딩))`)

	// Unlike ownership shares, land-right ratios carry decimal numerators
	// ("1503.6분의 45.7").
	ratioRe = regexp.MustCompile(`([\d,.]+)\s*분의\s*([\d,.]+)`)

	structureRe = regexp.MustCompile(
		`(철근콘크리트구조|철골철근콘크리트구조|목구조|벽돌구조|` +
			`블록구조|경량철골구조|철골구조|조적구조|강구조)`)
	roofRe = regexp.MustCompile(
		`((?:철근)?콘크리트\s*지붕|슬래브\s*지붕|기와\s*지붕|` +
			`스라브\s*지붕|평슬래브\s*지붕|\(철근\)콘크리트지붕)`)
	floorsUsageRe = regexp.MustCompile(`(\d+)\s*층\s*(?:아파트|오피스텔|근린|주택|상가|업무|건물)`)
	floorsRoofRe  = regexp.MustCompile(`지붕\s*(\d+)\s*층`)

	floorAreaRes = []*regexp.Regexp{
		regexp.MustCompile(`(지하?\d+층)\s*([\d,.]+)\s*㎡`),
		regexp.MustCompile(`(\d+층)\s*([\d,.]+)\s*㎡`),
		regexp.MustCompile(`(옥탑\d?층?)\s*([\d,.]+)\s*㎡`),
	}
)

// buildingTypeVocab is ordered specific-first: 제2종근린생활시설 contains
// 근린생활시설.
var buildingTypeVocab = []string{
	"제2종근린생활시설", "제1종근린생활시설",
	"아파트", "오피스텔", "다세대주택", "다가구주택", "단독주택",
	"근린생활시설", "상가", "업무시설", "주택",
	"공장", "창고", "연립주택",
}

type sectionRows map[string][]tableRow

// parseTitle assembles the 표제부 from the per-section row streams.
func parseTitle(sections sectionRows, propertyType string, opts Options) TitleInfo {
	info := TitleInfo{}

	switch propertyType {
	case PropertyLand:
		parseTitleLand(&info, sections[sectionTitleLand], opts)
	case PropertyAggregateBuilding:
		parseTitleBuilding(&info, sections[sectionTitleBuilding], opts)
		parseTitleExclusive(&info, sections[sectionTitleExclusive], opts)
		parseLandRightLand(&info, sections[sectionLandRightLand], opts)
		parseLandRightRatio(&info, sections[sectionLandRightRatio], opts)
	default:
		parseTitleBuilding(&info, sections[sectionTitleBuilding], opts)
	}

	if propertyType != PropertyLand {
		var b strings.Builder
		for _, row := range sections[sectionTitleBuilding] {
			b.WriteString(strings.Join(row.Cells, " "))
			b.WriteByte(' ')
		}
		rowText := b.String()
		for _, bt := range buildingTypeVocab {
			if strings.Contains(rowText, bt) {
				info.BuildingType = strPtr(bt)
				break
			}
		}
	}

	for _, a := range info.Areas {
		if !a.IsExcluded {
			info.TotalFloorArea += a.Area
		}
	}
	return info
}

func parseTitleLand(info *TitleInfo, rows []tableRow, opts Options) {
	minCells := 5
	if opts.FlexibleLandColumns {
		minCells = 4
	}
	for _, row := range mergeContinuationRows(skipHeaderRows(rows, "표시번호"), opts.GuardContamination) {
		cells := row.Cells
		if len(cells) < minCells {
			continue
		}
		landType := cellAt(cells, 3)
		area := cellAt(cells, 4)
		if opts.FlexibleLandColumns {
			// Collapsed grids shift 면적 into the 지목 column.
			if area == "" && strings.Contains(landType, "㎡") {
				area, landType = landType, ""
			}
			if area == "" {
				for _, c := range cells {
					if strings.Contains(c, "㎡") {
						area = c
						break
					}
				}
			}
		}

		info.LandEntries = append(info.LandEntries, LandTitleEntry{
			DisplayNumber: cellAt(cells, 0),
			ReceiptDate:   cellAt(cells, 1),
			Location:      cellAt(cells, 2),
			LandType:      landType,
			Area:          area,
			CauseAndOther: cellAt(cells, 5),
			IsCancelled:   row.IsCancelled,
		})

		// The latest row wins for the document-level land type and area.
		if t := CleanText(landType); t != "" {
			info.LandType = &t
		}
		if m := areaSqmRe.FindStringSubmatch(area); m != nil {
			info.LandArea = strPtr(m[1] + "㎡")
		}
	}
}

func parseTitleBuilding(info *TitleInfo, rows []tableRow, opts Options) {
	var fullDetail strings.Builder
	for _, row := range mergeContinuationRows(skipHeaderRows(rows, "표시번호"), opts.GuardContamination) {
		cells := row.Cells
		if len(cells) < 4 {
			continue
		}
		detail := cellAt(cells, 3)
		if detail != "" {
			fullDetail.WriteByte('\n')
			fullDetail.WriteString(detail)
		}

		info.BuildingEntries = append(info.BuildingEntries, BuildingTitleEntry{
			DisplayNumber:    cellAt(cells, 0),
			ReceiptDate:      cellAt(cells, 1),
			LocationOrNumber: cellAt(cells, 2),
			BuildingDetail:   detail,
			CauseAndOther:    cellAt(cells, 4),
			IsCancelled:      row.IsCancelled,
		})

		if loc := cellAt(cells, 2); loc != "" && info.BuildingName == nil {
			if m := buildingNameRe.FindStringSubmatch(loc); m != nil {
				info.BuildingName = &m[1]
			}
		}
	}
	extractBuildingDetails(info, fullDetail.String())
}

func parseTitleExclusive(info *TitleInfo, rows []tableRow, opts Options) {
	for _, row := range mergeContinuationRows(skipHeaderRows(rows, "표시번호"), opts.GuardContamination) {
		cells := row.Cells
		if len(cells) < 4 {
			continue
		}
		info.ExclusivePartEntries = append(info.ExclusivePartEntries, ExclusivePartEntry{
			DisplayNumber:  cellAt(cells, 0),
			ReceiptDate:    cellAt(cells, 1),
			BuildingNumber: cellAt(cells, 2),
			BuildingDetail: cellAt(cells, 3),
			CauseAndOther:  cellAt(cells, 4),
			IsCancelled:    row.IsCancelled,
		})
		if m := areaSqmRe.FindStringSubmatch(cellAt(cells, 3)); m != nil {
			if v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64); err == nil {
				info.ExclusiveArea = &v
			}
		}
	}
}

func parseLandRightLand(info *TitleInfo, rows []tableRow, opts Options) {
	for _, row := range mergeContinuationRows(skipHeaderRows(rows, "표시번호"), opts.GuardContamination) {
		cells := row.Cells
		if len(cells) < 4 {
			continue
		}
		info.LandRightEntries = append(info.LandRightEntries, LandRightEntry{
			DisplayNumber: cellAt(cells, 0),
			Location:      cellAt(cells, 1),
			LandType:      cellAt(cells, 2),
			Area:          cellAt(cells, 3),
			CauseAndOther: cellAt(cells, 4),
		})
	}
}

func parseLandRightRatio(info *TitleInfo, rows []tableRow, opts Options) {
	for _, row := range mergeContinuationRows(skipHeaderRows(rows, "표시번호"), opts.GuardContamination) {
		cells := row.Cells
		if len(cells) < 3 {
			continue
		}
		info.LandRightRatioEntries = append(info.LandRightRatioEntries, LandRightRatioEntry{
			DisplayNumber:  cellAt(cells, 0),
			LandRightType:  cellAt(cells, 1),
			LandRightRatio: cellAt(cells, 2),
			CauseAndOther:  cellAt(cells, 3),
			IsCancelled:    row.IsCancelled,
		})
		if m := ratioRe.FindStringSubmatch(cellAt(cells, 2)); m != nil && info.LandRightRatio == nil {
			info.LandRightRatio = strPtr(m[1] + "분의 " + m[2])
		}
	}
}

// extractBuildingDetails pulls structure, roof, floor count and per-floor
// areas out of the concatenated 건물내역 text.
func extractBuildingDetails(info *TitleInfo, detailText string) {
	text := CleanText(detailText)

	if m := structureRe.FindStringSubmatch(text); m != nil {
		info.Structure = &m[1]
	}
	if m := roofRe.FindStringSubmatch(text); m != nil {
		info.RoofType = &m[1]
	}

	floorsMatch := floorsUsageRe.FindStringSubmatch(text)
	if floorsMatch == nil {
		floorsMatch = floorsRoofRe.FindStringSubmatch(text)
	}
	if floorsMatch != nil {
		info.Floors, _ = strconv.Atoi(floorsMatch[1])
	}

	seen := map[string]bool{}
	for _, re := range floorAreaRes {
		for _, m := range re.FindAllStringSubmatchIndex(detailText, -1) {
			floor := detailText[m[2]:m[3]]
			if seen[floor] {
				continue
			}
			seen[floor] = true
			v, err := strconv.ParseFloat(strings.ReplaceAll(detailText[m[4]:m[5]], ",", ""), 64)
			if err != nil {
				continue
			}
			// 연면적제외 on the same line marks the floor as excluded
			// from the total floor area.
			lo := strings.LastIndexByte(detailText[:m[0]], '\n') + 1
			hi := len(detailText)
			if i := strings.IndexByte(detailText[m[1]:], '\n'); i >= 0 {
				hi = m[1] + i
			}
			excluded := strings.Contains(detailText[lo:hi], "연면적제외")
			info.Areas = append(info.Areas, FloorArea{Floor: floor, Area: v, IsExcluded: excluded})
		}
	}
	sort.SliceStable(info.Areas, func(i, j int) bool {
		return info.Areas[i].Floor < info.Areas[j].Floor
	})
}

func cellAt(cells []string, i int) string {
	if i < len(cells) {
		return cells[i]
	}
	return ""
}
