package registry

import (
	"regexp"
	"strings"
)

var (
	listNumberRe    = regexp.MustCompile(`(\d[\d-]+)`)
	serialNumberRe  = regexp.MustCompile(`^\d+$`)
	summaryUniqueRe = regexp.MustCompile(`고유번호\s*[:：]?\s*([\d\s-]+)`)
	summaryAddrRe   = regexp.MustCompile(`\[(토지|건물|집합건물)\]\s*(.+?)(?:\n|$)`)

	maxClaimSummaryRe = regexp.MustCompile(`채권최고액\s*(금\s*[\d,]+\s*원)`)
	bondSummaryRe     = regexp.MustCompile(`채권액\s*(금\s*[\d,]+\s*원)`)
	depositSummaryRe  = regexp.MustCompile(`(?:보증금|전세금)\s*(금\s*[\d,]+\s*원)`)
	purposeSummaryRe  = regexp.MustCompile(`목\s*적\s+(.+?)(?:지상권자|전세권자|임차권자|채권자|근저당권자|$)`)
	creditorSummaryRe = regexp.MustCompile(`(?:근저당권자|저당권자|채권자|지상권자|전세권자|임차권자|권리자)\s+(\S+)`)
)

// parseTradeLists turns one 매매목록 row stream into a trade list. Meta rows
// (목록번호, 거래가액) set list-level fields; data rows start with a bare
// serial number.
func parseTradeLists(rowGroups [][]tableRow) []TradeList {
	var lists []TradeList
	for _, rows := range rowGroups {
		if len(rows) == 0 {
			continue
		}
		trade := TradeList{}
		for _, row := range rows {
			if len(row.Cells) == 0 {
				continue
			}
			line := strings.Join(row.Cells, " ")
			clean := CleanText(line)
			compact := strings.ReplaceAll(clean, " ", "")

			if strings.ContainsAny(line, "【】") {
				continue
			}
			if strings.Contains(compact, "목록번호") {
				if m := listNumberRe.FindStringSubmatch(strings.Replace(compact, "목록번호", "", 1)); m != nil {
					trade.ListNumber = m[1]
				}
				continue
			}
			if strings.Contains(compact, "거래가액") {
				trade.TradeAmount = ParseAmount(clean)
				continue
			}
			if strings.Contains(compact, "일련번호") || strings.Contains(compact, "부동산") {
				continue
			}
			if clean == "" || strings.Contains(compact, "이하여백") {
				continue
			}

			first := CleanText(row.Cells[0])
			if !serialNumberRe.MatchString(first) {
				continue
			}
			item := TradeListItem{SerialNumber: first}
			if len(row.Cells) > 1 {
				item.PropertyDescription = CleanCell(row.Cells[1])
			}
			if len(row.Cells) > 2 {
				item.RankNumber = CleanCell(row.Cells[2])
			}
			if len(row.Cells) > 3 {
				item.RegistrationCause = CleanCell(row.Cells[3])
			}
			if len(row.Cells) > 4 {
				item.CorrectionCause = CleanCell(row.Cells[4])
			}
			trade.Items = append(trade.Items, item)
		}
		if trade.ListNumber != "" || len(trade.Items) > 0 {
			lists = append(lists, trade)
		}
	}
	return lists
}

// parseMajorSummary builds the 주요 등기사항 요약 section. rawText supplies
// the page header with the unique number and address.
func parseMajorSummary(ownerRows, rightRows []tableRow, rawText string, opts Options) *MajorSummary {
	summary := &MajorSummary{
		Owners: parseSummaryOwners(ownerRows),
		Rights: parseSummaryRights(rightRows, opts),
	}

	if start := strings.Index(rawText, "주요"); start >= 0 {
		header := rawText[start:min(start+1500, len(rawText))]
		if m := summaryUniqueRe.FindStringSubmatch(header); m != nil {
			summary.UniqueNumber = strings.Join(strings.Fields(m[1]), "")
		}
		if m := summaryAddrRe.FindStringSubmatch(header); m != nil {
			summary.PropertyType = m[1]
			summary.Address = CleanText(m[2])
		}
	}

	if len(summary.Owners) == 0 && len(summary.Rights) == 0 {
		return nil
	}
	return summary
}

func parseSummaryOwners(rows []tableRow) []MajorSummaryOwnerEntry {
	var owners []MajorSummaryOwnerEntry
	for _, row := range skipHeaderRows(rows, "등기명의인") {
		cells := row.Cells
		if len(cells) < 5 {
			continue
		}
		name := CleanText(cells[0])
		if name == "" {
			continue
		}
		owners = append(owners, MajorSummaryOwnerEntry{
			Name:           name,
			ResidentNumber: strPtrOrNil(CleanText(cells[1])),
			FinalShare:     strPtrOrNil(CleanText(cells[2])),
			Address:        strPtrOrNil(CleanText(cells[3])),
			RankNumber:     CleanText(cells[4]),
		})
	}
	return owners
}

func parseSummaryRights(rows []tableRow, opts Options) []MajorSummaryRightEntry {
	merged := mergeContinuationRows(skipHeaderRows(rows, "순위번호"), opts.GuardContamination)

	var rights []MajorSummaryRightEntry
	for _, row := range merged {
		cells := row.Cells
		if len(cells) < 5 {
			continue
		}
		rank := CleanText(cells[0])
		if rank == "" || !digitStartRe.MatchString(rank) {
			continue
		}
		date, number := ExtractReceiptInfo(CleanText(cells[2]))
		entry := MajorSummaryRightEntry{
			RankNumber:          rank,
			RegistrationPurpose: CleanText(cells[1]),
			ReceiptDate:         date,
			ReceiptNumber:       number,
			TargetOwner:         strPtrOrNil(CleanText(cells[4])),
			IsCancelled:         row.IsCancelled,
		}
		parseSummaryRightDetail(&entry, CleanText(cells[3]))
		rights = append(rights, entry)
	}
	return rights
}

func parseSummaryRightDetail(entry *MajorSummaryRightEntry, text string) {
	if m := maxClaimSummaryRe.FindStringSubmatch(text); m != nil {
		entry.MaxClaimAmount = ParseAmount(m[1])
	}
	if m := bondSummaryRe.FindStringSubmatch(text); m != nil {
		entry.BondAmount = ParseAmount(m[1])
	}
	if m := depositSummaryRe.FindStringSubmatch(text); m != nil {
		entry.DepositAmount = ParseAmount(m[1])
	}
	if m := purposeSummaryRe.FindStringSubmatch(text); m != nil {
		entry.Purpose = strPtrOrNil(CleanText(m[1]))
	}
	if m := creditorSummaryRe.FindStringSubmatch(text); m != nil {
		entry.Creditor = &m[1]
	}
}
