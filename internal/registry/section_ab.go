package registry

import (
	"regexp"
	"strings"
)

var (
	bracketPropertyRe = regexp.MustCompile(`^\[(?:토지|건물)\]`)

	maxClaimRe   = regexp.MustCompile(`채권최고액\s*금\s*([\d,]+)\s*원`)
	bondRe       = regexp.MustCompile(`채권액\s*금\s*([\d,]+)\s*원`)
	depositRe    = regexp.MustCompile(`임차보증금\s*금\s*([\d,]+)\s*원`)
	jeonseRe     = regexp.MustCompile(`전세금\s*금\s*([\d,]+)\s*원`)
	monthlyRe    = regexp.MustCompile(`차\s*임\s*금?\s*([\d,]+)\s*원`)
	debtorRe     = regexp.MustCompile(`채무자\s+(\S+)`)
	mortgageeRe  = regexp.MustCompile(`근저당권자\s+(\S+)`)
	lesseeRe     = regexp.MustCompile(`임차권자\s+(\S+)`)
	surfaceRe    = regexp.MustCompile(`지상권자\s+(\S+)`)
	collateralRe = regexp.MustCompile(`공동담보목록\s+(\S+)`)
	leaseAreaRe  = regexp.MustCompile(`범\s*위\s+(.+?)(?:존속|임대차|임차권자|$)`)

	contractDateRe = regexp.MustCompile(`임대차계약일자\s*(\d{4}년\s*\d+월\s*\d+일)`)
	fixedDateRe    = regexp.MustCompile(`확정일자\s*(\d{4}년\s*\d+월\s*\d+일)`)

	purposeFieldRe  = regexp.MustCompile(`목\s*적\s+(.+?)(?:범\s*위|존속|지\s*료|$)`)
	scopeFieldRe    = regexp.MustCompile(`범\s*위\s+(.+?)(?:존속|지\s*료|지상권자|$)`)
	durationFieldRe = regexp.MustCompile(`존속기간\s+(.+?)(?:지\s*료|지상권자|$)`)
	landRentRe      = regexp.MustCompile(`지\s*료\s+(\S+)`)

	// Guards against reading the mortgagee's ID number as the debtor's.
	roleBoundaryRe = regexp.MustCompile(`근저당권자|저당권자|채권자|권리자|전세권자|임차권자|지상권자`)
)

// listBreak reports a rank cell that actually starts trade-list or summary
// data appended to the same table stream; everything after it belongs to
// another section.
func listBreak(rank string) bool {
	return strings.Contains(rank, "목록번호") ||
		strings.Contains(rank, "거래가액") ||
		strings.Contains(rank, "등기명의인")
}

// parseSectionA turns merged 갑구 rows into ownership entries.
func parseSectionA(rows []tableRow, opts Options) []SectionAEntry {
	var entries []SectionAEntry
	merged := mergeContinuationRows(skipHeaderRows(rows, "순위번호"), opts.GuardContamination)

	for _, row := range merged {
		if len(row.Cells) < 5 {
			continue
		}
		rank := CleanText(row.Cells[0])
		if rank == "" || !digitStartRe.MatchString(rank) {
			continue
		}
		if listBreak(rank) {
			break
		}
		purpose := CleanText(row.Cells[1])
		if bracketPropertyRe.MatchString(purpose) {
			continue
		}

		receiptText := CleanText(row.Cells[2])
		causeText := CleanText(row.Cells[3])
		detailText := CleanText(row.Cells[4])

		receiptDate, receiptNumber := ExtractReceiptInfo(receiptText)
		e := SectionAEntry{
			RankNumber:       firstLine(rank),
			RegistrationType: classifyRegType(purpose, opts.TypeVocabA),
			ReceiptDate:      receiptDate,
			ReceiptNumber:    receiptNumber,
			Cancellation:     Cancellation{IsCancelled: row.IsCancelled},
			RawText:          purpose + " " + receiptText + " " + causeText + " " + detailText,
		}
		e.RegistrationCause = extractCause(causeText, opts)
		e.RegistrationCauseDate = ParseKoreanDate(causeText)

		extractOwners(&e, detailText, causeText, opts)

		// Entries without right holders (name/address corrections) keep
		// their detail text as remarks.
		if len(e.Owners) == 0 && e.Creditor == nil && e.Remarks == nil && detailText != "" {
			e.Remarks = &detailText
		}

		e.CancelsRank = extractCancelsRank(strings.ReplaceAll(purpose, " ", ""))
		entries = append(entries, e)
	}
	return entries
}

// parseSectionB turns merged 을구 rows into encumbrance entries with their
// category detail payload.
func parseSectionB(rows []tableRow, opts Options) []SectionBEntry {
	var entries []SectionBEntry
	merged := mergeContinuationRows(skipHeaderRows(rows, "순위번호"), opts.GuardContamination)

	for _, row := range merged {
		if len(row.Cells) < 5 {
			continue
		}
		rank := CleanText(row.Cells[0])
		if rank == "" || !digitStartRe.MatchString(rank) {
			continue
		}
		if listBreak(rank) {
			break
		}
		purpose := CleanText(row.Cells[1])
		if bracketPropertyRe.MatchString(purpose) {
			continue
		}

		receiptText := CleanText(row.Cells[2])
		causeText := CleanText(row.Cells[3])
		detailText := CleanText(row.Cells[4])

		receiptDate, receiptNumber := ExtractReceiptInfo(receiptText)
		e := SectionBEntry{
			RankNumber:       firstLine(rank),
			RegistrationType: classifyRegType(purpose, typeVocabB),
			ReceiptDate:      receiptDate,
			ReceiptNumber:    receiptNumber,
			Cancellation:     Cancellation{IsCancelled: row.IsCancelled},
			RawText:          purpose + " " + receiptText + " " + causeText + " " + detailText,
		}
		e.RegistrationCause = extractCause(causeText, opts)
		e.RegistrationCauseDate = ParseKoreanDate(causeText)

		full := detailText + " " + causeText
		e.Detail = extractSectionBDetail(e.RegistrationType, full, opts)
		if m := collateralRe.FindStringSubmatch(full); m != nil {
			e.CollateralList = &m[1]
		}

		e.CancelsRank = extractCancelsRank(strings.ReplaceAll(purpose, " ", ""))
		entries = append(entries, e)
	}
	return entries
}

// detailCategory picks the payload variant from the registration type,
// falling back to content keywords for unclassified types.
func detailCategory(regType, full string) string {
	switch {
	case strings.Contains(regType, "질권"):
		return "pledge"
	case strings.Contains(regType, "근저당") || strings.Contains(regType, "저당권"):
		return "mortgage"
	case strings.Contains(regType, "전세권") || strings.Contains(regType, "임차권"):
		return "lease"
	case strings.Contains(regType, "지상권"):
		return "surface_right"
	}
	switch {
	case maxClaimRe.MatchString(full):
		return "mortgage"
	case depositRe.MatchString(full) || jeonseRe.MatchString(full):
		return "lease"
	case surfaceRe.MatchString(full):
		return "surface_right"
	case bondRe.MatchString(full):
		return "pledge"
	}
	return ""
}

func extractSectionBDetail(regType, full string, opts Options) SectionBDetail {
	switch detailCategory(regType, full) {
	case "mortgage":
		return extractMortgage(full, opts)
	case "pledge":
		return extractPledge(full, opts)
	case "lease":
		return extractLease(full)
	case "surface_right":
		return extractSurfaceRight(full, opts)
	}
	return nil
}

func extractMortgage(full string, opts Options) SectionBDetail {
	d := MortgageDetail{}
	if m := maxClaimRe.FindStringSubmatch(full); m != nil {
		d.MaxClaimAmount = parseCommaInt(m[1])
	}
	d.Debtor = extractDebtor(full, opts)
	if m := mortgageeRe.FindStringSubmatchIndex(full); m != nil {
		d.Mortgagee = extractCreditorAt(full, m, opts)
	}
	if d.Mortgagee == nil {
		if m := creditorRe.FindStringSubmatchIndex(full); m != nil {
			d.Mortgagee = extractCreditorAt(full, m, opts)
		}
	}
	if d.MaxClaimAmount == nil && d.Debtor == nil && d.Mortgagee == nil {
		return nil
	}
	return d
}

func extractPledge(full string, opts Options) SectionBDetail {
	d := PledgeDetail{}
	if m := bondRe.FindStringSubmatch(full); m != nil {
		d.BondAmount = parseCommaInt(m[1])
	}
	d.Debtor = extractDebtor(full, opts)
	if m := creditorRe.FindStringSubmatchIndex(full); m != nil {
		d.Creditor = extractCreditorAt(full, m, opts)
	}
	if d.BondAmount == nil && d.Debtor == nil && d.Creditor == nil {
		return nil
	}
	return d
}

func extractLease(full string) SectionBDetail {
	d := LeaseDetail{}
	if m := depositRe.FindStringSubmatch(full); m != nil {
		d.DepositAmount = parseCommaInt(m[1])
	}
	if d.DepositAmount == nil {
		if m := jeonseRe.FindStringSubmatch(full); m != nil {
			d.DepositAmount = parseCommaInt(m[1])
		}
	}
	if m := monthlyRe.FindStringSubmatch(full); m != nil {
		d.MonthlyRent = parseCommaInt(m[1])
	}
	if m := lesseeRe.FindStringSubmatchIndex(full); m != nil {
		d.Lessee = &LesseeInfo{
			Name:           full[m[2]:m[3]],
			ResidentNumber: ParseResidentNumber(full[m[0]:]),
		}
	}
	if strings.Contains(full, "임대차계약일자") || strings.Contains(full, "확정일자") {
		lt := &LeaseTermInfo{}
		if m := contractDateRe.FindStringSubmatch(full); m != nil {
			lt.ContractDate = &m[1]
		}
		if m := fixedDateRe.FindStringSubmatch(full); m != nil {
			lt.FixedDate = &m[1]
		}
		d.LeaseTerm = lt
	}
	if m := leaseAreaRe.FindStringSubmatch(full); m != nil {
		if a := CleanText(m[1]); a != "" {
			d.LeaseArea = &a
		}
	}
	if d.DepositAmount == nil && d.MonthlyRent == nil && d.Lessee == nil && d.LeaseTerm == nil {
		return nil
	}
	return d
}

func extractSurfaceRight(full string, opts Options) SectionBDetail {
	d := SurfaceRightDetail{}
	if m := purposeFieldRe.FindStringSubmatch(full); m != nil {
		if v := CleanText(m[1]); v != "" {
			d.Purpose = &v
		}
	}
	if m := scopeFieldRe.FindStringSubmatch(full); m != nil {
		if v := CleanText(m[1]); v != "" {
			d.Scope = &v
		}
	}
	if m := durationFieldRe.FindStringSubmatch(full); m != nil {
		if v := CleanText(m[1]); v != "" {
			d.Duration = &v
		}
	}
	if m := landRentRe.FindStringSubmatch(full); m != nil {
		d.LandRent = &m[1]
	}
	if m := surfaceRe.FindStringSubmatchIndex(full); m != nil {
		d.Holder = extractCreditorAt(full, m, opts)
	}
	if d.Purpose == nil && d.Scope == nil && d.Duration == nil && d.LandRent == nil && d.Holder == nil {
		return nil
	}
	return d
}

// extractDebtor reads the debtor, bounding the ID-number search at the next
// role keyword.
func extractDebtor(full string, opts Options) *OwnerInfo {
	m := debtorRe.FindStringSubmatchIndex(full)
	if m == nil {
		return nil
	}
	segment := full[m[0]:]
	if opts.OwnerRoles {
		if b := roleBoundaryRe.FindStringIndex(segment); b != nil {
			segment = segment[:b[0]]
		}
	}
	d := &OwnerInfo{
		Name:           full[m[2]:m[3]],
		ResidentNumber: ParseResidentNumber(segment),
	}
	d.Address, _ = extractAddressAfter(full, runeIndex(full, m[1]))
	return d
}

// extractCreditorAt builds a creditor from a located role-keyword match.
func extractCreditorAt(full string, m []int, opts Options) *CreditorInfo {
	cr := &CreditorInfo{
		Name:           full[m[2]:m[3]],
		ResidentNumber: ParseResidentNumber(full[m[0]:]),
	}
	if opts.OwnerRoles {
		cr.Address, _ = extractAddressAfter(full, runeIndex(full, m[1]))
	}
	return cr
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
