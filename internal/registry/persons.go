package registry

import (
	"regexp"
	"strings"
)

var (
	// Address capture stops at legal-code references, list references, dates
	// and the next role keyword, so one person's address never swallows the
	// next person's data.
	addressStopRe = regexp.MustCompile(
		`(?:부동산|민법|상법|형법|세법|등기)\S*법|제\d+조|규정에\s*의하여|전산이기|` +
			`매매목록|공동담보목록|\d{4}년\s*\d{1,2}월\s*\d{1,2}일|` +
			`근저당권자|저당권자|채권자|채무자|소유자|공유자|권리자|` +
			`임차권자|전세권자|지상권자|가등기권자|수탁자|처분청`)

	provinceAddressRe = regexp.MustCompile(
		`((?:서울|부산|대구|인천|광주|대전|울산|세종|경기|강원|충청|전라|경상|제주)` +
			`(?:특별시|광역시|특별자치시|도|특별자치도)?` +
			`\S*(?:\s+\S+){1,8})`)
	districtAddressRe = regexp.MustCompile(`(\S+[군구시읍면동리]\s+\S+(?:\s+\S+){0,6})`)

	shareIntRe     = regexp.MustCompile(`(\d+)분의\s*(\d+)`)
	coOwnerRe      = regexp.MustCompile(`지분\s+\d+분의\s+\d+\s+(\S+)\s+(\d{6}-[\d*○●]{7})`)
	ownerWithIDRe  = regexp.MustCompile(`소유자\s+(\S+)\s+(\d{6}-[\d*○●]{7})`)
	ownerRe        = regexp.MustCompile(`소유자\s+(\S+)`)
	trusteeRe      = regexp.MustCompile(`수탁자\s+(\S+)`)
	provisionalRe  = regexp.MustCompile(`가등기권자\s+(?:지분\s+\d+분의\s+\d+\s+)?(\S+)`)
	creditorRe     = regexp.MustCompile(`채권자\s+(\S+)`)
	rightsHolderRe = regexp.MustCompile(`권리자\s+(\S+)`)
	agencyRe       = regexp.MustCompile(`처분청\s+(.+)`)

	tradeAmountRe    = regexp.MustCompile(`거래가액\s*금\s*([\d,]+)\s*원`)
	preservedRightRe = regexp.MustCompile(`피보전권리\s+(.+?)(?:채권자|금지|$)`)
)

// extractAddressAfter finds an address in the 200 runes after pos and
// returns it with any trailing remark text found beyond the stop pattern.
func extractAddressAfter(text string, pos int) (addr, remarks *string) {
	r := []rune(text)
	if pos > len(r) {
		return nil, nil
	}
	remaining := string(r[pos:min(pos+200, len(r))])

	if loc := addressStopRe.FindStringIndex(remaining); loc != nil {
		if rest := CleanText(remaining[loc[0]:]); rest != "" {
			remarks = &rest
		}
		remaining = strings.TrimRight(remaining[:loc[0]], " \t\n")
	}
	if m := provinceAddressRe.FindStringSubmatch(remaining); m != nil {
		a := CleanText(m[1])
		return &a, remarks
	}
	if m := districtAddressRe.FindStringSubmatch(remaining); m != nil {
		a := CleanText(m[1])
		return &a, remarks
	}
	return nil, remarks
}

// extractShareNear looks for a fractional share around pos; 단독소유 is kept
// as a literal.
func extractShareNear(text string, pos int) *string {
	r := []rune(text)
	lo := max(0, pos-100)
	hi := min(pos+200, len(r))
	nearby := string(r[lo:hi])
	if m := shareIntRe.FindStringSubmatch(nearby); m != nil {
		s := m[1] + "분의 " + m[2]
		return &s
	}
	if strings.Contains(nearby, "단독소유") {
		s := "단독소유"
		return &s
	}
	return nil
}

// runeIndex converts a regexp byte offset into a rune offset for the
// rune-windowed helpers above.
func runeIndex(s string, byteOff int) int {
	return len([]rune(s[:byteOff]))
}

// extractOwners fills the owners, creditor, claim amount and remarks of a
// section A entry from the merged detail and cause text.
func extractOwners(e *SectionAEntry, detail, cause string, opts Options) {
	full := detail + " " + cause

	role := func(name string) *string {
		if !opts.OwnerRoles {
			return nil
		}
		return strPtr(name)
	}
	setRemark := func(rem *string) {
		if opts.OwnerRoles && rem != nil && e.Remarks == nil {
			e.Remarks = rem
		}
	}

	// Co-owners with explicit shares, possibly several per entry.
	for _, m := range coOwnerRe.FindAllStringSubmatchIndex(full, -1) {
		name := full[m[2]:m[3]]
		rn := full[m[4]:m[5]]
		addr, rem := extractAddressAfter(full, runeIndex(full, m[1]))
		share := extractShareNear(full, runeIndex(full, m[0]))
		e.Owners = append(e.Owners, OwnerInfo{
			Name: name, ResidentNumber: &rn, Address: addr, Share: share, Role: role("공유자"),
		})
		setRemark(rem)
	}

	// Sole owner with an inline ID number.
	if len(e.Owners) == 0 {
		for _, m := range ownerWithIDRe.FindAllStringSubmatchIndex(full, -1) {
			name := full[m[2]:m[3]]
			rn := full[m[4]:m[5]]
			addr, rem := extractAddressAfter(full, runeIndex(full, m[1]))
			share := extractShareNear(full, runeIndex(full, m[0]))
			e.Owners = append(e.Owners, OwnerInfo{
				Name: name, ResidentNumber: &rn, Address: addr, Share: share, Role: role("소유자"),
			})
			setRemark(rem)
		}
	}

	// Owner without an ID pattern (corporations, heavily redacted copies).
	if len(e.Owners) == 0 {
		if m := ownerRe.FindStringSubmatchIndex(full); m != nil {
			name := full[m[2]:m[3]]
			addr, rem := extractAddressAfter(full, runeIndex(full, m[1]))
			e.Owners = append(e.Owners, OwnerInfo{
				Name:           name,
				ResidentNumber: ParseResidentNumber(full),
				Address:        addr,
				Share:          extractShareNear(full, runeIndex(full, m[0])),
				Role:           role("소유자"),
			})
			setRemark(rem)
		}
	}

	if len(e.Owners) == 0 {
		if m := trusteeRe.FindStringSubmatch(full); m != nil {
			e.Owners = append(e.Owners, OwnerInfo{
				Name:           m[1],
				ResidentNumber: ParseResidentNumber(full),
				Role:           role("수탁자"),
			})
		}
	}

	// Provisional-rights holder; the share may precede the name.
	if len(e.Owners) == 0 {
		if m := provisionalRe.FindStringSubmatchIndex(full); m != nil {
			name := full[m[2]:m[3]]
			addr, rem := extractAddressAfter(full, runeIndex(full, m[1]))
			e.Owners = append(e.Owners, OwnerInfo{
				Name:           name,
				ResidentNumber: ParseResidentNumber(full[m[0]:]),
				Address:        addr,
				Role:           role("가등기권자"),
			})
			setRemark(rem)
		}
	}

	if m := creditorRe.FindStringSubmatchIndex(full); m != nil {
		name := full[m[2]:m[3]]
		cr := &CreditorInfo{Name: name, ResidentNumber: ParseResidentNumber(full[m[0]:])}
		if opts.OwnerRoles {
			cr.Address, _ = extractAddressAfter(full, runeIndex(full, m[1]))
		}
		e.Creditor = cr
	}
	if e.Creditor == nil {
		if m := rightsHolderRe.FindStringSubmatchIndex(full); m != nil {
			name := full[m[2]:m[3]]
			cr := &CreditorInfo{Name: name, ResidentNumber: ParseResidentNumber(full[m[0]:])}
			if opts.OwnerRoles {
				cr.Address, _ = extractAddressAfter(full, runeIndex(full, m[1]))
				if am := agencyRe.FindStringSubmatch(full[m[1]:]); am != nil && e.Remarks == nil {
					e.Remarks = strPtr("처분청 " + CleanText(am[1]))
				}
			}
			e.Creditor = cr
		}
	}

	e.ClaimAmount = ParseAmount(full)
	if e.ClaimAmount == nil {
		if m := tradeAmountRe.FindStringSubmatch(full); m != nil {
			e.ClaimAmount = parseCommaInt(m[1])
		}
	}

	// 피보전권리 doubles as the cause on attachment entries that carry none.
	if m := preservedRightRe.FindStringSubmatch(full); m != nil && e.RegistrationCause == "" {
		e.RegistrationCause = CleanText(m[1])
	}
}

func parseCommaInt(s string) *int64 {
	return ParseAmount("금" + s + "원")
}
