package registry

// ToMap flattens the document into the JSON shape the extraction service
// serves. Absent optionals are explicit nils so the key set is stable across
// documents; the Section B detail variants flatten back into one flat entry.
func (d *Document) ToMap() map[string]any {
	sectionA := make([]map[string]any, 0, len(d.SectionA))
	activeA := 0
	for i := range d.SectionA {
		sectionA = append(sectionA, d.SectionA[i].toMap())
		if !d.SectionA[i].IsCancelled {
			activeA++
		}
	}
	sectionB := make([]map[string]any, 0, len(d.SectionB))
	activeB := 0
	for i := range d.SectionB {
		sectionB = append(sectionB, d.SectionB[i].toMap())
		if !d.SectionB[i].IsCancelled {
			activeB++
		}
	}

	tradeLists := make([]map[string]any, 0, len(d.TradeLists))
	for i := range d.TradeLists {
		tradeLists = append(tradeLists, d.TradeLists[i].toMap())
	}

	var summary any
	if d.MajorSummary != nil {
		summary = d.MajorSummary.toMap()
	}

	warnings := d.ParseWarnings
	if warnings == nil {
		warnings = []string{}
	}

	return map[string]any{
		"unique_number":    d.UniqueNumber,
		"property_type":    d.PropertyType,
		"property_address": d.PropertyAddress,
		"title_info":       d.TitleInfo.toMap(),
		"section_a":        sectionA,
		"section_b":        sectionB,
		"trade_lists":      tradeLists,
		"major_summary":    summary,
		"viewed_at":        strOrNil(d.ViewedAt),
		"issued_at":        strOrNil(d.IssuedAt),
		"raw_text":         d.RawText,
		"parse_warnings":   warnings,
		"parse_stats":      d.ParseStats,
		"parse_date":       d.ParseDate,

		"section_a_count":        len(d.SectionA),
		"section_b_count":        len(d.SectionB),
		"active_section_a_count": activeA,
		"active_section_b_count": activeB,
	}
}

func (t *TitleInfo) toMap() map[string]any {
	areas := make([]map[string]any, 0, len(t.Areas))
	for _, a := range t.Areas {
		areas = append(areas, map[string]any{
			"floor":       a.Floor,
			"area":        a.Area,
			"is_excluded": a.IsExcluded,
		})
	}
	landEntries := make([]map[string]any, 0, len(t.LandEntries))
	for _, e := range t.LandEntries {
		landEntries = append(landEntries, map[string]any{
			"display_number":  e.DisplayNumber,
			"receipt_date":    e.ReceiptDate,
			"location":        e.Location,
			"land_type":       e.LandType,
			"area":            e.Area,
			"cause_and_other": e.CauseAndOther,
			"is_cancelled":    e.IsCancelled,
		})
	}
	buildingEntries := make([]map[string]any, 0, len(t.BuildingEntries))
	for _, e := range t.BuildingEntries {
		buildingEntries = append(buildingEntries, map[string]any{
			"display_number":     e.DisplayNumber,
			"receipt_date":       e.ReceiptDate,
			"location_or_number": e.LocationOrNumber,
			"building_detail":    e.BuildingDetail,
			"cause_and_other":    e.CauseAndOther,
			"is_cancelled":       e.IsCancelled,
		})
	}
	exclusiveEntries := make([]map[string]any, 0, len(t.ExclusivePartEntries))
	for _, e := range t.ExclusivePartEntries {
		exclusiveEntries = append(exclusiveEntries, map[string]any{
			"display_number":  e.DisplayNumber,
			"receipt_date":    e.ReceiptDate,
			"building_number": e.BuildingNumber,
			"building_detail": e.BuildingDetail,
			"cause_and_other": e.CauseAndOther,
			"is_cancelled":    e.IsCancelled,
		})
	}
	landRightEntries := make([]map[string]any, 0, len(t.LandRightEntries))
	for _, e := range t.LandRightEntries {
		landRightEntries = append(landRightEntries, map[string]any{
			"display_number":  e.DisplayNumber,
			"location":        e.Location,
			"land_type":       e.LandType,
			"area":            e.Area,
			"cause_and_other": e.CauseAndOther,
		})
	}
	ratioEntries := make([]map[string]any, 0, len(t.LandRightRatioEntries))
	for _, e := range t.LandRightRatioEntries {
		ratioEntries = append(ratioEntries, map[string]any{
			"display_number":   e.DisplayNumber,
			"land_right_type":  e.LandRightType,
			"land_right_ratio": e.LandRightRatio,
			"cause_and_other":  e.CauseAndOther,
			"is_cancelled":     e.IsCancelled,
		})
	}

	return map[string]any{
		"unique_number":            t.UniqueNumber,
		"property_type":            t.PropertyType,
		"address":                  t.Address,
		"road_address":             strOrNil(t.RoadAddress),
		"building_name":            strOrNil(t.BuildingName),
		"structure":                strOrNil(t.Structure),
		"roof_type":                strOrNil(t.RoofType),
		"floors":                   t.Floors,
		"building_type":            strOrNil(t.BuildingType),
		"areas":                    areas,
		"land_right_ratio":         strOrNil(t.LandRightRatio),
		"land_right_area":          nil,
		"exclusive_area":           floatOrNil(t.ExclusiveArea),
		"total_floor_area":         t.TotalFloorArea,
		"land_type":                strOrNil(t.LandType),
		"land_area":                strOrNil(t.LandArea),
		"land_entries":             landEntries,
		"building_entries":         buildingEntries,
		"exclusive_part_entries":   exclusiveEntries,
		"land_right_entries":       landRightEntries,
		"land_right_ratio_entries": ratioEntries,
	}
}

func (e *SectionAEntry) toMap() map[string]any {
	owners := make([]map[string]any, 0, len(e.Owners))
	for _, o := range e.Owners {
		owners = append(owners, o.toMap())
	}
	return map[string]any{
		"rank_number":             e.RankNumber,
		"registration_type":       e.RegistrationType,
		"receipt_date":            e.ReceiptDate,
		"receipt_number":          e.ReceiptNumber,
		"registration_cause":      e.RegistrationCause,
		"registration_cause_date": strOrNil(e.RegistrationCauseDate),
		"owners":                  owners,
		"creditor":                creditorOrNil(e.Creditor),
		"claim_amount":            intOrNil(e.ClaimAmount),
		"is_cancelled":            e.IsCancelled,
		"cancelled_by_rank":       strOrNil(e.CancelledByRank),
		"cancellation_date":       strOrNil(e.CancellationDate),
		"cancellation_cause":      strOrNil(e.CancellationCause),
		"cancels_rank":            strOrNil(e.CancelsRank),
		"raw_text":                e.RawText,
		"remarks":                 strOrNil(e.Remarks),
	}
}

func (e *SectionBEntry) toMap() map[string]any {
	m := map[string]any{
		"rank_number":             e.RankNumber,
		"registration_type":       e.RegistrationType,
		"receipt_date":            e.ReceiptDate,
		"receipt_number":          e.ReceiptNumber,
		"registration_cause":      e.RegistrationCause,
		"registration_cause_date": strOrNil(e.RegistrationCauseDate),

		"max_claim_amount": nil,
		"debtor":           nil,
		"mortgagee":        nil,
		"deposit_amount":   nil,
		"monthly_rent":     nil,
		"lease_term":       nil,
		"lessee":           nil,
		"lease_area":       nil,
		"purpose":          nil,
		"scope":            nil,
		"duration":         nil,
		"land_rent":        nil,
		"bond_amount":      nil,

		"collateral_list":    strOrNil(e.CollateralList),
		"is_cancelled":       e.IsCancelled,
		"cancelled_by_rank":  strOrNil(e.CancelledByRank),
		"cancellation_date":  strOrNil(e.CancellationDate),
		"cancellation_cause": strOrNil(e.CancellationCause),
		"cancels_rank":       strOrNil(e.CancelsRank),
		"raw_text":           e.RawText,
		"remarks":            strOrNil(e.Remarks),
	}

	switch d := e.Detail.(type) {
	case MortgageDetail:
		m["max_claim_amount"] = intOrNil(d.MaxClaimAmount)
		m["debtor"] = ownerOrNil(d.Debtor)
		m["mortgagee"] = creditorOrNil(d.Mortgagee)
	case PledgeDetail:
		m["bond_amount"] = intOrNil(d.BondAmount)
		m["debtor"] = ownerOrNil(d.Debtor)
		m["mortgagee"] = creditorOrNil(d.Creditor)
	case LeaseDetail:
		m["deposit_amount"] = intOrNil(d.DepositAmount)
		m["monthly_rent"] = intOrNil(d.MonthlyRent)
		m["lease_area"] = strOrNil(d.LeaseArea)
		if d.Lessee != nil {
			m["lessee"] = map[string]any{
				"name":            d.Lessee.Name,
				"resident_number": strOrNil(d.Lessee.ResidentNumber),
				"address":         strOrNil(d.Lessee.Address),
			}
		}
		if d.LeaseTerm != nil {
			m["lease_term"] = map[string]any{
				"contract_date":              strOrNil(d.LeaseTerm.ContractDate),
				"resident_registration_date": strOrNil(d.LeaseTerm.ResidentRegistrationDate),
				"possession_start_date":      strOrNil(d.LeaseTerm.PossessionStartDate),
				"fixed_date":                 strOrNil(d.LeaseTerm.FixedDate),
			}
		}
	case SurfaceRightDetail:
		m["purpose"] = strOrNil(d.Purpose)
		m["scope"] = strOrNil(d.Scope)
		m["duration"] = strOrNil(d.Duration)
		m["land_rent"] = strOrNil(d.LandRent)
		m["mortgagee"] = creditorOrNil(d.Holder)
	}
	return m
}

func (o OwnerInfo) toMap() map[string]any {
	return map[string]any{
		"name":            o.Name,
		"resident_number": strOrNil(o.ResidentNumber),
		"address":         strOrNil(o.Address),
		"share":           strOrNil(o.Share),
		"role":            strOrNil(o.Role),
	}
}

func (t *TradeList) toMap() map[string]any {
	items := make([]map[string]any, 0, len(t.Items))
	for _, it := range t.Items {
		items = append(items, map[string]any{
			"serial_number":        it.SerialNumber,
			"property_description": it.PropertyDescription,
			"rank_number":          it.RankNumber,
			"registration_cause":   it.RegistrationCause,
			"correction_cause":     it.CorrectionCause,
		})
	}
	return map[string]any{
		"list_number":  t.ListNumber,
		"trade_amount": intOrNil(t.TradeAmount),
		"items":        items,
	}
}

func (s *MajorSummary) toMap() map[string]any {
	owners := make([]map[string]any, 0, len(s.Owners))
	for _, o := range s.Owners {
		owners = append(owners, map[string]any{
			"name":            o.Name,
			"resident_number": strOrNil(o.ResidentNumber),
			"final_share":     strOrNil(o.FinalShare),
			"address":         strOrNil(o.Address),
			"rank_number":     o.RankNumber,
		})
	}
	rights := make([]map[string]any, 0, len(s.Rights))
	for _, r := range s.Rights {
		rights = append(rights, map[string]any{
			"rank_number":          r.RankNumber,
			"registration_purpose": r.RegistrationPurpose,
			"receipt_date":         r.ReceiptDate,
			"receipt_number":       r.ReceiptNumber,
			"target_owner":         strOrNil(r.TargetOwner),
			"creditor":             strOrNil(r.Creditor),
			"max_claim_amount":     intOrNil(r.MaxClaimAmount),
			"bond_amount":          intOrNil(r.BondAmount),
			"deposit_amount":       intOrNil(r.DepositAmount),
			"purpose":              strOrNil(r.Purpose),
			"is_cancelled":         r.IsCancelled,
		})
	}
	return map[string]any{
		"property_type": s.PropertyType,
		"address":       s.Address,
		"unique_number": s.UniqueNumber,
		"owners":        owners,
		"rights":        rights,
	}
}

func strOrNil(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func intOrNil(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func floatOrNil(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func ownerOrNil(o *OwnerInfo) any {
	if o == nil {
		return nil
	}
	return o.toMap()
}

func creditorOrNil(c *CreditorInfo) any {
	if c == nil {
		return nil
	}
	return map[string]any{
		"name":            c.Name,
		"resident_number": strOrNil(c.ResidentNumber),
		"address":         strOrNil(c.Address),
	}
}
