package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() *Document {
	max := int64(360000000)
	deposit := int64(200000000)
	return &Document{
		UniqueNumber:    "1101-2006-000001",
		PropertyType:    PropertyAggregateBuilding,
		PropertyAddress: "서울특별시 강남구 역삼동 735",
		TitleInfo: TitleInfo{
			UniqueNumber: "1101-2006-000001",
			PropertyType: PropertyAggregateBuilding,
			Areas: []FloorArea{
				{Floor: "1층", Area: 459.98},
				{Floor: "2층", Area: 459.98},
			},
		},
		SectionA: []SectionAEntry{
			{
				RankNumber:       "1",
				RegistrationType: "소유권이전",
				Owners: []OwnerInfo{{
					Name:           "김철수",
					ResidentNumber: strPtr("650603-*******"),
					Address:        strPtr("서울특별시 강남구"),
				}},
			},
			{
				RankNumber:       "2",
				RegistrationType: "1번소유권이전등기말소",
				Cancellation:     Cancellation{CancelsRank: strPtr("1")},
			},
		},
		SectionB: []SectionBEntry{
			{
				RankNumber:       "1",
				RegistrationType: "근저당권설정",
				Detail: MortgageDetail{
					MaxClaimAmount: &max,
					Mortgagee:      &CreditorInfo{Name: "주식회사국민은행"},
				},
				Cancellation: Cancellation{IsCancelled: true},
			},
			{
				RankNumber:       "2",
				RegistrationType: "주택임차권",
				Detail: LeaseDetail{
					DepositAmount: &deposit,
					Lessee:        &LesseeInfo{Name: "이몽룡"},
				},
			},
		},
		MajorSummary: &MajorSummary{
			PropertyType: "집합건물",
			Owners: []MajorSummaryOwnerEntry{{
				Name:           "김철수",
				ResidentNumber: strPtr("650603-*******"),
				Address:        strPtr("서울특별시 강남구 테헤란로 123"),
				RankNumber:     "1",
			}},
			Rights: []MajorSummaryRightEntry{
				{RankNumber: "3", RegistrationPurpose: "근저당권설정"},
				{RankNumber: "4", RegistrationPurpose: "전세권설정"},
			},
		},
		ParseDate: "2026-08-25T10:00:00Z",
	}
}

func TestDocumentToMapCounts(t *testing.T) {
	m := sampleDocument().ToMap()

	assert.Equal(t, 2, m["section_a_count"])
	assert.Equal(t, 2, m["section_b_count"])
	assert.Equal(t, 2, m["active_section_a_count"])
	assert.Equal(t, 1, m["active_section_b_count"])
	assert.Equal(t, []string{}, m["parse_warnings"])
	assert.Nil(t, m["viewed_at"])
}

func TestDocumentToMapStableKeys(t *testing.T) {
	m := sampleDocument().ToMap()

	title, ok := m["title_info"].(map[string]any)
	require.True(t, ok)
	// Absent optionals serialize as explicit nils, never missing keys.
	for _, key := range []string{
		"road_address", "building_name", "structure", "roof_type",
		"land_right_ratio", "land_right_area", "exclusive_area",
		"land_type", "land_area",
	} {
		v, present := title[key]
		assert.True(t, present, key)
		assert.Nil(t, v, key)
	}
}

func TestSectionBDetailFlattening(t *testing.T) {
	m := sampleDocument().ToMap()
	entries, ok := m["section_b"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, entries, 2)

	mortgage := entries[0]
	assert.Equal(t, int64(360000000), mortgage["max_claim_amount"])
	cr, ok := mortgage["mortgagee"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "주식회사국민은행", cr["name"])
	assert.Nil(t, mortgage["deposit_amount"])
	assert.Nil(t, mortgage["lessee"])

	lease := entries[1]
	assert.Equal(t, int64(200000000), lease["deposit_amount"])
	assert.Nil(t, lease["max_claim_amount"])
	assert.Nil(t, lease["mortgagee"])
	lessee, ok := lease["lessee"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "이몽룡", lessee["name"])
}

func TestPledgeSerializesCreditorAsMortgagee(t *testing.T) {
	bond := int64(100000000)
	e := SectionBEntry{
		RankNumber:       "1-1",
		RegistrationType: "근저당권부채권질권설정",
		Detail: PledgeDetail{
			BondAmount: &bond,
			Creditor:   &CreditorInfo{Name: "주식회사저축은행"},
		},
	}
	m := e.toMap()
	assert.Equal(t, int64(100000000), m["bond_amount"])
	cr, ok := m["mortgagee"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "주식회사저축은행", cr["name"])
}

func TestMaskForDemo(t *testing.T) {
	data := sampleDocument().ToMap()
	masked := MaskForDemo(data)

	title := masked["title_info"].(map[string]any)
	assert.Len(t, title["areas"].([]map[string]any), 1)

	sectionA := masked["section_a"].([]map[string]any)
	require.Len(t, sectionA, 1)
	owner := sectionA[0]["owners"].([]map[string]any)[0]
	assert.Equal(t, "김*수", owner["name"])
	assert.Equal(t, "******-*******", owner["resident_number"])
	assert.Equal(t, "***", owner["address"])

	sectionB := masked["section_b"].([]map[string]any)
	require.Len(t, sectionB, 1)
	assert.Nil(t, sectionB[0]["max_claim_amount"])
	assert.Nil(t, sectionB[0]["mortgagee"])

	summary := masked["major_summary"].(map[string]any)
	owners := summary["owners"].([]map[string]any)
	require.Len(t, owners, 1)
	assert.Equal(t, "김*", owners[0]["name"])
	assert.Equal(t, "******", owners[0]["resident_number"])
	assert.Equal(t, "서울특별시...", owners[0]["address"])
	assert.Len(t, summary["rights"].([]map[string]any), 1)
}

func TestMaskForDemoLeavesOriginalIntact(t *testing.T) {
	data := sampleDocument().ToMap()
	_ = MaskForDemo(data)

	sectionA := data["section_a"].([]map[string]any)
	assert.Len(t, sectionA, 2)
	owner := sectionA[0]["owners"].([]map[string]any)[0]
	assert.Equal(t, "김철수", owner["name"])
}

func TestMaskName(t *testing.T) {
	assert.Equal(t, "김*수", maskName("김철수"))
	assert.Equal(t, "김*", maskName("김수"))
	assert.Equal(t, "남***이", maskName("남궁호랑이"))
}
