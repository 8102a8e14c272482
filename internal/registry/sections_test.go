package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junsik/pdf-extractor/internal/pdf"
)

func TestClassifierDetect(t *testing.T) {
	c := newClassifier(v101SectionPatterns)

	tests := []struct {
		text string
		want string
	}{
		{"【 표 제 부 】 (토지의 표시)", sectionTitleLand},
		{"【 표 제 부 】 (1동의 건물의 표시)", sectionTitleBuilding},
		{"(전유부분의 건물의 표시)", sectionTitleExclusive},
		// Contains 토지의 표시, but the land-right pattern must win.
		{"(대지권의 목적인 토지의 표시)", sectionLandRightLand},
		{"(대지권의 표시)", sectionLandRightRatio},
		{"【 갑 구 】 (소유권에 관한 사항)", sectionA},
		{"【 을 구 】 (소유권 이외의 권리에 관한 사항)", sectionB},
		{"주요 등기사항 요약 (참고용)", sectionMajorSummary},
		{"매 매 목 록", sectionTradeList},
		{"공동담보목록", sectionSkip},
		{"매각물건목록", sectionSkip},
		{"등기사항전부증명서", ""},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, c.detect(tc.text), tc.text)
	}
}

func TestClassifierDetectV100RequiresTitlePrefix(t *testing.T) {
	c := newClassifier(v100SectionPatterns)

	// The earlier generation does not recognize a bare title header.
	assert.Equal(t, "", c.detect("(토지의 표시)"))
	assert.Equal(t, sectionTitleLand, c.detect("【 표 제 부 】 (토지의 표시)"))
	// It skips the summary pages instead of parsing them.
	assert.Equal(t, sectionSkip, c.detect("주요 등기사항 요약 (참고용)"))
}

func TestClassifyByColumns(t *testing.T) {
	c := newClassifier(v101SectionPatterns)

	tests := []struct {
		name    string
		cells   []string
		current string
		want    string
	}{
		{
			"summary owners",
			[]string{"등기명의인", "(주민)등록번호", "최종지분", "주소", "순위번호"},
			"", sectionSummaryOwners,
		},
		{
			"summary rights",
			[]string{"순위번호", "등기목적", "접수정보", "주요등기사항", "대상소유자"},
			"", sectionSummaryRights,
		},
		{
			"rights inside summary context",
			[]string{"순위번호", "등기목적", "접수정보"},
			sectionMajorSummary, sectionSummaryRights,
		},
		{
			"land title",
			[]string{"표시번호", "접수", "소재지번", "지목", "면적", "등기원인 및 기타사항"},
			"", sectionTitleLand,
		},
		{
			"building title",
			[]string{"표시번호", "접수", "소재지번 및 건물번호", "건물내역", "등기원인 및 기타사항"},
			"", sectionTitleBuilding,
		},
		{
			"plain data row",
			[]string{"1", "소유권이전", "2020년1월5일"},
			"", "",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, c.classifyByColumns(tc.cells, tc.current))
		})
	}
}

func TestDetectNearTable(t *testing.T) {
	c := newClassifier(v101SectionPatterns)
	table := pdf.Table{X0: 50, Y0: 400, X1: 500, Y1: 700}
	page := &pdf.Page{
		Runs: []pdf.TextRun{
			{Text: "【 갑 구 】", X: 200, Y: 720},
			{Text: "(소유권에 관한 사항)", X: 280, Y: 720},
			// Far above the band: ignored.
			{Text: "매매목록", X: 200, Y: 900},
		},
	}
	assert.Equal(t, sectionA, c.detectNearTable(page, table))

	empty := &pdf.Page{}
	assert.Equal(t, "", c.detectNearTable(empty, table))
}

func TestInferMajorSummaryTables(t *testing.T) {
	rows := []tableRow{
		{Cells: []string{"등기명의인", "(주민)등록번호", "최종지분", "주소", "순위번호"}},
		{Cells: []string{"김철수 (소유자)", "650603-*******", "단독소유", "서울특별시 강남구", "1"}},
		{Cells: []string{"순위번호", "등기목적", "접수정보", "주요등기사항", "대상소유자"}},
		{Cells: []string{"3", "근저당권설정", "2022년5월1일 제999호", "채권최고액 금360,000,000원", "김철수"}},
	}
	owners, rights := inferMajorSummaryTables(rows)
	require.Len(t, owners, 2)
	require.Len(t, rights, 2)
	assert.Equal(t, "김철수 (소유자)", owners[1].Cells[0])
	assert.Equal(t, "3", rights[1].Cells[0])
}

func TestInferMajorSummaryTablesWeakFallback(t *testing.T) {
	// No surviving headers: fall back to per-row features and keep only the
	// rows that carry a marker.
	rows := []tableRow{
		{Cells: []string{"김철수 등기명의인"}},
		{Cells: []string{"등기목적 근저당권설정"}},
		{Cells: []string{"전혀 다른 내용"}},
	}
	owners, rights := inferMajorSummaryTables(rows)
	assert.Len(t, owners, 1)
	assert.Len(t, rights, 1)
}
