package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkipHeaderRows(t *testing.T) {
	rows := []tableRow{
		{Cells: []string{"【 갑 구 】", "", "", "", ""}},
		{Cells: []string{"순위번호", "등기목적", "접수", "등기원인", "권리자 및 기타사항"}},
		{Cells: []string{"", "", "", "", ""}},
		{Cells: []string{"1", "소유권보존", "", "", "소유자 김철수"}},
	}
	out := skipHeaderRows(rows, "순위번호")
	require.Len(t, out, 1)
	assert.Equal(t, "1", out[0].Cells[0])
}

func TestMergeContinuationRows(t *testing.T) {
	rows := []tableRow{
		{Cells: []string{"1", "소유권이전", "접수1", "원인1", "소유자 김철수"}},
		{Cells: []string{"", "", "", "", "서울특별시 강남구"}, IsCancelled: true},
		{Cells: []string{"2", "근저당권설정", "접수2", "원인2", "채권최고액"}},
	}
	merged := mergeContinuationRows(rows, false)
	require.Len(t, merged, 2)
	assert.Equal(t, "소유자 김철수\n서울특별시 강남구", merged[0].Cells[4])
	// The continuation's strike propagates to the logical row.
	assert.True(t, merged[0].IsCancelled)
	assert.Equal(t, "2", merged[1].Cells[0])
	assert.False(t, merged[1].IsCancelled)
}

func TestMergeContinuationRowsLeadingOrphan(t *testing.T) {
	// A continuation with nothing before it is dropped.
	rows := []tableRow{
		{Cells: []string{"", "이어지는 내용", "", "", ""}},
		{Cells: []string{"1", "소유권보존", "", "", ""}},
	}
	merged := mergeContinuationRows(rows, false)
	require.Len(t, merged, 1)
	assert.Equal(t, "소유권보존", merged[0].Cells[1])
}

func TestMergeContinuationRowsContaminationGuard(t *testing.T) {
	rows := []tableRow{
		{Cells: []string{"1", "소유권이전", "접수1", "원인1", "소유자 김철수"}},
		{Cells: []string{"등기명의인 (주민)등록번호", "", "", "", ""}},
	}

	guarded := mergeContinuationRows(rows, true)
	require.Len(t, guarded, 1)
	assert.Equal(t, "소유자 김철수", guarded[0].Cells[4])

	// Without the guard the foreign header merges into the first cell.
	unguarded := mergeContinuationRows(rows, false)
	require.Len(t, unguarded, 1)
	assert.Contains(t, unguarded[0].Cells[0], "등기명의인")
}

func TestStripRowWatermarkFragments(t *testing.T) {
	cells := []string{"1", "소유권이전\n열", "람\n2023년1월5일", "용"}
	out := stripRowWatermarkFragments(cells)
	assert.Equal(t, []string{"1", "소유권이전", "2023년1월5일", ""}, out)
}

func TestStripRowWatermarkFragmentsNeedsTwoTokens(t *testing.T) {
	// A single stray syllable could be legitimate text: leave it alone.
	cells := []string{"1", "열", "2023년1월5일"}
	assert.Equal(t, cells, stripRowWatermarkFragments(cells))
}
