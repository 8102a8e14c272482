package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractOwnersSole(t *testing.T) {
	e := SectionAEntry{}
	detail := "소유자 김철수 650603-******* 서울특별시 강남구 테헤란로 123"
	extractOwners(&e, detail, "2019년12월1일 매매", V101Options())

	require.Len(t, e.Owners, 1)
	o := e.Owners[0]
	assert.Equal(t, "김철수", o.Name)
	require.NotNil(t, o.ResidentNumber)
	assert.Equal(t, "650603-*******", *o.ResidentNumber)
	require.NotNil(t, o.Address)
	assert.Equal(t, "서울특별시 강남구 테헤란로 123", *o.Address)
	require.NotNil(t, o.Role)
	assert.Equal(t, "소유자", *o.Role)
}

func TestExtractOwnersCoOwners(t *testing.T) {
	e := SectionAEntry{}
	detail := "공유자 지분 2분의 1 김철수 650603-1234567 서울특별시 강남구 역삼동 " +
		"지분 2분의 1 이영희 700101-2345678 부산광역시 해운대구 우동"
	extractOwners(&e, detail, "", V101Options())

	require.Len(t, e.Owners, 2)
	assert.Equal(t, "김철수", e.Owners[0].Name)
	assert.Equal(t, "이영희", e.Owners[1].Name)
	require.NotNil(t, e.Owners[0].Share)
	assert.Equal(t, "2분의 1", *e.Owners[0].Share)
	require.NotNil(t, e.Owners[1].Role)
	assert.Equal(t, "공유자", *e.Owners[1].Role)
}

func TestExtractOwnersRolesDisabled(t *testing.T) {
	e := SectionAEntry{}
	extractOwners(&e, "소유자 김철수 650603-1234567", "", V100Options())
	require.Len(t, e.Owners, 1)
	assert.Nil(t, e.Owners[0].Role)
}

func TestExtractOwnersCreditorAndAmount(t *testing.T) {
	e := SectionAEntry{}
	detail := "청구금액 금 12,000,000 원 채권자 주식회사카드 110-81-12345 서울특별시 중구"
	extractOwners(&e, detail, "", V101Options())

	assert.Empty(t, e.Owners)
	require.NotNil(t, e.Creditor)
	assert.Equal(t, "주식회사카드", e.Creditor.Name)
	require.NotNil(t, e.Creditor.ResidentNumber)
	assert.Equal(t, "110-81-12345", *e.Creditor.ResidentNumber)
	require.NotNil(t, e.ClaimAmount)
	assert.Equal(t, int64(12000000), *e.ClaimAmount)
}

func TestExtractOwnersPreservedRightAsCause(t *testing.T) {
	e := SectionAEntry{}
	detail := "피보전권리 소유권이전등기청구권 채권자 김채권"
	extractOwners(&e, detail, "", V101Options())
	assert.Equal(t, "소유권이전등기청구권", e.RegistrationCause)
}

func TestExtractAddressAfter(t *testing.T) {
	text := "소유자 김철수 서울특별시 강남구 테헤란로 123 2019년 12월 1일 전산이기"
	addr, remarks := extractAddressAfter(text, runeIndex(text, len("소유자 김철수")))
	require.NotNil(t, addr)
	assert.Equal(t, "서울특별시 강남구 테헤란로 123", *addr)
	require.NotNil(t, remarks)
	assert.Contains(t, *remarks, "전산이기")
}

func TestExtractAddressAfterDistrictFallback(t *testing.T) {
	text := "수원시 팔달구 매산로 25"
	addr, _ := extractAddressAfter(text, 0)
	require.NotNil(t, addr)
	assert.Equal(t, "수원시 팔달구 매산로 25", *addr)
}

func TestExtractShareNear(t *testing.T) {
	s := extractShareNear("지분 3분의 1 김철수", 0)
	require.NotNil(t, s)
	assert.Equal(t, "3분의 1", *s)

	s = extractShareNear("단독소유 김철수", 0)
	require.NotNil(t, s)
	assert.Equal(t, "단독소유", *s)

	assert.Nil(t, extractShareNear("지분 표시 없음", 0))
}
