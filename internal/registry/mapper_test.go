package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyTextCancellationsFromCause(t *testing.T) {
	// No 말소 in the type, but a cancelling cause plus a rank reference.
	entries := []SectionBEntry{
		{RankNumber: "1", RegistrationType: "근저당권설정"},
		{RankNumber: "2", RegistrationType: "1번근저당권설정등기변경", RegistrationCause: "해지"},
	}
	ce := sectionBAsCancelEntries(entries)
	applyTextCancellations(ce)

	require.NotNil(t, entries[1].CancelsRank)
	assert.Equal(t, "1", *entries[1].CancelsRank)
	assert.Nil(t, entries[0].CancelsRank)
}

func TestApplyTextCancellationsKeepsExisting(t *testing.T) {
	rank := "3"
	entries := []SectionAEntry{
		{RankNumber: "5", RegistrationType: "1번소유권이전등기말소",
			Cancellation: Cancellation{CancelsRank: &rank}},
	}
	applyTextCancellations(sectionAAsCancelEntries(entries))
	assert.Equal(t, "3", *entries[0].CancelsRank)
}

func TestMapCancellationsIdempotent(t *testing.T) {
	one := "1"
	entries := []SectionAEntry{
		{RankNumber: "1", RegistrationType: "소유권이전", ReceiptDate: "2020년1월5일"},
		{RankNumber: "2", RegistrationType: "1번소유권이전등기말소",
			RegistrationCause: "해제", ReceiptDate: "2021년3월2일",
			Cancellation: Cancellation{CancelsRank: &one}},
	}
	ce := sectionAAsCancelEntries(entries)

	mapCancellations(ce)
	mapCancellations(ce)

	assert.True(t, entries[0].IsCancelled)
	require.NotNil(t, entries[0].CancelledByRank)
	assert.Equal(t, "2", *entries[0].CancelledByRank)
	require.NotNil(t, entries[0].CancellationDate)
	assert.Equal(t, "2021년3월2일", *entries[0].CancellationDate)
	require.NotNil(t, entries[0].CancellationCause)
	assert.Equal(t, "해제", *entries[0].CancellationCause)
	assert.False(t, entries[1].IsCancelled)
}

func TestMapCancellationsCauseFallback(t *testing.T) {
	// The canceller has no parsed cause; the mapper falls back to the
	// cancellation cause already recorded on it.
	one := "1"
	cause := "취하"
	entries := []SectionAEntry{
		{RankNumber: "1", RegistrationType: "가압류"},
		{RankNumber: "2", RegistrationType: "1번가압류등기말소",
			Cancellation: Cancellation{CancelsRank: &one, CancellationCause: &cause}},
	}
	mapCancellations(sectionAAsCancelEntries(entries))

	require.NotNil(t, entries[0].CancellationCause)
	assert.Equal(t, "취하", *entries[0].CancellationCause)
	// Empty receipt date maps to an absent cancellation date.
	assert.Nil(t, entries[0].CancellationDate)
}
