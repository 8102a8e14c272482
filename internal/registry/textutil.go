package registry

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	watermarkRe = regexp.MustCompile(`열\s*람\s*용`)
	multiWSRe   = regexp.MustCompile(`\s+`)

	amountRe = regexp.MustCompile(`금\s*([\d,]+)\s*원`)

	dateKoreanRe = regexp.MustCompile(`(\d{4})년\s*(\d{1,2})월\s*(\d{1,2})일`)
	dateDottedRe = regexp.MustCompile(`(\d{4})\.(\d{1,2})\.(\d{1,2})`)
	dateISORe    = regexp.MustCompile(`(\d{4})-(\d{1,2})-(\d{1,2})`)

	receiptDateKoreanRe = regexp.MustCompile(`\d{4}년\s*\d{1,2}월\s*\d{1,2}일`)
	receiptDateDottedRe = regexp.MustCompile(`\d{4}\.\d{1,2}\.\d{1,2}`)
	receiptDateISORe    = regexp.MustCompile(`\d{4}-\d{1,2}-\d{1,2}`)
	receiptNumberRe     = regexp.MustCompile(`제?\s*(\d+호)`)

	residentMaskedRe  = regexp.MustCompile(`(\d{6})-([*○●]{7}|\d{7}|\d{1,6}[*○●]+)`)
	corporateNumberRe = regexp.MustCompile(`(\d{3}-\d{2}-\d{5})`)

	timeOfDayRe = regexp.MustCompile(`(오전|오후)?\s*(\d{1,2})시\s*(\d{1,2})분\s*(\d{1,2})초`)
)

// CleanText strips the viewing-copy watermark and collapses whitespace.
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	s = watermarkRe.ReplaceAllString(s, "")
	return strings.TrimSpace(multiWSRe.ReplaceAllString(s, " "))
}

// CleanCell trims a table cell, keeping internal newlines.
func CleanCell(s string) string {
	return strings.TrimSpace(s)
}

// ParseAmount extracts a Korean monetary amount ("금 50,000,000 원", "금100원정")
// as integer won. Returns nil when no amount is present.
func ParseAmount(s string) *int64 {
	m := amountRe.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	v, err := strconv.ParseInt(strings.ReplaceAll(m[1], ",", ""), 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

// ParseKoreanDate normalizes a date in Korean, dotted or ISO form to
// "YYYY년 MM월 DD일" with zero-padded month and day. Nil when absent.
func ParseKoreanDate(s string) *string {
	for _, re := range []*regexp.Regexp{dateKoreanRe, dateDottedRe, dateISORe} {
		if m := re.FindStringSubmatch(s); m != nil {
			out := fmt.Sprintf("%s년 %s월 %s일", m[1], pad2(m[2]), pad2(m[3]))
			return &out
		}
	}
	return nil
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

// ExtractReceiptInfo splits a receipt cell into its date and 접수번호.
func ExtractReceiptInfo(s string) (date, number string) {
	for _, re := range []*regexp.Regexp{receiptDateKoreanRe, receiptDateDottedRe, receiptDateISORe} {
		if m := re.FindString(s); m != "" {
			date = m
			break
		}
	}
	if m := receiptNumberRe.FindStringSubmatch(s); m != nil {
		number = m[1]
	}
	return date, number
}

// ParseResidentNumber finds a resident or corporate registration number,
// tolerating masking glyphs (*, ○, ●) in the tail.
func ParseResidentNumber(s string) *string {
	if m := residentMaskedRe.FindStringSubmatch(s); m != nil {
		out := m[1] + "-" + m[2]
		return &out
	}
	if m := corporateNumberRe.FindStringSubmatch(s); m != nil {
		return &m[1]
	}
	return nil
}

// NormalizeTimestamp rewrites a viewed/issued stamp to
// "YYYY년 MM월 DD일 HH시 MM분 SS초", converting 오전/오후 to 24h. Inputs that
// carry no recognizable date+time pass through unchanged.
func NormalizeTimestamp(s string) string {
	dm := dateKoreanRe.FindStringSubmatch(s)
	tm := timeOfDayRe.FindStringSubmatch(s)
	if dm == nil || tm == nil {
		return s
	}
	hour, _ := strconv.Atoi(tm[2])
	switch tm[1] {
	case "오후":
		if hour < 12 {
			hour += 12
		}
	case "오전":
		if hour == 12 {
			hour = 0
		}
	}
	return fmt.Sprintf("%s년 %s월 %s일 %02d시 %s분 %s초",
		dm[1], pad2(dm[2]), pad2(dm[3]), hour, pad2(tm[3]), pad2(tm[4]))
}

func strPtr(s string) *string {
	return &s
}

func strPtrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
