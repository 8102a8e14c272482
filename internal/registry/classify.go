package registry

import (
	"regexp"
	"strings"
)

var (
	cancelTargetRe = regexp.MustCompile(`(\d+(?:-\d+)?)번`)
	cancelTypeRe   = regexp.MustCompile(`(\d+(?:-\d+)?번?\S*말소)`)

	// \w alone misses Hangul, so the word class is spelled out.
	courtCauseCompactRe = regexp.MustCompile(`([\w가-힣]+법원[\w가-힣]*의[\w가-힣]+(?:\([^)]*\))?)`)
	courtCauseSpacedRe  = regexp.MustCompile(`((?:\S+법원|지방법원)\S*의\s*\S+)`)
	compactDateRe       = regexp.MustCompile(`\d{4}년\d{1,2}월\d{1,2}일`)
)

// Registration-type vocabularies. Specific compounds come first so that
// substring overlaps resolve to the longer legal term
// (소유권이전청구권가등기 before 소유권이전). The v1.0.0 list keeps its
// historical order; the generations are benchmarked against each other and
// must not converge silently.
var (
	typeVocabA101 = []string{
		"소유권이전청구권가등기", "소유권보존", "소유권이전",
		"가처분", "가압류", "압류",
		"임의경매개시결정", "강제경매개시결정", "경매개시결정",
		"등기명의인표시변경", "등기명의인표시경정",
	}
	typeVocabA100 = []string{
		"소유권보존", "소유권이전", "소유권이전청구권가등기",
		"가처분", "가압류", "압류",
		"임의경매개시결정", "강제경매개시결정", "경매개시결정",
		"등기명의인표시변경", "등기명의인표시경정",
	}
	typeVocabB = []string{
		"근저당권설정", "근저당권이전", "근저당권변경",
		"근저당권부채권질권설정",
		"근질권설정", "저당권설정",
		"전세권설정", "전세권이전",
		"주택임차권", "임차권설정",
		"지상권설정", "지상권이전",
		"가등기", "등기명의인표시변경",
	}

	causeVocab101 = []string{
		"매매예약", "매매", "상속", "증여", "신탁", "경락", "판결", "교환",
		"협의분할", "법원경매", "공매", "설정계약",
		"확정채권양도", "확정채무의면책적인수", "면책적인수", "취급지점변경",
		"압류해제", "압류", "해지", "해제", "취하", "취소결정",
		"전거", "행정구역변경", "도로명주소변경", "명칭변경", "주소변경",
	}
	causeVocab100 = []string{
		"매매", "상속", "증여", "신탁", "경락", "판결", "교환",
		"협의분할", "법원경매", "공매", "설정계약", "매매예약",
		"확정채권양도", "면책적인수", "취급지점변경",
		"해지", "해제", "취하", "취소결정", "압류해제",
		"확정채무의면책적인수",
	}
)

// cancellationCauses trigger the text-based cancellation fallback: an entry
// whose registration cause is one of these cancels the rank referenced in
// its type text even without the word 말소.
var cancellationCauses = map[string]bool{
	"해지":   true,
	"해제":   true,
	"취하":   true,
	"취소결정": true,
	"압류해제": true,
}

// Options selects the heuristics of one parser generation. Each version's
// behavior stays independent; the benchmark harness compares them, so later
// heuristics are never folded back into earlier versions.
type Options struct {
	Version         string
	SectionPatterns []sectionPattern
	TypeVocabA      []string
	CauseVocab      []string

	// v1.0.1 heuristics.
	ClassifyByColumns     bool // column-name section fallback
	DetectNearTable       bool // text band above the table as header source
	StripRowWatermark     bool // per-row 열/람/용 fragment cleanup
	GuardContamination    bool // discard foreign-header continuation rows
	FlexibleLandColumns   bool // tolerate collapsed land-title column counts
	CollectStats          bool // parse warnings + stats metadata
	ParseSummary          bool // 주요 등기사항 요약 extraction
	ParseTradeList        bool // 매매목록 extraction
	OwnerRoles            bool // role tags, remarks, detail addresses
	ExtendedTypeDetection bool // keyword fallbacks for the property type
	DespaceUniqueNumber   bool // tolerate split 고유번호 digits
	CompactCauseMatch     bool // court-cause matching on despaced text

	Red RedThresholds
}

// V100Options is the first parser generation.
func V100Options() Options {
	return Options{
		Version:         "1.0.0",
		SectionPatterns: v100SectionPatterns,
		TypeVocabA:      typeVocabA100,
		CauseVocab:      causeVocab100,
		Red:             DefaultRedThresholds(),
	}
}

// V101Options enables the layout and extraction improvements of the second
// generation.
func V101Options() Options {
	return Options{
		Version:               "1.0.1",
		SectionPatterns:       v101SectionPatterns,
		TypeVocabA:            typeVocabA101,
		CauseVocab:            causeVocab101,
		ClassifyByColumns:     true,
		DetectNearTable:       true,
		StripRowWatermark:     true,
		GuardContamination:    true,
		FlexibleLandColumns:   true,
		CollectStats:          true,
		ParseSummary:          true,
		ParseTradeList:        true,
		OwnerRoles:            true,
		ExtendedTypeDetection: true,
		DespaceUniqueNumber:   true,
		CompactCauseMatch:     true,
		Red:                   DefaultRedThresholds(),
	}
}

// classifyRegType matches a 등기목적 cell against the vocabulary. 말소
// registrations keep their target reference ("2번근저당권설정등기말소");
// unknown types fall back to the raw text capped at 40 runes so the field is
// never empty.
func classifyRegType(text string, vocab []string) string {
	compact := strings.ReplaceAll(CleanText(text), " ", "")
	if strings.Contains(compact, "말소") {
		if m := cancelTypeRe.FindStringSubmatch(compact); m != nil {
			return m[1]
		}
		return compact
	}
	for _, t := range vocab {
		if strings.Contains(compact, t) {
			return t
		}
	}
	return truncateRunes(compact, 40)
}

// extractCause matches a 등기원인 cell against the cause vocabulary, then
// falls back to court-decision phrases, then to capped raw text.
func extractCause(text string, opts Options) string {
	clean := CleanText(text)
	compact := strings.ReplaceAll(clean, " ", "")
	for _, c := range opts.CauseVocab {
		if strings.Contains(compact, c) {
			return c
		}
	}
	if opts.CompactCauseMatch {
		// Strip the leading date so the match does not swallow it.
		noDate := compactDateRe.ReplaceAllString(compact, "")
		if m := courtCauseCompactRe.FindStringSubmatch(noDate); m != nil {
			return m[1]
		}
	} else if m := courtCauseSpacedRe.FindStringSubmatch(clean); m != nil {
		return m[1]
	}
	return truncateRunes(clean, 30)
}

// extractCancelsRank pulls the referenced rank out of a 말소 registration's
// type text ("1번소유권이전등기말소" cancels rank "1").
func extractCancelsRank(regType string) *string {
	if !strings.Contains(regType, "말소") {
		return nil
	}
	if m := cancelTargetRe.FindStringSubmatch(regType); m != nil {
		return &m[1]
	}
	return nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}
