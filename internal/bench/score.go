package bench

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
)

var tokenRe = regexp.MustCompile(`[\w가-힣]+`)

// noiseTokens are table-structure words that every document repeats; they
// carry no extraction signal and are excluded from the ground truth.
var noiseTokens = map[string]bool{
	"표시번호": true, "접수": true, "소재지번": true, "건물내역": true,
	"등기원인": true, "기타사항": true, "순위번호": true, "등기목적": true,
	"권리자": true, "표제부": true, "갑구": true, "을구": true,
	"토지의": true, "건물의": true, "표시": true, "소유권에": true,
	"관한": true, "사항": true, "소유권": true, "이외의": true,
	"권리에": true, "접수일자": true, "접수번호": true,
	"도로명주소": true, "등기명의인": true,
}

// excludedKeys are metadata fields of the parser output that never appear in
// the source text.
var excludedKeys = map[string]bool{
	"raw_text": true, "parser_version": true, "parse_date": true,
	"errors": true, "section_a_count": true, "section_b_count": true,
	"active_section_a_count": true, "active_section_b_count": true,
	"is_cancelled": true, "property_type": true,
}

// TokenCounter is a multiset of text tokens.
type TokenCounter map[string]int

// Tokenize counts word tokens of length >= 2, dropping noise tokens.
func Tokenize(text string) TokenCounter {
	c := TokenCounter{}
	for _, t := range tokenRe.FindAllString(text, -1) {
		if len([]rune(t)) >= 2 && !noiseTokens[t] {
			c[t]++
		}
	}
	return c
}

func (c TokenCounter) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Recall returns matched/total as a 0..100 score with one decimal, or nil
// when the ground truth is empty.
func Recall(gt, parser TokenCounter) *float64 {
	total := gt.Total()
	if total == 0 {
		return nil
	}
	matched := 0
	for t, n := range gt {
		matched += min(n, parser[t])
	}
	score := math.Round(float64(matched)/float64(total)*1000) / 10
	return &score
}

// Matched counts the ground-truth tokens the parser output covered.
func Matched(gt, parser TokenCounter) int {
	matched := 0
	for t, n := range gt {
		matched += min(n, parser[t])
	}
	return matched
}

// FindMissing lists the most frequent ground-truth tokens the parser missed.
func FindMissing(gt, parser TokenCounter, topN int) []string {
	type miss struct {
		token string
		count int
	}
	var missing []miss
	for t, n := range gt {
		if diff := n - parser[t]; diff > 0 {
			missing = append(missing, miss{t, diff})
		}
	}
	sort.Slice(missing, func(i, j int) bool {
		if missing[i].count != missing[j].count {
			return missing[i].count > missing[j].count
		}
		return missing[i].token < missing[j].token
	})
	if len(missing) > topN {
		missing = missing[:topN]
	}
	out := make([]string, len(missing))
	for i, m := range missing {
		out[i] = m.token
	}
	return out
}

// ParserText is the parser output flattened back to text per section.
type ParserText struct {
	Full     string
	Title    string
	SectionA string
	SectionB string
}

// CollectParserText flattens the structured payload into section strings,
// walking every string and numeric leaf outside the excluded metadata keys.
func CollectParserText(data map[string]any) ParserText {
	title := strings.Join(collectStrings(data["title_info"]), " ")
	sectionA := strings.Join(collectStrings(data["section_a"]), " ")
	sectionB := strings.Join(collectStrings(data["section_b"]), " ")

	var top []string
	for _, k := range []string{"unique_number", "property_address"} {
		if v, ok := data[k].(string); ok && v != "" {
			top = append(top, v)
		}
	}
	topText := strings.Join(top, " ")

	return ParserText{
		Full:     topText + " " + title + " " + sectionA + " " + sectionB,
		Title:    topText + " " + title,
		SectionA: sectionA,
		SectionB: sectionB,
	}
}

func collectStrings(obj any) []string {
	var out []string
	switch v := obj.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if excludedKeys[k] {
				continue
			}
			out = append(out, leafStrings(v[k])...)
		}
	case []map[string]any:
		for _, item := range v {
			out = append(out, collectStrings(item)...)
		}
	case []any:
		for _, item := range v {
			out = append(out, collectStrings(item)...)
		}
	}
	return out
}

func leafStrings(v any) []string {
	switch t := v.(type) {
	case string:
		if t != "" {
			return []string{t}
		}
	case int:
		return numericTokens(float64(t))
	case int64:
		return numericTokens(float64(t))
	case float64:
		return numericTokens(t)
	case map[string]any, []map[string]any, []any:
		return collectStrings(t)
	}
	return nil
}

// numericTokens renders a number both plain and comma-grouped, since the
// source text groups large amounts.
func numericTokens(v float64) []string {
	if v == 0 {
		return nil
	}
	if v == math.Trunc(v) {
		n := int64(v)
		tokens := []string{fmt.Sprintf("%d", n)}
		if n >= 1000 {
			tokens = append(tokens, groupDigits(n))
		}
		return tokens
	}
	return []string{strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", v), "0"), ".")}
}

func groupDigits(n int64) string {
	s := fmt.Sprintf("%d", n)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}
