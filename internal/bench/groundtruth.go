// Package bench measures parser accuracy as token recall: the share of the
// document's extractable text that a parser's structured output reproduces.
package bench

import (
	"regexp"
	"strings"

	"github.com/junsik/pdf-extractor/internal/pdf"
)

var (
	headerLineRe = regexp.MustCompile(
		`^\[(?:토지|건물|집합건물)\]\s*.+$|` +
			`^표시번호\s+접\s*수|` +
			`^순위번호\s+등\s*기\s*목\s*적`)
	footerLineRe = regexp.MustCompile(`열람일시\s*:|발행일시\s*:|^\d+/\d+$`)

	spaceRe = regexp.MustCompile(`\s+`)
)

type boundaryPattern struct {
	target string
	re     *regexp.Regexp
}

// Ground-truth section boundaries. The summary and list pages are excluded:
// their content duplicates the main sections and would double-count tokens.
var boundaryPatterns = []boundaryPattern{
	{"title", regexp.MustCompile(`표\s*제\s*부.*토지의\s*표시`)},
	{"title", regexp.MustCompile(`표\s*제\s*부.*건물의\s*표시`)},
	{"title", regexp.MustCompile(`표\s*제\s*부.*전유부분`)},
	{"title", regexp.MustCompile(`대지권의\s*(?:목적인\s*토지의\s*표시|표시)`)},
	{"section_a", regexp.MustCompile(`갑\s*구.*소유권에\s*관한\s*사항`)},
	{"section_b", regexp.MustCompile(`을\s*구.*소유권\s*이외의\s*권리`)},
	{"skip", regexp.MustCompile(`공\s*동\s*담\s*보\s*목\s*록`)},
	{"skip", regexp.MustCompile(`매\s*각\s*물\s*건\s*목\s*록`)},
	{"skip", regexp.MustCompile(`주\s*요\s*등\s*기\s*사\s*항\s*요\s*약`)},
	{"skip", regexp.MustCompile(`등\s*기\s*명\s*의\s*인.*등\s*록\s*번\s*호`)},
}

// GroundTruth holds the reference text per scored section.
type GroundTruth struct {
	FullText     string
	TitleText    string
	SectionAText string
	SectionBText string
}

func detectBoundary(line string) string {
	clean := strings.TrimSpace(spaceRe.ReplaceAllString(line, " "))
	for _, b := range boundaryPatterns {
		if b.re.MatchString(clean) {
			return b.target
		}
	}
	return ""
}

// ExtractGroundTruth splits the document's text into per-section reference
// streams, dropping page headers, footers and skipped list pages.
func ExtractGroundTruth(buf []byte) (*GroundTruth, error) {
	doc, err := pdf.Open(buf)
	if err != nil {
		return nil, err
	}

	sections := map[string][]string{}
	current := "title"

	for i := 1; i <= doc.PageCount; i++ {
		page, err := doc.Page(i)
		if err != nil {
			continue
		}
		for _, line := range strings.Split(page.Text, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if headerLineRe.MatchString(line) || footerLineRe.MatchString(line) {
				continue
			}
			if target := detectBoundary(line); target != "" {
				current = target
				if target == "skip" {
					continue
				}
			}
			if current != "skip" {
				sections[current] = append(sections[current], line)
			}
		}
	}

	title := strings.Join(sections["title"], "\n")
	a := strings.Join(sections["section_a"], "\n")
	b := strings.Join(sections["section_b"], "\n")
	return &GroundTruth{
		FullText:     strings.Join([]string{title, a, b}, "\n"),
		TitleText:    title,
		SectionAText: a,
		SectionBText: b,
	}, nil
}
