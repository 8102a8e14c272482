package bench

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/junsik/pdf-extractor/internal/parsers"
)

// FileScore is one PDF's recall against one parser.
type FileScore struct {
	Filename     string   `json:"filename"`
	PropertyType string   `json:"property_type"`
	Overall      float64  `json:"overall"`
	Title        *float64 `json:"title"`
	SectionA     *float64 `json:"section_a"`
	SectionB     *float64 `json:"section_b"`
	GtTokens     int      `json:"gt_tokens"`
	ParserTokens int      `json:"parser_tokens"`
	MissingTop20 []string `json:"missing_top20"`
	Errors       []string `json:"errors"`
}

// Report aggregates scores over a corpus for one parser version.
type Report struct {
	DocumentType  string      `json:"document_type"`
	ParserVersion string      `json:"parser_version"`
	Date          string      `json:"date"`
	FileCount     int         `json:"file_count"`
	Scores        []FileScore `json:"scores"`
	Average       float64     `json:"average"`
	TitleAvg      *float64    `json:"title_avg"`
	SectionAAvg   *float64    `json:"section_a_avg"`
	SectionBAvg   *float64    `json:"section_b_avg"`
}

// ScoreFile benchmarks one PDF against one parser. Failures end up in the
// score's error list, never as a hard error, so a corpus run always reports
// every file.
func ScoreFile(path string, p parsers.Parser) FileScore {
	score := FileScore{Filename: filepath.Base(path)}

	buf, err := os.ReadFile(path)
	if err != nil {
		score.Errors = append(score.Errors, fmt.Sprintf("read failed: %v", err))
		return score
	}
	gt, err := ExtractGroundTruth(buf)
	if err != nil {
		score.Errors = append(score.Errors, fmt.Sprintf("ground truth failed: %v", err))
		return score
	}

	result, err := p.Parse(buf)
	if err != nil {
		score.Errors = append(score.Errors, fmt.Sprintf("parse failed: %v", err))
		return score
	}
	score.Errors = append(score.Errors, result.Errors...)

	if pt, ok := result.Data["property_type"].(string); ok && pt != "" {
		score.PropertyType = pt
	} else {
		score.PropertyType = result.DocumentSubType
	}

	parserText := CollectParserText(result.Data)

	gtFull := Tokenize(gt.FullText)
	pFull := Tokenize(parserText.Full)

	if overall := Recall(gtFull, pFull); overall != nil {
		score.Overall = *overall
	}
	score.Title = Recall(Tokenize(gt.TitleText), Tokenize(parserText.Title))
	score.SectionA = Recall(Tokenize(gt.SectionAText), Tokenize(parserText.SectionA))
	score.SectionB = Recall(Tokenize(gt.SectionBText), Tokenize(parserText.SectionB))
	score.GtTokens = gtFull.Total()
	score.ParserTokens = Matched(gtFull, pFull)
	score.MissingTop20 = FindMissing(gtFull, pFull, 20)
	return score
}

// Run benchmarks every path in sorted order and aggregates the averages.
func Run(paths []string, p parsers.Parser, documentType string) *Report {
	report := &Report{
		DocumentType:  documentType,
		ParserVersion: p.Version(),
		Date:          time.Now().Format("2006-01-02 15:04"),
		FileCount:     len(paths),
	}

	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)
	for _, path := range sorted {
		report.Scores = append(report.Scores, ScoreFile(path, p))
	}

	var overall []float64
	var titles, as, bs []float64
	for _, s := range report.Scores {
		if s.GtTokens > 0 {
			overall = append(overall, s.Overall)
		}
		if s.Title != nil {
			titles = append(titles, *s.Title)
		}
		if s.SectionA != nil {
			as = append(as, *s.SectionA)
		}
		if s.SectionB != nil {
			bs = append(bs, *s.SectionB)
		}
	}
	if len(overall) > 0 {
		report.Average = round1(mean(overall))
	}
	report.TitleAvg = avgPtr(titles)
	report.SectionAAvg = avgPtr(as)
	report.SectionBAvg = avgPtr(bs)
	return report
}

// Print renders the human-readable report.
func Print(w io.Writer, report *Report, verbose bool) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintf(w, "\n%s\n", rule)
	fmt.Fprintf(w, "  PDF Parser Benchmark: %s v%s\n", report.DocumentType, report.ParserVersion)
	fmt.Fprintf(w, "  %s | Files: %d\n%s\n", report.Date, report.FileCount, rule)

	for i, s := range report.Scores {
		status := ""
		if len(s.Errors) > 0 {
			status = " [!]"
		}
		fmt.Fprintf(w, "\n [%2d] %s%s\n", i+1, s.Filename, status)
		fmt.Fprintf(w, "      Type: %s | Tokens: %d/%d | Score: %.1f/100\n",
			s.PropertyType, s.ParserTokens, s.GtTokens, s.Overall)
		fmt.Fprintf(w, "      표제부: %s | 갑구: %s | 을구: %s\n",
			scoreStr(s.Title), scoreStr(s.SectionA), scoreStr(s.SectionB))
		if verbose && len(s.MissingTop20) > 0 {
			n := min(len(s.MissingTop20), 10)
			fmt.Fprintf(w, "      Missing: %s\n", strings.Join(s.MissingTop20[:n], ", "))
		}
		for _, e := range s.Errors {
			fmt.Fprintf(w, "      Error: %s\n", e)
		}
	}

	fmt.Fprintf(w, "\n%s\n", rule)
	fmt.Fprintf(w, "  OVERALL: %.1f/100\n", report.Average)
	fmt.Fprintf(w, "  표제부: %s | 갑구: %s | 을구: %s\n%s\n\n",
		scoreStr(report.TitleAvg), scoreStr(report.SectionAAvg), scoreStr(report.SectionBAvg), rule)
}

// PrintJSON renders the report as indented JSON.
func PrintJSON(w io.Writer, report *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(report)
}

func scoreStr(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1f", *v)
}

func mean(vals []float64) float64 {
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func avgPtr(vals []float64) *float64 {
	if len(vals) == 0 {
		return nil
	}
	v := round1(mean(vals))
	return &v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
