package bench

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junsik/pdf-extractor/internal/parsers"
)

type stubParser struct{}

func (stubParser) DocumentTypeInfo() parsers.DocumentTypeInfo {
	return parsers.DocumentTypeInfo{TypeID: "registry"}
}
func (stubParser) Version() string { return "1.0.1" }

func (stubParser) CanParse([]byte, string) float64 { return 1 }

func (stubParser) Parse([]byte) (*parsers.ParseResult, error) {
	return &parsers.ParseResult{Data: map[string]any{}}, nil
}

func (stubParser) MaskForDemo(d map[string]any) map[string]any { return d }

func TestScoreFileReadFailure(t *testing.T) {
	score := ScoreFile(filepath.Join(t.TempDir(), "missing.pdf"), stubParser{})
	require.Len(t, score.Errors, 1)
	assert.Contains(t, score.Errors[0], "read failed")
	assert.Zero(t, score.GtTokens)
}

func TestScoreFileGroundTruthFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf"), 0o600))

	score := ScoreFile(path, stubParser{})
	require.Len(t, score.Errors, 1)
	assert.Contains(t, score.Errors[0], "ground truth failed")
}

func TestRunAggregates(t *testing.T) {
	dir := t.TempDir()
	pathB := filepath.Join(dir, "b.pdf")
	pathA := filepath.Join(dir, "a.pdf")
	require.NoError(t, os.WriteFile(pathA, []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(pathB, []byte("x"), 0o600))

	report := Run([]string{pathB, pathA}, stubParser{}, "registry")
	assert.Equal(t, "registry", report.DocumentType)
	assert.Equal(t, "1.0.1", report.ParserVersion)
	assert.Equal(t, 2, report.FileCount)
	require.Len(t, report.Scores, 2)
	// Files are scored in sorted order.
	assert.Equal(t, "a.pdf", report.Scores[0].Filename)
	assert.Equal(t, "b.pdf", report.Scores[1].Filename)
	// No scorable file: the averages stay absent.
	assert.Zero(t, report.Average)
	assert.Nil(t, report.TitleAvg)
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	report := &Report{DocumentType: "registry", ParserVersion: "1.0.1", FileCount: 1}
	require.NoError(t, PrintJSON(&buf, report))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "registry", decoded["document_type"])
	assert.Equal(t, float64(1), decoded["file_count"])
}

func TestPrintRendersScores(t *testing.T) {
	title := 92.5
	report := &Report{
		DocumentType:  "registry",
		ParserVersion: "1.0.1",
		FileCount:     1,
		Scores: []FileScore{{
			Filename:     "sample.pdf",
			PropertyType: "land",
			Overall:      88.2,
			Title:        &title,
			GtTokens:     500,
			ParserTokens: 441,
			MissingTop20: []string{"누락", "토큰"},
		}},
		Average:  88.2,
		TitleAvg: &title,
	}

	var buf bytes.Buffer
	Print(&buf, report, true)
	out := buf.String()
	assert.Contains(t, out, "sample.pdf")
	assert.Contains(t, out, "88.2")
	assert.Contains(t, out, "92.5")
	assert.Contains(t, out, "N/A")
	assert.Contains(t, out, "누락, 토큰")
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 88.2, round1(88.24))
	assert.Equal(t, 88.3, round1(88.25))
	assert.Equal(t, 0.0, round1(0))
}
