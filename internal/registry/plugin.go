package registry

import (
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/junsik/pdf-extractor/internal/parsers"
)

// canParseIndicators score a text sample for registry-document detection.
var canParseIndicators = []struct {
	keyword string
	weight  float64
}{
	{"고유번호", 0.3},
	{"표제부", 0.2},
	{"갑구", 0.2},
	{"을구", 0.1},
	{"등기부등본", 0.15},
	{"[토지]", 0.05},
	{"[건물]", 0.05},
	{"[집합건물]", 0.05},
}

// Plugin adapts one parser generation to the plugin interface.
type Plugin struct {
	parser *Parser
}

func NewPlugin(opts Options, log zerolog.Logger) *Plugin {
	return &Plugin{parser: NewParser(opts, log)}
}

func (p *Plugin) DocumentTypeInfo() parsers.DocumentTypeInfo {
	return parsers.DocumentTypeInfo{
		TypeID:      "registry",
		DisplayName: "등기부등본",
		Description: "부동산 등기부등본 (토지, 건물, 집합건물)",
		SubTypes:    []string{PropertyLand, PropertyBuilding, PropertyAggregateBuilding},
	}
}

func (p *Plugin) Version() string { return p.parser.Options().Version }

func (p *Plugin) CanParse(buf []byte, textSample string) float64 {
	score := 0.0
	for _, ind := range canParseIndicators {
		if strings.Contains(textSample, ind.keyword) {
			score += ind.weight
		}
	}
	return min(score, 1.0)
}

func (p *Plugin) Parse(buf []byte) (*parsers.ParseResult, error) {
	doc, err := p.parser.Parse(buf)
	if err != nil {
		return nil, err
	}
	stats := doc.ParseStats
	if stats == nil {
		stats = map[string]any{}
	}
	return &parsers.ParseResult{
		DocumentType:    "registry",
		DocumentSubType: doc.PropertyType,
		ParserVersion:   p.Version(),
		ParseDate:       time.Now().Format(time.RFC3339),
		Data:            doc.ToMap(),
		RawText:         doc.RawText,
		Errors:          doc.ParseWarnings,
		Confidence:      1.0,
		Metadata:        stats,
	}, nil
}

func (p *Plugin) MaskForDemo(data map[string]any) map[string]any {
	return MaskForDemo(data)
}

// RegisterAll registers every parser generation of this document type,
// sharing the configured red-ink thresholds across generations.
func RegisterAll(r *parsers.Registry, red RedThresholds, log zerolog.Logger) {
	for _, opts := range []Options{V100Options(), V101Options()} {
		opts.Red = red
		r.Register(NewPlugin(opts, log))
	}
}
