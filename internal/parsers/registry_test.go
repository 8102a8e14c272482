package parsers

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeParser is a minimal Parser for registry wiring tests.
type fakeParser struct {
	typeID     string
	version    string
	confidence float64
	parseErr   error
}

func (f *fakeParser) DocumentTypeInfo() DocumentTypeInfo {
	return DocumentTypeInfo{TypeID: f.typeID, DisplayName: f.typeID}
}

func (f *fakeParser) Version() string { return f.version }

func (f *fakeParser) CanParse(buf []byte, textSample string) float64 { return f.confidence }

func (f *fakeParser) Parse(buf []byte) (*ParseResult, error) {
	if f.parseErr != nil {
		return nil, f.parseErr
	}
	return &ParseResult{
		DocumentType:  f.typeID,
		ParserVersion: f.version,
		Data:          map[string]any{"parsed": true},
		Confidence:    1.0,
	}, nil
}

func (f *fakeParser) MaskForDemo(data map[string]any) map[string]any {
	return map[string]any{"masked": true}
}

func newTestRegistry(parsers ...Parser) *Registry {
	r := NewRegistry(zerolog.Nop())
	for _, p := range parsers {
		r.Register(p)
	}
	return r
}

func TestRegistryGetLatest(t *testing.T) {
	r := newTestRegistry(
		&fakeParser{typeID: "registry", version: "1.0.0"},
		&fakeParser{typeID: "registry", version: "1.0.1"},
		&fakeParser{typeID: "registry", version: "1.0.10"},
	)

	for _, version := range []string{"", Latest} {
		p, err := r.Get("registry", version)
		require.NoError(t, err)
		// Numeric comparison: 1.0.10 beats 1.0.9-style lexicographic traps.
		assert.Equal(t, "1.0.10", p.Version())
	}
}

func TestRegistryGetExplicitVersion(t *testing.T) {
	r := newTestRegistry(
		&fakeParser{typeID: "registry", version: "1.0.0"},
		&fakeParser{typeID: "registry", version: "1.0.1"},
	)

	p, err := r.Get("registry", "1.0.0")
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", p.Version())

	// A leading v is tolerated.
	p, err = r.Get("registry", "v1.0.1")
	require.NoError(t, err)
	assert.Equal(t, "1.0.1", p.Version())
}

func TestRegistryGetNotFound(t *testing.T) {
	r := newTestRegistry(&fakeParser{typeID: "registry", version: "1.0.0"})

	_, err := r.Get("invoice", "")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "invoice", nf.DocumentType)
	assert.Equal(t, []string{"registry"}, nf.Available)

	_, err = r.Get("registry", "9.9.9")
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "9.9.9", nf.Version)
	assert.Equal(t, []string{"1.0.0"}, nf.Available)
}

func TestRegistryRegisterReplaces(t *testing.T) {
	first := &fakeParser{typeID: "registry", version: "1.0.0", confidence: 0.2}
	second := &fakeParser{typeID: "registry", version: "1.0.0", confidence: 0.9}
	r := newTestRegistry(first, second)

	p, err := r.Get("registry", "1.0.0")
	require.NoError(t, err)
	assert.Same(t, second, p)
}

func TestRegistryListVersions(t *testing.T) {
	r := newTestRegistry(
		&fakeParser{typeID: "registry", version: "1.0.1"},
		&fakeParser{typeID: "registry", version: "1.0.0"},
	)
	assert.Equal(t, []string{"1.0.0", "1.0.1"}, r.ListVersions("registry"))
	assert.Nil(t, r.ListVersions("invoice"))
}

func TestRegistryListDocumentTypes(t *testing.T) {
	r := newTestRegistry(
		&fakeParser{typeID: "registry", version: "1.0.0"},
		&fakeParser{typeID: "invoice", version: "2.0.0"},
	)
	infos := r.ListDocumentTypes()
	require.Len(t, infos, 2)
	assert.Equal(t, "invoice", infos[0].TypeID)
	assert.Equal(t, "registry", infos[1].TypeID)
}

func TestRegistryParseWrapsFailure(t *testing.T) {
	r := newTestRegistry(&fakeParser{
		typeID: "registry", version: "1.0.0",
		parseErr: errors.New("broken xref"),
	})

	result, err := r.Parse([]byte("%PDF-1.7"), "registry", "")
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Confidence)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "broken xref")
	assert.Equal(t, "1.0.0", result.ParserVersion)
}

func TestRegistryParseUnknownType(t *testing.T) {
	r := newTestRegistry(&fakeParser{typeID: "registry", version: "1.0.0"})
	_, err := r.Parse(nil, "invoice", "")
	require.Error(t, err)
}

func TestRegistryDetectType(t *testing.T) {
	r := newTestRegistry(
		&fakeParser{typeID: "registry", version: "1.0.0", confidence: 0.8},
		&fakeParser{typeID: "invoice", version: "1.0.0", confidence: 0.3},
	)

	docType, confidence, err := r.DetectType([]byte("not a real pdf"))
	require.NoError(t, err)
	assert.Equal(t, "registry", docType)
	assert.InDelta(t, 0.8, confidence, 0.001)
}

func TestRegistryDetectTypeBelowThreshold(t *testing.T) {
	r := newTestRegistry(&fakeParser{typeID: "registry", version: "1.0.0", confidence: 0.05})
	_, _, err := r.DetectType([]byte("not a real pdf"))
	assert.ErrorIs(t, err, ErrTypeUndetected)
}

func TestVersionLess(t *testing.T) {
	assert.True(t, versionLess("1.0.0", "1.0.1"))
	assert.True(t, versionLess("1.0.9", "1.0.10"))
	assert.True(t, versionLess("1.0", "1.0.1"))
	assert.False(t, versionLess("2.0.0", "1.9.9"))
	assert.False(t, versionLess("1.0.1", "1.0.1"))
	assert.True(t, versionLess("v1.0.0", "1.0.1"))
}
