package parsers

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/junsik/pdf-extractor/internal/pdf"
)

const (
	// Latest selects the highest registered version of a document type.
	Latest = "latest"

	detectThreshold   = 0.1
	detectBufferBytes = 10 * 1024
	detectSampleRunes = 2000
	detectSamplePages = 2
)

// ErrTypeUndetected means no registered parser claimed the buffer.
var ErrTypeUndetected = errors.New("document type could not be detected: no parser matched")

// Registry holds parser plugins keyed by document type and version.
type Registry struct {
	mu      sync.RWMutex
	parsers map[string]map[string]Parser
	log     zerolog.Logger
}

func NewRegistry(log zerolog.Logger) *Registry {
	return &Registry{
		parsers: map[string]map[string]Parser{},
		log:     log,
	}
}

// Register adds a parser under its own type and version, replacing any
// previous registration of the same pair.
func (r *Registry) Register(p Parser) {
	info := p.DocumentTypeInfo()
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.parsers[info.TypeID] == nil {
		r.parsers[info.TypeID] = map[string]Parser{}
	}
	r.parsers[info.TypeID][p.Version()] = p
	r.log.Debug().
		Str("document_type", info.TypeID).
		Str("version", p.Version()).
		Msg("parser registered")
}

// Get resolves a parser by type and version. Version "latest" (or empty)
// picks the highest version; a leading "v" on the version is tolerated.
func (r *Registry) Get(documentType, version string) (Parser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	versions, ok := r.parsers[documentType]
	if !ok {
		return nil, &NotFoundError{DocumentType: documentType, Available: r.typeIDsLocked()}
	}
	if version == "" || version == Latest {
		return versions[latestVersion(versions)], nil
	}
	version = strings.TrimPrefix(version, "v")
	p, ok := versions[version]
	if !ok {
		return nil, &NotFoundError{
			DocumentType: documentType,
			Version:      version,
			Available:    sortedVersions(versions),
		}
	}
	return p, nil
}

// DetectType scores the buffer against the latest parser of every type and
// returns the best match. Scoring sees the first pages' text and the leading
// bytes of the file, so detection stays cheap on large documents.
func (r *Registry) DetectType(buf []byte) (string, float64, error) {
	textSample := detectionSample(buf)
	bufSample := buf
	if len(bufSample) > detectBufferBytes {
		bufSample = bufSample[:detectBufferBytes]
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	bestType := ""
	bestConfidence := 0.0
	for docType, versions := range r.parsers {
		p := versions[latestVersion(versions)]
		if confidence := p.CanParse(bufSample, textSample); confidence > bestConfidence {
			bestConfidence = confidence
			bestType = docType
		}
	}
	if bestType == "" || bestConfidence < detectThreshold {
		return "", 0, ErrTypeUndetected
	}
	return bestType, bestConfidence, nil
}

// Parse routes the buffer to the selected parser. Parser failures come back
// as a zero-confidence result rather than an error so callers always get the
// envelope.
func (r *Registry) Parse(buf []byte, documentType, version string) (*ParseResult, error) {
	p, err := r.Get(documentType, version)
	if err != nil {
		return nil, err
	}
	result, err := p.Parse(buf)
	if err != nil {
		r.log.Warn().
			Str("document_type", documentType).
			Str("version", p.Version()).
			Err(err).
			Msg("parse failed")
		return NewFailedResult(documentType, p.Version(), err), nil
	}
	return result, nil
}

// MaskForDemo applies the type's demo masking to a parsed payload.
func (r *Registry) MaskForDemo(documentType, version string, data map[string]any) (map[string]any, error) {
	p, err := r.Get(documentType, version)
	if err != nil {
		return nil, err
	}
	return p.MaskForDemo(data), nil
}

// ListDocumentTypes returns the type info of every registered type, using
// the latest version's description, sorted by type id.
func (r *Registry) ListDocumentTypes() []DocumentTypeInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]DocumentTypeInfo, 0, len(r.parsers))
	for _, versions := range r.parsers {
		infos = append(infos, versions[latestVersion(versions)].DocumentTypeInfo())
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].TypeID < infos[j].TypeID })
	return infos
}

// ListVersions returns the versions of a type in ascending order; empty when
// the type is unknown.
func (r *Registry) ListVersions(documentType string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	versions, ok := r.parsers[documentType]
	if !ok {
		return nil
	}
	return sortedVersions(versions)
}

func (r *Registry) typeIDsLocked() []string {
	ids := make([]string, 0, len(r.parsers))
	for t := range r.parsers {
		ids = append(ids, t)
	}
	sort.Strings(ids)
	return ids
}

// detectionSample extracts the first pages' text for type scoring; an
// unreadable buffer yields an empty sample rather than an error.
func detectionSample(buf []byte) string {
	doc, err := pdf.Open(buf)
	if err != nil {
		return ""
	}
	var b strings.Builder
	for i := 1; i <= doc.PageCount && i <= detectSamplePages; i++ {
		page, err := doc.Page(i)
		if err != nil {
			continue
		}
		b.WriteString(page.Text)
		b.WriteByte('\n')
	}
	sample := []rune(b.String())
	if len(sample) > detectSampleRunes {
		sample = sample[:detectSampleRunes]
	}
	return string(sample)
}

func latestVersion(versions map[string]Parser) string {
	return sortedVersions(versions)[len(versions)-1]
}

func sortedVersions(versions map[string]Parser) []string {
	keys := make([]string, 0, len(versions))
	for v := range versions {
		keys = append(keys, v)
	}
	sort.Slice(keys, func(i, j int) bool {
		return versionLess(keys[i], keys[j])
	})
	return keys
}

// versionLess compares dotted numeric versions componentwise.
func versionLess(a, b string) bool {
	as := strings.Split(strings.TrimPrefix(a, "v"), ".")
	bs := strings.Split(strings.TrimPrefix(b, "v"), ".")
	for i := 0; i < len(as) && i < len(bs); i++ {
		ai, _ := strconv.Atoi(as[i])
		bi, _ := strconv.Atoi(bs[i])
		if ai != bi {
			return ai < bi
		}
	}
	return len(as) < len(bs)
}
