package mcp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junsik/pdf-extractor/internal/config"
	"github.com/junsik/pdf-extractor/internal/parsers"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DocumentDirectory = t.TempDir()
	cfg.MaxFileSize = 1024

	s, err := NewServer(cfg, parsers.NewRegistry(zerolog.Nop()), zerolog.Nop())
	require.NoError(t, err)
	return s
}

func TestNewServerRequiresRegistry(t *testing.T) {
	_, err := NewServer(config.DefaultConfig(), nil, zerolog.Nop())
	assert.Error(t, err)
}

func TestReadDocument(t *testing.T) {
	s := newTestServer(t)
	path := filepath.Join(s.config.DocumentDirectory, "doc.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o600))

	buf, err := s.readDocument(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), buf)
}

func TestReadDocumentOutsideDirectory(t *testing.T) {
	s := newTestServer(t)

	outside := filepath.Join(t.TempDir(), "doc.pdf")
	require.NoError(t, os.WriteFile(outside, []byte("%PDF-1.4"), 0o600))

	_, err := s.readDocument(outside)
	assert.ErrorContains(t, err, "outside the document directory")

	// Traversal out of the directory is rejected as well.
	sneaky := filepath.Join(s.config.DocumentDirectory, "..", filepath.Base(filepath.Dir(outside)), "doc.pdf")
	_, err = s.readDocument(sneaky)
	assert.Error(t, err)
}

func TestReadDocumentMissingFile(t *testing.T) {
	s := newTestServer(t)
	_, err := s.readDocument(filepath.Join(s.config.DocumentDirectory, "absent.pdf"))
	assert.ErrorContains(t, err, "cannot access file")
}

func TestReadDocumentSizeLimit(t *testing.T) {
	s := newTestServer(t)
	path := filepath.Join(s.config.DocumentDirectory, "big.pdf")
	require.NoError(t, os.WriteFile(path, make([]byte, 2048), 0o600))

	_, err := s.readDocument(path)
	assert.ErrorContains(t, err, "exceeds limit")
}
