// Package parsers defines the versioned document-parser plugin interface and
// the registry that routes PDF buffers to the right parser generation.
package parsers

import (
	"fmt"
	"time"
)

// DocumentTypeInfo describes one supported document type.
type DocumentTypeInfo struct {
	TypeID      string   `json:"type_id"`
	DisplayName string   `json:"display_name"`
	Description string   `json:"description"`
	SubTypes    []string `json:"sub_types"`
}

// ParseResult is the uniform envelope every parser returns. Data holds the
// document-type-specific payload; Errors carries parse warnings on success
// and the failure reason on error.
type ParseResult struct {
	DocumentType    string         `json:"document_type"`
	DocumentSubType string         `json:"document_sub_type"`
	ParserVersion   string         `json:"parser_version"`
	ParseDate       string         `json:"parse_date"`
	Data            map[string]any `json:"data"`
	RawText         string         `json:"raw_text"`
	Errors          []string       `json:"errors"`
	Confidence      float64        `json:"confidence"`
	Metadata        map[string]any `json:"metadata"`
}

// Parser is one generation of one document type's extraction logic.
// CanParse scores a text sample 0..1; scores below the detection threshold
// mean "not mine".
type Parser interface {
	DocumentTypeInfo() DocumentTypeInfo
	Version() string
	CanParse(buf []byte, textSample string) float64
	Parse(buf []byte) (*ParseResult, error)
	MaskForDemo(data map[string]any) map[string]any
}

// NewFailedResult wraps a parse failure in a result envelope so callers get
// a uniform shape either way.
func NewFailedResult(docType, version string, err error) *ParseResult {
	return &ParseResult{
		DocumentType:  docType,
		ParserVersion: version,
		ParseDate:     time.Now().Format(time.RFC3339),
		Data:          map[string]any{},
		Errors:        []string{err.Error()},
		Confidence:    0,
		Metadata:      map[string]any{},
	}
}

// NotFoundError reports a missing document type or parser version, listing
// what is available instead.
type NotFoundError struct {
	DocumentType string
	Version      string
	Available    []string
}

func (e *NotFoundError) Error() string {
	if e.Version == "" {
		return fmt.Sprintf("no parser for document type %q (available: %v)", e.DocumentType, e.Available)
	}
	return fmt.Sprintf("no parser version %q for document type %q (available: %v)", e.Version, e.DocumentType, e.Available)
}
