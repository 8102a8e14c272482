// Package mcp exposes the document parser registry over the Model Context
// Protocol.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/junsik/pdf-extractor/internal/config"
	"github.com/junsik/pdf-extractor/internal/parsers"
)

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	registry  *parsers.Registry
	mcpServer *server.MCPServer
	log       zerolog.Logger
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, registry *parsers.Registry, log zerolog.Logger) (*Server, error) {
	if registry == nil {
		return nil, fmt.Errorf("registry cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:    cfg,
		registry:  registry,
		mcpServer: mcpServer,
		log:       log,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	detectTool := mcp.NewTool(
		"document_detect_type",
		mcp.WithDescription("Detect the document type of a PDF file"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(detectTool, s.handleDetectType)

	parseTool := mcp.NewTool(
		"document_parse",
		mcp.WithDescription("Parse a PDF document into structured JSON data"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
		mcp.WithString("type",
			mcp.Description("Document type (auto-detected if empty)"),
		),
		mcp.WithString("version",
			mcp.Description("Parser version (default: latest)"),
		),
		mcp.WithBoolean("mask",
			mcp.Description("Apply demo masking to personal data"),
		),
	)
	s.mcpServer.AddTool(parseTool, s.handleParse)

	listTypesTool := mcp.NewTool(
		"document_list_types",
		mcp.WithDescription("List the supported document types"),
	)
	s.mcpServer.AddTool(listTypesTool, s.handleListTypes)

	listVersionsTool := mcp.NewTool(
		"document_list_versions",
		mcp.WithDescription("List available parser versions for a document type"),
		mcp.WithString("type",
			mcp.Required(),
			mcp.Description("Document type id"),
		),
	)
	s.mcpServer.AddTool(listVersionsTool, s.handleListVersions)

	validateTool := mcp.NewTool(
		"document_validate",
		mcp.WithDescription("Validate that a file is a readable PDF with a detectable document type"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(validateTool, s.handleValidate)
}

// readDocument loads a PDF after confining the path to the configured
// directory and enforcing the size limit.
func (s *Server) readDocument(path string) ([]byte, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	rel, err := filepath.Rel(s.config.DocumentDirectory, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return nil, fmt.Errorf("path %s is outside the document directory %s", path, s.config.DocumentDirectory)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}
	if info.Size() > s.config.MaxFileSize {
		return nil, fmt.Errorf("file size %d exceeds limit %d", info.Size(), s.config.MaxFileSize)
	}

	return os.ReadFile(abs)
}

// Handler functions
func (s *Server) handleDetectType(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	buf, err := s.readDocument(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	docType, confidence, err := s.registry.DetectType(buf)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("Detected document type: %s (confidence %.2f)", docType, confidence)
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleParse(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	args := request.GetArguments()

	docType := ""
	if t, ok := args["type"].(string); ok {
		docType = t
	}
	version := parsers.Latest
	if v, ok := args["version"].(string); ok && v != "" {
		version = v
	}
	mask := false
	if m, ok := args["mask"].(bool); ok {
		mask = m
	}

	buf, err := s.readDocument(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if docType == "" {
		detected, confidence, err := s.registry.DetectType(buf)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		s.log.Debug().Str("path", path).Str("document_type", detected).Float64("confidence", confidence).
			Msg("document type detected")
		docType = detected
	}

	result, err := s.registry.Parse(buf, docType, version)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if mask {
		masked, err := s.registry.MaskForDemo(docType, result.ParserVersion, result.Data)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		result.Data = masked
		result.RawText = ""
	}

	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}

func (s *Server) handleListTypes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	infos := s.registry.ListDocumentTypes()
	if len(infos) == 0 {
		return mcp.NewToolResultText("No document types registered"), nil
	}

	responseText := fmt.Sprintf("Registered document types (%d):\n", len(infos))
	for _, info := range infos {
		versions := s.registry.ListVersions(info.TypeID)
		responseText += fmt.Sprintf("\n• %s (%s)\n", info.TypeID, info.DisplayName)
		responseText += fmt.Sprintf("  Description: %s\n", info.Description)
		responseText += fmt.Sprintf("  Versions: %s\n", strings.Join(versions, ", "))
		if len(info.SubTypes) > 0 {
			responseText += fmt.Sprintf("  Sub-types: %s\n", strings.Join(info.SubTypes, ", "))
		}
	}
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleListVersions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docType, err := request.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	versions := s.registry.ListVersions(docType)
	if len(versions) == 0 {
		return mcp.NewToolResultError(fmt.Sprintf("unknown document type: %s", docType)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Versions for %s: %s", docType, strings.Join(versions, ", "))), nil
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	buf, err := s.readDocument(path)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("Validation failed for %s: %v", path, err)), nil
	}

	docType, confidence, err := s.registry.DetectType(buf)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("File %s is readable but no parser matched: %v", path, err)), nil
	}
	return mcp.NewToolResultText(
		fmt.Sprintf("File %s is a valid %s document (confidence %.2f)", path, docType, confidence)), nil
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

// runStdioMode runs the server in stdio mode
func (s *Server) runStdioMode(_ context.Context) error {
	if s.config.IsDebug() {
		s.log.Debug().Str("dir", s.config.DocumentDirectory).Msg("starting MCP server in stdio mode")
	}

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode runs the server in HTTP server mode
func (s *Server) runServerMode(ctx context.Context) error {
	// The transport library only speaks stdio here.
	s.log.Warn().Msg("server mode not supported, falling back to stdio")
	return s.runStdioMode(ctx)
}
