package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/junsik/pdf-extractor/internal/config"
	"github.com/junsik/pdf-extractor/internal/mcp"
	"github.com/junsik/pdf-extractor/internal/parsers"
	"github.com/junsik/pdf-extractor/internal/registry"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// setupLogging builds the logger for the server mode. Stdio mode keeps the
// MCP protocol stream clean: logs go to stderr, and are discarded entirely
// unless debug is enabled.
func setupLogging(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var out io.Writer = os.Stderr
	if cfg.IsStdioMode() && !cfg.IsDebug() {
		out = io.Discard
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// runServerMode handles server mode execution with signal handling
func runServerMode(ctx context.Context, cancel context.CancelFunc, server *mcp.Server, log zerolog.Logger) {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.Run(ctx)
	}()

	select {
	case sig := <-signalCh:
		log.Info().Str("signal", sig.String()).Msg("initiating graceful shutdown")
		cancel()

		if err := <-serverErrCh; err != nil {
			log.Error().Err(err).Msg("server shutdown with error")
			os.Exit(1)
		}

	case err := <-serverErrCh:
		if err != nil {
			log.Error().Err(err).Msg("server error")
			os.Exit(1)
		}
	}

	log.Info().Msg("server stopped")
}

// runStdioMode handles stdio mode execution
func runStdioMode(ctx context.Context, server *mcp.Server, log zerolog.Logger) {
	// In stdio mode, the parent process controls our lifecycle.
	if err := server.Run(ctx); err != nil {
		log.Error().Err(err).Msg("server error")
		os.Exit(1)
	}
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := setupLogging(cfg)

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}

	if cfg.IsDebug() && cfg.IsServerMode() {
		log.Debug().Str("config", cfg.String()).Msg("starting")
	}

	reg := parsers.NewRegistry(log)
	registry.RegisterAll(reg, redThresholds(cfg), log)

	server, err := mcp.NewServer(cfg, reg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create MCP server")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.IsServerMode() {
		runServerMode(ctx, cancel, server, log)
	} else {
		runStdioMode(ctx, server, log)
	}
}

// redThresholds maps the configured red-ink thresholds onto the parser type.
func redThresholds(cfg *config.Config) registry.RedThresholds {
	return registry.RedThresholds{
		UnitR:       cfg.RedUnitR,
		UnitGB:      cfg.RedUnitGB,
		ByteR:       cfg.RedByteR,
		ByteGB:      cfg.RedByteGB,
		CMYKMagenta: cfg.RedCMYKMagenta,
		CMYKYellow:  cfg.RedCMYKYellow,
		CMYKCyan:    cfg.RedCMYKCyan,
	}
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("Registry Extract\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
