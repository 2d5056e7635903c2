package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/alnah/audio-extract/internal/audio"
	"github.com/alnah/audio-extract/internal/cli"
	"github.com/alnah/audio-extract/internal/config"
	"github.com/alnah/audio-extract/internal/downloader"
	"github.com/alnah/audio-extract/internal/ffmpeg"
	"github.com/alnah/audio-extract/internal/logging"
	"github.com/alnah/audio-extract/internal/pipeline"
	"github.com/alnah/audio-extract/internal/source"
)

// Injected at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

// Exit codes.
const (
	ExitOK        = 0
	ExitGeneral   = 1
	ExitUsage     = 2
	ExitSetup     = 3
	ExitInput     = 4
	ExitFetch     = 5
	ExitProcess   = 6
	ExitInterrupt = 130
)

func main() {
	// Load .env file if present (ignore error if missing).
	_ = godotenv.Load()

	// Context with signal cancellation.
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)

	env := cli.DefaultEnv()
	rootCmd := cli.RootCmd(env, fmt.Sprintf("%s (commit: %s)", version, commit))
	rootCmd.SetArgs(cli.NormalizeArgs(os.Args[1:]))

	err := rootCmd.ExecuteContext(ctx)
	cancel()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps errors to process exit codes.
func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	// Check for context cancellation (interrupt).
	if errors.Is(err, context.Canceled) {
		return ExitInterrupt
	}

	// Usage errors: invalid flag combinations.
	if errors.Is(err, cli.ErrEndWithoutStart) ||
		errors.Is(err, cli.ErrInvalidChunkSize) || errors.Is(err, cli.ErrInvalidTimeout) ||
		errors.Is(err, config.ErrUnknownKey) {
		return ExitUsage
	}

	// Setup errors: external tools missing.
	if errors.Is(err, ffmpeg.ErrNotFound) || errors.Is(err, downloader.ErrYTDLPNotFound) {
		return ExitSetup
	}

	// Input errors.
	if errors.Is(err, source.ErrInvalidInput) || errors.Is(err, audio.ErrInvalidTimestamp) ||
		errors.Is(err, audio.ErrInvalidRange) || errors.Is(err, audio.ErrInvalidChunkSize) ||
		errors.Is(err, pipeline.ErrInvalidRequest) ||
		errors.Is(err, logging.ErrInvalidLevel) || errors.Is(err, config.ErrNotDirectory) ||
		errors.Is(err, config.ErrNotWritable) {
		return ExitInput
	}

	// Remote errors.
	if errors.Is(err, downloader.ErrMetadataFetch) || errors.Is(err, downloader.ErrDownload) {
		return ExitFetch
	}

	// Local processing errors.
	if errors.Is(err, audio.ErrTrimFailed) || errors.Is(err, audio.ErrSplitFailed) ||
		errors.Is(err, audio.ErrInvalidDuration) || errors.Is(err, audio.ErrProbeFailed) ||
		errors.Is(err, audio.ErrFileNotFound) {
		return ExitProcess
	}

	// Anything else a stage reported falls back to the stage's category.
	if stage, ok := pipeline.StageOf(err); ok {
		switch stage {
		case pipeline.StageValidate, pipeline.StageResolve:
			return ExitInput
		case pipeline.StageMetadata, pipeline.StageDownload:
			return ExitFetch
		case pipeline.StageTrim, pipeline.StageSplit:
			return ExitProcess
		}
	}

	// Cobra parsing errors are checked last: tool output quoted in domain
	// errors may contain the same phrases.
	if isCobraUsageError(err) {
		return ExitUsage
	}

	return ExitGeneral
}

// cobraUsageErrorPatterns contains error message substrings that indicate Cobra usage errors.
// Cobra doesn't expose typed errors, so string matching is the only reliable approach.
var cobraUsageErrorPatterns = []string{
	"required flag",          // Missing required flag
	"unknown flag",           // Flag doesn't exist
	"unknown shorthand",      // Short flag doesn't exist
	"unknown command",        // Stray positional argument
	"flag needs an argument", // Flag provided without value
	"invalid argument",       // Invalid flag value type
	"accepts ",               // Wrong number of arguments (e.g., "accepts 1 arg(s)")
	"requires at least",      // Too few arguments
	"requires at most",       // Too many arguments
}

// isCobraUsageError checks if an error is a Cobra usage/parsing error.
func isCobraUsageError(err error) bool {
	if err == nil {
		return false
	}
	errMsg := err.Error()
	for _, pattern := range cobraUsageErrorPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}
	return false
}
