package ffmpeg

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"go.uber.org/zap"
)

const (
	// binaryName is the base name of the ffmpeg binary.
	binaryName = "ffmpeg"

	// probeBinaryName is the base name of the ffprobe binary.
	probeBinaryName = "ffprobe"

	// binaryExtWindows is the file extension for Windows executables.
	binaryExtWindows = ".exe"

	// installDirName is the per-user directory checked after FFMPEG_PATH.
	installDirName = ".audio-extract"

	// minFFmpegMajorVersion is the minimum supported ffmpeg version.
	// Older builds mishandle -c copy on WAV offsets.
	minFFmpegMajorVersion = 4
)

// Environment variables for custom binary paths.
const (
	envFFmpegPath  = "FFMPEG_PATH"
	envFFprobePath = "FFPROBE_PATH"
)

// ---------------------------------------------------------------------------
// Resolver - testable FFmpeg resolution with dependency injection
// ---------------------------------------------------------------------------

// Resolver finds the ffmpeg and ffprobe binaries.
type Resolver struct {
	stat fileStatter
	env  envProvider
	goos string
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithFileStatter sets the file statter implementation.
func WithFileStatter(s fileStatter) ResolverOption {
	return func(res *Resolver) { res.stat = s }
}

// WithEnvProvider sets the environment provider implementation.
func WithEnvProvider(e envProvider) ResolverOption {
	return func(res *Resolver) { res.env = e }
}

// WithPlatform sets the target OS (for testing cross-platform behavior).
func WithPlatform(goos string) ResolverOption {
	return func(res *Resolver) { res.goos = goos }
}

// NewResolver creates a Resolver with the given options.
// Uses production defaults if no options are provided.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		stat: osFileStatter{},
		env:  osEnvProvider{},
		goos: runtime.GOOS,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve finds ffmpeg using the following precedence:
//  1. FFMPEG_PATH environment variable (error if set but invalid)
//  2. ~/.audio-extract/bin/ffmpeg
//  3. System PATH
func (r *Resolver) Resolve() (string, error) {
	if envPath := r.env.Getenv(envFFmpegPath); envPath != "" {
		if _, err := r.stat.Stat(envPath); err != nil {
			return "", fmt.Errorf("%w: %s is set to %q but binary not found",
				ErrNotFound, envFFmpegPath, envPath)
		}
		return envPath, nil
	}

	if path, ok := r.installed(binaryName); ok {
		return path, nil
	}

	if path, err := r.env.LookPath(binaryName); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("%w\n\n%s", ErrNotFound, r.manualInstallInstructions())
}

// ResolveProbe finds ffprobe, preferring FFPROBE_PATH, then the directory
// holding ffmpegPath, then the install directory, then PATH.
// Returns "" when ffprobe is not available; callers fall back to ffmpeg.
func (r *Resolver) ResolveProbe(ffmpegPath string) string {
	if envPath := r.env.Getenv(envFFprobePath); envPath != "" {
		if _, err := r.stat.Stat(envPath); err == nil {
			return envPath
		}
		return ""
	}

	if ffmpegPath != "" {
		sibling := filepath.Join(filepath.Dir(ffmpegPath), r.exeName(probeBinaryName))
		if _, err := r.stat.Stat(sibling); err == nil {
			return sibling
		}
	}

	if path, ok := r.installed(probeBinaryName); ok {
		return path
	}

	if path, err := r.env.LookPath(probeBinaryName); err == nil {
		return path
	}
	return ""
}

// installed reports whether name exists in the per-user install directory.
func (r *Resolver) installed(name string) (string, bool) {
	home, err := r.env.UserHomeDir()
	if err != nil {
		return "", false
	}
	path := filepath.Join(home, installDirName, "bin", r.exeName(name))
	if _, err := r.stat.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// exeName appends the Windows executable extension when needed.
func (r *Resolver) exeName(name string) string {
	if r.goos == "windows" {
		return name + binaryExtWindows
	}
	return name
}

// manualInstallInstructions returns platform-specific instructions.
func (r *Resolver) manualInstallInstructions() string {
	switch r.goos {
	case "darwin":
		return `To install FFmpeg:
  brew install ffmpeg

Or set FFMPEG_PATH environment variable to your ffmpeg binary.`
	case "linux":
		return `To install FFmpeg:
  Ubuntu/Debian: sudo apt install ffmpeg
  Fedora:        sudo dnf install ffmpeg
  Arch:          sudo pacman -S ffmpeg

Or set FFMPEG_PATH environment variable to your ffmpeg binary.`
	case "windows":
		return `To install FFmpeg:
  winget install ffmpeg

Or set FFMPEG_PATH environment variable to your ffmpeg.exe.`
	default:
		return `To install FFmpeg, download it from https://ffmpeg.org/download.html
Or set FFMPEG_PATH environment variable to your ffmpeg binary.`
	}
}

// ---------------------------------------------------------------------------
// VersionChecker
// ---------------------------------------------------------------------------

// VersionChecker verifies FFmpeg version requirements.
type VersionChecker struct {
	executor *Executor
	logger   *zap.Logger
}

// VersionCheckerOption configures a VersionChecker.
type VersionCheckerOption func(*VersionChecker)

// WithVersionExecutor sets the executor for running FFmpeg.
func WithVersionExecutor(e *Executor) VersionCheckerOption {
	return func(vc *VersionChecker) { vc.executor = e }
}

// WithVersionLogger sets the logger for warnings.
func WithVersionLogger(l *zap.Logger) VersionCheckerOption {
	return func(vc *VersionChecker) { vc.logger = l }
}

// NewVersionChecker creates a VersionChecker with the given options.
func NewVersionChecker(opts ...VersionCheckerOption) *VersionChecker {
	vc := &VersionChecker{
		executor: NewExecutor(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(vc)
	}
	if vc.logger == nil {
		vc.logger = zap.NewNop()
	}
	return vc
}

// Check verifies that ffmpeg meets minimum version requirements.
// Logs a warning if the version is below minimum but doesn't fail.
// Returns true if the version was parsed, false otherwise.
func (vc *VersionChecker) Check(ctx context.Context, ffmpegPath string) bool {
	out, err := vc.executor.Run(ctx, ffmpegPath, []string{"-version"})
	text := out.Stdout
	if text == "" {
		text = out.Stderr
	}
	if err != nil && text == "" {
		return false
	}

	major, ok := parseMajorVersion(text)
	if !ok {
		return false
	}

	if major < minFFmpegMajorVersion {
		vc.logger.Warn("ffmpeg version below recommended minimum",
			zap.Int("detected", major),
			zap.Int("minimum", minFFmpegMajorVersion))
	}
	return true
}

// parseMajorVersion reads the major version from the first line of
// "ffmpeg -version" output, e.g. "ffmpeg version 6.1.1 Copyright..."
// or "ffmpeg version n6.1.1-...".
func parseMajorVersion(output string) (int, bool) {
	line, _, _ := strings.Cut(output, "\n")
	if line == "" {
		return 0, false
	}

	var major int
	if _, err := fmt.Sscanf(line, "ffmpeg version %d", &major); err == nil {
		return major, true
	}
	if _, err := fmt.Sscanf(line, "ffmpeg version n%d", &major); err == nil {
		return major, true
	}
	return 0, false
}

// ---------------------------------------------------------------------------
// Package-level helpers
// ---------------------------------------------------------------------------

// Resolve finds ffmpeg using a default Resolver.
func Resolve() (string, error) {
	return NewResolver().Resolve()
}

// ResolveProbe finds ffprobe next to ffmpegPath using a default Resolver.
func ResolveProbe(ffmpegPath string) string {
	return NewResolver().ResolveProbe(ffmpegPath)
}
