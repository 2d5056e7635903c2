package downloader

import (
	"context"
	"fmt"
	"runtime"

	"go.uber.org/zap"
)

const (
	// EnvYTDLPPath overrides yt-dlp discovery.
	EnvYTDLPPath = "YTDLP_PATH"

	binaryName = "yt-dlp"
)

// Resolver locates the yt-dlp executable.
//
// Resolution order:
//  1. YTDLP_PATH environment variable (must exist)
//  2. yt-dlp in PATH
//  3. managed install through go-ytdlp (downloaded on first use)
type Resolver struct {
	env     envProvider
	stat    fileStatter
	install installFunc
	logger  *zap.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithResolverEnv sets the environment provider.
func WithResolverEnv(e envProvider) ResolverOption {
	return func(r *Resolver) {
		r.env = e
	}
}

// WithResolverFileStatter sets the file statter.
func WithResolverFileStatter(s fileStatter) ResolverOption {
	return func(r *Resolver) {
		r.stat = s
	}
}

// WithInstallFunc replaces the managed install step. Pass nil to disable it.
func WithInstallFunc(fn func(ctx context.Context) (string, error)) ResolverOption {
	return func(r *Resolver) {
		r.install = fn
	}
}

// WithResolverLogger sets the logger.
func WithResolverLogger(l *zap.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = l
	}
}

// NewResolver creates a Resolver backed by the real environment.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		env:     osEnvProvider{},
		stat:    osFileStatter{},
		install: ytdlpInstall,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	return r
}

// Resolve returns the path to yt-dlp or ErrYTDLPNotFound.
func (r *Resolver) Resolve(ctx context.Context) (string, error) {
	if p := r.env.Getenv(EnvYTDLPPath); p != "" {
		if _, err := r.stat.Stat(p); err != nil {
			return "", fmt.Errorf("%w: %s=%s does not exist", ErrYTDLPNotFound, EnvYTDLPPath, p)
		}
		return p, nil
	}

	if p, err := r.env.LookPath(binaryName); err == nil {
		return p, nil
	}

	if r.install != nil {
		r.logger.Info("yt-dlp not in PATH, installing managed copy")
		p, err := r.install(ctx)
		if err == nil {
			return p, nil
		}
		r.logger.Warn("yt-dlp install failed", zap.Error(err))
	}

	return "", fmt.Errorf("%w\n\n%s", ErrYTDLPNotFound, manualInstallInstructions())
}

func manualInstallInstructions() string {
	switch runtime.GOOS {
	case "darwin":
		return "Install yt-dlp with: brew install yt-dlp\nOr set YTDLP_PATH to the executable."
	case "windows":
		return "Install yt-dlp with: winget install yt-dlp\nOr set YTDLP_PATH to the executable."
	default:
		return "Install yt-dlp with your package manager or: pipx install yt-dlp\nOr set YTDLP_PATH to the executable."
	}
}
