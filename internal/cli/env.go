package cli

import (
	"context"
	"io"
	"os"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/audio-extract/internal/audio"
	"github.com/alnah/audio-extract/internal/config"
	"github.com/alnah/audio-extract/internal/downloader"
	"github.com/alnah/audio-extract/internal/ffmpeg"
	"github.com/alnah/audio-extract/internal/logging"
	"github.com/alnah/audio-extract/internal/pipeline"
)

// Env holds injectable dependencies for CLI commands.
// This is the central injection point for testing CLI commands in isolation.
//
// All fields have sensible defaults via DefaultEnv(). Tests can override
// specific fields using the With* options or by creating a custom Env.
type Env struct {
	// I/O and environment
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string

	// Factories for domain objects
	FFmpegResolver  FFmpegResolver
	YTDLPResolver   YTDLPResolver
	ConfigLoader    ConfigLoader
	LoggerFactory   LoggerFactory
	PipelineFactory PipelineFactory
	Opener          Opener
}

// FFmpegResolver locates FFmpeg and FFprobe.
type FFmpegResolver interface {
	Resolve() (string, error)
	ResolveProbe(ffmpegPath string) string
	CheckVersion(ctx context.Context, ffmpegPath string, logger *zap.Logger)
}

// YTDLPResolver locates yt-dlp.
type YTDLPResolver interface {
	Resolve(ctx context.Context, logger *zap.Logger) (string, error)
}

// ConfigLoader loads and provides access to configuration.
type ConfigLoader interface {
	Load() (config.Config, error)
}

// LoggerFactory builds the run logger.
type LoggerFactory interface {
	NewLogger(cfg logging.Config) (*zap.Logger, func() error, error)
}

// Tools are the resolved external executables and call settings.
type Tools struct {
	FFmpeg  string
	FFprobe string // May be empty.
	YTDLP   string
	Timeout time.Duration
	Logger  *zap.Logger
}

// Runner executes an extraction request. *pipeline.Pipeline satisfies it.
type Runner interface {
	Run(ctx context.Context, req pipeline.Request) (pipeline.Result, error)
}

// PipelineFactory assembles a Runner from resolved tools.
type PipelineFactory interface {
	NewPipeline(tools Tools) (Runner, error)
}

// Opener reveals a directory in the desktop file manager.
type Opener interface {
	Open(ctx context.Context, dir string) error
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithStdout sets the stdout writer.
func WithStdout(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stdout = w
	}
}

// WithStderr sets the stderr writer.
func WithStderr(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stderr = w
	}
}

// WithGetenv sets the environment variable getter.
func WithGetenv(fn func(string) string) EnvOption {
	return func(e *Env) {
		e.Getenv = fn
	}
}

// WithFFmpegResolver sets the FFmpeg resolver.
func WithFFmpegResolver(r FFmpegResolver) EnvOption {
	return func(e *Env) {
		e.FFmpegResolver = r
	}
}

// WithYTDLPResolver sets the yt-dlp resolver.
func WithYTDLPResolver(r YTDLPResolver) EnvOption {
	return func(e *Env) {
		e.YTDLPResolver = r
	}
}

// WithConfigLoader sets the config loader.
func WithConfigLoader(l ConfigLoader) EnvOption {
	return func(e *Env) {
		e.ConfigLoader = l
	}
}

// WithLoggerFactory sets the logger factory.
func WithLoggerFactory(f LoggerFactory) EnvOption {
	return func(e *Env) {
		e.LoggerFactory = f
	}
}

// WithPipelineFactory sets the pipeline factory.
func WithPipelineFactory(f PipelineFactory) EnvOption {
	return func(e *Env) {
		e.PipelineFactory = f
	}
}

// WithOpener sets the directory opener.
func WithOpener(o Opener) EnvOption {
	return func(e *Env) {
		e.Opener = o
	}
}

// DefaultEnv returns an Env with production defaults.
func DefaultEnv() *Env {
	return &Env{
		Stdout:          os.Stdout,
		Stderr:          os.Stderr,
		Getenv:          os.Getenv,
		FFmpegResolver:  defaultFFmpegResolver{},
		YTDLPResolver:   defaultYTDLPResolver{},
		ConfigLoader:    defaultConfigLoader{},
		LoggerFactory:   defaultLoggerFactory{},
		PipelineFactory: defaultPipelineFactory{},
		Opener:          NewDesktopOpener(runtime.GOOS),
	}
}

// NewEnv creates an Env with the given options applied to defaults.
func NewEnv(opts ...EnvOption) *Env {
	env := DefaultEnv()
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// ---------------------------------------------------------------------------
// Default implementations - delegate to real packages
// ---------------------------------------------------------------------------

// defaultFFmpegResolver implements FFmpegResolver using the ffmpeg package.
type defaultFFmpegResolver struct{}

func (defaultFFmpegResolver) Resolve() (string, error) {
	return ffmpeg.Resolve()
}

func (defaultFFmpegResolver) ResolveProbe(ffmpegPath string) string {
	return ffmpeg.ResolveProbe(ffmpegPath)
}

func (defaultFFmpegResolver) CheckVersion(ctx context.Context, ffmpegPath string, logger *zap.Logger) {
	ffmpeg.NewVersionChecker(ffmpeg.WithVersionLogger(logger)).Check(ctx, ffmpegPath)
}

// defaultYTDLPResolver implements YTDLPResolver using the downloader package.
type defaultYTDLPResolver struct{}

func (defaultYTDLPResolver) Resolve(ctx context.Context, logger *zap.Logger) (string, error) {
	return downloader.NewResolver(downloader.WithResolverLogger(logger)).Resolve(ctx)
}

// defaultConfigLoader implements ConfigLoader using the config package.
type defaultConfigLoader struct{}

func (defaultConfigLoader) Load() (config.Config, error) {
	return config.Load()
}

// defaultLoggerFactory implements LoggerFactory using the logging package.
type defaultLoggerFactory struct{}

func (defaultLoggerFactory) NewLogger(cfg logging.Config) (*zap.Logger, func() error, error) {
	return logging.New(cfg)
}

// defaultPipelineFactory wires the real downloader, trimmer and splitter.
type defaultPipelineFactory struct{}

func (defaultPipelineFactory) NewPipeline(tools Tools) (Runner, error) {
	logger := tools.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	runner := ffmpeg.NewExecutor(ffmpeg.WithTimeout(tools.Timeout))

	client, err := downloader.New(tools.YTDLP,
		downloader.WithTimeout(tools.Timeout),
		downloader.WithLogger(logger.Named("downloader")))
	if err != nil {
		return nil, err
	}

	trimmer, err := audio.NewTrimmer(tools.FFmpeg,
		audio.WithTrimmerCommandRunner(runner),
		audio.WithTrimmerLogger(logger.Named("trim")))
	if err != nil {
		return nil, err
	}

	prober, err := audio.NewProber(tools.FFmpeg, tools.FFprobe,
		audio.WithProberCommandRunner(runner),
		audio.WithProberLogger(logger.Named("probe")))
	if err != nil {
		return nil, err
	}

	newSplitter := func(chunkMB float64) (pipeline.Splitter, error) {
		s, err := audio.NewSplitter(tools.FFmpeg, chunkMB, prober,
			audio.WithSplitterCommandRunner(runner),
			audio.WithSplitterLogger(logger.Named("split")))
		if err != nil {
			return nil, err
		}
		return s, nil
	}

	return pipeline.New(client, trimmer, newSplitter, pipeline.WithLogger(logger)), nil
}

// Compile-time interface verification.
var (
	_ FFmpegResolver  = defaultFFmpegResolver{}
	_ YTDLPResolver   = defaultYTDLPResolver{}
	_ ConfigLoader    = defaultConfigLoader{}
	_ LoggerFactory   = defaultLoggerFactory{}
	_ PipelineFactory = defaultPipelineFactory{}
	_ Runner          = (*pipeline.Pipeline)(nil)
	_ Opener          = (*DesktopOpener)(nil)
)
