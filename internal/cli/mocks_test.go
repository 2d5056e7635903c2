package cli

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/alnah/audio-extract/internal/config"
	"github.com/alnah/audio-extract/internal/logging"
	"github.com/alnah/audio-extract/internal/pipeline"
)

// ---------------------------------------------------------------------------
// Mock FFmpegResolver
// ---------------------------------------------------------------------------

type mockFFmpegResolver struct {
	ResolveFunc      func() (string, error)
	ProbePath        string
	CheckVersionFunc func(ctx context.Context, ffmpegPath string)

	mu            sync.Mutex
	resolveCalls  int
	versionChecks []string
}

func (m *mockFFmpegResolver) Resolve() (string, error) {
	m.mu.Lock()
	m.resolveCalls++
	m.mu.Unlock()

	if m.ResolveFunc != nil {
		return m.ResolveFunc()
	}
	return "/usr/bin/ffmpeg", nil
}

func (m *mockFFmpegResolver) ResolveProbe(string) string {
	return m.ProbePath
}

func (m *mockFFmpegResolver) CheckVersion(ctx context.Context, ffmpegPath string, _ *zap.Logger) {
	m.mu.Lock()
	m.versionChecks = append(m.versionChecks, ffmpegPath)
	m.mu.Unlock()

	if m.CheckVersionFunc != nil {
		m.CheckVersionFunc(ctx, ffmpegPath)
	}
}

func (m *mockFFmpegResolver) ResolveCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resolveCalls
}

func (m *mockFFmpegResolver) VersionChecks() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.versionChecks...)
}

// ---------------------------------------------------------------------------
// Mock YTDLPResolver
// ---------------------------------------------------------------------------

type mockYTDLPResolver struct {
	ResolveFunc func(ctx context.Context) (string, error)

	mu           sync.Mutex
	resolveCalls int
}

func (m *mockYTDLPResolver) Resolve(ctx context.Context, _ *zap.Logger) (string, error) {
	m.mu.Lock()
	m.resolveCalls++
	m.mu.Unlock()

	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx)
	}
	return "/usr/bin/yt-dlp", nil
}

func (m *mockYTDLPResolver) ResolveCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resolveCalls
}

// ---------------------------------------------------------------------------
// Mock ConfigLoader
// ---------------------------------------------------------------------------

type mockConfigLoader struct {
	LoadFunc func() (config.Config, error)

	mu        sync.Mutex
	loadCalls int
}

func (m *mockConfigLoader) Load() (config.Config, error) {
	m.mu.Lock()
	m.loadCalls++
	m.mu.Unlock()

	if m.LoadFunc != nil {
		return m.LoadFunc()
	}
	return config.Config{}, nil
}

func (m *mockConfigLoader) LoadCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadCalls
}

// ---------------------------------------------------------------------------
// Mock LoggerFactory
// ---------------------------------------------------------------------------

type mockLoggerFactory struct {
	Err error

	mu      sync.Mutex
	configs []logging.Config
	closed  int
}

func (m *mockLoggerFactory) NewLogger(cfg logging.Config) (*zap.Logger, func() error, error) {
	m.mu.Lock()
	m.configs = append(m.configs, cfg)
	m.mu.Unlock()

	if m.Err != nil {
		return nil, nil, m.Err
	}
	closeFn := func() error {
		m.mu.Lock()
		m.closed++
		m.mu.Unlock()
		return nil
	}
	return zap.NewNop(), closeFn, nil
}

func (m *mockLoggerFactory) Configs() []logging.Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]logging.Config(nil), m.configs...)
}

func (m *mockLoggerFactory) Closed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// ---------------------------------------------------------------------------
// Mock PipelineFactory + Runner
// ---------------------------------------------------------------------------

type mockPipelineFactory struct {
	Err    error
	runner *mockRunner

	mu    sync.Mutex
	tools []Tools
}

func (m *mockPipelineFactory) NewPipeline(tools Tools) (Runner, error) {
	m.mu.Lock()
	m.tools = append(m.tools, tools)
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	if m.runner == nil {
		m.runner = &mockRunner{}
	}
	return m.runner, nil
}

func (m *mockPipelineFactory) Tools() []Tools {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Tools(nil), m.tools...)
}

type mockRunner struct {
	RunFunc func(ctx context.Context, req pipeline.Request) (pipeline.Result, error)

	mu       sync.Mutex
	requests []pipeline.Request
}

func (m *mockRunner) Run(ctx context.Context, req pipeline.Request) (pipeline.Result, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.RunFunc != nil {
		return m.RunFunc(ctx, req)
	}
	return pipeline.Result{
		Dir:   "/out/Title-0-03-32",
		Files: []string{"/out/Title-0-03-32/Title.wav"},
	}, nil
}

func (m *mockRunner) Requests() []pipeline.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]pipeline.Request(nil), m.requests...)
}

// ---------------------------------------------------------------------------
// Mock Opener
// ---------------------------------------------------------------------------

type mockOpener struct {
	Err error

	mu     sync.Mutex
	opened []string
}

func (m *mockOpener) Open(_ context.Context, dir string) error {
	m.mu.Lock()
	m.opened = append(m.opened, dir)
	m.mu.Unlock()
	return m.Err
}

func (m *mockOpener) Opened() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.opened...)
}

// Compile-time interface verification.
var (
	_ FFmpegResolver  = (*mockFFmpegResolver)(nil)
	_ YTDLPResolver   = (*mockYTDLPResolver)(nil)
	_ ConfigLoader    = (*mockConfigLoader)(nil)
	_ LoggerFactory   = (*mockLoggerFactory)(nil)
	_ PipelineFactory = (*mockPipelineFactory)(nil)
	_ Runner          = (*mockRunner)(nil)
	_ Opener          = (*mockOpener)(nil)
)
