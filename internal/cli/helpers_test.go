package cli

import (
	"bytes"
	"io"
	"sync"

	"github.com/alnah/audio-extract/internal/config"
)

// ---------------------------------------------------------------------------
// syncBuffer - thread-safe bytes.Buffer for concurrent test output
// ---------------------------------------------------------------------------

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Compile-time check that syncBuffer implements io.Writer.
var _ io.Writer = (*syncBuffer)(nil)

// ---------------------------------------------------------------------------
// testMocks - convenience struct for grouping all mocks
// ---------------------------------------------------------------------------

type testMocks struct {
	ffmpegResolver *mockFFmpegResolver
	ytdlpResolver  *mockYTDLPResolver
	configLoader   *mockConfigLoader
	loggerFactory  *mockLoggerFactory
	pipeline       *mockPipelineFactory
	runner         *mockRunner
	opener         *mockOpener
}

func newTestMocks() *testMocks {
	runner := &mockRunner{}
	return &testMocks{
		ffmpegResolver: &mockFFmpegResolver{ProbePath: "/usr/bin/ffprobe"},
		ytdlpResolver:  &mockYTDLPResolver{},
		configLoader:   &mockConfigLoader{},
		loggerFactory:  &mockLoggerFactory{},
		pipeline:       &mockPipelineFactory{runner: runner},
		runner:         runner,
		opener:         &mockOpener{},
	}
}

// ---------------------------------------------------------------------------
// testEnv - creates a fully mocked Env for testing
// ---------------------------------------------------------------------------

// testEnv creates a test Env with all dependencies mocked.
// Returns the Env, the mocks for assertions, and the stdout/stderr buffers.
func testEnv(getenv map[string]string) (*Env, *testMocks, *syncBuffer, *syncBuffer) {
	mocks := newTestMocks()
	stdout, stderr := &syncBuffer{}, &syncBuffer{}

	env := &Env{
		Stdout:          stdout,
		Stderr:          stderr,
		Getenv:          staticEnv(getenv),
		FFmpegResolver:  mocks.ffmpegResolver,
		YTDLPResolver:   mocks.ytdlpResolver,
		ConfigLoader:    mocks.configLoader,
		LoggerFactory:   mocks.loggerFactory,
		PipelineFactory: mocks.pipeline,
		Opener:          mocks.opener,
	}
	return env, mocks, stdout, stderr
}

// staticEnv returns a getenv function that returns values from the given map.
func staticEnv(env map[string]string) func(string) string {
	return func(key string) string {
		return env[key]
	}
}

// configWithOutputDir returns a ConfigLoader that returns a config with the given output directory.
func configWithOutputDir(outputDir string) *mockConfigLoader {
	return &mockConfigLoader{
		LoadFunc: func() (config.Config, error) {
			return config.Config{OutputDir: outputDir}, nil
		},
	}
}
