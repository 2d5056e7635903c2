package audio_test

import (
	"context"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/alnah/audio-extract/internal/ffmpeg"
)

// ---------------------------------------------------------------------------
// Mocks for testing
// ---------------------------------------------------------------------------

type mockCommandRunner struct {
	mu      sync.Mutex
	runFunc func(ctx context.Context, name string, args []string) (ffmpeg.Output, error)
	calls   []mockCall
}

type mockCall struct {
	name string
	args []string
}

func (m *mockCommandRunner) Run(ctx context.Context, name string, args []string) (ffmpeg.Output, error) {
	m.mu.Lock()
	m.calls = append(m.calls, mockCall{name: name, args: slices.Clone(args)})
	m.mu.Unlock()
	if m.runFunc != nil {
		return m.runFunc(ctx, name, args)
	}
	return ffmpeg.Output{}, nil
}

func (m *mockCommandRunner) Calls() []mockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.calls)
}

type mockFileRemover struct {
	mu      sync.Mutex
	removed []string
	err     error
}

func (m *mockFileRemover) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removed = append(m.removed, name)
	return m.err
}

func (m *mockFileRemover) Removed() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.removed)
}

type mockFileStatter struct {
	size int64
	err  error
}

func (m *mockFileStatter) Stat(name string) (os.FileInfo, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &mockFileInfo{size: m.size}, nil
}

type mockFileInfo struct {
	size int64
}

func (m *mockFileInfo) Name() string       { return "mock.wav" }
func (m *mockFileInfo) Size() int64        { return m.size }
func (m *mockFileInfo) Mode() os.FileMode  { return 0644 }
func (m *mockFileInfo) ModTime() time.Time { return time.Now() }
func (m *mockFileInfo) IsDir() bool        { return false }
func (m *mockFileInfo) Sys() any           { return nil }

type stubProber struct {
	d   time.Duration
	err error
}

func (s stubProber) Duration(context.Context, string) (time.Duration, error) {
	return s.d, s.err
}

// argAfter returns the argument following flag, or "".
func argAfter(args []string, flag string) string {
	i := slices.Index(args, flag)
	if i < 0 || i+1 >= len(args) {
		return ""
	}
	return args[i+1]
}
