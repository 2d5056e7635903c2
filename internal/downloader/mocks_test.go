package downloader_test

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/lrstanley/go-ytdlp"
)

// ---------------------------------------------------------------------------
// Mocks for testing
// ---------------------------------------------------------------------------

type mockRunner struct {
	mu     sync.Mutex
	runFn  func(ctx context.Context, url string) (*ytdlp.Result, error)
	urls   []string
	hadCmd []bool
}

func (m *mockRunner) Run(ctx context.Context, cmd *ytdlp.Command, url string) (*ytdlp.Result, error) {
	m.mu.Lock()
	m.urls = append(m.urls, url)
	m.hadCmd = append(m.hadCmd, cmd != nil)
	m.mu.Unlock()
	if m.runFn != nil {
		return m.runFn(ctx, url)
	}
	return &ytdlp.Result{}, nil
}

type existingFiles map[string]bool

func (e existingFiles) Stat(name string) (os.FileInfo, error) {
	if e[name] {
		return mockFileInfo{}, nil
	}
	return nil, os.ErrNotExist
}

type mockFileInfo struct{}

func (mockFileInfo) Name() string       { return "audio.wav" }
func (mockFileInfo) Size() int64        { return 1 }
func (mockFileInfo) Mode() os.FileMode  { return 0644 }
func (mockFileInfo) ModTime() time.Time { return time.Time{} }
func (mockFileInfo) IsDir() bool        { return false }
func (mockFileInfo) Sys() any           { return nil }

type mockEnv struct {
	vars     map[string]string
	pathBins map[string]string
}

func (m mockEnv) Getenv(key string) string { return m.vars[key] }

func (m mockEnv) LookPath(file string) (string, error) {
	if p, ok := m.pathBins[file]; ok {
		return p, nil
	}
	return "", os.ErrNotExist
}
