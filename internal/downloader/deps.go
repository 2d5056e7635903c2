package downloader

import (
	"context"
	"os"
	"os/exec"

	"github.com/lrstanley/go-ytdlp"
)

// commandRunner executes a prepared yt-dlp command against one URL.
type commandRunner interface {
	Run(ctx context.Context, cmd *ytdlp.Command, url string) (*ytdlp.Result, error)
}

// fileStatter retrieves file information.
type fileStatter interface {
	Stat(name string) (os.FileInfo, error)
}

// envProvider abstracts environment lookups for executable resolution.
type envProvider interface {
	Getenv(key string) string
	LookPath(file string) (string, error)
}

// installFunc fetches a managed yt-dlp binary and returns its path.
type installFunc func(ctx context.Context) (string, error)

// --- Default implementations ---

// Compile-time interface verification.
var (
	_ commandRunner = ytdlpRunner{}
	_ fileStatter   = osFileStatter{}
	_ envProvider   = osEnvProvider{}
)

// ytdlpRunner runs commands through go-ytdlp.
type ytdlpRunner struct{}

func (ytdlpRunner) Run(ctx context.Context, cmd *ytdlp.Command, url string) (*ytdlp.Result, error) {
	return cmd.Run(ctx, url)
}

type osFileStatter struct{}

func (osFileStatter) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

type osEnvProvider struct{}

func (osEnvProvider) Getenv(key string) string {
	return os.Getenv(key)
}

func (osEnvProvider) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// ytdlpInstall downloads (or reuses) the yt-dlp build cached by go-ytdlp.
func ytdlpInstall(ctx context.Context) (string, error) {
	resolved, err := ytdlp.Install(ctx, nil)
	if err != nil {
		return "", err
	}
	return resolved.Executable, nil
}
