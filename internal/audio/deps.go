package audio

import (
	"context"
	"os"
	"time"

	"github.com/alnah/audio-extract/internal/ffmpeg"
)

// commandRunner executes FFmpeg/FFprobe and returns both output streams.
// *ffmpeg.Executor satisfies it.
type commandRunner interface {
	Run(ctx context.Context, name string, args []string) (ffmpeg.Output, error)
}

// fileStatter retrieves file information.
type fileStatter interface {
	Stat(name string) (os.FileInfo, error)
}

// fileRemover removes files.
type fileRemover interface {
	Remove(name string) error
}

// durationProber measures the real duration of an audio file.
type durationProber interface {
	Duration(ctx context.Context, audioPath string) (time.Duration, error)
}

// --- Default implementations using real OS functions ---

// Compile-time interface verification.
var (
	_ commandRunner  = (*ffmpeg.Executor)(nil)
	_ fileStatter    = osFileStatter{}
	_ fileRemover    = osFileRemover{}
	_ durationProber = (*Prober)(nil)
)

// osFileStatter implements fileStatter using os.Stat.
type osFileStatter struct{}

func (osFileStatter) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

// osFileRemover implements fileRemover using os.Remove.
type osFileRemover struct{}

func (osFileRemover) Remove(name string) error {
	return os.Remove(name)
}
