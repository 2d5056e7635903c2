package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/alnah/audio-extract/internal/ffmpeg"
	"github.com/alnah/audio-extract/internal/format"
)

// trimmedSuffix is appended to the base name of a trimmed file.
const trimmedSuffix = "_trimmed"

// Trimmer cuts a time range out of an audio file by stream copy.
type Trimmer struct {
	ffmpegPath string

	// Injectable dependencies (defaults to OS implementations).
	cmd    commandRunner
	stat   fileStatter
	files  fileRemover
	logger *zap.Logger
}

// TrimmerOption configures a Trimmer.
type TrimmerOption func(*Trimmer)

// WithTrimmerCommandRunner sets the command runner for Trimmer.
func WithTrimmerCommandRunner(r commandRunner) TrimmerOption {
	return func(t *Trimmer) {
		t.cmd = r
	}
}

// WithTrimmerFileStatter sets the file statter for Trimmer.
func WithTrimmerFileStatter(f fileStatter) TrimmerOption {
	return func(t *Trimmer) {
		t.stat = f
	}
}

// WithTrimmerFileRemover sets the file remover for Trimmer.
func WithTrimmerFileRemover(f fileRemover) TrimmerOption {
	return func(t *Trimmer) {
		t.files = f
	}
}

// WithTrimmerLogger sets the logger for Trimmer.
func WithTrimmerLogger(l *zap.Logger) TrimmerOption {
	return func(t *Trimmer) {
		t.logger = l
	}
}

// NewTrimmer creates a Trimmer.
func NewTrimmer(ffmpegPath string, opts ...TrimmerOption) (*Trimmer, error) {
	if ffmpegPath == "" {
		return nil, fmt.Errorf("ffmpegPath cannot be empty: %w", ffmpeg.ErrNotFound)
	}

	t := &Trimmer{
		ffmpegPath: ffmpegPath,
		cmd:        ffmpeg.NewExecutor(),
		stat:       osFileStatter{},
		files:      osFileRemover{},
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = zap.NewNop()
	}

	return t, nil
}

// TrimmedPath returns where Trim writes its output for audioPath and baseName.
func TrimmedPath(audioPath, baseName string) string {
	return filepath.Join(filepath.Dir(audioPath), baseName+trimmedSuffix+filepath.Ext(audioPath))
}

// Trim writes the range r of audioPath to <dir>/<baseName>_trimmed<ext>,
// deletes audioPath, and returns the new path. On failure any partial
// output is removed and audioPath is left untouched.
func (t *Trimmer) Trim(ctx context.Context, audioPath string, r TrimRange, baseName string) (string, error) {
	if r.HasEnd() && r.End <= r.Start {
		return "", fmt.Errorf("%w: start %s, end %s", ErrInvalidRange,
			format.Duration(r.Start), format.Duration(r.End))
	}
	if baseName == "" {
		baseName = "audio"
	}

	if _, err := t.stat.Stat(audioPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrFileNotFound, audioPath)
		}
		return "", fmt.Errorf("cannot stat %s: %w", audioPath, err)
	}

	outPath := TrimmedPath(audioPath, baseName)
	if outPath == audioPath {
		return "", fmt.Errorf("%w: output would overwrite input %s", ErrTrimFailed, audioPath)
	}

	args := []string{
		"-y",
		"-i", audioPath,
		"-ss", format.Seconds(r.Start),
	}
	if r.HasEnd() {
		args = append(args, "-to", format.Seconds(r.End))
	}
	args = append(args, "-c", "copy", outPath)

	t.logger.Info("trimming audio",
		zap.String("path", audioPath),
		zap.Duration("start", r.Start),
		zap.Duration("end", r.End))

	out, err := t.cmd.Run(ctx, t.ffmpegPath, args)
	if err != nil {
		if rmErr := t.files.Remove(outPath); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			t.logger.Warn("failed to remove partial trim output",
				zap.String("path", outPath), zap.Error(rmErr))
		}
		if ctx.Err() != nil {
			return "", fmt.Errorf("trim %s: %w", audioPath, err)
		}
		t.logger.Error("trim failed",
			zap.String("command", ffmpeg.CommandLine(t.ffmpegPath, args)),
			zap.String("stdout", out.Stdout),
			zap.String("stderr", out.Stderr),
			zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrTrimFailed, err)
	}

	if err := t.files.Remove(audioPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		t.logger.Warn("failed to remove source after trim",
			zap.String("path", audioPath), zap.Error(err))
	}

	return outPath, nil
}
