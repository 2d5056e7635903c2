package audio

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/alnah/audio-extract/internal/ffmpeg"
	"github.com/alnah/audio-extract/internal/format"
)

// Splitter divides an audio file into size-targeted chunks by stream copy.
// The source is deleted only after every chunk has been written; on failure
// the chunks already written are removed and the source is kept.
type Splitter struct {
	ffmpegPath string
	chunkMB    float64
	probe      durationProber

	// Injectable dependencies (defaults to OS implementations).
	cmd    commandRunner
	stat   fileStatter
	files  fileRemover
	logger *zap.Logger
}

// SplitterOption configures a Splitter.
type SplitterOption func(*Splitter)

// WithSplitterCommandRunner sets the command runner for Splitter.
func WithSplitterCommandRunner(r commandRunner) SplitterOption {
	return func(s *Splitter) {
		s.cmd = r
	}
}

// WithSplitterFileStatter sets the file statter for Splitter.
func WithSplitterFileStatter(f fileStatter) SplitterOption {
	return func(s *Splitter) {
		s.stat = f
	}
}

// WithSplitterFileRemover sets the file remover for Splitter.
func WithSplitterFileRemover(f fileRemover) SplitterOption {
	return func(s *Splitter) {
		s.files = f
	}
}

// WithSplitterLogger sets the logger for Splitter.
func WithSplitterLogger(l *zap.Logger) SplitterOption {
	return func(s *Splitter) {
		s.logger = l
	}
}

// NewSplitter creates a Splitter targeting chunkMB megabytes per chunk.
// probe measures the source duration; pass a *Prober.
func NewSplitter(ffmpegPath string, chunkMB float64, probe durationProber, opts ...SplitterOption) (*Splitter, error) {
	if ffmpegPath == "" {
		return nil, fmt.Errorf("ffmpegPath cannot be empty: %w", ffmpeg.ErrNotFound)
	}
	if chunkMB <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidChunkSize, chunkMB)
	}
	if probe == nil {
		return nil, errors.New("probe cannot be nil")
	}

	s := &Splitter{
		ffmpegPath: ffmpegPath,
		chunkMB:    chunkMB,
		probe:      probe,
		cmd:        ffmpeg.NewExecutor(),
		stat:       osFileStatter{},
		files:      osFileRemover{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}

	return s, nil
}

// Split writes <base>_part1 .. <base>_partN next to audioPath, deletes
// audioPath, and returns the chunks in order.
func (s *Splitter) Split(ctx context.Context, audioPath string) ([]Chunk, error) {
	info, err := s.stat.Stat(audioPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, audioPath)
		}
		return nil, fmt.Errorf("cannot stat %s: %w", audioPath, err)
	}

	duration, err := s.probe.Duration(ctx, audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to probe audio duration: %w", err)
	}

	plan, err := NewPlan(duration, info.Size(), s.chunkMB)
	if err != nil {
		return nil, err
	}

	s.logger.Info("splitting audio",
		zap.String("path", audioPath),
		zap.String("duration", format.Duration(plan.Duration)),
		zap.String("size", format.Size(plan.Size)),
		zap.Float64("bitrate_kbps", plan.BitrateKbps),
		zap.Duration("chunk_duration", plan.ChunkDuration),
		zap.Int("chunks", plan.Count))

	chunks := plan.Chunks(audioPath)
	for i, c := range chunks {
		if err := ctx.Err(); err != nil {
			s.removeChunks(chunks[:i])
			return nil, err
		}
		if err := s.extract(ctx, audioPath, c); err != nil {
			// The failed chunk may be partially written.
			s.removeChunks(chunks[:i+1])
			return nil, err
		}
		s.logger.Debug("wrote chunk", zap.Stringer("chunk", c), zap.String("path", c.Path))
	}

	if err := s.files.Remove(audioPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("failed to remove source after split",
			zap.String("path", audioPath), zap.Error(err))
	}

	return chunks, nil
}

// extract stream-copies the chunk's range out of audioPath.
func (s *Splitter) extract(ctx context.Context, audioPath string, c Chunk) error {
	args := []string{
		"-y",
		"-i", audioPath,
		"-ss", format.Seconds(c.Start),
		"-t", format.Seconds(c.Duration()),
		"-c", "copy",
		c.Path,
	}

	out, err := s.cmd.Run(ctx, s.ffmpegPath, args)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("extract %s: %w", c, err)
		}
		s.logger.Error("chunk extraction failed",
			zap.Stringer("chunk", c),
			zap.String("command", ffmpeg.CommandLine(s.ffmpegPath, args)),
			zap.String("stdout", out.Stdout),
			zap.String("stderr", out.Stderr),
			zap.Error(err))
		return fmt.Errorf("%w: %s: %w", ErrSplitFailed, c, err)
	}
	return nil
}

// removeChunks deletes chunk files, ignoring ones that were never created.
func (s *Splitter) removeChunks(chunks []Chunk) {
	for _, c := range chunks {
		if err := s.files.Remove(c.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("failed to remove chunk", zap.String("path", c.Path), zap.Error(err))
		}
	}
}
