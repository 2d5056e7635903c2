// Package pipeline runs one extraction end to end: resolve the input, fetch
// metadata, create the output directory, download, then optionally trim and
// split.
package pipeline

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/alnah/audio-extract/internal/audio"
	"github.com/alnah/audio-extract/internal/downloader"
	"github.com/alnah/audio-extract/internal/format"
	"github.com/alnah/audio-extract/internal/output"
	"github.com/alnah/audio-extract/internal/source"
)

// Fetcher retrieves metadata and audio for a locator.
// *downloader.Client satisfies it.
type Fetcher interface {
	Metadata(ctx context.Context, loc source.Locator) (downloader.Metadata, error)
	Download(ctx context.Context, loc source.Locator, dir string) (string, error)
}

// Trimmer cuts a range out of an audio file. *audio.Trimmer satisfies it.
type Trimmer interface {
	Trim(ctx context.Context, audioPath string, r audio.TrimRange, baseName string) (string, error)
}

// Splitter divides an audio file into chunks. *audio.Splitter satisfies it.
type Splitter interface {
	Split(ctx context.Context, audioPath string) ([]audio.Chunk, error)
}

// SplitterFactory builds a Splitter for a chunk size in MB.
type SplitterFactory func(chunkMB float64) (Splitter, error)

// Compile-time interface verification.
var (
	_ Fetcher  = (*downloader.Client)(nil)
	_ Trimmer  = (*audio.Trimmer)(nil)
	_ Splitter = (*audio.Splitter)(nil)
)

// Request describes one extraction.
type Request struct {
	Input      string           // URL or bare identifier.
	Trim       *audio.TrimRange // Nil skips the trim stage.
	ChunkMB    float64          // Zero skips the split stage.
	OutputBase string           // Parent of the per-media directory. Empty means output.DefaultBaseDir.
}

// Validate checks the request before any external call is made.
func (r Request) Validate() error {
	if r.ChunkMB < 0 || math.IsNaN(r.ChunkMB) || math.IsInf(r.ChunkMB, 0) {
		return fmt.Errorf("%w: chunk size %v must be greater than zero", ErrInvalidRequest, r.ChunkMB)
	}
	if r.Trim != nil && r.Trim.HasEnd() && r.Trim.End <= r.Trim.Start {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, audio.ErrInvalidRange)
	}
	return nil
}

// Result describes what a successful run left on disk.
type Result struct {
	Locator  source.Locator
	Metadata downloader.Metadata
	Dir      string        // Absolute output directory.
	Files    []string      // Final audio files, in order.
	Chunks   []audio.Chunk // Set when the split stage ran.
}

// Pipeline executes requests one at a time.
type Pipeline struct {
	sem         *semaphore.Weighted
	fetcher     Fetcher
	trimmer     Trimmer
	newSplitter SplitterFactory
	logger      *zap.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		p.logger = l
	}
}

// New creates a Pipeline. trimmer and newSplitter are only used by requests
// that ask for those stages.
func New(fetcher Fetcher, trimmer Trimmer, newSplitter SplitterFactory, opts ...Option) *Pipeline {
	p := &Pipeline{
		sem:         semaphore.NewWeighted(1),
		fetcher:     fetcher,
		trimmer:     trimmer,
		newSplitter: newSplitter,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}
	return p
}

// Run executes req. It returns ErrBusy without doing anything if another Run
// is in progress. Any other failure is a *StageError.
func (p *Pipeline) Run(ctx context.Context, req Request) (Result, error) {
	if !p.sem.TryAcquire(1) {
		return Result{}, ErrBusy
	}
	defer p.sem.Release(1)

	if err := req.Validate(); err != nil {
		return Result{}, stageErr(StageValidate, err)
	}
	if req.Trim != nil && p.trimmer == nil {
		return Result{}, stageErr(StageValidate, fmt.Errorf("%w: trimming is not configured", ErrInvalidRequest))
	}
	if req.ChunkMB > 0 && p.newSplitter == nil {
		return Result{}, stageErr(StageValidate, fmt.Errorf("%w: splitting is not configured", ErrInvalidRequest))
	}

	var res Result

	loc, err := source.Resolve(req.Input)
	if err != nil {
		return Result{}, stageErr(StageResolve, err)
	}
	res.Locator = loc
	p.logger.Info("resolved input", zap.String("url", loc.URL), zap.String("platform", string(loc.Platform)))

	md, err := p.fetcher.Metadata(ctx, loc)
	if err != nil {
		return Result{}, stageErr(StageMetadata, err)
	}
	res.Metadata = md

	dir, err := output.Create(req.OutputBase, md.Title, md.Duration)
	if err != nil {
		return Result{}, stageErr(StageOutput, err)
	}
	res.Dir = dir
	p.logger.Info("output directory ready", zap.String("dir", dir))

	path, err := p.fetcher.Download(ctx, loc, dir)
	if err != nil {
		return Result{}, stageErr(StageDownload, err)
	}

	if req.Trim != nil {
		path, err = p.trimmer.Trim(ctx, path, *req.Trim, output.Sanitize(md.Title))
		if err != nil {
			return Result{}, stageErr(StageTrim, err)
		}
		p.logger.Info("trimmed audio", zap.String("path", path))
	}

	if req.ChunkMB > 0 {
		splitter, err := p.newSplitter(req.ChunkMB)
		if err != nil {
			return Result{}, stageErr(StageSplit, err)
		}
		chunks, err := splitter.Split(ctx, path)
		if err != nil {
			return Result{}, stageErr(StageSplit, err)
		}
		res.Chunks = chunks
		for _, c := range chunks {
			res.Files = append(res.Files, c.Path)
		}
		p.logger.Info("split audio",
			zap.Int("chunks", len(chunks)),
			zap.String("target", fmt.Sprintf("%g MB", req.ChunkMB)))
	} else {
		res.Files = []string{path}
	}

	p.logger.Info("extraction complete",
		zap.String("title", md.Title),
		zap.String("runtime", format.Duration(md.Duration)),
		zap.Int("files", len(res.Files)))
	return res, nil
}
