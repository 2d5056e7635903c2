// Package downloader fetches media metadata and audio through yt-dlp.
package downloader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"go.uber.org/zap"

	"github.com/alnah/audio-extract/internal/source"
)

// AudioExt is the extension of every file produced by Download.
const AudioExt = ".wav"

// outputTemplate names downloads after the media title.
const outputTemplate = "%(title)s.%(ext)s"

// Metadata is the descriptive information used to name the output directory.
type Metadata struct {
	ID       string
	Title    string
	Duration time.Duration
}

// Client runs yt-dlp for one locator at a time.
type Client struct {
	executable string
	timeout    time.Duration

	// Injectable dependencies (defaults to go-ytdlp and the OS).
	run    commandRunner
	stat   fileStatter
	logger *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds each yt-dlp call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithCommandRunner sets the command runner.
func WithCommandRunner(r commandRunner) Option {
	return func(c *Client) {
		c.run = r
	}
}

// WithFileStatter sets the file statter.
func WithFileStatter(s fileStatter) Option {
	return func(c *Client) {
		c.stat = s
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New creates a Client for the yt-dlp executable at path.
func New(executable string, opts ...Option) (*Client, error) {
	if executable == "" {
		return nil, fmt.Errorf("executable cannot be empty: %w", ErrYTDLPNotFound)
	}

	c := &Client{
		executable: executable,
		run:        ytdlpRunner{},
		stat:       osFileStatter{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c, nil
}

// withTimeout derives the per-call context.
func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return context.WithCancel(ctx)
}

// videoInfo is the subset of yt-dlp's info JSON read by Metadata.
type videoInfo struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Duration *float64 `json:"duration"`
}

// Metadata retrieves the title and duration of loc without downloading media.
func (c *Client) Metadata(ctx context.Context, loc source.Locator) (Metadata, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	cmd := ytdlp.New().
		SetExecutable(c.executable).
		DumpJSON().
		SkipDownload().
		NoPlaylist()

	res, err := c.run.Run(ctx, cmd, loc.URL)
	if err != nil {
		c.logFailure("metadata fetch failed", loc, res, err)
		return Metadata{}, fmt.Errorf("%w: %s: %w", ErrMetadataFetch, loc, callError(ctx, err))
	}

	md, err := parseMetadata(res.Stdout)
	if err != nil {
		c.logFailure("metadata parse failed", loc, res, err)
		return Metadata{}, fmt.Errorf("%w: %s: %w", ErrMetadataFetch, loc, err)
	}

	c.logger.Info("fetched metadata",
		zap.String("url", loc.URL),
		zap.String("title", md.Title),
		zap.Duration("duration", md.Duration))
	return md, nil
}

// parseMetadata decodes the first info JSON object printed by --dump-json.
func parseMetadata(stdout string) (Metadata, error) {
	dec := json.NewDecoder(strings.NewReader(stdout))
	var info videoInfo
	if err := dec.Decode(&info); err != nil {
		return Metadata{}, fmt.Errorf("decode info json: %w", err)
	}
	if info.Duration == nil || *info.Duration <= 0 {
		return Metadata{}, errors.New("media has no positive duration")
	}
	return Metadata{
		ID:       info.ID,
		Title:    info.Title,
		Duration: time.Duration(*info.Duration * float64(time.Second)),
	}, nil
}

// Download fetches the best audio stream of loc, decodes it to WAV under dir,
// and returns the exact path reported by yt-dlp.
//
// A non-zero exit is tolerated when the decoded file exists, since
// --ignore-errors lets yt-dlp report unrelated failures.
func (c *Client) Download(ctx context.Context, loc source.Locator, dir string) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	cmd := ytdlp.New().
		SetExecutable(c.executable).
		Format("bestaudio/best").
		ExtractAudio().
		AudioFormat(strings.TrimPrefix(AudioExt, ".")).
		Output(filepath.Join(dir, outputTemplate)).
		NoCheckCertificates().
		IgnoreErrors().
		NoPlaylist().
		Print("after_move:filepath")

	c.logger.Info("downloading audio", zap.String("url", loc.URL), zap.String("dir", dir))

	res, runErr := c.run.Run(ctx, cmd, loc.URL)
	if runErr != nil && ctx.Err() != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrDownload, loc, callError(ctx, runErr))
	}

	var path string
	if res != nil {
		path = printedPath(res.Stdout)
	}
	if path == "" {
		c.logFailure("download produced no file", loc, res, runErr)
		if runErr != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrDownload, loc, runErr)
		}
		return "", fmt.Errorf("%w: %s: yt-dlp reported no output file", ErrDownload, loc)
	}
	if !strings.EqualFold(filepath.Ext(path), AudioExt) {
		return "", fmt.Errorf("%w: %s: unexpected output %s", ErrDownload, loc, path)
	}
	if _, err := c.stat.Stat(path); err != nil {
		c.logFailure("downloaded file missing", loc, res, err)
		return "", fmt.Errorf("%w: %s: %w", ErrDownload, loc, err)
	}

	if runErr != nil {
		c.logger.Warn("yt-dlp exited with an error but produced audio",
			zap.String("path", path), zap.Error(runErr))
	}

	c.logger.Info("downloaded audio", zap.String("path", path))
	return path, nil
}

// printedPath returns the last non-empty stdout line, which is the
// after_move:filepath print.
func printedPath(stdout string) string {
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}

// callError reports a timeout or cancellation in place of the process error.
func callError(ctx context.Context, err error) error {
	switch ctxErr := ctx.Err(); {
	case errors.Is(ctxErr, context.DeadlineExceeded):
		return fmt.Errorf("yt-dlp timed out: %w", ctxErr)
	case errors.Is(ctxErr, context.Canceled):
		return ctxErr
	default:
		return err
	}
}

func (c *Client) logFailure(msg string, loc source.Locator, res *ytdlp.Result, err error) {
	fields := []zap.Field{zap.String("url", loc.URL), zap.Error(err)}
	if res != nil {
		fields = append(fields,
			zap.String("command", res.Executable+" "+strings.Join(res.Args, " ")),
			zap.Int("exit_code", res.ExitCode),
			zap.String("stdout", res.Stdout),
			zap.String("stderr", res.Stderr))
	}
	c.logger.Error(msg, fields...)
}
