package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/alnah/audio-extract/internal/audio"
	"github.com/alnah/audio-extract/internal/config"
	"github.com/alnah/audio-extract/internal/logging"
	"github.com/alnah/audio-extract/internal/output"
	"github.com/alnah/audio-extract/internal/pipeline"
	"github.com/alnah/audio-extract/internal/source"
)

// DefaultTimeout bounds each external tool call unless --timeout overrides it.
const DefaultTimeout = time.Hour

// Flag names.
const (
	flagInput     = "input"
	flagStart     = "start"
	flagEnd       = "end"
	flagChunk     = "chunk"
	flagOutputDir = "output-dir"
	flagNoOpen    = "no-open"
	flagTimeout   = "timeout"
	flagLogLevel  = "log-level"
	flagLogFile   = "log-file"
)

// extractOptions holds parsed flag values for one extraction.
type extractOptions struct {
	input     string
	start     string
	end       string
	chunkMB   float64
	chunkSet  bool
	outputDir string
	noOpen    bool
	timeout   time.Duration
	logLevel  string
	logFile   string
}

// RootCmd creates the audio-extract root command. Running it without a
// subcommand performs an extraction; "config" manages settings.
func RootCmd(env *Env, version string) *cobra.Command {
	var opts extractOptions

	cmd := &cobra.Command{
		Use:   "audio-extract --input <url|id>",
		Short: "Download, trim, and split audio from YouTube or SoundCloud",
		Long: `Download the best audio stream of a YouTube or SoundCloud item as WAV.

The file is saved under <output-dir>/<title>-<H-MM-SS>/. With --start (and
optionally --end) the audio is cut to that range. With --chunk the result is
split into parts of roughly that many megabytes. Neither step re-encodes.

Requires ffmpeg and yt-dlp. yt-dlp is installed automatically when missing.
Single-dash long flags (-input, -chunk) are accepted.

Exit codes:
  0    success
  1    other failure
  2    usage error (bad flags or flag combination)
  3    ffmpeg or yt-dlp not available
  4    invalid input (unrecognized URL or ID, bad timestamp or range)
  5    metadata fetch or download failed
  6    trim or split failed
  130  interrupted`,
		Example: `  audio-extract --input https://www.youtube.com/watch?v=dQw4w9WgXcQ
  audio-extract -input dQw4w9WgXcQ -start 00:01:00 -end 00:02:30
  audio-extract --input https://soundcloud.com/artist/track --chunk 25
  audio-extract --input dQw4w9WgXcQ --output-dir ~/Music --no-open`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.chunkSet = cmd.Flags().Changed(flagChunk)
			return runExtract(cmd.Context(), env, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.input, flagInput, "", "YouTube or SoundCloud URL, or an 11-character YouTube ID")
	f.StringVar(&opts.start, flagStart, "", "Trim start ([HH:]MM:SS[.frac] or seconds)")
	f.StringVar(&opts.end, flagEnd, "", "Trim end, requires --start")
	f.Float64Var(&opts.chunkMB, flagChunk, 0, "Split into chunks of this many MB")
	f.StringVar(&opts.outputDir, flagOutputDir, "", "Base output directory (default: config, then "+output.DefaultBaseDir+")")
	f.BoolVar(&opts.noOpen, flagNoOpen, false, "Do not open the output directory when done")
	f.DurationVar(&opts.timeout, flagTimeout, DefaultTimeout, "Timeout per external tool call (0 disables)")
	f.StringVar(&opts.logLevel, flagLogLevel, "", "Log level: debug, info, warn, error (default: config, then info)")
	f.StringVar(&opts.logFile, flagLogFile, "", "Also write JSON logs to this file (rotated)")
	f.SetNormalizeFunc(normalizeFlagName)
	_ = cmd.MarkFlagRequired(flagInput)

	cmd.AddCommand(ConfigCmd(env))

	return cmd
}

// normalizeFlagName lets --output_dir and --log_level match their dashed names.
func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

// validate checks flag combinations before anything touches the network or disk.
// Order: end without start -> chunk size -> timeout -> timestamps -> input.
func (o extractOptions) validate() (*audio.TrimRange, error) {
	if o.end != "" && o.start == "" {
		return nil, ErrEndWithoutStart
	}
	if o.chunkSet && !(o.chunkMB > 0) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidChunkSize, o.chunkMB)
	}
	if o.timeout < 0 {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidTimeout, o.timeout)
	}

	var trim *audio.TrimRange
	if o.start != "" {
		r, err := audio.ParseTrimRange(o.start, o.end)
		if err != nil {
			return nil, err
		}
		trim = &r
	}

	if _, err := source.Resolve(o.input); err != nil {
		return nil, err
	}
	return trim, nil
}

// runExtract validates options, resolves the external tools, and runs the
// pipeline. On success the output directory is opened unless disabled.
func runExtract(ctx context.Context, env *Env, opts extractOptions) error {
	// === VALIDATION (fail-fast) ===
	trim, err := opts.validate()
	if err != nil {
		return err
	}

	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		fmt.Fprintf(env.Stderr, "Warning: failed to load config: %v\n", err)
	}

	level := opts.logLevel
	if level == "" {
		level = cfg.LogLevel
	}
	logger, closeLog, err := env.LoggerFactory.NewLogger(logging.Config{
		Level: level,
		File:  config.ExpandPath(opts.logFile),
		Out:   env.Stderr,
	})
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	// === SETUP ===
	ffmpegPath, err := env.FFmpegResolver.Resolve()
	if err != nil {
		return err
	}
	env.FFmpegResolver.CheckVersion(ctx, ffmpegPath, logger)
	ffprobePath := env.FFmpegResolver.ResolveProbe(ffmpegPath)
	if ffprobePath == "" {
		logger.Debug("ffprobe not found, durations will be read from ffmpeg output")
	}

	ytdlpPath, err := env.YTDLPResolver.Resolve(ctx, logger)
	if err != nil {
		return err
	}

	runner, err := env.PipelineFactory.NewPipeline(Tools{
		FFmpeg:  ffmpegPath,
		FFprobe: ffprobePath,
		YTDLP:   ytdlpPath,
		Timeout: opts.timeout,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	// === RUN ===
	req := pipeline.Request{
		Input:      opts.input,
		Trim:       trim,
		ChunkMB:    opts.chunkMB,
		OutputBase: config.ResolveOutputBase(opts.outputDir, cfg, output.DefaultBaseDir),
	}
	res, err := runner.Run(ctx, req)
	if err != nil {
		logger.Error("extraction failed", zap.Error(err))
		return err
	}

	for _, f := range res.Files {
		fmt.Fprintln(env.Stdout, f)
	}
	fmt.Fprintf(env.Stderr, "Saved %d file(s) to %s\n", len(res.Files), res.Dir)

	if opts.noOpen {
		return nil
	}
	if err := env.Opener.Open(ctx, res.Dir); err != nil {
		logger.Warn("could not open output directory", zap.String("dir", res.Dir), zap.Error(err))
	}
	return nil
}
