package audio

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/audio-extract/internal/ffmpeg"
)

// ffmpegDurationRe matches the container duration FFmpeg prints for an input,
// e.g. "Duration: 00:05:23.45".
var ffmpegDurationRe = regexp.MustCompile(`Duration:\s*(\d+):(\d+):(\d+)\.(\d+)`)

// ffmpegProgressRe matches progress lines, e.g. "time=00:05:23.45".
var ffmpegProgressRe = regexp.MustCompile(`time=(\d+):(\d+):(\d+)\.(\d+)`)

// MaxMediaDuration bounds probed durations and trim timestamps. Larger values
// would overflow time.Duration arithmetic.
const MaxMediaDuration = 10_000 * time.Hour

// Prober measures the duration of audio files.
// It prefers ffprobe and falls back to parsing FFmpeg's input banner.
type Prober struct {
	ffmpegPath  string
	ffprobePath string

	cmd    commandRunner
	logger *zap.Logger
}

// ProberOption configures a Prober.
type ProberOption func(*Prober)

// WithProberCommandRunner sets the command runner for Prober.
func WithProberCommandRunner(r commandRunner) ProberOption {
	return func(p *Prober) {
		p.cmd = r
	}
}

// WithProberLogger sets the logger for Prober.
func WithProberLogger(l *zap.Logger) ProberOption {
	return func(p *Prober) {
		p.logger = l
	}
}

// NewProber creates a Prober. ffprobePath may be empty, in which case only
// the FFmpeg fallback is used.
func NewProber(ffmpegPath, ffprobePath string, opts ...ProberOption) (*Prober, error) {
	if ffmpegPath == "" {
		return nil, fmt.Errorf("ffmpegPath cannot be empty: %w", ffmpeg.ErrNotFound)
	}

	p := &Prober{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		cmd:         ffmpeg.NewExecutor(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}

	return p, nil
}

// Duration returns the real duration of audioPath.
// A duration of zero or less is reported as ErrInvalidDuration.
func (p *Prober) Duration(ctx context.Context, audioPath string) (time.Duration, error) {
	var (
		d   time.Duration
		err error
	)

	if p.ffprobePath != "" {
		d, err = p.probeWithFFprobe(ctx, audioPath)
		if err != nil && ctx.Err() == nil {
			p.logger.Warn("ffprobe failed, falling back to ffmpeg",
				zap.String("path", audioPath), zap.Error(err))
			d, err = p.probeWithFFmpeg(ctx, audioPath)
		}
	} else {
		d, err = p.probeWithFFmpeg(ctx, audioPath)
	}
	if err != nil {
		return 0, err
	}

	if d <= 0 {
		return 0, fmt.Errorf("%w: %s has duration %v", ErrInvalidDuration, audioPath, d)
	}

	p.logger.Debug("probed duration",
		zap.String("path", audioPath), zap.Duration("duration", d))
	return d, nil
}

func (p *Prober) probeWithFFprobe(ctx context.Context, audioPath string) (time.Duration, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		audioPath,
	}
	out, err := p.cmd.Run(ctx, p.ffprobePath, args)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrProbeFailed, err)
	}
	return parseProbeSeconds(out.Stdout)
}

func (p *Prober) probeWithFFmpeg(ctx context.Context, audioPath string) (time.Duration, error) {
	// Without an output file FFmpeg exits non-zero after printing the input
	// banner, so the output is parsed regardless of the exit status.
	args := []string{"-hide_banner", "-i", audioPath}
	out, err := p.cmd.Run(ctx, p.ffmpegPath, args)
	if ctx.Err() != nil {
		return 0, err
	}

	d, perr := parseDurationFromFFmpegOutput(out.Stderr + out.Stdout)
	if perr != nil {
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrProbeFailed, err)
		}
		return 0, fmt.Errorf("%w: %v", ErrProbeFailed, perr)
	}
	return d, nil
}

// parseProbeSeconds parses ffprobe's bare "format=duration" value.
func parseProbeSeconds(output string) (time.Duration, error) {
	value := strings.TrimSpace(output)
	if value == "" || value == "N/A" {
		return 0, fmt.Errorf("%w: ffprobe reported no duration", ErrInvalidDuration)
	}
	// ffprobe may print one line per stream; the format duration comes first.
	if i := strings.IndexByte(value, '\n'); i >= 0 {
		value = strings.TrimSpace(value[:i])
	}

	secs, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: cannot parse ffprobe duration %q", ErrProbeFailed, value)
	}
	if !(secs >= 0 && secs <= MaxMediaDuration.Seconds()) {
		return 0, fmt.Errorf("%w: ffprobe duration %q out of range", ErrProbeFailed, value)
	}
	return time.Duration(secs * float64(time.Second)), nil
}

// parseDurationFromFFmpegOutput extracts duration from FFmpeg stderr.
// Looks for "Duration: HH:MM:SS.ms", then for the last "time=HH:MM:SS.ms".
func parseDurationFromFFmpegOutput(output string) (time.Duration, error) {
	if m := ffmpegDurationRe.FindStringSubmatch(output); m != nil {
		return parseTimeComponents(m[1], m[2], m[3], m[4])
	}

	if all := ffmpegProgressRe.FindAllStringSubmatch(output, -1); len(all) > 0 {
		m := all[len(all)-1]
		return parseTimeComponents(m[1], m[2], m[3], m[4])
	}

	return 0, fmt.Errorf("could not parse duration from ffmpeg output")
}

// parseTimeComponents converts HH, MM, SS and fractional digit strings to a
// Duration. The fraction keeps up to microsecond precision. Totals above
// MaxMediaDuration are rejected with ErrInvalidTimestamp.
func parseTimeComponents(hours, minutes, seconds, fractional string) (time.Duration, error) {
	h, herr := strconv.ParseInt(hours, 10, 64)
	m, merr := strconv.ParseInt(minutes, 10, 64)
	s, serr := strconv.ParseInt(seconds, 10, 64)
	if herr != nil || merr != nil || serr != nil {
		return 0, fmt.Errorf("%w: %s:%s:%s out of range", ErrInvalidTimestamp, hours, minutes, seconds)
	}

	limit := int64(MaxMediaDuration / time.Second)
	if h > limit/3600 || m > limit/60 || s > limit {
		return 0, fmt.Errorf("%w: %s:%s:%s exceeds %v", ErrInvalidTimestamp, hours, minutes, seconds, MaxMediaDuration)
	}
	d := time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		parseFraction(fractional)
	if d > MaxMediaDuration {
		return 0, fmt.Errorf("%w: %s:%s:%s exceeds %v", ErrInvalidTimestamp, hours, minutes, seconds, MaxMediaDuration)
	}
	return d, nil
}

// parseFraction converts the digits after a decimal point to a Duration,
// truncating past microseconds. "45" -> 450ms.
func parseFraction(digits string) time.Duration {
	if len(digits) > 6 {
		digits = digits[:6]
	}
	n, _ := strconv.Atoi(digits)
	for i := len(digits); i < 6; i++ {
		n *= 10
	}
	return time.Duration(n) * time.Microsecond
}
