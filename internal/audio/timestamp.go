package audio

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// clockRe matches [HH:]MM:SS[.frac].
var clockRe = regexp.MustCompile(`^(?:(\d+):)?(\d{1,2}):(\d{1,2})(?:\.(\d+))?$`)

// secondsRe matches a plain, non-negative number of seconds.
var secondsRe = regexp.MustCompile(`^\d+(?:\.\d+)?$`)

// ParseTimestamp parses a trim offset written as HH:MM:SS, MM:SS (both with
// an optional fraction) or plain seconds.
func ParseTimestamp(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)

	if m := clockRe.FindStringSubmatch(s); m != nil {
		minutes, _ := strconv.Atoi(m[2])
		seconds, _ := strconv.Atoi(m[3])
		if m[1] != "" && minutes >= 60 {
			return 0, fmt.Errorf("%w: %q has minutes >= 60", ErrInvalidTimestamp, s)
		}
		if seconds >= 60 {
			return 0, fmt.Errorf("%w: %q has seconds >= 60", ErrInvalidTimestamp, s)
		}
		hours := m[1]
		if hours == "" {
			hours = "0"
		}
		return parseTimeComponents(hours, m[2], m[3], m[4])
	}

	if secondsRe.MatchString(s) {
		secs, err := strconv.ParseFloat(s, 64)
		if err != nil || secs > MaxMediaDuration.Seconds() {
			return 0, fmt.Errorf("%w: %q exceeds %v", ErrInvalidTimestamp, s, MaxMediaDuration)
		}
		return time.Duration(secs * float64(time.Second)).Round(time.Microsecond), nil
	}

	return 0, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
}

// TrimRange is the part of a file kept by the Trimmer.
type TrimRange struct {
	Start time.Duration
	End   time.Duration // Zero means until the end of the stream.
}

// HasEnd reports whether the range is bounded on the right.
func (r TrimRange) HasEnd() bool {
	return r.End > 0
}

// ParseTrimRange parses start and an optional end. end must be after start
// when given.
func ParseTrimRange(start, end string) (TrimRange, error) {
	s, err := ParseTimestamp(start)
	if err != nil {
		return TrimRange{}, fmt.Errorf("start: %w", err)
	}

	r := TrimRange{Start: s}
	if strings.TrimSpace(end) == "" {
		return r, nil
	}

	e, err := ParseTimestamp(end)
	if err != nil {
		return TrimRange{}, fmt.Errorf("end: %w", err)
	}
	if e <= s {
		return TrimRange{}, fmt.Errorf("%w: start %s, end %s", ErrInvalidRange, start, end)
	}
	r.End = e
	return r, nil
}
