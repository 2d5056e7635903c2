package ffmpeg

import "errors"

// ErrNotFound indicates the FFmpeg binary could not be located.
var ErrNotFound = errors.New("ffmpeg not found")

// ErrTimeout is returned when an FFmpeg or FFprobe call exceeds its time budget.
var ErrTimeout = errors.New("ffmpeg call timed out")
