package audio

import "errors"

// ErrFileNotFound indicates the input audio file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrProbeFailed indicates the duration of an audio file could not be measured.
var ErrProbeFailed = errors.New("audio probe failed")

// ErrInvalidDuration indicates a measured duration of zero or less.
var ErrInvalidDuration = errors.New("invalid audio duration")

// ErrInvalidChunkSize indicates a chunk size of zero or less.
var ErrInvalidChunkSize = errors.New("chunk size must be greater than zero")

// ErrInvalidTimestamp indicates a trim timestamp could not be parsed.
var ErrInvalidTimestamp = errors.New("invalid timestamp (want HH:MM:SS)")

// ErrInvalidRange indicates a trim end that is not after its start.
var ErrInvalidRange = errors.New("trim end must be after start")

// ErrTrimFailed indicates FFmpeg failed while cutting the audio range.
var ErrTrimFailed = errors.New("audio trim failed")

// ErrSplitFailed indicates FFmpeg failed while extracting a chunk.
var ErrSplitFailed = errors.New("audio split failed")
