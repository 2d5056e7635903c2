package source

import "errors"

// ErrInvalidInput indicates the input is neither a supported URL nor a bare video ID.
var ErrInvalidInput = errors.New("invalid input: provide a YouTube/SoundCloud URL or a YouTube video ID")
