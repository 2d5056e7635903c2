package downloader

import "errors"

// ErrYTDLPNotFound indicates yt-dlp is not installed and could not be fetched.
var ErrYTDLPNotFound = errors.New("yt-dlp not found")

// ErrMetadataFetch indicates title/duration could not be retrieved.
var ErrMetadataFetch = errors.New("metadata fetch failed")

// ErrDownload indicates the audio could not be downloaded or decoded.
var ErrDownload = errors.New("download failed")
