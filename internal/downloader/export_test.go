package downloader

// Export internal functions for testing.
// This file is only compiled during tests (suffix _test.go).

// ParseMetadata exports parseMetadata for testing.
var ParseMetadata = parseMetadata

// PrintedPath exports printedPath for testing.
var PrintedPath = printedPath
