package audio

// Export internal functions for testing.
// This file is only compiled during tests (suffix _test.go).

// ParseDurationFromFFmpegOutput exports parseDurationFromFFmpegOutput for testing.
var ParseDurationFromFFmpegOutput = parseDurationFromFFmpegOutput

// ParseTimeComponents exports parseTimeComponents for testing.
var ParseTimeComponents = parseTimeComponents

// ParseProbeSeconds exports parseProbeSeconds for testing.
var ParseProbeSeconds = parseProbeSeconds
