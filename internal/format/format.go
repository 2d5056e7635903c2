package format

import (
	"fmt"
	"strconv"
	"time"
)

// Duration formats a duration as HH:MM:SS or MM:SS.
func Duration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// Elapsed formats a duration as H:MM:SS, truncated to whole seconds.
// Hours are not padded and not capped at 24.
// Examples: "0:03:41", "1:02:03", "27:00:00"
func Elapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}

// Seconds formats a duration as fractional seconds for FFmpeg arguments,
// using the shortest exact representation.
// Example: 25s -> "25", 1m2.5s -> "62.5"
func Seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}

// Size formats a size in bytes for human display.
// Uses MB for sizes >= 1MB, KB otherwise.
func Size(bytes int64) string {
	const (
		kb = 1024
		mb = 1024 * kb
	)
	if bytes >= mb {
		return fmt.Sprintf("%.1f MB", float64(bytes)/mb)
	}
	if bytes >= kb {
		return fmt.Sprintf("%d KB", bytes/kb)
	}
	return fmt.Sprintf("%d bytes", bytes)
}
