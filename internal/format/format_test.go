package format_test

// Notes:
// - Negative values are only tested for Elapsed, which clamps them to zero.
// - Very large values: realistic long streams (24h+) rather than extremes.

import (
	"testing"
	"time"

	"github.com/alnah/audio-extract/internal/format"
)

// ---------------------------------------------------------------------------
// TestDuration - Formats duration as HH:MM:SS or MM:SS
// ---------------------------------------------------------------------------

func TestDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input time.Duration
		want  string
	}{
		{name: "zero", input: 0, want: "00:00"},
		{name: "one second", input: time.Second, want: "00:01"},
		{name: "boundary: 59 seconds", input: 59 * time.Second, want: "00:59"},
		{name: "mixed minutes and seconds", input: 5*time.Minute + 30*time.Second, want: "05:30"},
		{name: "boundary: exactly 1 hour", input: time.Hour, want: "01:00:00"},
		{name: "full: 2 hours 15 minutes 45 seconds", input: 2*time.Hour + 15*time.Minute + 45*time.Second, want: "02:15:45"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := format.Duration(tt.input)
			if got != tt.want {
				t.Errorf("Duration(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestElapsed - Formats duration as H:MM:SS
// ---------------------------------------------------------------------------

func TestElapsed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input time.Duration
		want  string
	}{
		{name: "zero", input: 0, want: "0:00:00"},
		{name: "negative clamps to zero", input: -5 * time.Second, want: "0:00:00"},
		{name: "short track", input: 3*time.Minute + 32*time.Second, want: "0:03:32"},
		{name: "fraction truncated", input: 212*time.Second + 900*time.Millisecond, want: "0:03:32"},
		{name: "hour boundary", input: time.Hour, want: "1:00:00"},
		{name: "mixed", input: time.Hour + 2*time.Minute + 3*time.Second, want: "1:02:03"},
		{name: "past a day is not wrapped", input: 27 * time.Hour, want: "27:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := format.Elapsed(tt.input)
			if got != tt.want {
				t.Errorf("Elapsed(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestSeconds - Fractional seconds for FFmpeg
// ---------------------------------------------------------------------------

func TestSeconds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input time.Duration
		want  string
	}{
		{name: "zero", input: 0, want: "0"},
		{name: "whole seconds", input: 25 * time.Second, want: "25"},
		{name: "milliseconds", input: 62*time.Second + 500*time.Millisecond, want: "62.5"},
		{name: "microseconds", input: 24*time.Second + 999996*time.Microsecond, want: "24.999996"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := format.Seconds(tt.input)
			if got != tt.want {
				t.Errorf("Seconds(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestSize - Formats bytes for display
// ---------------------------------------------------------------------------

func TestSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input int64
		want  string
	}{
		{name: "zero", input: 0, want: "0 bytes"},
		{name: "bytes", input: 512, want: "512 bytes"},
		{name: "kilobytes", input: 2048, want: "2 KB"},
		{name: "megabytes", input: 5 * 1024 * 1024, want: "5.0 MB"},
		{name: "fractional megabytes", input: 1536 * 1024, want: "1.5 MB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := format.Size(tt.input)
			if got != tt.want {
				t.Errorf("Size(%d) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
