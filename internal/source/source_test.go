package source_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/audio-extract/internal/source"
)

// ---------------------------------------------------------------------------
// Resolve - accepted shapes
// ---------------------------------------------------------------------------

func TestResolve_Valid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		input        string
		wantURL      string
		wantPlatform source.Platform
	}{
		{
			name:         "bare video ID",
			input:        "dQw4w9WgXcQ",
			wantURL:      "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			wantPlatform: source.PlatformYouTube,
		},
		{
			name:         "bare video ID with dash and underscore",
			input:        "a-b_c-d_e-f",
			wantURL:      "https://www.youtube.com/watch?v=a-b_c-d_e-f",
			wantPlatform: source.PlatformYouTube,
		},
		{
			name:         "bare video ID with surrounding whitespace",
			input:        "  dQw4w9WgXcQ\n",
			wantURL:      "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			wantPlatform: source.PlatformYouTube,
		},
		{
			name:         "watch URL kept verbatim",
			input:        "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			wantURL:      "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			wantPlatform: source.PlatformYouTube,
		},
		{
			name:         "watch URL with extra parameters",
			input:        "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s",
			wantURL:      "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s",
			wantPlatform: source.PlatformYouTube,
		},
		{
			name:         "short youtu.be URL",
			input:        "https://youtu.be/dQw4w9WgXcQ",
			wantURL:      "https://youtu.be/dQw4w9WgXcQ",
			wantPlatform: source.PlatformYouTube,
		},
		{
			name:         "embed URL",
			input:        "https://www.youtube-nocookie.com/embed/dQw4w9WgXcQ",
			wantURL:      "https://www.youtube-nocookie.com/embed/dQw4w9WgXcQ",
			wantPlatform: source.PlatformYouTube,
		},
		{
			name:         "URL without scheme gets https",
			input:        "www.youtube.com/watch?v=dQw4w9WgXcQ",
			wantURL:      "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			wantPlatform: source.PlatformYouTube,
		},
		{
			name:         "http scheme preserved",
			input:        "http://youtube.com/watch?v=dQw4w9WgXcQ",
			wantURL:      "http://youtube.com/watch?v=dQw4w9WgXcQ",
			wantPlatform: source.PlatformYouTube,
		},
		{
			name:         "soundcloud track",
			input:        "https://soundcloud.com/some-artist/some_track-01",
			wantURL:      "https://soundcloud.com/some-artist/some_track-01",
			wantPlatform: source.PlatformSoundCloud,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := source.Resolve(tt.input)
			if err != nil {
				t.Fatalf("Resolve(%q) unexpected error: %v", tt.input, err)
			}
			if got.URL != tt.wantURL {
				t.Errorf("Resolve(%q).URL = %q, want %q", tt.input, got.URL, tt.wantURL)
			}
			if got.Platform != tt.wantPlatform {
				t.Errorf("Resolve(%q).Platform = %q, want %q", tt.input, got.Platform, tt.wantPlatform)
			}
			if got.String() != got.URL {
				t.Errorf("String() = %q, want %q", got.String(), got.URL)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Resolve - rejected shapes
// ---------------------------------------------------------------------------

func TestResolve_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "whitespace only", input: "   "},
		{name: "too short ID", input: "dQw4w9WgXc"},
		{name: "too long ID", input: "dQw4w9WgXcQQ"},
		{name: "ID with invalid character", input: "dQw4w9WgXc!"},
		{name: "ID with inner space", input: "dQw4w 9WgXc"},
		{name: "unrelated URL", input: "https://example.com/watch?v=dQw4w9WgXcQ"},
		{name: "soundcloud profile only", input: "https://soundcloud.com/some-artist"},
		{name: "soundcloud without scheme", input: "soundcloud.com/artist/track"},
		{name: "plain words", input: "never gonna give you up"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := source.Resolve(tt.input)
			if !errors.Is(err, source.ErrInvalidInput) {
				t.Errorf("Resolve(%q) error = %v, want ErrInvalidInput", tt.input, err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Resolve - every valid bare ID maps to the canonical watch URL
// ---------------------------------------------------------------------------

func TestResolve_BareIDAlphabet(t *testing.T) {
	t.Parallel()

	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

	// Slide an 11-character window over the alphabet so every character
	// appears at several positions.
	for i := 0; i+source.VideoIDLength <= len(alphabet); i++ {
		id := alphabet[i : i+source.VideoIDLength]
		got, err := source.Resolve(id)
		if err != nil {
			t.Fatalf("Resolve(%q) unexpected error: %v", id, err)
		}
		want := "https://www.youtube.com/watch?v=" + id
		if got.URL != want {
			t.Errorf("Resolve(%q).URL = %q, want %q", id, got.URL, want)
		}
		if !strings.HasSuffix(got.URL, id) {
			t.Errorf("Resolve(%q).URL does not end with the ID", id)
		}
	}
}
