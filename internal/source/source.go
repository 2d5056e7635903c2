package source

import (
	"fmt"
	"regexp"
	"strings"
)

// Platform identifies the remote service a Locator points to.
type Platform string

// Supported platforms.
const (
	PlatformYouTube    Platform = "youtube"
	PlatformSoundCloud Platform = "soundcloud"
)

// VideoIDLength is the fixed length of a bare YouTube video ID.
const VideoIDLength = 11

// youtubeWatchURL is the canonical URL template for a bare video ID.
const youtubeWatchURL = "https://www.youtube.com/watch?v=%s"

// Patterns are anchored at the start only: trailing query parameters
// (playlist, timestamp) are accepted and passed through to yt-dlp.
var (
	youtubeURLRe    = regexp.MustCompile(`^(https?://)?(www\.)?(youtube|youtu|youtube-nocookie)\.(com|be)/(watch\?v=|embed/|v/|.+\?v=)?([^&=%?]{11})`)
	soundcloudURLRe = regexp.MustCompile(`^https?://soundcloud\.com/[\w-]+/[\w-]+`)
	videoIDRe       = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
)

// Locator is a canonical reference to a remote media item.
type Locator struct {
	URL      string
	Platform Platform
}

// String returns the canonical URL.
func (l Locator) String() string {
	return l.URL
}

// Resolve classifies input as a full platform URL or a bare YouTube video ID
// and returns the canonical Locator. No network access is performed.
//
// Accepted shapes:
//   - YouTube URL (youtube.com, youtu.be, youtube-nocookie.com); a missing scheme gets https://
//   - SoundCloud track URL (https://soundcloud.com/<user>/<track>)
//   - 11-character video ID, expanded to https://www.youtube.com/watch?v=<id>
func Resolve(input string) (Locator, error) {
	s := strings.TrimSpace(input)

	switch {
	case s == "":
		return Locator{}, fmt.Errorf("%w: empty input", ErrInvalidInput)

	case youtubeURLRe.MatchString(s):
		if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
			s = "https://" + s
		}
		return Locator{URL: s, Platform: PlatformYouTube}, nil

	case soundcloudURLRe.MatchString(s):
		return Locator{URL: s, Platform: PlatformSoundCloud}, nil

	case videoIDRe.MatchString(s):
		return Locator{URL: fmt.Sprintf(youtubeWatchURL, s), Platform: PlatformYouTube}, nil
	}

	return Locator{}, fmt.Errorf("%w: %q", ErrInvalidInput, input)
}
