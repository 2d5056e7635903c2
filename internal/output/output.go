// Package output derives and creates the per-run output directory.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/alnah/audio-extract/internal/format"
)

// DefaultBaseDir is the base directory used when none is configured.
const DefaultBaseDir = "OUTPUT"

// dirPerm is the permission mode for created output directories.
const dirPerm = 0750

// unsafeRe matches one rune outside the filesystem-safe set.
var unsafeRe = regexp.MustCompile(`[^A-Za-z0-9_\-. ]`)

// Sanitize replaces every rune outside [A-Za-z0-9_-. ] with an underscore.
// Multi-byte runes are replaced by a single underscore.
func Sanitize(title string) string {
	return unsafeRe.ReplaceAllString(title, "_")
}

// FormatRuntime formats d as H-MM-SS, truncated to whole seconds.
func FormatRuntime(d time.Duration) string {
	return strings.ReplaceAll(format.Elapsed(d), ":", "-")
}

// DirName returns "<sanitized title>-<H-MM-SS>". It is pure and deterministic.
func DirName(title string, duration time.Duration) string {
	return Sanitize(title) + "-" + FormatRuntime(duration)
}

// Create builds the output directory for title and duration under base,
// creating parents as needed. An existing directory is not an error.
// Returns the absolute path of the directory.
func Create(base, title string, duration time.Duration) (string, error) {
	if base == "" {
		base = DefaultBaseDir
	}
	dir := filepath.Join(base, DirName(title, duration))

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve output directory %s: %w", dir, err)
	}

	if err := os.MkdirAll(abs, dirPerm); err != nil { // #nosec G301 -- user output dir
		return "", fmt.Errorf("create output directory %s: %w", abs, err)
	}
	return abs, nil
}
