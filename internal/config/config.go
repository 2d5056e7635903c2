// Package config reads and writes the user configuration file
// (~/.config/audio-extract/config, key=value lines).
package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// appName names the configuration directory.
const appName = "audio-extract"

// Config keys.
const (
	KeyOutputDir = "output-dir"
	KeyLogLevel  = "log-level"
)

// Environment variable fallbacks.
const (
	EnvOutputDir = "AUDIO_EXTRACT_OUTPUT_DIR"
	EnvLogLevel  = "AUDIO_EXTRACT_LOG_LEVEL"
)

// ErrUnknownKey indicates a key the config file does not support.
var ErrUnknownKey = errors.New("unknown config key")

// ErrNotDirectory indicates an output-dir that exists but is not a directory.
var ErrNotDirectory = errors.New("path is not a directory")

// ErrNotWritable indicates an output-dir the current user cannot write to.
var ErrNotWritable = errors.New("directory is not writable")

// Keys lists the supported keys in display order.
func Keys() []string {
	return []string{KeyOutputDir, KeyLogLevel}
}

// ValidateKey returns ErrUnknownKey for keys outside Keys().
func ValidateKey(key string) error {
	if !slices.Contains(Keys(), key) {
		return fmt.Errorf("%w: %q (valid: %s)", ErrUnknownKey, key, strings.Join(Keys(), ", "))
	}
	return nil
}

// Config holds user configuration.
type Config struct {
	OutputDir string
	LogLevel  string
}

// dir returns the configuration directory path.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config/audio-extract.
func dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}

// path returns the full path to the config file.
func path() (string, error) {
	d, err := dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "config"), nil
}

// Load reads the configuration file and environment variables.
// File values win; environment variables fill keys the file leaves empty.
// A missing file is not an error.
func Load() (Config, error) {
	var cfg Config

	p, err := path()
	if err != nil {
		return cfg, err
	}

	data, err := parseFile(p)
	switch {
	case err == nil:
		cfg.OutputDir = data[KeyOutputDir]
		cfg.LogLevel = data[KeyLogLevel]
	case !errors.Is(err, os.ErrNotExist):
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if cfg.OutputDir == "" {
		cfg.OutputDir = os.Getenv(EnvOutputDir)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = os.Getenv(EnvLogLevel)
	}

	return cfg, nil
}

// parseFile reads a key=value config file.
// Format: one key=value per line, # comments, empty lines ignored.
func parseFile(p string) (map[string]string, error) {
	f, err := os.Open(p) // #nosec G304 -- config path is constructed from home dir
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	data := make(map[string]string)
	scanner := bufio.NewScanner(f)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("invalid syntax at line %d: %q", lineNum, line)
		}
		data[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return data, nil
}

// Save writes a single key=value to the config file, creating it if needed.
// Other keys are preserved; comments are not.
func Save(key, value string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	p, err := path()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(p), 0750); err != nil { // #nosec G301 -- user config dir
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	existing, err := parseFile(p)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if existing == nil {
		existing = make(map[string]string)
	}
	existing[key] = value

	return writeFile(p, existing)
}

// writeFile writes the config map with keys sorted.
func writeFile(p string, data map[string]string) error {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s\n", k, data[k])
	}

	// #nosec G306 -- config file with standard permissions
	if err := os.WriteFile(p, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("cannot write config file: %w", err)
	}
	return nil
}

// Get reads a single value from the config file.
// Returns an empty string if the key or the file doesn't exist.
func Get(key string) (string, error) {
	if err := ValidateKey(key); err != nil {
		return "", err
	}

	data, err := List()
	if err != nil {
		return "", err
	}
	return data[key], nil
}

// List returns all config values as a map.
func List() (map[string]string, error) {
	p, err := path()
	if err != nil {
		return nil, err
	}

	data, err := parseFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return make(map[string]string), nil
		}
		return nil, err
	}
	return data, nil
}

// ResolveOutputBase picks the parent directory for extraction output:
// the flag value, else the configured directory, else defaultBase.
// A leading ~/ is expanded.
func ResolveOutputBase(flagValue string, cfg Config, defaultBase string) string {
	switch {
	case flagValue != "":
		return filepath.Clean(ExpandPath(flagValue))
	case cfg.OutputDir != "":
		return filepath.Clean(ExpandPath(cfg.OutputDir))
	default:
		return defaultBase
	}
}

// EnsureOutputDir checks that d can hold extraction output, creating it if
// missing.
func EnsureOutputDir(d string) error {
	if d == "" {
		return errors.New("output-dir cannot be empty")
	}
	d = ExpandPath(d)

	info, err := os.Stat(d)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err := os.MkdirAll(d, 0750); err != nil { // #nosec G301 -- user output dir
				return fmt.Errorf("cannot create directory: %w", err)
			}
			return nil
		}
		return fmt.Errorf("cannot access directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDirectory, d)
	}

	probe, err := os.CreateTemp(d, ".audio-extract-write-test-*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotWritable, err)
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name) // best-effort cleanup

	return nil
}

// ExpandPath expands a leading ~ or ~/ to the user's home directory.
func ExpandPath(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, strings.TrimPrefix(p[1:], "/"))
	}
	return p
}

// Path returns the config file location.
func Path() (string, error) {
	return path()
}
