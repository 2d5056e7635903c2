package cli

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// Operating system constants.
const (
	osDarwin  = "darwin"
	osWindows = "windows"
)

// Desktop handler commands.
const (
	openCommand     = "open"
	explorerCommand = "explorer"
	xdgOpenCommand  = "xdg-open"
)

// DesktopOpener opens directories with the platform's default handler.
type DesktopOpener struct {
	goos string
	run  func(ctx context.Context, name string, args ...string) error
}

// NewDesktopOpener creates an opener for the given GOOS value.
func NewDesktopOpener(goos string) *DesktopOpener {
	return &DesktopOpener{goos: goos, run: runCommand}
}

func runCommand(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run() // #nosec G204 -- fixed handler, path argument
}

// handlerFor returns the command used to open a directory on goos.
func handlerFor(goos string) (string, error) {
	switch goos {
	case osDarwin:
		return openCommand, nil
	case osWindows:
		return explorerCommand, nil
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly", "solaris":
		return xdgOpenCommand, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedPlatform, goos)
	}
}

// Open reveals dir in the file manager.
func (o *DesktopOpener) Open(ctx context.Context, dir string) error {
	name, err := handlerFor(o.goos)
	if err != nil {
		return err
	}

	err = o.run(ctx, name, dir)
	// explorer.exe exits 1 even when the window opened.
	var exitErr *exec.ExitError
	if o.goos == osWindows && errors.As(err, &exitErr) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s %s: %w", name, dir, err)
	}
	return nil
}
