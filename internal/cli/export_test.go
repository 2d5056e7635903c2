package cli

import "context"

// Export internal functions for testing.

// RunExtract exports runExtract for testing.
var RunExtract = runExtract

// ExtractOptions exports extractOptions for testing.
type ExtractOptions = extractOptions

// RunConfigSet exports runConfigSet for testing.
var RunConfigSet = runConfigSet

// RunConfigGet exports runConfigGet for testing.
var RunConfigGet = runConfigGet

// RunConfigList exports runConfigList for testing.
var RunConfigList = runConfigList

// HandlerFor exports handlerFor for testing.
var HandlerFor = handlerFor

// NewDesktopOpenerWithRun builds a DesktopOpener with a fake command runner.
func NewDesktopOpenerWithRun(goos string, run func(ctx context.Context, name string, args ...string) error) *DesktopOpener {
	o := NewDesktopOpener(goos)
	o.run = run
	return o
}
