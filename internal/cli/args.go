package cli

import "strings"

// valueFlags are the long flags that consume the next argument when given
// without "=".
var valueFlags = map[string]bool{
	flagInput:     true,
	flagStart:     true,
	flagEnd:       true,
	flagChunk:     true,
	flagOutputDir: true,
	flagTimeout:   true,
	flagLogLevel:  true,
	flagLogFile:   true,
}

// NormalizeArgs rewrites single-dash long flags (-input URL) to the
// double-dash form cobra expects (--input URL). Single-letter flags, "-",
// negative numbers, values of flags that take one, and everything after
// "--" are left alone.
func NormalizeArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			out = append(out, args[i:]...)
			break
		}
		if isSingleDashLong(a) {
			a = "-" + a
		}
		out = append(out, a)

		// A YouTube ID may itself start with "-".
		if takesNextValue(a) && i+1 < len(args) {
			i++
			out = append(out, args[i])
		}
	}
	return out
}

func isSingleDashLong(a string) bool {
	if len(a) < 3 || a[0] != '-' || a[1] == '-' {
		return false
	}
	name, _, _ := strings.Cut(a[1:], "=")
	if len(name) < 2 {
		return false
	}
	// Reject "-1.5" and similar values.
	c := name[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// takesNextValue reports whether a is a double-dash value flag without an
// inline "=value".
func takesNextValue(a string) bool {
	name, ok := strings.CutPrefix(a, "--")
	if !ok || strings.Contains(name, "=") {
		return false
	}
	return valueFlags[strings.ReplaceAll(name, "_", "-")]
}
