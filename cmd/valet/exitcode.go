package main

import (
	"errors"

	"github.com/vrules/valet/internal/config"
	"github.com/vrules/valet/internal/diagnostics"
)

// exitCode maps a diagnostics.Error to the CLI exit codes of spec.md §6:
// 2 for a load-time ParseError/IOError, 3 for everything else (resolution
// and runtime errors). Non-diagnostics errors (flag parsing, missing file
// arguments) are reported by cobra itself and fall back to false here.
func exitCode(err error) (int, bool) {
	var de *diagnostics.Error
	if !errors.As(err, &de) {
		return 0, false
	}
	switch de.Code() {
	case diagnostics.CodeParseError, diagnostics.CodeIOError:
		return config.ExitParseError, true
	default:
		return config.ExitResolutionError, true
	}
}
