/*
Package runner provides a typed interface for invoking external tools.

Arguments are always passed as discrete parameters, never interpolated into
a shell command line, removing a whole class of quoting bugs. Errors from
failed tools capture the combined output of the tool for diagnosis.
*/
package runner

import (
	"github.com/openinstaller/installer/lib/log"
)

// Runner is the capability interface handed to code which needs to invoke
// external tools.
type Runner interface {
	// Run invokes the named tool with the given arguments. On failure the
	// returned error includes the combined output of the tool.
	Run(name string, args ...string) error

	// RunInput invokes the named tool feeding input on its standard
	// input, for tools which refuse secrets on the command line.
	RunInput(input string, name string, args ...string) error

	// Output invokes the named tool and returns its standard output with
	// surrounding whitespace trimmed.
	Output(name string, args ...string) (string, error)
}

// New creates a Runner which executes tools on the live system. Each
// invocation is logged at debug level 0.
func New(logger log.DebugLogger) Runner {
	return &toolRunner{logger: logger}
}

// NewChroot creates a Runner which executes tools chrooted into rootDir.
// The tool is resolved via PATH inside the chroot.
func NewChroot(rootDir string, logger log.DebugLogger) Runner {
	return &toolRunner{chroot: rootDir, logger: logger}
}

// NewDryRun creates a Runner which logs each invocation and does nothing.
// Output calls return an empty string.
func NewDryRun(logger log.DebugLogger) Runner {
	return &dryRunner{logger: logger}
}
