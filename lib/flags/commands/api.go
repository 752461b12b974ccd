// Package commands dispatches subcommands for flag-driven tools.
package commands

import (
	"io"

	"github.com/openinstaller/installer/lib/log"
)

type CommandFunc func(args []string, logger log.DebugLogger) error

type Command struct {
	Command string
	Args    string // Usage text for the arguments.
	MinArgs int
	MaxArgs int // -1 means unlimited.
	CmdFunc CommandFunc
}

// PrintCommands writes one usage line per command.
func PrintCommands(writer io.Writer, commands []Command) {
	printCommands(writer, commands)
}

// RunCommands dispatches on the first non-flag argument and returns the
// exit code for the process. An unknown command or bad argument count
// calls printUsage and returns 2.
func RunCommands(commands []Command, printUsage func(),
	logger log.DebugLogger) int {
	return runCommands(commands, printUsage, logger)
}
