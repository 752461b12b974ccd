/*
Package loadflags seeds command-line flags from configuration files before
flag.Parse runs, so deployments can fix defaults without wrapper scripts.
*/
package loadflags

import (
	"path/filepath"
)

// LoadForDaemon loads flags for a daemon from /etc/<progName>/flags.default
// and /etc/<progName>/flags.extra. Missing files are ignored.
func LoadForDaemon(progName string) error {
	return loadFlagDir(filepath.Join("/etc", progName))
}
