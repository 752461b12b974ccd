/*
Package netconfig carries the live system's network configuration over to
the installation target.

The installed system should come up with the same connectivity the live
environment had. Connection profiles are copied verbatim; optionally a DHCP
probe captures hostname, name servers and search domain for the target's
resolver configuration.
*/
package netconfig

import (
	"io"
	"net"
	"time"

	"github.com/openinstaller/installer/lib/log"
)

const profileDir = "etc/NetworkManager/system-connections"

// Info holds what a DHCP response told us about the local network.
type Info struct {
	Hostname      string
	NameServers   []net.IP
	SearchDomains []string
	Interface     string // Interface the response arrived on.
}

// CopyProfiles copies the live system's connection profiles into the
// mounted target tree. A missing profile directory is not an error: the
// live environment may be configured by other means.
func CopyProfiles(targetDir string, logger log.DebugLogger) error {
	return copyProfiles(targetDir, logger)
}

// Probe broadcasts a DHCP request on every broadcast-capable interface
// which has carrier and returns the first valid response. Option contents
// are logged for diagnosis.
func Probe(timeout time.Duration, logger log.DebugLogger) (*Info, error) {
	return probe(timeout, logger)
}

// WriteResolvConf writes resolver configuration from a probe result.
func WriteResolvConf(writer io.Writer, info *Info) error {
	return writeResolvConf(writer, info)
}
