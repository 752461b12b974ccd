//go:build linux
// +build linux

package main

import (
	"os"
	"time"

	"github.com/openinstaller/installer/installer/netconfig"
	"github.com/openinstaller/installer/lib/log"
)

func dhcpProbeSubcommand(args []string, logger log.DebugLogger) error {
	info, err := netconfig.Probe(15*time.Second, logger)
	if err != nil {
		return err
	}
	logger.Printf("response on interface: %s\n", info.Interface)
	if info.Hostname != "" {
		logger.Printf("hostname: %s\n", info.Hostname)
	}
	return netconfig.WriteResolvConf(os.Stdout, info)
}
