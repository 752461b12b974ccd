//go:build linux
// +build linux

package main

import (
	"errors"
	"os"

	"github.com/openinstaller/installer/installer/setup"
	"github.com/openinstaller/installer/lib/json"
	"github.com/openinstaller/installer/lib/log"
)

func loadSettingsFromTftpSubcommand(args []string,
	logger log.DebugLogger) error {
	if *tftpServerHostname == "" {
		return errors.New("no -tftpServerHostname specified")
	}
	settings, err := setup.LoadTftp(*tftpServerHostname, logger)
	if err != nil {
		return err
	}
	return json.WriteWithIndent(os.Stdout, "    ", settings)
}
