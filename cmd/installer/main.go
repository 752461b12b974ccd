//go:build linux
// +build linux

package main

import (
	"flag"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"time"

	"github.com/Cloud-Foundations/tricorder/go/tricorder"
	"github.com/openinstaller/installer/lib/flags/commands"
	"github.com/openinstaller/installer/lib/flags/loadflags"
	"github.com/openinstaller/installer/lib/flagutil"
	"github.com/openinstaller/installer/lib/fsutil"
	"github.com/openinstaller/installer/lib/log"
	"github.com/openinstaller/installer/lib/log/debuglogger"
)

var (
	dryRun = flag.Bool("dryRun", ifUnprivileged(),
		"If true, do not make changes")
	flagTimeout = flag.Duration("flagTimeout", 30*time.Minute,
		"How long to wait for preseeded timezone and user data")
	installBootloader = flag.Bool("installBootloader", true,
		"If true, install the bootloader on the target")
	logDebugLevel = flag.Int("logDebugLevel", -1, "Debug log level")
	logFile       = flag.String("logFile", "/var/log/installer/latest",
		"Installation log file")
	settingsFile = flag.String("settingsFile",
		"/etc/installer/settings.json",
		"File containing installation settings")
	sourceDirs = flagutil.StringList{"/run/system-image"}
	targetDir  = flag.String("targetDir", "/mnt/target",
		"Mount point for the new root file-system")
	tftpServerHostname = flag.String("tftpServerHostname", "",
		"TFTP server to fetch settings from (overrides -settingsFile)")
	timezoneFlagFile = flag.String("timezoneFlagFile",
		"/run/installer/timezone-done",
		"File which marks timezone data as final when it appears")
	userInfoFlagFile = flag.String("userInfoFlagFile",
		"/run/installer/userinfo-done",
		"File which marks user account data as final when it appears")
)

func init() {
	flag.Var(&sourceDirs, "sourceDirs",
		"Comma separated list of unpacked system image trees to copy")
}

func printUsage() {
	w := flag.CommandLine.Output()
	fmt.Fprintln(w, "Usage: installer [flags...] [command [args...]]")
	fmt.Fprintln(w, "Common flags:")
	flag.PrintDefaults()
	fmt.Fprintln(w, "Commands:")
	commands.PrintCommands(w, subcommands)
}

var subcommands = []commands.Command{
	{Command: "dhcp-probe", Args: "", MinArgs: 0, MaxArgs: 0,
		CmdFunc: dhcpProbeSubcommand},
	{Command: "load-settings-from-tftp", Args: "", MinArgs: 0, MaxArgs: 0,
		CmdFunc: loadSettingsFromTftpSubcommand},
	{Command: "plan-layout", Args: "device", MinArgs: 1, MaxArgs: 1,
		CmdFunc: planLayoutSubcommand},
}

func ifUnprivileged() bool {
	return os.Geteuid() != 0
}

func createLogger() (log.DebugLogger, error) {
	if err := os.MkdirAll(filepath.Dir(*logFile), fsutil.DirPerms); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(*logFile,
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, fsutil.PublicFilePerms)
	if err != nil {
		return nil, err
	}
	writer := io.MultiWriter(file, os.Stderr)
	logger := debuglogger.New(stdlog.New(writer, "", stdlog.LstdFlags))
	logger.SetLevel(int16(*logDebugLevel))
	return logger, nil
}

func main() {
	os.Exit(doMain())
}

func doMain() int {
	if err := loadflags.LoadForDaemon("installer"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	flag.Usage = printUsage
	flag.Parse()
	tricorder.RegisterFlags()
	logger, err := createLogger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if flag.NArg() > 0 {
		return commands.RunCommands(subcommands, printUsage, logger)
	}
	if err := runDaemon(logger); err != nil {
		logger.Println(err)
		return 1
	}
	return 0
}
