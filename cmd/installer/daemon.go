//go:build linux
// +build linux

package main

import (
	"fmt"
	"os"
	"syscall"

	"github.com/openinstaller/installer/installer"
	"github.com/openinstaller/installer/installer/events"
	"github.com/openinstaller/installer/installer/setup"
	"github.com/openinstaller/installer/lib/log"
	"github.com/openinstaller/installer/lib/runner"

	"golang.org/x/crypto/ssh/terminal"
)

func loadSettings(logger log.DebugLogger) (*setup.Settings, error) {
	if *tftpServerHostname != "" {
		logger.Printf("loading settings from TFTP server: %s\n",
			*tftpServerHostname)
		return setup.LoadTftp(*tftpServerHostname, logger)
	}
	logger.Printf("loading settings from: %s\n", *settingsFile)
	return setup.LoadFile(*settingsFile)
}

// promptForCredentials fills in a missing user password from the console,
// when there is a console to ask on.
func promptForCredentials(settings *setup.Settings) error {
	if settings.UserName == "" || settings.UserPassword != "" {
		return nil
	}
	if !terminal.IsTerminal(int(syscall.Stdin)) {
		return nil
	}
	fmt.Printf("Password for %s: ", settings.UserName)
	password, err := terminal.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return err
	}
	settings.UserPassword = string(password)
	return nil
}

func uefiBooted() bool {
	if _, err := os.Stat("/sys/firmware/efi"); err == nil {
		return true
	}
	return false
}

func runDaemon(logger log.DebugLogger) error {
	settings, err := loadSettings(logger)
	if err != nil {
		return err
	}
	settings.InstallBootloader = *installBootloader
	if err := promptForCredentials(settings); err != nil {
		return err
	}
	if !settings.TimezoneDone.IsSet() {
		settings.TimezoneDone.WatchFile(*timezoneFlagFile, logger)
	}
	if !settings.UserInfoDone.IsSet() {
		settings.UserInfoDone.WatchFile(*userInfoFlagFile, logger)
	}
	var toolRunner runner.Runner
	if *dryRun {
		logger.Println("dry run: no changes will be made")
		toolRunner = runner.NewDryRun(logger)
	} else {
		toolRunner = runner.New(logger)
	}
	eventChannel := events.New(256)
	params := installer.Params{
		Settings:    settings,
		TargetDir:   *targetDir,
		SourceDirs:  sourceDirs,
		LogFile:     *logFile,
		UefiBooted:  uefiBooted(),
		Runner:      toolRunner,
		Logger:      logger,
		Events:      eventChannel,
		FlagTimeout: *flagTimeout,
	}
	if *dryRun {
		params.ChrootRunner = toolRunner
	}
	inst, err := installer.New(params)
	if err != nil {
		return err
	}
	inst.Start()
	return observe(eventChannel, logger)
}

// observe is the single event consumer. It returns once a terminal event
// arrives and has been acknowledged.
func observe(eventChannel *events.Channel, logger log.DebugLogger) error {
	var lastPercent float64
	for event := range eventChannel.Events() {
		switch event.Type {
		case events.EventInfo:
			logger.Debugln(0, event.Text)
		case events.EventDebug:
			logger.Debugln(1, event.Text)
		case events.EventWarning:
			logger.Printf("warning: %s\n", event.Text)
		case events.EventPercent:
			if event.Fraction >= lastPercent+0.01 {
				lastPercent = event.Fraction
				logger.Printf("%.0f%% complete\n", event.Fraction*100)
			}
		case events.EventPulse:
		case events.EventError:
			eventChannel.AcknowledgeDrain()
			return fmt.Errorf("installation failed: %s", event.Text)
		case events.EventFinished:
			eventChannel.AcknowledgeDrain()
			logger.Println("installation finished")
			return nil
		}
	}
	return nil
}
