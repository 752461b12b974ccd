/*
Package installer drives an unattended operating system installation from
disk preparation through to a bootable target.

The installation runs in a single supervised worker goroutine. Status flows
to exactly one observer through the bounded event channel; the working
state never leaves the worker except as value snapshots.
*/
package installer

import (
	"sync"
	"time"

	"github.com/openinstaller/installer/installer/events"
	"github.com/openinstaller/installer/installer/layout"
	"github.com/openinstaller/installer/installer/provision"
	"github.com/openinstaller/installer/installer/setup"
	"github.com/openinstaller/installer/lib/log"
	"github.com/openinstaller/installer/lib/runner"
)

type Phase uint

const (
	PhaseIdle Phase = iota
	PhaseProvision
	PhaseMountTargets
	PhaseTransfer
	PhaseConfigure
	PhaseInstallBootloader
	PhaseFinalize
	PhaseSuccess
	PhaseFailed
)

var phaseNames = map[Phase]string{
	PhaseIdle:              "idle",
	PhaseProvision:         "provision",
	PhaseMountTargets:      "mount-targets",
	PhaseTransfer:          "transfer",
	PhaseConfigure:         "configure",
	PhaseInstallBootloader: "install-bootloader",
	PhaseFinalize:          "finalize",
	PhaseSuccess:           "success",
	PhaseFailed:            "failed",
}

func (phase Phase) String() string {
	if name, ok := phaseNames[phase]; ok {
		return name
	}
	return "unknown"
}

// InstallState is the worker's working state. It is mutated only by the
// worker; observers get value snapshots through GetState.
type InstallState struct {
	Phase              Phase
	MountTable         map[string]string // Mount point to device.
	FilesystemTable    map[string]string // Device to filesystem kind.
	SpecialDirsMounted bool
	Running            bool
	Error              bool
}

// Params configures one installation.
type Params struct {
	Settings   *setup.Settings
	TargetDir  string   // Where the new root gets mounted.
	SourceDirs []string // Unpacked system image trees to copy, in order.
	LogFile    string   // Install log, copied into the target at the end.
	UefiBooted bool     // Firmware probe result, supplied by the caller.

	Runner runner.Runner
	// ChrootRunner executes tools inside the target. Defaults to a
	// runner chrooted into TargetDir.
	ChrootRunner runner.Runner
	Logger       log.DebugLogger
	Events       *events.Channel

	// How long Configure waits for the timezone and user-info readiness
	// flags. Default 30 minutes.
	FlagTimeout time.Duration
}

// Installer is the handle held by the caller. The worker goroutine owns
// all mutable state.
type Installer struct {
	params        Params
	installFunc   func() error
	resultChannel chan error
	cancelChannel chan struct{}

	mutex  sync.Mutex // Protects state.
	state  InstallState
	plan   *layout.Plan
	fsPlan *provision.FilesystemPlan
}

// New validates params and returns an Installer ready to start. Defaults
// are applied for unset optional fields.
func New(p Params) (*Installer, error) {
	return newInstaller(p)
}

// Start launches the installation worker. The worker reports its verdict
// through the event channel (a terminal Finished or Error event) and
// through the result channel read by Wait.
func (inst *Installer) Start() {
	go inst.run()
}

// Wait blocks until the worker finishes and returns its verdict.
func (inst *Installer) Wait() error {
	return <-inst.resultChannel
}

// Abort asks the worker to stop at the next flag wait. A provisioning or
// transfer step already in flight is not interrupted.
func (inst *Installer) Abort() {
	inst.abort()
}

// GetState returns a value snapshot of the working state.
func (inst *Installer) GetState() InstallState {
	return inst.getState()
}
