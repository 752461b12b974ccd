package installer

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Cloud-Foundations/tricorder/go/tricorder"
	"github.com/Cloud-Foundations/tricorder/go/tricorder/units"
	"github.com/openinstaller/installer/installer/layout"
	"github.com/openinstaller/installer/installer/provision"
	"github.com/openinstaller/installer/installer/transfer"
	"github.com/openinstaller/installer/lib/fsutil"
	"github.com/openinstaller/installer/lib/meminfo"
	"github.com/openinstaller/installer/lib/runner"
)

const defaultFlagTimeout = 30 * time.Minute

func newInstaller(p Params) (*Installer, error) {
	if p.Settings == nil {
		return nil, errors.New("no settings")
	}
	if p.TargetDir == "" {
		return nil, errors.New("no target directory")
	}
	if p.Runner == nil || p.Logger == nil || p.Events == nil {
		return nil, errors.New("runner, logger and events are required")
	}
	if p.FlagTimeout <= 0 {
		p.FlagTimeout = defaultFlagTimeout
	}
	if p.ChrootRunner == nil {
		p.ChrootRunner = runner.NewChroot(p.TargetDir, p.Logger)
	}
	inst := &Installer{
		params:        p,
		resultChannel: make(chan error, 1),
		cancelChannel: make(chan struct{}),
		state: InstallState{
			MountTable:      make(map[string]string),
			FilesystemTable: make(map[string]string),
		},
	}
	inst.installFunc = inst.install
	tricorder.RegisterMetric("/installer/phase",
		func() string { return inst.GetState().Phase.String() },
		units.None, "current installation phase")
	return inst, nil
}

func (inst *Installer) abort() {
	select {
	case <-inst.cancelChannel:
	default:
		close(inst.cancelChannel)
	}
}

func (inst *Installer) getState() InstallState {
	inst.mutex.Lock()
	defer inst.mutex.Unlock()
	snapshot := inst.state
	snapshot.MountTable = make(map[string]string, len(inst.state.MountTable))
	for mountPoint, device := range inst.state.MountTable {
		snapshot.MountTable[mountPoint] = device
	}
	snapshot.FilesystemTable = make(map[string]string,
		len(inst.state.FilesystemTable))
	for device, kind := range inst.state.FilesystemTable {
		snapshot.FilesystemTable[device] = kind
	}
	return snapshot
}

func (inst *Installer) setPhase(phase Phase) {
	inst.mutex.Lock()
	inst.state.Phase = phase
	inst.mutex.Unlock()
	inst.params.Logger.Printf("phase: %s\n", phase)
	inst.params.Events.Info("phase: " + phase.String())
}

func (inst *Installer) mutateState(mutate func(*InstallState)) {
	inst.mutex.Lock()
	defer inst.mutex.Unlock()
	mutate(&inst.state)
}

// run is the worker. Any uncaught panic in a phase is converted to a
// generic fatal event rather than crashing the process with an
// unstructured stack.
func (inst *Installer) run() {
	inst.mutateState(func(state *InstallState) { state.Running = true })
	err := inst.supervise()
	if err == nil {
		inst.setPhase(PhaseSuccess)
		inst.mutateState(func(state *InstallState) { state.Running = false })
		inst.params.Events.Finished()
		inst.resultChannel <- nil
		return
	}
	inst.params.Logger.Printf("installation failed: %s\n", err)
	inst.mutateState(func(state *InstallState) {
		state.Error = true
		state.Phase = PhaseFailed
	})
	// Clean up mounts even on the fatal path, so the operator gets the
	// disks back in a releasable state.
	inst.cleanupMounts()
	inst.mutateState(func(state *InstallState) { state.Running = false })
	inst.params.Events.Error(err.Error())
	inst.resultChannel <- err
}

func (inst *Installer) supervise() (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("unexpected failure: %v", recovered)
		}
	}()
	return inst.installFunc()
}

func (inst *Installer) install() error {
	inst.setPhase(PhaseProvision)
	if err := inst.provisionPhase(); err != nil {
		return err
	}
	inst.setPhase(PhaseMountTargets)
	if err := inst.mountTargetsPhase(); err != nil {
		return err
	}
	inst.setPhase(PhaseTransfer)
	if err := inst.transferPhase(); err != nil {
		return err
	}
	inst.setPhase(PhaseConfigure)
	if err := inst.configurePhase(); err != nil {
		return err
	}
	if inst.params.Settings.InstallBootloader {
		inst.setPhase(PhaseInstallBootloader)
		if err := inst.bootloaderPhase(); err != nil {
			return err
		}
	}
	inst.setPhase(PhaseFinalize)
	return inst.finalizePhase()
}

func (inst *Installer) provisionParams() provision.Params {
	return provision.Params{
		TargetDir: inst.params.TargetDir,
		Runner:    inst.params.Runner,
		Logger:    inst.params.Logger,
		Events:    inst.params.Events,
	}
}

func (inst *Installer) provisionPhase() error {
	settings := inst.params.Settings
	if !settings.Automatic() {
		return inst.provisionPrepared()
	}
	diskSize, err := fsutil.BlockDeviceSize(settings.TargetDevice)
	if err != nil {
		return err
	}
	memInfo, err := meminfo.GetMemInfo()
	if err != nil {
		return err
	}
	bootMode := layout.BootModeBios
	if inst.params.UefiBooted {
		bootMode = layout.BootModeUefi
	}
	plan, err := layout.MakePlan(layout.Request{
		DiskDevice: settings.TargetDevice,
		DiskSize:   diskSize,
		BlockSize:  512,
		TotalRam:   memInfo.Total,
		BootMode:   bootMode,
		UseLuks:    settings.UseLuks,
		UseLvm:     settings.UseLvm,
	})
	if err != nil {
		return err
	}
	inst.plan = plan
	fsPlan, err := provision.Provision(plan, inst.provisionParams())
	if err != nil {
		return err
	}
	inst.fsPlan = fsPlan
	return nil
}

// provisionPrepared formats devices the caller partitioned itself
// (alongside and advanced modes). Devices with no requested kind are
// reused: probed, never reformatted. Unsupported filesystem kinds are
// reported and skipped, matching automatic mode, but a plan without a
// root filesystem is fatal.
func (inst *Installer) provisionPrepared() error {
	settings := inst.params.Settings
	if len(settings.MountDevices) < 1 {
		return errors.New("no target device and no prepared devices")
	}
	if settings.MountDevices["/"] == "" {
		return errors.New("no device assigned to /")
	}
	fsPlan := &provision.FilesystemPlan{}
	mountPoints := orderedMountPoints(settings.MountDevices)
	for _, mountPoint := range mountPoints {
		device := settings.MountDevices[mountPoint]
		kind := settings.FilesystemDevices[device]
		var fs *provision.Filesystem
		var err error
		if kind == "" {
			fs, err = provision.ProbeDevice(device, inst.provisionParams())
		} else {
			fs, err = provision.FormatDevice(device, kind, "",
				inst.provisionParams())
		}
		if err != nil {
			var configError *provision.ConfigurationError
			if errors.As(err, &configError) {
				inst.params.Logger.Println(err)
				inst.params.Events.Warning(err.Error())
				continue
			}
			return err
		}
		fs.MountPoint = mountPoint
		fsPlan.Filesystems = append(fsPlan.Filesystems, fs)
	}
	for _, fs := range fsPlan.Filesystems {
		if fs.MountPoint == "/" {
			inst.fsPlan = fsPlan
			return nil
		}
	}
	return errors.New("no filesystem prepared for /")
}

// orderedMountPoints sorts mount points shallowest-first with "/" first,
// so mounting in order is safe.
func orderedMountPoints(mountDevices map[string]string) []string {
	mountPoints := make([]string, 0, len(mountDevices))
	for mountPoint := range mountDevices {
		mountPoints = append(mountPoints, mountPoint)
	}
	sort.Slice(mountPoints, func(i, j int) bool {
		if mountPoints[i] == "/" {
			return true
		}
		if mountPoints[j] == "/" {
			return false
		}
		depthI := strings.Count(mountPoints[i], "/")
		depthJ := strings.Count(mountPoints[j], "/")
		if depthI != depthJ {
			return depthI < depthJ
		}
		return mountPoints[i] < mountPoints[j]
	})
	return mountPoints
}

func (inst *Installer) mountTargetsPhase() error {
	rootFound := false
	for _, fs := range inst.fsPlan.Filesystems {
		if fs.MountPoint == "/" {
			rootFound = true
		}
	}
	if !rootFound {
		// Transfer and Configure against an unmounted target directory
		// would write onto the live system.
		return errors.New("no root filesystem to mount")
	}
	secondaryErrors, err := provision.Mount(inst.fsPlan,
		inst.params.TargetDir, inst.provisionParams())
	if err != nil {
		return err
	}
	for _, mountError := range secondaryErrors {
		inst.params.Logger.Println(mountError)
	}
	inst.mutateState(func(state *InstallState) {
		for _, fs := range inst.fsPlan.Filesystems {
			state.FilesystemTable[fs.Device] = fs.Kind
			if fs.MountPoint != "" && fs.Kind != "swap" {
				state.MountTable[fs.MountPoint] = fs.Device
			}
		}
	})
	return nil
}

func (inst *Installer) transferPhase() error {
	totalFiles, err := transfer.CountFiles(inst.params.SourceDirs...)
	if err != nil {
		return err
	}
	inst.params.Logger.Printf("copying %d files\n", totalFiles)
	tracker := transfer.New(totalFiles, inst.params.Events,
		inst.params.Logger)
	for _, sourceDir := range inst.params.SourceDirs {
		if err := tracker.Copy(sourceDir, inst.params.TargetDir); err != nil {
			return err // A partial system copy is never bootable.
		}
	}
	tracker.Finish()
	return nil
}

func (inst *Installer) cleanupMounts() {
	if err := inst.unmountTarget(); err != nil {
		inst.params.Logger.Printf("cleanup: %s\n", err)
	}
}

// sendEvent helpers for phases which only have an event channel.
func (inst *Installer) warn(format string, args ...interface{}) {
	text := fmt.Sprintf(format, args...)
	inst.params.Logger.Println(text)
	inst.params.Events.Warning(text)
}
