package installer

import (
	"os"

	"github.com/openinstaller/installer/installer/provision"
	"github.com/openinstaller/installer/lib/fsutil"
	"github.com/openinstaller/installer/lib/fsutil/mounts"
)

// Kernel pseudo-filesystems bind-mounted into the target while chrooted
// tools run.
var specialDirs = []string{"dev", "proc", "sys", "tmp"}

const installedLogFile = "var/log/installation.log"

func (inst *Installer) mountSpecialDirs() error {
	if inst.GetState().SpecialDirsMounted {
		return nil
	}
	for _, name := range specialDirs {
		directory := inst.targetPath(name)
		if err := os.MkdirAll(directory, fsutil.DirPerms); err != nil {
			return err
		}
		err := inst.params.Runner.Run("mount", "--bind", "/"+name,
			directory)
		if err != nil {
			return err
		}
	}
	inst.mutateState(func(state *InstallState) {
		state.SpecialDirsMounted = true
	})
	return nil
}

func (inst *Installer) unmountSpecialDirs() {
	if !inst.GetState().SpecialDirsMounted {
		return
	}
	for index := len(specialDirs) - 1; index >= 0; index-- {
		directory := inst.targetPath(specialDirs[index])
		if err := inst.params.Runner.Run("umount", directory); err != nil {
			inst.warn("cannot unmount %s: %s", directory, err)
		}
	}
	inst.mutateState(func(state *InstallState) {
		state.SpecialDirsMounted = false
	})
}

func (inst *Installer) finalizePhase() error {
	inst.copyInstallLog()
	if err := os.Remove(provision.DefaultKeyFile); err != nil &&
		!os.IsNotExist(err) {
		inst.warn("cannot remove key file: %s", err)
	}
	return inst.unmountTarget()
}

// copyInstallLog preserves the install log inside the target, for
// diagnosis once the live environment is gone.
func (inst *Installer) copyInstallLog() {
	if inst.params.LogFile == "" {
		return
	}
	destination := inst.targetPath(installedLogFile)
	err := fsutil.CopyFile(destination, inst.params.LogFile,
		fsutil.PublicFilePerms)
	if err != nil {
		inst.warn("cannot copy install log: %s", err)
	}
}

// unmountTarget unmounts everything below the target directory, children
// before parents. Individual failures are warnings: a busy secondary
// mount should not turn a finished installation into a failure.
func (inst *Installer) unmountTarget() error {
	inst.unmountSpecialDirs()
	mountTable, err := mounts.GetMountTable()
	if err != nil {
		return err
	}
	for _, entry := range mountTable.ListEntriesUnder(inst.params.TargetDir) {
		inst.params.Logger.Debugf(0, "unmounting: %s\n", entry.MountPoint)
		if err := inst.params.Runner.Run("umount", entry.MountPoint); err != nil {
			inst.warn("cannot unmount %s: %s", entry.MountPoint, err)
		}
	}
	return nil
}
