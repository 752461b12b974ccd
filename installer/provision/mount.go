package provision

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/openinstaller/installer/installer/layout"
	"github.com/openinstaller/installer/lib/fsutil"
)

// Fixed permission bits for well-known mount points. Foreign filesystems
// have surprising default permissions on a fresh root directory.
var mountPointPerms = map[string]os.FileMode{
	"/tmp":  os.FileMode(01777),
	"/root": os.FileMode(0750),
}

func mountAll(fsPlan *FilesystemPlan, targetDir string, params Params) (
	[]*MountError, error) {
	p := newProvisioner(nil, params)
	var secondaryErrors []*MountError
	for _, fs := range fsPlan.Filesystems {
		if fs.Kind == "swap" {
			continue // Activated at creation, never mounted.
		}
		if err := p.mountOne(fs, targetDir); err != nil {
			mountError := &MountError{MountPoint: fs.MountPoint, Err: err}
			if fs.MountPoint == "/" || fs.MountPoint == "/boot" {
				return secondaryErrors, mountError
			}
			p.params.Logger.Println(mountError)
			if p.params.Events != nil {
				p.params.Events.Warning(mountError.Error())
			}
			secondaryErrors = append(secondaryErrors, mountError)
		}
	}
	return secondaryErrors, nil
}

func (p *provisioner) mountOne(fs *Filesystem, targetDir string) error {
	directory := filepath.Join(targetDir, fs.MountPoint)
	if err := os.MkdirAll(directory, fsutil.DirPerms); err != nil {
		return err
	}
	p.params.Logger.Debugf(0, "mounting %s on %s\n", fs.Device, directory)
	kind := fs.Kind
	if strings.Contains(kind, "fat") {
		kind = "vfat"
	}
	err := p.params.Runner.Run("mount", "-t", kind, fs.Device, directory)
	if err != nil {
		return err
	}
	perms, ok := mountPointPerms[fs.MountPoint]
	if !ok {
		perms = fsutil.DirPerms
	}
	return os.Chmod(directory, perms)
}

func (p *provisioner) isSsd(device string) bool {
	var name string
	if p.plan != nil {
		name = filepath.Base(p.plan.DiskDevice)
	} else {
		name = filepath.Base(layout.DiskOfPartition(device))
	}
	data, err := os.ReadFile(
		filepath.Join("/sys/block", name, "queue/rotational"))
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(data)) == "0"
}
