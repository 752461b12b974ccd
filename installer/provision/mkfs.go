package provision

import (
	"github.com/openinstaller/installer/installer/layout"
)

type mkfsCommand struct {
	command   string
	labelFlag string
	args      []string
}

// Kind-to-tool dispatch table. An unlisted kind is a configuration error,
// reported and skipped rather than aborting the whole run.
var mkfsCommands = map[string]mkfsCommand{
	"btrfs":    {"mkfs.btrfs", "-L", []string{"-f"}},
	"ext2":     {"mkfs.ext2", "-L", []string{"-q"}},
	"ext3":     {"mkfs.ext3", "-L", []string{"-q"}},
	"ext4":     {"mkfs.ext4", "-L", []string{"-q"}},
	"f2fs":     {"mkfs.f2fs", "-l", nil},
	"fat32":    {"mkfs.vfat", "-n", []string{"-F", "32"}},
	"jfs":      {"mkfs.jfs", "-L", []string{"-q"}},
	"nilfs2":   {"mkfs.nilfs2", "-L", nil},
	"ntfs":     {"mkfs.ntfs", "-L", []string{"-Q"}},
	"reiserfs": {"mkfs.reiserfs", "-l", []string{"-q"}},
	"vfat":     {"mkfs.vfat", "-n", []string{"-F", "32"}},
	"xfs":      {"mkfs.xfs", "-L", []string{"-f"}},
}

// makeFilesystems creates every filesystem for the automatic layout and
// resolves durable identifiers. The root filesystem is always first in the
// returned plan.
func (p *provisioner) makeFilesystems() (*FilesystemPlan, error) {
	fsPlan := &FilesystemPlan{}
	type request struct {
		role       layout.Role
		kind       string
		label      string
		mountPoint string
	}
	requests := []request{
		{layout.RoleRoot, p.params.RootFsKind, layout.RootLabel, "/"},
		{layout.RoleBoot, "ext2", layout.BootLabel, "/boot"},
		{layout.RoleSwap, "swap", layout.SwapLabel, ""},
	}
	if p.plan.BootMode == layout.BootModeUefi {
		requests = append(requests,
			request{layout.RoleEfiSystem, "vfat", "", "/boot/efi"})
	}
	for _, req := range requests {
		device := p.plan.Devices[req.role]
		fs, err := p.makeFilesystem(device, req.kind, req.label,
			req.mountPoint)
		if err != nil {
			if _, ok := err.(*ConfigurationError); ok {
				p.params.Logger.Println(err)
				if p.params.Events != nil {
					p.params.Events.Warning(err.Error())
				}
				continue
			}
			return nil, err
		}
		fsPlan.Filesystems = append(fsPlan.Filesystems, fs)
	}
	return fsPlan, nil
}

// makeFilesystem formats one device and reads its identifiers back. Swap is
// special-cased: mkswap and swapon, never mounted under the target tree.
func (p *provisioner) makeFilesystem(device, kind, label,
	mountPoint string) (*Filesystem, error) {
	p.info("creating " + kind + " on " + device)
	p.pulse()
	if kind == "swap" {
		if err := p.params.Runner.Run("mkswap", "-L", label,
			device); err != nil {
			return nil, err
		}
		if err := p.params.Runner.Run("swapon", device); err != nil {
			return nil, err
		}
	} else {
		mkfs, ok := mkfsCommands[kind]
		if !ok {
			return nil, &ConfigurationError{
				Reason: "unsupported filesystem kind: " + kind}
		}
		args := append([]string{}, mkfs.args...)
		if label != "" {
			args = append(args, mkfs.labelFlag, label)
		}
		args = append(args, device)
		if err := p.params.Runner.Run(mkfs.command, args...); err != nil {
			return nil, err
		}
	}
	fs := &Filesystem{
		Device:     device,
		Kind:       kind,
		MountPoint: mountPoint,
		Ssd:        p.isSsd(device),
	}
	var err error
	if fs.UUID, err = p.readBlkidValue(device, "UUID"); err != nil {
		return nil, err
	}
	// The label is read back rather than assumed: some tools munge it.
	fs.Label, _ = p.readBlkidValue(device, "LABEL")
	return fs, nil
}

// probeFilesystem reads the kind and identifiers of an existing filesystem
// without touching it.
func (p *provisioner) probeFilesystem(device string) (*Filesystem, error) {
	kind, err := p.readBlkidValue(device, "TYPE")
	if err != nil {
		return nil, err
	}
	if kind == "" {
		return nil, &ConfigurationError{
			Reason: "no filesystem on " + device}
	}
	fs := &Filesystem{
		Device: device,
		Kind:   kind,
		Ssd:    p.isSsd(device),
	}
	if fs.UUID, err = p.readBlkidValue(device, "UUID"); err != nil {
		return nil, err
	}
	fs.Label, _ = p.readBlkidValue(device, "LABEL")
	return fs, nil
}

func (p *provisioner) readBlkidValue(device, field string) (string, error) {
	return p.params.Runner.Output("blkid", "-o", "value", "-s", field,
		device)
}
