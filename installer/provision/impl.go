package provision

import (
	"crypto/rand"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/openinstaller/installer/installer/layout"
	"github.com/openinstaller/installer/lib/fsutil"
	"github.com/openinstaller/installer/lib/fsutil/mounts"
)

const (
	mib = 1 << 20

	defaultDeviceTimeout = 10 * time.Second
	luksHeadWipeMiB      = 10
	luksKeySize          = 512
)

type provisioner struct {
	plan   *layout.Plan
	params Params
}

func newProvisioner(plan *layout.Plan, params Params) *provisioner {
	if params.RootFsKind == "" {
		params.RootFsKind = "ext4"
	}
	if params.KeyFile == "" {
		params.KeyFile = DefaultKeyFile
	}
	if params.DeviceTimeout <= 0 {
		params.DeviceTimeout = defaultDeviceTimeout
	}
	return &provisioner{plan: plan, params: params}
}

func provision(plan *layout.Plan, params Params) (*FilesystemPlan, error) {
	p := newProvisioner(plan, params)
	p.info("preparing " + plan.DiskDevice)
	if err := p.preflight(); err != nil {
		return nil, err
	}
	if err := p.wipeDisk(); err != nil {
		return nil, err
	}
	if err := p.writePartitionTable(); err != nil {
		return nil, err
	}
	if plan.UseLuks {
		if err := p.setupLuks(); err != nil {
			return nil, err
		}
	}
	if plan.UseLvm {
		if err := p.setupLvm(); err != nil {
			return nil, err
		}
	}
	return p.makeFilesystems()
}

func (p *provisioner) info(text string) {
	p.params.Logger.Println(text)
	if p.params.Events != nil {
		p.params.Events.Info(text)
	}
}

func (p *provisioner) pulse() {
	if p.params.Events != nil {
		p.params.Events.Pulse()
	}
}

// preflight disables swap and unmounts anything under the target directory
// or still using the target disk. Stale mounts make the later table write
// and format steps fail with "device busy".
func (p *provisioner) preflight() error {
	if err := p.params.Runner.Run("swapoff", "-a"); err != nil {
		return err
	}
	mountTable, err := mounts.GetMountTable()
	if err != nil {
		return err
	}
	var entries []*mounts.MountEntry
	if p.params.TargetDir != "" {
		entries = mountTable.ListEntriesUnder(p.params.TargetDir)
	}
	entries = append(entries,
		mountTable.ListEntriesUsing(p.plan.DiskDevice)...)
	for _, entry := range entries {
		p.params.Logger.Debugf(0, "unmounting: %s\n", entry.MountPoint)
		if err := p.params.Runner.Run("umount", entry.MountPoint); err != nil {
			return err
		}
	}
	return nil
}

// wipeDisk destroys the partition table and any stale filesystem, RAID or
// LVM signatures. Leftover metadata causes non-deterministic auto-assembly
// by the kernel on the next boot.
func (p *provisioner) wipeDisk() error {
	p.pulse()
	err := p.params.Runner.Run("dd", "if=/dev/zero",
		"of="+p.plan.DiskDevice, "bs=512", "count=2048")
	if err != nil {
		return err
	}
	return p.params.Runner.Run("wipefs", "-a", p.plan.DiskDevice)
}

func (p *provisioner) writePartitionTable() error {
	p.pulse()
	var err error
	if p.plan.BootMode == layout.BootModeUefi {
		err = p.writeGptTable()
	} else {
		err = p.writeMbrTable()
	}
	if err != nil {
		return err
	}
	return p.waitForPartitions()
}

func (p *provisioner) writeGptTable() error {
	disk := p.plan.DiskDevice
	if err := p.params.Runner.Run("sgdisk", "--zap-all", disk); err != nil {
		return err
	}
	for _, partition := range p.plan.Partitions {
		index := strconv.FormatUint(uint64(partition.Index), 10)
		// sgdisk speaks "M" for MiB.
		args := []string{
			"--new=" + index + ":" +
				strconv.FormatUint(partition.Offset/mib, 10) + "M:+" +
				strconv.FormatUint(partition.Size/mib, 10) + "M",
			"--typecode=" + index + ":" + partition.TypeCode,
		}
		if partition.Label != "" {
			args = append(args, "--change-name="+index+":"+partition.Label)
		}
		if partition.Role == layout.RoleBoot {
			// Legacy-boot attribute, so BIOS firmware in CSM mode can
			// still find the boot partition.
			args = append(args, "--attributes="+index+":set:2")
		}
		args = append(args, disk)
		if err := p.params.Runner.Run("sgdisk", args...); err != nil {
			return err
		}
	}
	return nil
}

func (p *provisioner) writeMbrTable() error {
	disk := p.plan.DiskDevice
	err := p.params.Runner.Run("parted", "-a", "optimal", "-s", disk,
		"mklabel", "msdos")
	if err != nil {
		return err
	}
	for _, partition := range p.plan.Partitions {
		start := mibString(partition.Offset)
		end := mibString(partition.Offset + partition.Size)
		err := p.params.Runner.Run("parted", "-a", "optimal", "-s", disk,
			"mkpart", "primary", start, end)
		if err != nil {
			return err
		}
		if partition.Role == layout.RoleBoot {
			index := strconv.FormatUint(uint64(partition.Index), 10)
			err := p.params.Runner.Run("parted", "-s", disk, "set", index,
				"boot", "on")
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *provisioner) waitForPartitions() error {
	for _, partition := range p.plan.Partitions {
		device := layout.PartitionDevice(p.plan.DiskDevice, partition.Index)
		_, _, err := fsutil.WaitForBlockAvailable(device,
			p.params.DeviceTimeout)
		if err != nil {
			return fmt.Errorf("partition device %s not available: %s",
				device, err)
		}
	}
	return nil
}

// setupLuks formats and opens the container with an explicit cipher and key
// length. Tool defaults change across versions and the choice must stay
// reproducible.
func (p *provisioner) setupLuks() error {
	container := p.plan.Devices[layout.RoleLuksContainer]
	p.info("setting up encrypted container on " + container)
	// A stale LUKS header in the first megabytes confuses size
	// negotiation: wipe them.
	err := p.params.Runner.Run("dd", "if=/dev/zero", "of="+container,
		"bs=1M", "count="+strconv.Itoa(luksHeadWipeMiB))
	if err != nil {
		return err
	}
	if err := p.writeKeyFile(); err != nil {
		return err
	}
	err = p.params.Runner.Run("cryptsetup", "luksFormat", "--batch-mode",
		"--cipher", "aes-xts-plain64", "--key-size",
		strconv.Itoa(luksKeySize), "--hash", "sha512",
		"--key-file", p.params.KeyFile, container)
	if err != nil {
		return err
	}
	return p.params.Runner.Run("cryptsetup", "luksOpen",
		"--key-file", p.params.KeyFile, container, layout.LuksMapperName)
}

func (p *provisioner) writeKeyFile() error {
	key := make([]byte, luksKeySize)
	if _, err := rand.Read(key); err != nil {
		return err
	}
	return os.WriteFile(p.params.KeyFile, key, fsutil.PrivateFilePerms)
}

// setupLvm creates the single volume group. Root gets an explicit size and
// swap takes all remaining space, so extent rounding slack is absorbed by
// swap rather than left unallocated.
func (p *provisioner) setupLvm() error {
	pvDevice := p.plan.Devices[layout.RoleLvmPv]
	p.info("setting up volume group on " + pvDevice)
	if err := p.params.Runner.Run("pvcreate", "-ff", "-y", pvDevice); err != nil {
		return err
	}
	err := p.params.Runner.Run("vgcreate", layout.VolumeGroupName, pvDevice)
	if err != nil {
		return err
	}
	err = p.params.Runner.Run("lvcreate", "--name", layout.RootVolumeName,
		"--size", strconv.FormatUint(p.plan.RootSize/mib, 10)+"M",
		layout.VolumeGroupName)
	if err != nil {
		return err
	}
	return p.params.Runner.Run("lvcreate", "--name", layout.SwapVolumeName,
		"--extents", "100%FREE", layout.VolumeGroupName)
}

func mibString(size uint64) string {
	return strconv.FormatUint(size/mib, 10) + "MiB"
}
