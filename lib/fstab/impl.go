package fstab

import (
	"fmt"
	"io"
	"strings"
)

const header = `# /etc/fstab: static file system information.
#
# Use 'blkid' to print the universally unique identifier for a
# device; this may be used with UUID= as a more robust way to name devices
# that works even if disks are added and removed. See fstab(5).
#
# <file system> <mount point>   <type>  <options>       <dump>  <pass>
#
`

// Filesystems which support TRIM as of linux 3.7. On such filesystems (and
// swap) the discard mount option is valid for SSDs.
var trimSupported = map[string]bool{
	"btrfs": true,
	"ext4":  true,
	"jfs":   true,
	"swap":  true,
	"xfs":   true,
}

func write(writer io.Writer, devices []Device) error {
	if _, err := io.WriteString(writer, header); err != nil {
		return err
	}
	rootOnSsd := false
	for _, device := range devices {
		fsType := device.Type
		if strings.Contains(fsType, "fat") { // vfat mounts fat16 and fat32.
			fsType = "vfat"
		}
		mountPoint := device.MountPoint
		options := "defaults"
		checkOrder := uint(0)
		if fsType == "swap" {
			mountPoint = "none"
		} else if mountPoint == "" {
			continue // No mount point and not swap: nothing to list.
		} else if mountPoint == "/" {
			options = "rw,relatime,data=ordered"
			checkOrder = 1
		}
		if device.Ssd {
			options = "defaults,noatime,nodiratime"
			if trimSupported[fsType] {
				options += ",discard"
			}
			if mountPoint == "/" {
				rootOnSsd = true
			}
		}
		err := writeEntry(writer, "UUID="+device.UUID, mountPoint, fsType,
			options, 0, checkOrder)
		if err != nil {
			return err
		}
	}
	if rootOnSsd {
		_, err := fmt.Fprintln(writer,
			"tmpfs /tmp tmpfs defaults,noatime,mode=1777 0 0")
		if err != nil {
			return err
		}
	}
	return nil
}

func writeEntry(writer io.Writer, source, mountPoint, fsType, options string,
	dumpFrequency, checkOrder uint) error {
	_, err := fmt.Fprintf(writer, "%s %s %s %s %d %d\n",
		source, mountPoint, fsType, options, dumpFrequency, checkOrder)
	return err
}
