/*
Package fstab generates /etc/fstab contents for a freshly installed system.

Devices are always referenced by filesystem UUID, read back from the device
after formatting, so that the generated table survives device renumbering.
*/
package fstab

import (
	"io"
)

// Device describes one formatted filesystem to list in the table.
type Device struct {
	Device     string // Kernel device path, informational only.
	UUID       string // Filesystem UUID, used to address the device.
	MountPoint string // Empty for swap.
	Type       string // Filesystem type, e.g. "ext4", "swap", "vfat".
	Ssd        bool   // Device supports TRIM: add discard options.
}

// Write generates a complete fstab from the given devices and writes it.
// The root filesystem must be present and is given filesystem check order 1;
// swap entries are never checked. If the root filesystem resides on an SSD, a
// tmpfs /tmp entry is appended.
func Write(writer io.Writer, devices []Device) error {
	return write(writer, devices)
}

// WriteEntry writes a single fstab entry line.
func WriteEntry(writer io.Writer, source, mountPoint, fsType, options string,
	dumpFrequency, checkOrder uint) error {
	return writeEntry(writer, source, mountPoint, fsType, options,
		dumpFrequency, checkOrder)
}
