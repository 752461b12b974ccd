/*
Package layout computes the partition layout for an unattended installation.

Planning is pure: it works only from the numbers it is given (disk size,
block size, RAM size) and performs no I/O, so layouts can be tested and
reproduced exactly. Realising the plan on a real disk is the provisioner's
job.
*/
package layout

import (
	"errors"
)

const (
	// Mapped and logical device names are fixed so that bootloader and
	// initramfs configuration can refer to them without plumbing.
	LuksMapperName  = "cryptroot"
	VolumeGroupName = "rootvg"
	RootVolumeName  = "rootvol"
	SwapVolumeName  = "swapvol"

	RootLabel = "rootfs"
	BootLabel = "bootfs"
	SwapLabel = "swapfs"
)

// ErrInsufficientSpace is returned when the disk cannot hold the mandatory
// regions. No destructive action may be taken after this error.
var ErrInsufficientSpace = errors.New("insufficient space on disk")

type BootMode uint

const (
	BootModeBios BootMode = iota
	BootModeUefi
)

type Role uint

const (
	RoleBiosGrub Role = iota
	RoleEfiSystem
	RoleBoot
	RoleLvmPv
	RoleSwap
	RoleRoot
	RoleLuksContainer
)

var roleNames = map[Role]string{
	RoleBiosGrub:      "bios-grub",
	RoleEfiSystem:     "efi-system",
	RoleBoot:          "boot",
	RoleLvmPv:         "lvm-pv",
	RoleSwap:          "swap",
	RoleRoot:          "root",
	RoleLuksContainer: "luks-container",
}

func (role Role) String() string {
	if name, ok := roleNames[role]; ok {
		return name
	}
	return "unknown"
}

// Partition describes one slot in the partition table. Offset and Size are
// in bytes, aligned to 1 MiB.
type Partition struct {
	Index    uint // 1-based table index.
	Offset   uint64
	Size     uint64
	TypeCode string // GPT type code, e.g. "8300".
	Label    string
	Role     Role
}

// Request carries the planner inputs. BootMode detection is a filesystem
// probe done by the caller, not by the planner.
type Request struct {
	DiskDevice string // e.g. "/dev/sda".
	DiskSize   uint64 // Usable size in bytes.
	BlockSize  uint64 // Logical block size, e.g. 512.
	TotalRam   uint64 // Bytes, sizes the swap region.
	BootMode   BootMode
	UseLuks    bool
	UseLvm     bool
}

// Plan is the computed layout. Partitions are ordered by increasing offset.
// Devices maps each role to the device path which will carry it once the
// plan is realised (after LUKS open and LVM activation where applicable).
type Plan struct {
	DiskDevice string
	BootMode   BootMode
	UseLuks    bool
	UseLvm     bool
	Partitions []Partition
	Devices    map[Role]string
	// Logical volume sizing for the LVM case: root is created with an
	// explicit size and swap absorbs the rounding slack in the group.
	RootSize uint64
	SwapSize uint64
}

// MakePlan computes a layout for the given request. It returns
// ErrInsufficientSpace if the mandatory regions do not fit.
func MakePlan(request Request) (*Plan, error) {
	return makePlan(request)
}

// PartitionDevice returns the device path of the numbered partition on
// disk, inserting the "p" separator kernels use when the disk name itself
// ends in a digit (e.g. nvme0n1 -> nvme0n1p1).
func PartitionDevice(disk string, index uint) string {
	return partitionDevice(disk, index)
}

// DiskOfPartition is the inverse of PartitionDevice: it strips the
// partition number (and "p" separator) from a partition device path.
func DiskOfPartition(device string) string {
	return diskOfPartition(device)
}
