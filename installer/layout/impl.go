package layout

import (
	"strconv"
	"strings"
)

const (
	mib = 1 << 20

	gptPadSize    = 2 * mib
	gptTailSize   = 1 * mib
	biosGrubSize  = 2 * mib
	efiSystemSize = 512 * mib
	bootSize      = 200 * mib
	maxSwapSize   = 1536 * mib
	minRootSize   = 1024 * mib
	mbrPadSize    = 1 * mib
)

func partitionDevice(disk string, index uint) string {
	separator := ""
	if last := disk[len(disk)-1]; last >= '0' && last <= '9' {
		separator = "p"
	}
	return disk + separator + strconv.FormatUint(uint64(index), 10)
}

func diskOfPartition(device string) string {
	trimmed := strings.TrimRight(device, "0123456789")
	if trimmed == device {
		return device
	}
	if prefix := strings.TrimSuffix(trimmed, "p"); prefix != trimmed &&
		prefix != "" {
		if last := prefix[len(prefix)-1]; last >= '0' && last <= '9' {
			return prefix
		}
	}
	return trimmed
}

func swapSize(totalRam uint64) uint64 {
	if totalRam <= maxSwapSize {
		return alignDown(totalRam)
	}
	return maxSwapSize
}

func alignDown(size uint64) uint64 {
	return size &^ (mib - 1)
}

func makePlan(request Request) (*Plan, error) {
	plan := &Plan{
		DiskDevice: request.DiskDevice,
		BootMode:   request.BootMode,
		UseLuks:    request.UseLuks,
		UseLvm:     request.UseLvm,
		Devices:    make(map[Role]string),
	}
	usable := request.DiskSize
	if request.BootMode == BootModeUefi {
		// The backup partition table lives in the last sectors of the
		// disk: keep the final MiB clear of partitions, or the table
		// write is rejected for an out-of-range end sector.
		if usable < gptTailSize {
			return nil, ErrInsufficientSpace
		}
		usable -= gptTailSize
	}
	offset := uint64(mbrPadSize)
	index := uint(1)
	addPartition := func(size uint64, typeCode, label string, role Role) {
		plan.Partitions = append(plan.Partitions, Partition{
			Index:    index,
			Offset:   offset,
			Size:     size,
			TypeCode: typeCode,
			Label:    label,
			Role:     role,
		})
		offset += size
		index++
	}
	if request.BootMode == BootModeUefi {
		offset = gptPadSize
		addPartition(biosGrubSize, "EF02", "", RoleBiosGrub)
		addPartition(efiSystemSize, "EF00", "", RoleEfiSystem)
	}
	addPartition(bootSize, "8300", BootLabel, RoleBoot)
	swap := swapSize(request.TotalRam)
	if usable < offset+swap+minRootSize {
		return nil, ErrInsufficientSpace
	}
	remaining := alignDown(usable - offset)
	plan.SwapSize = swap
	plan.RootSize = remaining - swap
	if request.UseLvm {
		// Extent and metadata overhead comes out of root: swap is
		// created last from whatever remains in the group.
		plan.RootSize -= 4 * mib
		// Swap and root become logical volumes inside one group: a
		// single partition carries the physical volume.
		typeCode := "8E00"
		role := RoleLvmPv
		if request.UseLuks {
			typeCode = "8300"
			role = RoleLuksContainer
		}
		pvIndex := index
		addPartition(remaining, typeCode, "", role)
		pvDevice := partitionDevice(request.DiskDevice, pvIndex)
		if request.UseLuks {
			plan.Devices[RoleLuksContainer] = pvDevice
			pvDevice = "/dev/mapper/" + LuksMapperName
		}
		plan.Devices[RoleLvmPv] = pvDevice
		plan.Devices[RoleRoot] = "/dev/" + VolumeGroupName + "/" +
			RootVolumeName
		plan.Devices[RoleSwap] = "/dev/" + VolumeGroupName + "/" +
			SwapVolumeName
	} else {
		addPartition(swap, "8200", SwapLabel, RoleSwap)
		rootIndex := index
		typeCode := "8300"
		role := RoleRoot
		if request.UseLuks {
			role = RoleLuksContainer
		}
		addPartition(remaining-swap, typeCode, RootLabel, role)
		rootDevice := partitionDevice(request.DiskDevice, rootIndex)
		swapPartition := plan.Partitions[len(plan.Partitions)-2]
		plan.Devices[RoleSwap] = partitionDevice(request.DiskDevice,
			swapPartition.Index)
		if request.UseLuks {
			plan.Devices[RoleLuksContainer] = rootDevice
			rootDevice = "/dev/mapper/" + LuksMapperName
		}
		plan.Devices[RoleRoot] = rootDevice
	}
	for _, partition := range plan.Partitions {
		switch partition.Role {
		case RoleBoot:
			plan.Devices[RoleBoot] = partitionDevice(
				request.DiskDevice, partition.Index)
		case RoleEfiSystem:
			plan.Devices[RoleEfiSystem] = partitionDevice(
				request.DiskDevice, partition.Index)
		}
	}
	return plan, nil
}
