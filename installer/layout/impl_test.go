package layout

import (
	"testing"
)

const (
	mibTest = 1 << 20
	gibTest = 1 << 30
)

func checkOrdering(t *testing.T, plan *Plan) {
	var end uint64
	var lastIndex uint
	for _, partition := range plan.Partitions {
		if partition.Offset < end {
			t.Errorf("partition %d at %d overlaps previous end %d",
				partition.Index, partition.Offset, end)
		}
		if partition.Index != lastIndex+1 {
			t.Errorf("partition index %d follows %d",
				partition.Index, lastIndex)
		}
		end = partition.Offset + partition.Size
		lastIndex = partition.Index
	}
}

func TestBiosPlainNumbering(t *testing.T) {
	plan, err := MakePlan(Request{
		DiskDevice: "/dev/sda",
		DiskSize:   20 * gibTest,
		BlockSize:  512,
		TotalRam:   4 * gibTest,
		BootMode:   BootModeBios,
	})
	if err != nil {
		t.Fatal(err)
	}
	checkOrdering(t, plan)
	if len(plan.Partitions) != 3 {
		t.Fatalf("expected 3 partitions, got %d", len(plan.Partitions))
	}
	if device := plan.Devices[RoleBoot]; device != "/dev/sda1" {
		t.Errorf("boot device: %s", device)
	}
	if device := plan.Devices[RoleSwap]; device != "/dev/sda2" {
		t.Errorf("swap device: %s", device)
	}
	if device := plan.Devices[RoleRoot]; device != "/dev/sda3" {
		t.Errorf("root device: %s", device)
	}
	if size := plan.Partitions[1].Size; size != 1536*mibTest {
		t.Errorf("swap size: %d", size)
	}
}

func TestUefiNumberingOffset(t *testing.T) {
	plan, err := MakePlan(Request{
		DiskDevice: "/dev/sda",
		DiskSize:   20 * gibTest,
		BlockSize:  512,
		TotalRam:   4 * gibTest,
		BootMode:   BootModeUefi,
	})
	if err != nil {
		t.Fatal(err)
	}
	checkOrdering(t, plan)
	if len(plan.Partitions) != 5 {
		t.Fatalf("expected 5 partitions, got %d", len(plan.Partitions))
	}
	if code := plan.Partitions[0].TypeCode; code != "EF02" {
		t.Errorf("BIOS-GRUB type code: %s", code)
	}
	if code := plan.Partitions[1].TypeCode; code != "EF00" {
		t.Errorf("EFI system type code: %s", code)
	}
	if device := plan.Devices[RoleBoot]; device != "/dev/sda3" {
		t.Errorf("boot device: %s", device)
	}
	if device := plan.Devices[RoleSwap]; device != "/dev/sda4" {
		t.Errorf("swap device: %s", device)
	}
	if device := plan.Devices[RoleRoot]; device != "/dev/sda5" {
		t.Errorf("root device: %s", device)
	}
}

func TestUefiReservesBackupTableSpace(t *testing.T) {
	// MiB-multiple disk sizes are the common VM image case: the last
	// partition must stop short of the backup partition table at the
	// disk end.
	plan, err := MakePlan(Request{
		DiskDevice: "/dev/sda",
		DiskSize:   20 * gibTest,
		BlockSize:  512,
		TotalRam:   4 * gibTest,
		BootMode:   BootModeUefi,
	})
	if err != nil {
		t.Fatal(err)
	}
	last := plan.Partitions[len(plan.Partitions)-1]
	if end := last.Offset + last.Size; end > 20*gibTest-mibTest {
		t.Errorf("last partition ends at %d, no room for the backup table",
			end)
	}
}

func TestBiosUsesWholeDisk(t *testing.T) {
	// MBR has no backup table at the disk end: no tail reservation.
	plan, err := MakePlan(Request{
		DiskDevice: "/dev/sda",
		DiskSize:   20 * gibTest,
		BlockSize:  512,
		TotalRam:   4 * gibTest,
		BootMode:   BootModeBios,
	})
	if err != nil {
		t.Fatal(err)
	}
	last := plan.Partitions[len(plan.Partitions)-1]
	if end := last.Offset + last.Size; end != 20*gibTest {
		t.Errorf("last partition ends at %d", end)
	}
}

func TestSmallRamSwapEqualsRam(t *testing.T) {
	plan, err := MakePlan(Request{
		DiskDevice: "/dev/sda",
		DiskSize:   20 * gibTest,
		BlockSize:  512,
		TotalRam:   gibTest,
		BootMode:   BootModeBios,
	})
	if err != nil {
		t.Fatal(err)
	}
	if size := plan.Partitions[1].Size; size != gibTest {
		t.Errorf("swap size: %d", size)
	}
}

func TestLuksLvmNesting(t *testing.T) {
	plan, err := MakePlan(Request{
		DiskDevice: "/dev/nvme0n1",
		DiskSize:   40 * gibTest,
		BlockSize:  512,
		TotalRam:   8 * gibTest,
		BootMode:   BootModeUefi,
		UseLuks:    true,
		UseLvm:     true,
	})
	if err != nil {
		t.Fatal(err)
	}
	checkOrdering(t, plan)
	// LUKS is the outer layer: the raw partition holds the container and
	// the opened mapping carries the physical volume.
	if device := plan.Devices[RoleLuksContainer]; device != "/dev/nvme0n1p4" {
		t.Errorf("container device: %s", device)
	}
	if device := plan.Devices[RoleLvmPv]; device != "/dev/mapper/cryptroot" {
		t.Errorf("physical volume device: %s", device)
	}
	if device := plan.Devices[RoleRoot]; device != "/dev/rootvg/rootvol" {
		t.Errorf("root device: %s", device)
	}
	if device := plan.Devices[RoleSwap]; device != "/dev/rootvg/swapvol" {
		t.Errorf("swap device: %s", device)
	}
	if plan.SwapSize != 1536*mibTest {
		t.Errorf("swap volume size: %d", plan.SwapSize)
	}
}

func TestLuksWithoutLvm(t *testing.T) {
	plan, err := MakePlan(Request{
		DiskDevice: "/dev/sda",
		DiskSize:   20 * gibTest,
		BlockSize:  512,
		TotalRam:   4 * gibTest,
		BootMode:   BootModeBios,
		UseLuks:    true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if device := plan.Devices[RoleLuksContainer]; device != "/dev/sda3" {
		t.Errorf("container device: %s", device)
	}
	if device := plan.Devices[RoleRoot]; device != "/dev/mapper/cryptroot" {
		t.Errorf("root device: %s", device)
	}
}

func TestInsufficientSpace(t *testing.T) {
	_, err := MakePlan(Request{
		DiskDevice: "/dev/sda",
		DiskSize:   2 * gibTest,
		BlockSize:  512,
		TotalRam:   4 * gibTest,
		BootMode:   BootModeUefi,
	})
	if err != ErrInsufficientSpace {
		t.Fatalf("expected ErrInsufficientSpace, got %v", err)
	}
}

func TestPartitionDevice(t *testing.T) {
	if device := PartitionDevice("/dev/sda", 2); device != "/dev/sda2" {
		t.Errorf("got %s", device)
	}
	if device := PartitionDevice("/dev/nvme0n1", 1); device != "/dev/nvme0n1p1" {
		t.Errorf("got %s", device)
	}
}
