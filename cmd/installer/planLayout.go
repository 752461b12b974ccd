//go:build linux
// +build linux

package main

import (
	"fmt"

	"github.com/openinstaller/installer/installer/layout"
	"github.com/openinstaller/installer/lib/format"
	"github.com/openinstaller/installer/lib/fsutil"
	"github.com/openinstaller/installer/lib/log"
	"github.com/openinstaller/installer/lib/meminfo"
)

func planLayoutSubcommand(args []string, logger log.DebugLogger) error {
	plan, err := planLayout(args[0])
	if err != nil {
		return err
	}
	printPlan(plan)
	return nil
}

func planLayout(device string) (*layout.Plan, error) {
	diskSize, err := fsutil.BlockDeviceSize(device)
	if err != nil {
		return nil, err
	}
	memInfo, err := meminfo.GetMemInfo()
	if err != nil {
		return nil, err
	}
	bootMode := layout.BootModeBios
	if uefiBooted() {
		bootMode = layout.BootModeUefi
	}
	return layout.MakePlan(layout.Request{
		DiskDevice: device,
		DiskSize:   diskSize,
		BlockSize:  512,
		TotalRam:   memInfo.Total,
		BootMode:   bootMode,
	})
}

func printPlan(plan *layout.Plan) {
	for _, partition := range plan.Partitions {
		device := layout.PartitionDevice(plan.DiskDevice, partition.Index)
		fmt.Printf("%-16s %6s  type=%s", device,
			format.FormatBytes(partition.Size), partition.TypeCode)
		if partition.Label != "" {
			fmt.Printf("  label=%s", partition.Label)
		}
		fmt.Println()
	}
	for _, role := range []layout.Role{layout.RoleBoot, layout.RoleSwap,
		layout.RoleRoot} {
		if device, ok := plan.Devices[role]; ok {
			fmt.Printf("%s: %s\n", role, device)
		}
	}
}
