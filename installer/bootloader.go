package installer

import (
	"errors"
	"os"
	"strings"

	"github.com/openinstaller/installer/installer/layout"
	"github.com/openinstaller/installer/lib/fsutil"
)

func (inst *Installer) bootloaderPhase() error {
	if inst.plan != nil && inst.plan.UseLuks {
		if err := inst.patchGrubDefault(); err != nil {
			return err
		}
	}
	if err := inst.mountSpecialDirs(); err != nil {
		return err
	}
	defer inst.unmountSpecialDirs()
	if inst.params.UefiBooted {
		err := inst.params.ChrootRunner.Run("grub-install",
			"--target=x86_64-efi", "--efi-directory=/boot/efi",
			"--bootloader-id=grub", "--recheck")
		if err != nil {
			return err
		}
	} else {
		disk, err := inst.bootDisk()
		if err != nil {
			return err
		}
		err = inst.params.ChrootRunner.Run("grub-install",
			"--target=i386-pc", "--recheck", disk)
		if err != nil {
			return err
		}
	}
	return inst.params.ChrootRunner.Run("grub-mkconfig", "-o",
		"/boot/grub/grub.cfg")
}

// bootDisk is the whole disk to embed the BIOS boot code on.
func (inst *Installer) bootDisk() (string, error) {
	if inst.plan != nil {
		return inst.plan.DiskDevice, nil
	}
	rootDevice := inst.GetState().MountTable["/"]
	if rootDevice == "" {
		return "", errors.New("no root device to derive the boot disk from")
	}
	return layout.DiskOfPartition(rootDevice), nil
}

func (inst *Installer) patchGrubDefault() error {
	filename := inst.targetPath("etc", "default", "grub")
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	container := inst.plan.Devices[layout.RoleLuksContainer]
	patched := patchGrubDefaultText(string(data), container)
	return os.WriteFile(filename, []byte(patched), fsutil.PublicFilePerms)
}

// patchGrubDefaultText points the kernel command line at the encrypted
// container. The raw partition path is used, not a UUID: the initramfs
// encrypt hook needs the device before any filesystem is visible, so UUID
// generation is disabled as well.
func patchGrubDefaultText(text, containerDevice string) string {
	cryptArg := "cryptdevice=" + containerDevice + ":" +
		layout.LuksMapperName
	lines := strings.Split(text, "\n")
	sawDisableUuid := false
	for index, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "GRUB_CMDLINE_LINUX=") {
			if !strings.Contains(line, "cryptdevice=") {
				lines[index] = setListLine(line, "GRUB_CMDLINE_LINUX",
					append(parseListLine(line), cryptArg))
			}
		} else if strings.HasPrefix(
			strings.TrimLeft(trimmed, "#"), "GRUB_DISABLE_LINUX_UUID") {
			lines[index] = "GRUB_DISABLE_LINUX_UUID=true"
			sawDisableUuid = true
		}
	}
	if !sawDisableUuid {
		lines = append(lines, "GRUB_DISABLE_LINUX_UUID=true", "")
	}
	return strings.Join(lines, "\n")
}
