package installer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/openinstaller/installer/installer/netconfig"
	"github.com/openinstaller/installer/installer/provision"
	"github.com/openinstaller/installer/lib/fstab"
	"github.com/openinstaller/installer/lib/fsutil"
)

const (
	sudoersFile    = "etc/sudoers.d/10-installer"
	sudoersEntry   = "%wheel ALL=(ALL) ALL\n"
	keyFileInstall = "crypto_keyfile.bin"
	probeTimeout   = 15 * time.Second
)

var defaultServices = []string{"NetworkManager"}

var defaultUserGroups = "wheel,storage,power,audio,video,network"

func (inst *Installer) configurePhase() error {
	steps := []struct {
		name string
		run  func() error
	}{
		{"fstab", inst.writeFstab},
		{"network", inst.copyNetworkConfig},
		{"services", inst.enableServices},
		{"timezone", inst.configureTimezone},
		{"users", inst.configureUsers},
		{"locale", inst.configureLocale},
		{"sudoers", inst.writeSudoers},
		{"keyring", inst.repopulateKeyring},
		{"machine-id", inst.setupMachineId},
		{"initramfs", inst.rebuildInitramfs},
		{"post-install", inst.runPostInstallScripts},
	}
	for _, step := range steps {
		inst.params.Logger.Debugf(0, "configure: %s\n", step.name)
		inst.params.Events.Pulse()
		if err := step.run(); err != nil {
			return fmt.Errorf("error configuring %s: %s", step.name, err)
		}
	}
	return nil
}

func (inst *Installer) targetPath(elements ...string) string {
	return filepath.Join(append([]string{inst.params.TargetDir},
		elements...)...)
}

func (inst *Installer) writeFstab() error {
	var devices []fstab.Device
	for _, fs := range inst.fsPlan.Filesystems {
		devices = append(devices, fstab.Device{
			Device:     fs.Device,
			UUID:       fs.UUID,
			MountPoint: fs.MountPoint,
			Type:       fs.Kind,
			Ssd:        fs.Ssd,
		})
	}
	filename := inst.targetPath("etc", "fstab")
	if err := os.MkdirAll(filepath.Dir(filename), fsutil.DirPerms); err != nil {
		return err
	}
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_TRUNC,
		fsutil.PublicFilePerms)
	if err != nil {
		return err
	}
	defer file.Close()
	return fstab.Write(file, devices)
}

func (inst *Installer) copyNetworkConfig() error {
	err := netconfig.CopyProfiles(inst.params.TargetDir, inst.params.Logger)
	if err != nil {
		return err
	}
	if inst.params.Settings.Hostname != "" {
		return nil
	}
	// No hostname configured: ask the local DHCP server, best-effort.
	info, err := netconfig.Probe(probeTimeout, inst.params.Logger)
	if err != nil {
		inst.warn("DHCP probe failed: %s", err)
		return nil
	}
	if info.Hostname != "" {
		inst.params.Settings.Hostname = info.Hostname
	}
	if len(info.NameServers) > 0 {
		file, err := os.OpenFile(inst.targetPath("etc", "resolv.conf"),
			os.O_CREATE|os.O_WRONLY|os.O_TRUNC, fsutil.PublicFilePerms)
		if err != nil {
			return err
		}
		defer file.Close()
		return netconfig.WriteResolvConf(file, info)
	}
	return nil
}

func (inst *Installer) enableServices() error {
	for _, service := range defaultServices {
		err := inst.params.ChrootRunner.Run("systemctl", "enable", service)
		if err != nil {
			inst.warn("cannot enable %s: %s", service, err)
		}
	}
	return nil
}

func (inst *Installer) configureTimezone() error {
	settings := inst.params.Settings
	err := settings.TimezoneDone.Wait(inst.params.FlagTimeout,
		inst.cancelChannel)
	if err != nil {
		return err
	}
	if settings.Timezone == "" {
		return nil
	}
	err = inst.params.ChrootRunner.Run("ln", "-sf",
		"/usr/share/zoneinfo/"+settings.Timezone, "/etc/localtime")
	if err != nil {
		return err
	}
	err = inst.params.ChrootRunner.Run("hwclock", "--systohc", "--utc")
	if err != nil {
		inst.warn("cannot set hardware clock: %s", err)
	}
	// Carry the live system's clock drift correction over if it has one.
	if _, err := os.Stat("/etc/adjtime"); err == nil {
		err := fsutil.CopyFile(inst.targetPath("etc", "adjtime"),
			"/etc/adjtime", fsutil.PublicFilePerms)
		if err != nil {
			inst.warn("cannot copy adjtime: %s", err)
		}
	}
	return nil
}

func (inst *Installer) configureUsers() error {
	settings := inst.params.Settings
	err := settings.UserInfoDone.Wait(inst.params.FlagTimeout,
		inst.cancelChannel)
	if err != nil {
		return err
	}
	if settings.UserName == "" {
		return nil
	}
	err = inst.params.ChrootRunner.Run("useradd", "--create-home",
		"--shell", "/bin/bash", "--groups", defaultUserGroups,
		"--comment", settings.UserFullName, settings.UserName)
	if err != nil {
		return err
	}
	if settings.UserPassword == "" {
		return nil
	}
	// The root password mirrors the user password.
	passwords := settings.UserName + ":" + settings.UserPassword + "\n" +
		"root:" + settings.UserPassword + "\n"
	return inst.params.ChrootRunner.RunInput(passwords, "chpasswd")
}

func (inst *Installer) configureLocale() error {
	settings := inst.params.Settings
	if settings.Locale != "" {
		localeGen := inst.targetPath("etc", "locale.gen")
		if err := os.MkdirAll(filepath.Dir(localeGen),
			fsutil.DirPerms); err != nil {
			return err
		}
		file, err := os.OpenFile(localeGen,
			os.O_CREATE|os.O_WRONLY|os.O_APPEND, fsutil.PublicFilePerms)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(file, "%s UTF-8\n", settings.Locale)
		file.Close()
		if err != nil {
			return err
		}
		err = inst.params.ChrootRunner.Run("locale-gen")
		if err != nil {
			return err
		}
		localeConf := "LANG=" + settings.Locale + "\n" +
			"LC_MESSAGES=" + settings.Locale + "\n" +
			"LC_COLLATE=" + settings.Locale + "\n"
		err = writeConfigFile(inst.targetPath("etc", "locale.conf"),
			localeConf)
		if err != nil {
			return err
		}
		// Session managers which skip locale.conf still read the
		// catch-all environment file.
		err = writeConfigFile(inst.targetPath("etc", "environment"),
			"LANG="+settings.Locale+"\n")
		if err != nil {
			return err
		}
	}
	if settings.KeyboardLayout != "" {
		vconsole := "KEYMAP=" + settings.KeyboardLayout + "\n"
		err := writeConfigFile(inst.targetPath("etc", "vconsole.conf"),
			vconsole)
		if err != nil {
			return err
		}
	}
	if settings.Hostname != "" {
		err := writeConfigFile(inst.targetPath("etc", "hostname"),
			settings.Hostname+"\n")
		if err != nil {
			return err
		}
	}
	return nil
}

func writeConfigFile(filename, contents string) error {
	if err := os.MkdirAll(filepath.Dir(filename), fsutil.DirPerms); err != nil {
		return err
	}
	return os.WriteFile(filename, []byte(contents), fsutil.PublicFilePerms)
}

func (inst *Installer) writeSudoers() error {
	filename := inst.targetPath(sudoersFile)
	if err := os.MkdirAll(filepath.Dir(filename), fsutil.DirPerms); err != nil {
		return err
	}
	return os.WriteFile(filename, []byte(sudoersEntry), 0440)
}

func (inst *Installer) repopulateKeyring() error {
	// A stale lock from the image build blocks the keyring tools.
	lockFile := inst.targetPath("var", "lib", "pacman", "db.lck")
	if err := os.Remove(lockFile); err != nil && !os.IsNotExist(err) {
		return err
	}
	if err := inst.params.ChrootRunner.Run("pacman-key", "--init"); err != nil {
		return err
	}
	return inst.params.ChrootRunner.Run("pacman-key", "--populate")
}

func (inst *Installer) setupMachineId() error {
	return inst.params.ChrootRunner.Run("systemd-machine-id-setup")
}

// runPostInstallScripts delegates desktop and sound subsystem tweaks to
// external scripts shipped inside the target. The scripts are advisory:
// a failed tweak must not fail the installation.
func (inst *Installer) runPostInstallScripts() error {
	scripts := inst.params.Settings.PostInstallScripts
	if len(scripts) < 1 {
		return nil
	}
	if err := inst.mountSpecialDirs(); err != nil {
		return err
	}
	defer inst.unmountSpecialDirs()
	for _, script := range scripts {
		if err := inst.params.ChrootRunner.Run(script); err != nil {
			inst.warn("post-install script failed: %s", err)
		}
	}
	return nil
}

func (inst *Installer) rebuildInitramfs() error {
	useLuks := inst.plan != nil && inst.plan.UseLuks
	useLvm := inst.plan != nil && inst.plan.UseLvm
	if useLuks {
		if err := inst.installKeyFile(); err != nil {
			return err
		}
	}
	filename := inst.targetPath("etc", "mkinitcpio.conf")
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	patched := patchInitramfsConf(string(data), useLuks, useLvm)
	err = os.WriteFile(filename, []byte(patched), fsutil.PublicFilePerms)
	if err != nil {
		return err
	}
	if err := inst.mountSpecialDirs(); err != nil {
		return err
	}
	defer inst.unmountSpecialDirs()
	return inst.params.ChrootRunner.Run("mkinitcpio", "-P")
}

// installKeyFile plants the container key inside the target so the
// initramfs can unlock the root filesystem without a second passphrase
// prompt.
func (inst *Installer) installKeyFile() error {
	return fsutil.CopyFile(inst.targetPath(keyFileInstall),
		provision.DefaultKeyFile, fsutil.PrivateFilePerms)
}

// patchInitramfsConf rewrites the HOOKS line for the active storage
// stack. The encrypt hook must precede the lvm2 hook, otherwise unlocking
// fails at boot. The FILES line gains the container key when LUKS is
// active.
func patchInitramfsConf(text string, useLuks, useLvm bool) string {
	lines := strings.Split(text, "\n")
	for index, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "HOOKS=") {
			lines[index] = patchHooksLine(line, useLuks, useLvm)
		} else if useLuks && strings.HasPrefix(trimmed, "FILES=") {
			files := parseListLine(line)
			if !contains(files, "/"+keyFileInstall) {
				files = append(files, "/"+keyFileInstall)
			}
			lines[index] = setListLine(line, "FILES", files)
		}
	}
	return strings.Join(lines, "\n")
}

func patchHooksLine(line string, useLuks, useLvm bool) string {
	hooks := parseListLine(line)
	var patched []string
	for _, hook := range hooks {
		if hook == "encrypt" || hook == "lvm2" {
			continue
		}
		if hook == "filesystems" {
			if useLuks {
				patched = append(patched, "encrypt")
			}
			if useLvm {
				patched = append(patched, "lvm2")
			}
		}
		patched = append(patched, hook)
	}
	return setListLine(line, "HOOKS", patched)
}

// parseListLine extracts the words from a shell-style assignment using
// either quote or array syntax: NAME="a b c" or NAME=(a b c).
func parseListLine(line string) []string {
	start := strings.IndexAny(line, "\"(")
	end := strings.LastIndexAny(line, "\")")
	if start < 0 || end <= start {
		return nil
	}
	return strings.Fields(line[start+1 : end])
}

// setListLine rebuilds an assignment, preserving the original quoting
// style and leading whitespace.
func setListLine(line, name string, words []string) string {
	indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
	opener, closer := "\"", "\""
	if strings.Contains(line, "(") {
		opener, closer = "(", ")"
	}
	return indent + name + "=" + opener + strings.Join(words, " ") + closer
}

func contains(words []string, word string) bool {
	for _, entry := range words {
		if entry == word {
			return true
		}
	}
	return false
}
