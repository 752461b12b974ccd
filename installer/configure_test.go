package installer

import (
	"os"
	"strings"
	"testing"
)

const sampleInitramfsConf = `# vim:set ft=sh
MODULES=""
FILES=""
HOOKS="base udev autodetect modconf block filesystems keyboard fsck"
`

func TestPatchHooksPlain(t *testing.T) {
	patched := patchInitramfsConf(sampleInitramfsConf, false, false)
	if patched != sampleInitramfsConf {
		t.Errorf("conf changed without LUKS or LVM:\n%s", patched)
	}
}

func TestPatchHooksLvmOnly(t *testing.T) {
	patched := patchInitramfsConf(sampleInitramfsConf, false, true)
	if !strings.Contains(patched, "block lvm2 filesystems") {
		t.Errorf("lvm2 hook misplaced:\n%s", patched)
	}
	if strings.Contains(patched, "encrypt") {
		t.Errorf("encrypt hook added without LUKS:\n%s", patched)
	}
}

func TestPatchHooksEncryptBeforeLvm(t *testing.T) {
	patched := patchInitramfsConf(sampleInitramfsConf, true, true)
	if !strings.Contains(patched, "block encrypt lvm2 filesystems") {
		t.Errorf("hook ordering wrong:\n%s", patched)
	}
	if !strings.Contains(patched, `FILES="/crypto_keyfile.bin"`) {
		t.Errorf("key file not listed:\n%s", patched)
	}
}

func TestPatchHooksIdempotent(t *testing.T) {
	once := patchInitramfsConf(sampleInitramfsConf, true, true)
	twice := patchInitramfsConf(once, true, true)
	if once != twice {
		t.Errorf("patching is not idempotent:\n%s\nvs:\n%s", once, twice)
	}
}

func TestPatchHooksArraySyntax(t *testing.T) {
	conf := "HOOKS=(base udev block filesystems fsck)\n"
	patched := patchInitramfsConf(conf, true, false)
	if !strings.Contains(patched, "HOOKS=(base udev block encrypt filesystems fsck)") {
		t.Errorf("array syntax mishandled:\n%s", patched)
	}
}

func TestLocaleFilesWritten(t *testing.T) {
	inst, _ := testInstaller(t)
	settings := inst.params.Settings
	settings.Locale = "de_DE.UTF-8"
	settings.KeyboardLayout = "de"
	if err := inst.configureLocale(); err != nil {
		t.Fatal(err)
	}
	localeConf, err := os.ReadFile(inst.targetPath("etc", "locale.conf"))
	if err != nil {
		t.Fatal(err)
	}
	expected := "LANG=de_DE.UTF-8\nLC_MESSAGES=de_DE.UTF-8\n" +
		"LC_COLLATE=de_DE.UTF-8\n"
	if string(localeConf) != expected {
		t.Errorf("locale.conf: %q", localeConf)
	}
	environment, err := os.ReadFile(inst.targetPath("etc", "environment"))
	if err != nil {
		t.Fatal(err)
	}
	if string(environment) != "LANG=de_DE.UTF-8\n" {
		t.Errorf("environment: %q", environment)
	}
	vconsole, err := os.ReadFile(inst.targetPath("etc", "vconsole.conf"))
	if err != nil {
		t.Fatal(err)
	}
	if string(vconsole) != "KEYMAP=de\n" {
		t.Errorf("vconsole.conf: %q", vconsole)
	}
}

const sampleGrubDefault = `GRUB_DEFAULT=0
GRUB_CMDLINE_LINUX_DEFAULT="quiet"
GRUB_CMDLINE_LINUX=""
#GRUB_DISABLE_LINUX_UUID=true
`

func TestPatchGrubDefault(t *testing.T) {
	patched := patchGrubDefaultText(sampleGrubDefault, "/dev/sda3")
	expected := `GRUB_CMDLINE_LINUX="cryptdevice=/dev/sda3:cryptroot"`
	if !strings.Contains(patched, expected) {
		t.Errorf("missing %q in:\n%s", expected, patched)
	}
	if !strings.Contains(patched, "\nGRUB_DISABLE_LINUX_UUID=true") {
		t.Errorf("UUID generation not disabled:\n%s", patched)
	}
	if strings.Contains(patched, "#GRUB_DISABLE_LINUX_UUID") {
		t.Errorf("commented setting left behind:\n%s", patched)
	}
	if !strings.Contains(patched, `GRUB_CMDLINE_LINUX_DEFAULT="quiet"`) {
		t.Errorf("unrelated line changed:\n%s", patched)
	}
}

func TestPatchGrubDefaultAppendsWhenAbsent(t *testing.T) {
	patched := patchGrubDefaultText("GRUB_CMDLINE_LINUX=\"\"\n", "/dev/sda3")
	if !strings.Contains(patched, "GRUB_DISABLE_LINUX_UUID=true") {
		t.Errorf("setting not appended:\n%s", patched)
	}
}

func TestPatchGrubDefaultIdempotent(t *testing.T) {
	once := patchGrubDefaultText(sampleGrubDefault, "/dev/sda3")
	twice := patchGrubDefaultText(once, "/dev/sda3")
	if once != twice {
		t.Errorf("patching is not idempotent:\n%s\nvs:\n%s", once, twice)
	}
}
