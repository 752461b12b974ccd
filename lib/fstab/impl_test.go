package fstab

import (
	"bytes"
	"strings"
	"testing"
)

func linesOf(buffer *bytes.Buffer) []string {
	var lines []string
	for _, line := range strings.Split(buffer.String(), "\n") {
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func TestWriteRootAndSwap(t *testing.T) {
	buffer := &bytes.Buffer{}
	err := Write(buffer, []Device{
		{Device: "/dev/sda3", UUID: "aaaa-1111", MountPoint: "/",
			Type: "ext4"},
		{Device: "/dev/sda2", UUID: "bbbb-2222", Type: "swap"},
	})
	if err != nil {
		t.Fatal(err)
	}
	lines := linesOf(buffer)
	expected := []string{
		"UUID=aaaa-1111 / ext4 rw,relatime,data=ordered 0 1",
		"UUID=bbbb-2222 none swap defaults 0 0",
	}
	if len(lines) != len(expected) {
		t.Fatalf("expected %d entries, got %d: %v",
			len(expected), len(lines), lines)
	}
	for index, line := range expected {
		if lines[index] != line {
			t.Errorf("entry %d: expected %q, got %q",
				index, line, lines[index])
		}
	}
}

func TestWriteSsdRoot(t *testing.T) {
	buffer := &bytes.Buffer{}
	err := Write(buffer, []Device{
		{Device: "/dev/sda3", UUID: "aaaa-1111", MountPoint: "/",
			Type: "ext4", Ssd: true},
		{Device: "/dev/sda1", UUID: "cccc-3333", MountPoint: "/boot",
			Type: "ext2", Ssd: true},
	})
	if err != nil {
		t.Fatal(err)
	}
	lines := linesOf(buffer)
	if len(lines) != 3 {
		t.Fatalf("expected 3 entries, got %d: %v", len(lines), lines)
	}
	expected := "UUID=aaaa-1111 / ext4 defaults,noatime,nodiratime,discard 0 1"
	if lines[0] != expected {
		t.Errorf("expected %q, got %q", expected, lines[0])
	}
	// ext2 does not support TRIM: no discard option.
	expected = "UUID=cccc-3333 /boot ext2 defaults,noatime,nodiratime 0 0"
	if lines[1] != expected {
		t.Errorf("expected %q, got %q", expected, lines[1])
	}
	expected = "tmpfs /tmp tmpfs defaults,noatime,mode=1777 0 0"
	if lines[2] != expected {
		t.Errorf("expected %q, got %q", expected, lines[2])
	}
}

func TestWriteVfatNormalisation(t *testing.T) {
	buffer := &bytes.Buffer{}
	err := Write(buffer, []Device{
		{Device: "/dev/sda3", UUID: "aaaa-1111", MountPoint: "/",
			Type: "ext4"},
		{Device: "/dev/sda2", UUID: "DDDD-4444", MountPoint: "/boot/efi",
			Type: "fat32"},
	})
	if err != nil {
		t.Fatal(err)
	}
	lines := linesOf(buffer)
	expected := "UUID=DDDD-4444 /boot/efi vfat defaults 0 0"
	if lines[1] != expected {
		t.Errorf("expected %q, got %q", expected, lines[1])
	}
}

func TestWriteSkipsUnmounted(t *testing.T) {
	buffer := &bytes.Buffer{}
	err := Write(buffer, []Device{
		{Device: "/dev/sda3", UUID: "aaaa-1111", MountPoint: "/",
			Type: "ext4"},
		{Device: "/dev/sdb1", UUID: "eeee-5555", Type: "ext4"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if lines := linesOf(buffer); len(lines) != 1 {
		t.Fatalf("expected 1 entry, got %d: %v", len(lines), lines)
	}
}
