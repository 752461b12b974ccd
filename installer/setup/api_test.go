package setup

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFlagSetBeforeWait(t *testing.T) {
	flag := NewFlag()
	flag.Set()
	flag.Set() // Setting twice must be harmless.
	if !flag.IsSet() {
		t.Fatal("flag not set")
	}
	if err := flag.Wait(time.Millisecond, nil); err != nil {
		t.Fatal(err)
	}
}

func TestFlagWaitTimeout(t *testing.T) {
	flag := NewFlag()
	err := flag.Wait(time.Millisecond, nil)
	if err != ErrWaitTimeout {
		t.Fatalf("expected ErrWaitTimeout, got %v", err)
	}
}

func TestFlagWaitCancelled(t *testing.T) {
	flag := NewFlag()
	cancelChannel := make(chan struct{})
	close(cancelChannel)
	err := flag.Wait(time.Minute, cancelChannel)
	if err != ErrWaitCancelled {
		t.Fatalf("expected ErrWaitCancelled, got %v", err)
	}
}

func TestFlagWaitUnblocksOnSet(t *testing.T) {
	flag := NewFlag()
	go func() {
		time.Sleep(10 * time.Millisecond)
		flag.Set()
	}()
	if err := flag.Wait(time.Minute, nil); err != nil {
		t.Fatal(err)
	}
}

func TestLoadFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "settings.json")
	data := `{
# Preseeded for the test rack.
    "TargetDevice": "/dev/sda",
    "UseLuks": true,
    "Timezone": "Europe/Berlin",
    "UserName": "worker"
}
`
	if err := os.WriteFile(filename, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	settings, err := LoadFile(filename)
	if err != nil {
		t.Fatal(err)
	}
	if settings.TargetDevice != "/dev/sda" {
		t.Errorf("TargetDevice: %s", settings.TargetDevice)
	}
	if !settings.UseLuks {
		t.Error("UseLuks not set")
	}
	if !settings.Automatic() {
		t.Error("expected automatic mode")
	}
	if settings.TimezoneDone == nil || settings.TimezoneDone.IsSet() {
		t.Error("TimezoneDone must be initialised and unset")
	}
}
