package installer

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/openinstaller/installer/installer/events"
	"github.com/openinstaller/installer/installer/provision"
	"github.com/openinstaller/installer/installer/setup"
	"github.com/openinstaller/installer/lib/log/testlogger"
)

type fakeRunner struct {
	commands []string
	outputs  map[string]string
}

func (r *fakeRunner) Run(name string, args ...string) error {
	r.commands = append(r.commands, name+" "+strings.Join(args, " "))
	return nil
}

func (r *fakeRunner) RunInput(input string, name string,
	args ...string) error {
	return r.Run(name, args...)
}

func (r *fakeRunner) Output(name string, args ...string) (string, error) {
	command := name + " " + strings.Join(args, " ")
	if err := r.Run(name, args...); err != nil {
		return "", err
	}
	return r.outputs[command], nil
}

func testInstaller(t *testing.T) (*Installer, *events.Channel) {
	channel := events.New(256)
	runner := &fakeRunner{}
	settings := setup.New()
	settings.TargetDevice = "/dev/sda"
	inst, err := New(Params{
		Settings:     settings,
		TargetDir:    t.TempDir(),
		LogFile:      "",
		Runner:       runner,
		ChrootRunner: runner,
		Logger:       testlogger.New(t),
		Events:       channel,
		FlagTimeout:  time.Second,
	})
	if err != nil {
		t.Fatal(err)
	}
	return inst, channel
}

// observe drains the event channel until a terminal event, acknowledges it
// and returns the terminal event.
func observe(t *testing.T, channel *events.Channel) events.Event {
	timer := time.NewTimer(5 * time.Second)
	defer timer.Stop()
	for {
		select {
		case event := <-channel.Events():
			switch event.Type {
			case events.EventError, events.EventFinished:
				channel.AcknowledgeDrain()
				return event
			}
		case <-timer.C:
			t.Fatal("no terminal event")
		}
	}
}

func TestWorkerSuccessPath(t *testing.T) {
	inst, channel := testInstaller(t)
	inst.installFunc = func() error {
		if phase := inst.GetState().Phase; phase != PhaseIdle {
			t.Errorf("unexpected starting phase: %s", phase)
		}
		inst.setPhase(PhaseTransfer)
		return nil
	}
	inst.Start()
	event := observe(t, channel)
	if event.Type != events.EventFinished {
		t.Fatalf("expected finished, got %+v", event)
	}
	if err := inst.Wait(); err != nil {
		t.Fatal(err)
	}
	state := inst.GetState()
	if state.Phase != PhaseSuccess {
		t.Errorf("phase: %s", state.Phase)
	}
	if state.Running || state.Error {
		t.Errorf("unexpected state: %+v", state)
	}
}

func TestWorkerFailurePath(t *testing.T) {
	inst, channel := testInstaller(t)
	inst.installFunc = func() error {
		return errors.New("root filesystem creation failed")
	}
	inst.Start()
	event := observe(t, channel)
	if event.Type != events.EventError {
		t.Fatalf("expected error event, got %+v", event)
	}
	if !strings.Contains(event.Text, "root filesystem creation failed") {
		t.Errorf("diagnostic lost: %q", event.Text)
	}
	if err := inst.Wait(); err == nil {
		t.Fatal("Wait() reported success")
	}
	state := inst.GetState()
	if state.Phase != PhaseFailed || !state.Error {
		t.Errorf("unexpected state: %+v", state)
	}
}

func TestWorkerPanicBecomesError(t *testing.T) {
	inst, channel := testInstaller(t)
	inst.installFunc = func() error {
		panic("slice index out of range")
	}
	inst.Start()
	event := observe(t, channel)
	if event.Type != events.EventError {
		t.Fatalf("expected error event, got %+v", event)
	}
	if !strings.Contains(event.Text, "unexpected failure") {
		t.Errorf("unexpected diagnostic: %q", event.Text)
	}
	inst.Wait()
}

func TestAbortUnblocksFlagWait(t *testing.T) {
	inst, channel := testInstaller(t)
	inst.params.FlagTimeout = time.Minute
	inst.installFunc = func() error {
		return inst.params.Settings.TimezoneDone.Wait(
			inst.params.FlagTimeout, inst.cancelChannel)
	}
	inst.Start()
	inst.Abort()
	event := observe(t, channel)
	if event.Type != events.EventError {
		t.Fatalf("expected error event, got %+v", event)
	}
	if err := inst.Wait(); err != setup.ErrWaitCancelled {
		t.Errorf("unexpected verdict: %v", err)
	}
}

func TestStateSnapshotsAreCopies(t *testing.T) {
	inst, _ := testInstaller(t)
	inst.mutateState(func(state *InstallState) {
		state.MountTable["/"] = "/dev/sda3"
	})
	snapshot := inst.GetState()
	snapshot.MountTable["/"] = "/dev/changed"
	if inst.GetState().MountTable["/"] != "/dev/sda3" {
		t.Error("snapshot shares the mount table")
	}
}

func TestWriteFstabFromPlan(t *testing.T) {
	inst, _ := testInstaller(t)
	inst.fsPlan = &provision.FilesystemPlan{Filesystems: []*provision.Filesystem{
		{Device: "/dev/sda3", Kind: "ext4", MountPoint: "/",
			UUID: "aaaa-1111"},
		{Device: "/dev/sda2", Kind: "swap", UUID: "bbbb-2222"},
	}}
	if err := inst.writeFstab(); err != nil {
		t.Fatal(err)
	}
	contents, err := os.ReadFile(inst.targetPath("etc", "fstab"))
	if err != nil {
		t.Fatal(err)
	}
	data := string(contents)
	for _, line := range []string{
		"UUID=aaaa-1111 / ext4 rw,relatime,data=ordered 0 1",
		"UUID=bbbb-2222 none swap defaults 0 0",
	} {
		if !strings.Contains(data, line+"\n") {
			t.Errorf("missing line %q in:\n%s", line, data)
		}
	}
}

func TestPreparedModeRequiresRootAssignment(t *testing.T) {
	inst, _ := testInstaller(t)
	settings := inst.params.Settings
	settings.TargetDevice = ""
	settings.MountDevices = map[string]string{"/home": "/dev/sdb1"}
	settings.FilesystemDevices = map[string]string{"/dev/sdb1": "ext4"}
	if err := inst.provisionPhase(); err == nil {
		t.Fatal("expected an error without a root assignment")
	}
}

func TestPreparedModeRequiresRootFilesystem(t *testing.T) {
	// The root device is assigned but carries no filesystem and none is
	// requested: the plan must not pass silently without "/".
	inst, _ := testInstaller(t)
	settings := inst.params.Settings
	settings.TargetDevice = ""
	settings.MountDevices = map[string]string{"/": "/dev/sda3"}
	if err := inst.provisionPhase(); err == nil {
		t.Fatal("expected an error without a root filesystem")
	}
}

func TestPreparedModeReusesExistingFilesystem(t *testing.T) {
	inst, _ := testInstaller(t)
	runner := inst.params.Runner.(*fakeRunner)
	runner.outputs = map[string]string{
		"blkid -o value -s TYPE /dev/sda3": "ext4",
		"blkid -o value -s UUID /dev/sda3": "aaaa-1111",
	}
	settings := inst.params.Settings
	settings.TargetDevice = ""
	settings.MountDevices = map[string]string{"/": "/dev/sda3"}
	if err := inst.provisionPhase(); err != nil {
		t.Fatal(err)
	}
	fs := inst.fsPlan.Filesystems[0]
	if fs.Kind != "ext4" || fs.UUID != "aaaa-1111" || fs.MountPoint != "/" {
		t.Errorf("unexpected filesystem: %+v", fs)
	}
	for _, command := range runner.commands {
		if strings.HasPrefix(command, "mkfs") {
			t.Errorf("reused filesystem was formatted: %s", command)
		}
	}
}

func TestMountTargetsRequiresRootFilesystem(t *testing.T) {
	inst, _ := testInstaller(t)
	inst.fsPlan = &provision.FilesystemPlan{
		Filesystems: []*provision.Filesystem{
			{Device: "/dev/sdb1", Kind: "ext4", MountPoint: "/home"},
		},
	}
	if err := inst.mountTargetsPhase(); err == nil {
		t.Fatal("expected an error without a root filesystem")
	}
}

func TestPostInstallScriptsAreDelegated(t *testing.T) {
	inst, _ := testInstaller(t)
	inst.params.Settings.PostInstallScripts = []string{
		"/usr/share/installer/desktop-tweaks.sh",
		"/usr/share/installer/sound-tweaks.sh",
	}
	if err := inst.runPostInstallScripts(); err != nil {
		t.Fatal(err)
	}
	runner := inst.params.ChrootRunner.(*fakeRunner)
	for _, script := range inst.params.Settings.PostInstallScripts {
		found := false
		for _, command := range runner.commands {
			if strings.HasPrefix(command, script) {
				found = true
			}
		}
		if !found {
			t.Errorf("script %s not invoked: %v", script, runner.commands)
		}
	}
}

func TestOrderedMountPoints(t *testing.T) {
	ordered := orderedMountPoints(map[string]string{
		"/home/data": "/dev/sdb2",
		"/":          "/dev/sda3",
		"/boot":      "/dev/sda1",
		"/home":      "/dev/sdb1",
	})
	expected := []string{"/", "/boot", "/home", "/home/data"}
	for index, mountPoint := range expected {
		if ordered[index] != mountPoint {
			t.Fatalf("expected %v, got %v", expected, ordered)
		}
	}
}
