package runner

import (
	"strings"
	"testing"

	"github.com/openinstaller/installer/lib/log/testlogger"
)

func TestOutputTrimsWhitespace(t *testing.T) {
	r := New(testlogger.New(t))
	output, err := r.Output("echo", "hello")
	if err != nil {
		t.Fatal(err)
	}
	if output != "hello" {
		t.Errorf("output: %q", output)
	}
}

func TestRunMissingTool(t *testing.T) {
	r := New(testlogger.New(t))
	err := r.Run("no-such-tool-here")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "not found in PATH") {
		t.Errorf("unexpected error: %s", err)
	}
}

func TestRunFailureCapturesOutput(t *testing.T) {
	r := New(testlogger.New(t))
	err := r.Run("sh", "-c", "echo broken >&2; exit 3")
	if err == nil {
		t.Fatal("expected an error")
	}
	message := err.Error()
	if !strings.Contains(message, "exit status 3") ||
		!strings.Contains(message, "broken") {
		t.Errorf("unexpected error: %s", message)
	}
}

func TestRunInput(t *testing.T) {
	r := New(testlogger.New(t))
	if err := r.RunInput("ignored\n", "cat"); err != nil {
		t.Fatal(err)
	}
}

func TestDryRunDoesNothing(t *testing.T) {
	r := NewDryRun(testlogger.New(t))
	if err := r.Run("false"); err != nil {
		t.Fatal(err)
	}
	if output, err := r.Output("blkid"); err != nil || output != "" {
		t.Errorf("output: %q, err: %v", output, err)
	}
}
