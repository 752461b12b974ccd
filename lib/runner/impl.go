package runner

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/openinstaller/installer/lib/log"
)

type toolRunner struct {
	chroot string
	logger log.DebugLogger
}

type dryRunner struct {
	logger log.DebugLogger
}

func findExecutable(rootDir, file string) error {
	if d, err := os.Stat(filepath.Join(rootDir, file)); err != nil {
		return err
	} else if m := d.Mode(); !m.IsDir() && m&0111 != 0 {
		return nil
	}
	return os.ErrPermission
}

func lookPath(rootDir, file string) (string, error) {
	if strings.Contains(file, "/") {
		if err := findExecutable(rootDir, file); err != nil {
			return "", err
		}
		return file, nil
	}
	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		if dir == "" {
			dir = "." // Unix shell semantics: path element "" means ".".
		}
		path := filepath.Join(dir, file)
		if err := findExecutable(rootDir, path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("(chroot=%s) %s not found in PATH", rootDir, file)
}

func (r *toolRunner) command(name string,
	args ...string) (*exec.Cmd, error) {
	path, err := lookPath(r.chroot, name)
	if err != nil {
		return nil, err
	}
	cmd := exec.Command(path, args...)
	if r.chroot != "" {
		cmd.Dir = "/"
		cmd.SysProcAttr = &syscall.SysProcAttr{Chroot: r.chroot}
		r.logger.Debugf(0, "running(chroot=%s): %s %s\n",
			r.chroot, name, strings.Join(args, " "))
	} else {
		r.logger.Debugf(0, "running: %s %s\n", name, strings.Join(args, " "))
	}
	return cmd, nil
}

func (r *toolRunner) Run(name string, args ...string) error {
	cmd, err := r.command(name, args...)
	if err != nil {
		return err
	}
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("error running: %s: %s, output: %s",
			name, err, output)
	}
	return nil
}

func (r *toolRunner) RunInput(input string, name string,
	args ...string) error {
	cmd, err := r.command(name, args...)
	if err != nil {
		return err
	}
	cmd.Stdin = strings.NewReader(input)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("error running: %s: %s, output: %s",
			name, err, output)
	}
	return nil
}

func (r *toolRunner) Output(name string, args ...string) (string, error) {
	cmd, err := r.command(name, args...)
	if err != nil {
		return "", err
	}
	stdout, err := cmd.Output()
	if err != nil {
		var stderr []byte
		if ee, ok := err.(*exec.ExitError); ok {
			stderr = ee.Stderr
		}
		return "", fmt.Errorf("error running: %s: %s, output: %s",
			name, err, stderr)
	}
	return strings.TrimSpace(string(stdout)), nil
}

func (r *dryRunner) Run(name string, args ...string) error {
	r.logger.Debugf(0, "dry run: skipping: %s %s\n",
		name, strings.Join(args, " "))
	return nil
}

func (r *dryRunner) RunInput(input string, name string,
	args ...string) error {
	return r.Run(name, args...)
}

func (r *dryRunner) Output(name string, args ...string) (string, error) {
	r.logger.Debugf(0, "dry run: skipping: %s %s\n",
		name, strings.Join(args, " "))
	return "", nil
}
