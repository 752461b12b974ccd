package fsutil

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/openinstaller/installer/lib/backoffdelay"
)

func blockDeviceSize(device string) (uint64, error) {
	name := filepath.Base(device)
	data, err := os.ReadFile(filepath.Join("/sys/class/block", name, "size"))
	if err != nil {
		return 0, fmt.Errorf("error sizing %s: %s", device, err)
	}
	sectors, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, err
	}
	return sectors << 9, nil
}

func copyFile(destFilename, sourceFilename string, mode os.FileMode) error {
	sourceFile, err := os.Open(sourceFilename)
	if err != nil {
		return err
	}
	defer sourceFile.Close()
	if mode == 0 {
		fi, err := sourceFile.Stat()
		if err != nil {
			return err
		}
		mode = fi.Mode() & os.ModePerm
	}
	if err := os.MkdirAll(filepath.Dir(destFilename), DirPerms); err != nil {
		return err
	}
	tmpFilename := destFilename + "~"
	destFile, err := os.OpenFile(tmpFilename,
		os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return err
	}
	defer os.Remove(tmpFilename)
	defer destFile.Close()
	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}
	if err := destFile.Close(); err != nil {
		return err
	}
	return os.Rename(tmpFilename, destFilename)
}

func copyTree(destDir, sourceDir string) error {
	file, err := os.Open(sourceDir)
	if err != nil {
		return err
	}
	names, err := file.Readdirnames(-1)
	file.Close()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(destDir, DirPerms); err != nil {
		return err
	}
	for _, name := range names {
		sourceFilename := filepath.Join(sourceDir, name)
		destFilename := filepath.Join(destDir, name)
		fi, err := os.Lstat(sourceFilename)
		if err != nil {
			return err
		}
		switch {
		case fi.IsDir():
			if err := copyTree(destFilename, sourceFilename); err != nil {
				return err
			}
		case fi.Mode()&os.ModeSymlink != 0:
			target, err := os.Readlink(sourceFilename)
			if err != nil {
				return err
			}
			os.Remove(destFilename)
			if err := os.Symlink(target, destFilename); err != nil {
				return err
			}
		case fi.Mode().IsRegular():
			err := copyFile(destFilename, sourceFilename,
				fi.Mode()&os.ModePerm)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func readLines(reader io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(reader)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func waitForBlockAvailable(pathname string,
	timeout time.Duration) (uint, uint, error) {
	if timeout < 0 || timeout > time.Hour {
		timeout = time.Hour
	}
	sleeper := backoffdelay.NewExponential(time.Millisecond,
		100*time.Millisecond, 2)
	stopTime := time.Now().Add(timeout)
	var numIterations, numOpened uint
	for ; time.Until(stopTime) >= 0; numIterations++ {
		// Need to open rather than just test for inode existence, because an
		// Open(2) may be needed to trigger dynamic device node creation.
		if file, err := os.Open(pathname); err == nil {
			numOpened++
			fi, err := file.Stat()
			file.Close()
			if err != nil {
				return numIterations, numOpened, err
			}
			if fi.Mode()&os.ModeDevice != 0 {
				return numIterations, numOpened, nil
			}
		}
		sleeper.Sleep()
	}
	return numIterations, numOpened,
		fmt.Errorf("timed out waiting for block device, %d opens: %s",
			numOpened, pathname)
}
