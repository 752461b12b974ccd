package fsutil

import (
	"io"
	"os"
	"time"

	"github.com/openinstaller/installer/lib/log"
)

const (
	DirPerms         = os.FileMode(0755)
	PrivateFilePerms = os.FileMode(0600)
	PublicFilePerms  = os.FileMode(0644)
)

// BlockDeviceSize returns the size in bytes of the named block device
// (e.g. "/dev/sda"), read from the sector count the kernel exports under
// /sys/class/block.
func BlockDeviceSize(device string) (uint64, error) {
	return blockDeviceSize(device)
}

// CopyFile will create a new file, copy data from sourceFilename to a
// tmpfile and then atomically rename the tmpfile to destFilename, ensuring
// that the file never has incomplete data.
// If there are any errors, then destFilename is unchanged.
func CopyFile(destFilename, sourceFilename string, mode os.FileMode) error {
	return copyFile(destFilename, sourceFilename, mode)
}

// CopyTree will copy a directory tree, recursing into directories and
// copying regular files and symlinks.
func CopyTree(destDir, sourceDir string) error {
	return copyTree(destDir, sourceDir)
}

// ReadLines will read lines from the reader, stripping trailing newlines.
func ReadLines(reader io.Reader) ([]string, error) {
	return readLines(reader)
}

// WaitForBlockAvailable waits until the specified block device node is
// available (present and openable), or the timeout expires. It returns the
// number of iterations and opens performed. Devices may appear shortly
// after a partition table is written, once the kernel re-reads it.
func WaitForBlockAvailable(pathname string,
	timeout time.Duration) (uint, uint, error) {
	return waitForBlockAvailable(pathname, timeout)
}

// WatchFile watches the file given by pathname and sends a new io.ReadCloser
// for it over the returned channel whenever a new inode is detected for the
// path (i.e. the file was created or replaced). It may also be sent
// periodically. The file is opened before the io.ReadCloser is sent, so
// consumers are guaranteed a stable view of each version of the file.
func WatchFile(pathname string, logger log.Logger) <-chan io.ReadCloser {
	return watchFile(pathname, logger)
}
