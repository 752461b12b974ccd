/*
Package provision realises a computed disk layout on real block devices.

Provisioning wipes the target disk, writes the partition table, sets up the
optional LUKS container and LVM volumes and creates the filesystems. The
result is the filesystem plan used for mounting and fstab generation. Every
destructive action goes through an injected Runner, so the whole sequence
can be exercised against a recording fake or a dry-run implementation.
*/
package provision

import (
	"fmt"
	"time"

	"github.com/openinstaller/installer/installer/events"
	"github.com/openinstaller/installer/installer/layout"
	"github.com/openinstaller/installer/lib/log"
	"github.com/openinstaller/installer/lib/runner"
)

// DefaultKeyFile is where the container key is written unless Params
// overrides it.
const DefaultKeyFile = "/tmp/.keyfile"

// ConfigurationError reports a bad or unsupported request, such as an
// unknown filesystem kind. It never indicates disk mutation.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// MountError reports a failed mount. Whether it is fatal depends on the
// mount point: root and boot are mandatory, the rest are best-effort.
type MountError struct {
	MountPoint string
	Err        error
}

func (e *MountError) Error() string {
	return fmt.Sprintf("error mounting %s: %s", e.MountPoint, e.Err)
}

// Filesystem describes one created filesystem. UUID and ReadLabel are
// resolved from the device after formatting, never assumed.
type Filesystem struct {
	Device     string
	Kind       string // e.g. "ext4", "swap".
	Label      string
	MountPoint string // Empty for swap.
	UUID       string
	Ssd        bool
}

// FilesystemPlan is ordered: the root filesystem is always first, so that
// mounting in order is safe.
type FilesystemPlan struct {
	Filesystems []*Filesystem
}

// Params configures a provisioning run.
type Params struct {
	TargetDir  string // Where the new root is mounted, e.g. "/mnt/target".
	RootFsKind string // Filesystem kind for root, default "ext4".
	KeyFile    string // LUKS key file location, default "/tmp/.keyfile".
	Runner     runner.Runner
	Logger     log.DebugLogger
	Events     *events.Channel // Optional progress sink.

	// How long to wait for partition device nodes to appear after the
	// table is written. Default 10 seconds.
	DeviceTimeout time.Duration
}

// Provision wipes the disk described by plan and creates its partitions,
// container, volumes and filesystems. It returns the filesystem plan with
// durable identifiers resolved. Mounting is a separate step: see Mount.
func Provision(plan *layout.Plan, params Params) (*FilesystemPlan, error) {
	return provision(plan, params)
}

// Mount mounts every filesystem in the plan under targetDir, root first,
// creating mount point directories on demand and applying the fixed
// permission bits for well-known mount points. Swap is activated, not
// mounted. Mount failures for root and boot are fatal; failures for
// secondary mount points produce a MountError in the returned slice and
// mounting continues.
func Mount(fsPlan *FilesystemPlan, targetDir string, params Params) (
	[]*MountError, error) {
	return mountAll(fsPlan, targetDir, params)
}

// FormatDevice creates a single filesystem on an already-prepared device,
// for the alongside/advanced modes where partitioning was done externally.
// An unknown kind returns a ConfigurationError without touching the device.
func FormatDevice(device, kind, label string, params Params) (
	*Filesystem, error) {
	p := newProvisioner(nil, params)
	return p.makeFilesystem(device, kind, label, "")
}

// ProbeDevice reads the filesystem kind and durable identifiers from an
// existing filesystem which is to be reused rather than recreated. A device
// without a filesystem returns a ConfigurationError.
func ProbeDevice(device string, params Params) (*Filesystem, error) {
	p := newProvisioner(nil, params)
	return p.probeFilesystem(device)
}
