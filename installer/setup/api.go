/*
Package setup holds the typed installation settings and the readiness flags
which external collaborators (a UI or a preseeding service) use to feed the
installation worker.

Settings are loaded once, from a local JSON file or over TFTP from a network
configuration server, and are read-only afterwards. The readiness flags are
write-once futures: the collaborator sets a flag when its data is final and
the worker waits on it with a bounded timeout.
*/
package setup

import (
	"errors"
	"sync"
	"time"

	"github.com/openinstaller/installer/lib/log"
)

var (
	ErrWaitTimeout   = errors.New("timed out waiting for readiness flag")
	ErrWaitCancelled = errors.New("cancelled waiting for readiness flag")
)

// Settings describes one unattended installation. The mapping fields are
// only consulted in the alongside/advanced modes, where the caller has
// prepared devices itself instead of asking for automatic layout.
type Settings struct {
	// Layout inputs.
	TargetDevice string // e.g. "/dev/sda". Automatic mode only.
	UseLuks      bool
	UseLvm       bool
	// Alongside/advanced mode tables: mount point to device and device to
	// filesystem kind. Empty in automatic mode.
	MountDevices      map[string]string
	FilesystemDevices map[string]string

	// System configuration.
	Timezone        string
	Locale          string
	KeyboardLayout  string
	KeyboardVariant string
	Hostname        string

	// First user account. The root password mirrors the user password.
	UserName     string
	UserFullName string
	UserPassword string

	InstallBootloader bool

	// Paths, inside the target, of desktop or sound subsystem specific
	// configuration scripts to run at the end of Configure. Script
	// failures are reported as warnings, not installation failures.
	PostInstallScripts []string

	// Readiness futures, set by the collaborator which gathers the data.
	TimezoneDone *Flag `json:"-"`
	UserInfoDone *Flag `json:"-"`
}

// New returns empty settings with initialised readiness flags.
func New() *Settings {
	return &Settings{
		TimezoneDone: NewFlag(),
		UserInfoDone: NewFlag(),
	}
}

// LoadFile reads settings from a JSON file (comment lines permitted).
func LoadFile(filename string) (*Settings, error) {
	return loadFile(filename)
}

// LoadTftp fetches settings.json from the named TFTP server and decodes it.
func LoadTftp(tftpServer string, logger log.DebugLogger) (*Settings, error) {
	return loadTftp(tftpServer, logger)
}

// Automatic returns true if the settings request automatic layout of a
// whole target device.
func (settings *Settings) Automatic() bool {
	return settings.TargetDevice != ""
}

// Flag is a write-once readiness future.
type Flag struct {
	once sync.Once
	set  chan struct{}
}

func NewFlag() *Flag {
	return &Flag{set: make(chan struct{})}
}

// Set marks the flag ready. Setting an already-set flag is a no-op.
func (flag *Flag) Set() {
	flag.doSet()
}

func (flag *Flag) IsSet() bool {
	select {
	case <-flag.set:
		return true
	default:
		return false
	}
}

// Wait blocks until the flag is set, the timeout expires or cancelChannel
// is closed. A zero timeout means wait without bound.
func (flag *Flag) Wait(timeout time.Duration,
	cancelChannel <-chan struct{}) error {
	return flag.wait(timeout, cancelChannel)
}

// WatchFile resolves the flag when the named file appears or changes. The
// collaborator touches the file when its data is final. The watch goroutine
// persists for the process lifetime.
func (flag *Flag) WatchFile(pathname string, logger log.DebugLogger) {
	flag.watchFile(pathname, logger)
}
