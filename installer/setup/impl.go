package setup

import (
	"time"

	"github.com/openinstaller/installer/lib/fsutil"
	"github.com/openinstaller/installer/lib/json"
	"github.com/openinstaller/installer/lib/log"
)

func loadFile(filename string) (*Settings, error) {
	settings := New()
	if err := json.ReadFromFile(filename, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func (flag *Flag) doSet() {
	flag.once.Do(func() { close(flag.set) })
}

func (flag *Flag) wait(timeout time.Duration,
	cancelChannel <-chan struct{}) error {
	var timeoutChannel <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		timeoutChannel = timer.C
	}
	select {
	case <-flag.set:
		return nil
	case <-timeoutChannel:
		return ErrWaitTimeout
	case <-cancelChannel:
		return ErrWaitCancelled
	}
}

func (flag *Flag) watchFile(pathname string, logger log.DebugLogger) {
	readerChannel := fsutil.WatchFile(pathname, logger)
	go func() {
		reader := <-readerChannel
		reader.Close()
		logger.Debugf(1, "flag file present: %s\n", pathname)
		flag.Set()
	}()
}
