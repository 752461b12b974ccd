package fsutil

import (
	"io"
	"os"
	"path"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/openinstaller/installer/lib/log"
)

func watchFile(pathname string, logger log.Logger) <-chan io.ReadCloser {
	readCloserChannel := make(chan io.ReadCloser, 1)
	notifyChannel := watchFileWithFsNotify(pathname, logger)
	go watchFileForever(pathname, readCloserChannel, notifyChannel, logger)
	return readCloserChannel
}

func watchFileWithFsNotify(pathname string,
	logger log.Logger) <-chan struct{} {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Println("error creating watcher:", err)
		return nil
	}
	pathname = path.Clean(pathname)
	if err := watcher.Add(path.Dir(pathname)); err != nil {
		logger.Println("error adding watch:", err)
		watcher.Close()
		return nil
	}
	channel := make(chan struct{}, 1)
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if path.Clean(event.Name) != pathname {
					continue
				}
				select {
				case channel <- struct{}{}:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Println("error with watcher:", err)
			}
		}
	}()
	return channel
}

func watchFileForever(pathname string, readCloserChannel chan<- io.ReadCloser,
	notifyChannel <-chan struct{}, logger log.Logger) {
	interval := time.Second
	if notifyChannel != nil {
		interval = 15 * time.Second
	}
	intervalTimer := time.NewTimer(0)
	var lastStat syscall.Stat_t
	for {
		select {
		case <-intervalTimer.C:
		case <-notifyChannel:
			if !intervalTimer.Stop() {
				<-intervalTimer.C
			}
		}
		intervalTimer = time.NewTimer(interval)
		var stat syscall.Stat_t
		if err := syscall.Stat(pathname, &stat); err != nil {
			continue
		}
		if stat.Ino == lastStat.Ino && stat.Mtim == lastStat.Mtim {
			continue
		}
		if file, err := os.Open(pathname); err != nil {
			if logger != nil {
				logger.Printf("error opening file: %s: %s\n", pathname, err)
			}
		} else {
			readCloserChannel <- file
			lastStat = stat
		}
	}
}
