package debuglogger

import (
	"github.com/openinstaller/installer/lib/log"
)

type Logger struct {
	level int16
	log.Logger
}

// New will create a Logger from an existing log.Logger, adding methods for
// debug logs. Debug messages up to and including the current debug level are
// logged, others are discarded. The default debug level is -1 (all debug
// messages are discarded).
func New(logger log.Logger) *Logger {
	return &Logger{level: -1, Logger: logger}
}

// Upgrade will upgrade the provided logger to a DebugLogger. If logger is
// already a DebugLogger it is simply returned, otherwise it is wrapped with
// New.
func Upgrade(logger log.Logger) log.DebugLogger {
	if debugLogger, ok := logger.(log.DebugLogger); ok {
		return debugLogger
	}
	return New(logger)
}

func (l *Logger) Debug(level uint8, v ...interface{}) {
	if l.level >= int16(level) {
		l.Print(v...)
	}
}

func (l *Logger) Debugf(level uint8, format string, v ...interface{}) {
	if l.level >= int16(level) {
		l.Printf(format, v...)
	}
}

func (l *Logger) Debugln(level uint8, v ...interface{}) {
	if l.level >= int16(level) {
		l.Println(v...)
	}
}

// GetLevel gets the current maximum debug level.
func (l *Logger) GetLevel() int16 {
	return l.level
}

// SetLevel sets the maximum debug level. A negative level will cause all
// debug messages to be dropped.
func (l *Logger) SetLevel(maxLevel int16) {
	l.level = maxLevel
}
