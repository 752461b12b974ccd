package prefixlogger

import (
	"github.com/openinstaller/installer/lib/log"
)

type Logger struct {
	prefix string
	logger log.DebugLogger
}

// New will create a Logger which prefixes all messages with the specified
// prefix before passing them to the underlying logger.
func New(prefix string, logger log.DebugLogger) *Logger {
	return &Logger{prefix: prefix, logger: logger}
}

func (l *Logger) Debug(level uint8, v ...interface{}) {
	l.logger.Debug(level, prepend(l.prefix, v)...)
}

func (l *Logger) Debugf(level uint8, format string, v ...interface{}) {
	l.logger.Debugf(level, l.prefix+format, v...)
}

func (l *Logger) Debugln(level uint8, v ...interface{}) {
	l.logger.Debugln(level, prepend(l.prefix, v)...)
}

func (l *Logger) Fatal(v ...interface{}) {
	l.logger.Fatal(prepend(l.prefix, v)...)
}

func (l *Logger) Fatalf(format string, v ...interface{}) {
	l.logger.Fatalf(l.prefix+format, v...)
}

func (l *Logger) Fatalln(v ...interface{}) {
	l.logger.Fatalln(prepend(l.prefix, v)...)
}

func (l *Logger) Panic(v ...interface{}) {
	l.logger.Panic(prepend(l.prefix, v)...)
}

func (l *Logger) Panicf(format string, v ...interface{}) {
	l.logger.Panicf(l.prefix+format, v...)
}

func (l *Logger) Panicln(v ...interface{}) {
	l.logger.Panicln(prepend(l.prefix, v)...)
}

func (l *Logger) Print(v ...interface{}) {
	l.logger.Print(prepend(l.prefix, v)...)
}

func (l *Logger) Printf(format string, v ...interface{}) {
	l.logger.Printf(l.prefix+format, v...)
}

func (l *Logger) Println(v ...interface{}) {
	l.logger.Println(prepend(l.prefix, v)...)
}

func prepend(prefix string, v []interface{}) []interface{} {
	return append([]interface{}{prefix}, v...)
}
