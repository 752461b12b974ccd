/*
Package log defines the logging interfaces used throughout the tree.

The Logger interface is compatible with the *log.Logger type from the
standard library. The DebugLogger interface adds levelled debug logging.
*/
package log

// Logger defines the methods of a basic logger. The *log.Logger type from
// the standard library implements this interface.
type Logger interface {
	Fatal(v ...interface{})
	Fatalf(format string, v ...interface{})
	Fatalln(v ...interface{})
	Panic(v ...interface{})
	Panicf(format string, v ...interface{})
	Panicln(v ...interface{})
	Print(v ...interface{})
	Printf(format string, v ...interface{})
	Println(v ...interface{})
}

// DebugLogger defines a Logger with additional levelled debug methods.
// Debug messages are only emitted if the logger debug level is at least the
// level given in the call.
type DebugLogger interface {
	Logger
	Debug(level uint8, v ...interface{})
	Debugf(level uint8, format string, v ...interface{})
	Debugln(level uint8, v ...interface{})
}
