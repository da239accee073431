// Package logger provides the process-wide structured logger.
package logger

// Logger is the logging surface used by the processor, services and handlers.
// Arguments are concatenated like fmt.Sprint.
type Logger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	// Fatal logs at error level and exits the process with status 1.
	Fatal(args ...interface{})
	// Panic logs at error level and panics with the message.
	Panic(args ...interface{})
}
