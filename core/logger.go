package core

// Logger is any service that can log messages (and optionally report them).
// args may hold an error, a map[string]interface{} of extra data or the user.User involved.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
