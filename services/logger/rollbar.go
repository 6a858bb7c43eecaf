package logsvc

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/chamadaweb/chamada/core"
	"github.com/chamadaweb/chamada/core/attendance"
	"github.com/chamadaweb/chamada/core/user"
)

// RollbarLogger logs to std and reports to Rollbar once enabled.
//
// Arguments after the message may be an error, a map[string]interface{} of extra fields,
// the user.User the entry is about, or the attendance.Session it is about.
// Anything else is logged as is and reported as an extra field.
type RollbarLogger struct {
	std *log.Logger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	rollbar.SetCustom(map[string]interface{}{"app": conf.AppName})
	rollbar.SetEnabled(false)
	return &RollbarLogger{std: std}
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

type entry struct {
	msg    string
	err    error
	usr    *user.User
	extras map[string]interface{}
}

func newEntry(msg string, args []interface{}) entry {
	e := entry{msg: msg, extras: make(map[string]interface{})}
	var n int
	for _, arg := range args {
		switch a := arg.(type) {
		case error:
			if e.err == nil {
				e.err = a
				continue
			}
			e.extras[fmt.Sprintf("error_%d", n)] = a.Error()
		case user.User:
			if e.usr == nil { // only one person per item
				usr := a
				e.usr = &usr
			}
			continue
		case attendance.Session:
			e.extras["attendance_id"] = a.ID
			e.extras["class_id"] = a.ClassID
			e.extras["date"] = a.Date
			continue
		case map[string]interface{}:
			for k, v := range a {
				e.extras[k] = v
			}
			continue
		default:
			e.extras[fmt.Sprintf("arg_%d", n)] = a
		}
		n++
	}
	return e
}

// rollbarArgs sets the person of the item and returns the arguments of a rollbar report.
func (e entry) rollbarArgs() []interface{} {
	if e.usr != nil {
		rollbar.SetPerson(e.usr.ID, e.usr.Name, e.usr.Email)
	} else {
		rollbar.ClearPerson()
	}
	args := make([]interface{}, 0, 3)
	if e.err != nil {
		args = append(args, e.err)
	}
	args = append(args, e.msg)
	if len(e.extras) > 0 {
		args = append(args, e.extras)
	}
	return args
}

func (e entry) String() string {
	var b strings.Builder
	b.WriteString(e.msg)
	if e.usr != nil {
		fmt.Fprintf(&b, " user=%s", e.usr.Email)
	}
	keys := make([]string, 0, len(e.extras))
	for k := range e.extras {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, e.extras[k])
	}
	if e.err != nil {
		fmt.Fprintf(&b, "\n%+v", e.err)
	}
	return b.String()
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	e := newEntry(msg, args)
	rollbar.Debug(e.rollbarArgs()...)
	l.std.Println("DEBUG: " + e.String())
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	e := newEntry(msg, args)
	rollbar.Info(e.rollbarArgs()...)
	l.std.Println("INFO: " + e.String())
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	e := newEntry(msg, args)
	rollbar.Warning(e.rollbarArgs()...)
	l.std.Println("WARN: " + e.String())
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	e := newEntry(msg, args)
	rollbar.Error(e.rollbarArgs()...)
	l.std.Println("ERROR: " + e.String())
}

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	e := newEntry(msg, args)
	rollbar.Critical(e.rollbarArgs()...)
	rollbar.Wait()
	l.std.Fatal("FATAL: " + e.String())
}
