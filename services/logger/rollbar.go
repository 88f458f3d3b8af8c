package logsvc

import (
	"log"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/trezcool/darsban/core"
	"github.com/trezcool/darsban/core/user"
)

// RollbarLogger writes every entry to a std logger and reports it to Rollbar
// when enabled. Entries about a dashboard user carry the account as the
// Rollbar person and its role and school as custom data.
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
	return &RollbarLogger{std: std}
}

// Enable turns reporting to Rollbar on or off; std logging always happens.
func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// prepare turns msg and args (error, map[string]interface{}, user.User, in
// any order) into Rollbar arguments. The first user becomes the person, the
// others are dropped.
func (l RollbarLogger) prepare(msg string, args []interface{}) []interface{} {
	var (
		usr    *user.User
		extras map[string]interface{}
	)
	out := make([]interface{}, 0, len(args)+2)
	out = append(out, msg)
	for _, arg := range args {
		switch v := arg.(type) {
		case user.User:
			if usr == nil {
				usr = &v
			}
		case map[string]interface{}:
			if extras == nil {
				extras = make(map[string]interface{}, len(v)+2)
			}
			for k, val := range v {
				extras[k] = val
			}
		default:
			out = append(out, arg)
		}
	}

	if usr == nil {
		rollbar.ClearPerson()
	} else {
		rollbar.SetPerson(usr.ID, usr.Username, "")
		if extras == nil {
			extras = make(map[string]interface{}, 2)
		}
		extras["role"] = usr.Role
		if usr.School != "" {
			extras["school"] = usr.School
		}
	}
	if extras != nil {
		out = append(out, extras)
	}
	return out
}

func (l RollbarLogger) print(level, msg string, args []interface{}) {
	l.std.Printf("[%s] %s\n", level, msg)
	for _, arg := range args {
		if usr, ok := arg.(user.User); ok {
			l.std.Printf("user: %s (%s)\n", usr.Username, usr.Role)
			continue
		}
		l.std.Printf("%+v\n", arg)
	}
}

func (l RollbarLogger) log(level, msg string, args []interface{}) {
	rollbar.Log(level, l.prepare(msg, args)...)
	l.print(level, msg, args)
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) { l.log(rollbar.DEBUG, msg, args) }

func (l RollbarLogger) Info(msg string, args ...interface{}) { l.log(rollbar.INFO, msg, args) }

func (l RollbarLogger) Warn(msg string, args ...interface{}) { l.log(rollbar.WARN, msg, args) }

// Error reports failed requests, with the signed in user when there is one.
func (l RollbarLogger) Error(msg string, args ...interface{}) { l.log(rollbar.ERR, msg, args) }

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	l.log(rollbar.CRIT, msg, args)
	l.std.Fatal(msg)
}
