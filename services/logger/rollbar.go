package logsvc

import (
	"log"
	"strconv"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/policy"
	"github.com/trezcool/academia/core/user"
)

type level int

const (
	levelDebug level = iota
	levelInfo
	levelWarn
	levelError
	levelCritical
)

var levelNames = map[level]string{
	levelDebug:    "DEBUG",
	levelInfo:     "INFO",
	levelWarn:     "WARN",
	levelError:    "ERROR",
	levelCritical: "CRITICAL",
}

// RollbarLogger prints to std and reports to rollbar.
// Debug messages are dropped unless the app runs in debug mode.
type RollbarLogger struct {
	std      *log.Logger
	minLevel level
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	rollbar.SetEnabled(conf.RollbarToken != "" && !conf.TestMode)

	lvl := levelInfo
	if conf.Debug {
		lvl = levelDebug
	}
	return &RollbarLogger{std: std, minLevel: lvl}
}

// expected fmt: msg | error, map[string]interface{}, user.User or policy.Actor
func (l RollbarLogger) prepare(msg string, args []interface{}) (rbArgs, printArgs []interface{}) {
	var personSet bool
	setPerson := func(id int, uname string) {
		if !personSet { // only set one person
			rollbar.SetPerson(strconv.Itoa(id), uname, "")
			personSet = true
		}
	}

	rbArgs = append(make([]interface{}, 0, len(args)+1), msg)
	for _, arg := range args {
		switch v := arg.(type) {
		case user.User:
			setPerson(v.ID, v.Username)
		case policy.Actor:
			setPerson(v.ID, "")
		default:
			rbArgs = append(rbArgs, arg)
			printArgs = append(printArgs, arg)
		}
	}
	if !personSet {
		rollbar.ClearPerson()
	}
	return rbArgs, printArgs
}

func (l RollbarLogger) log(lvl level, report func(...interface{}), msg string, args []interface{}) {
	if lvl < l.minLevel {
		return
	}
	rbArgs, printArgs := l.prepare(msg, args)
	report(rbArgs...)

	l.std.Printf("[%s] %s", levelNames[lvl], msg)
	for _, arg := range printArgs {
		l.std.Printf("%+v\n", arg)
	}
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	l.log(levelDebug, rollbar.Debug, msg, args)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	l.log(levelInfo, rollbar.Info, msg, args)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	l.log(levelWarn, rollbar.Warning, msg, args)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	l.log(levelError, rollbar.Error, msg, args)
}

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	l.log(levelCritical, rollbar.Critical, msg, args)
	rollbar.Wait()
	l.std.Fatal(msg)
}
