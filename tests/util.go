// Package testutil holds the helpers shared by the tests of the app packages.
package testutil

import (
	"context"
	"io/ioutil"
	"log"
	"testing"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/assignment"
	"github.com/trezcool/academia/core/record"
	"github.com/trezcool/academia/core/report"
	"github.com/trezcool/academia/core/schedule"
	"github.com/trezcool/academia/core/user"
	logsvc "github.com/trezcool/academia/services/logger"
	pwdsvc "github.com/trezcool/academia/services/password"
	blobstore "github.com/trezcool/academia/storage/blob"
	inmemdb "github.com/trezcool/academia/storage/database/inmem"
)

// DefaultPassword satisfies the password policy.
const DefaultPassword = "Str0ng!Pass#42"

// Env bundles the in-memory stores and the services built on them.
type Env struct {
	Conf       *core.Config
	Logger     core.Logger
	Validate   *validator.Validate
	DB         *inmemdb.DB
	Blobs      *blobstore.Memory
	UserRepo   user.Repository
	RecordRepo record.Repository

	UserSvc       *user.Service
	RecordSvc     *record.Service
	AssignmentSvc *assignment.Service
	ScheduleSvc   *schedule.Service
	ReportSvc     *report.Service
}

// NewConfig returns a TEST configuration that does not depend on the environment.
func NewConfig() *core.Config {
	conf := core.NewConfig()
	conf.Env = "TEST"
	conf.Debug = false
	conf.TestMode = true
	conf.RollbarToken = ""
	conf.Database.Engine = "memory"
	conf.Blob.Backend = "memory"
	conf.Cache.RedisAddress = ""
	return conf
}

// NewLogger returns a logger printing nowhere and reporting to nobody.
func NewLogger(conf *core.Config) core.Logger {
	return logsvc.NewRollbarLogger(log.New(ioutil.Discard, "", 0), conf)
}

func NewValidator() *validator.Validate {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	return validate
}

// NewEnv wires every service on fresh in-memory stores.
func NewEnv(t *testing.T) *Env {
	t.Helper()

	conf := NewConfig()
	logger := NewLogger(conf)
	db := inmemdb.Open()
	blobs := blobstore.NewMemory()

	env := &Env{
		Conf:       conf,
		Logger:     logger,
		Validate:   NewValidator(),
		DB:         db,
		Blobs:      blobs,
		UserRepo:   inmemdb.NewUserRepository(db),
		RecordRepo: inmemdb.NewRecordRepository(db),
	}
	env.UserSvc = user.NewService(env.UserRepo, pwdsvc.NewBcryptHasher(true))
	env.RecordSvc = record.NewService(env.RecordRepo, env.UserSvc, logger)
	env.AssignmentSvc = assignment.NewService(inmemdb.NewAssignmentRepository(db), blobs, logger)
	env.ScheduleSvc = schedule.NewService(inmemdb.NewScheduleRepository(db))
	env.ReportSvc = report.NewService(env.UserSvc, env.RecordSvc)
	return env
}

// CreateUser creates a user with DefaultPassword, or pwd when given.
func CreateUser(t *testing.T, svc *user.Service, uname string, role user.Role, pwd ...string) user.User {
	t.Helper()

	password := DefaultPassword
	if len(pwd) > 0 {
		password = pwd[0]
	}
	usr, err := svc.Create(context.Background(), user.NewUser{
		Username:        uname,
		Role:            role,
		Password:        password,
		PasswordConfirm: password,
	})
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}
