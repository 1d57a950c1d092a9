package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/academia/core/policy"
	"github.com/trezcool/academia/core/user"
	"github.com/trezcool/academia/tests"
)

func setup(t *testing.T) (*commandLine, *testutil.Env) {
	env := testutil.NewEnv(t)
	return &commandLine{
		usrSvc:    env.UserSvc,
		recordSvc: env.RecordSvc,
		validate:  env.Validate,
	}, env
}

// mockPassword makes the password prompt answer pwd.
func mockPassword(t *testing.T, pwd string) {
	orig := readPasswordFunc
	readPasswordFunc = func(fd int) ([]byte, error) { return []byte(pwd), nil }
	t.Cleanup(func() { readPasswordFunc = orig })
}

type cliTest struct {
	name       string
	args       []string // without program name
	pwd        string
	wantErr    error
	wantErrStr string
}

func runCLITests(t *testing.T, cli *commandLine, tests []cliTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockPassword(t, tt.pwd)
			err := cli.run(append([]string{"admin"}, tt.args...))
			switch {
			case tt.wantErr != nil:
				assert.Equal(t, tt.wantErr, errors.Cause(err))
			case tt.wantErrStr != "":
				if assert.Error(t, err) {
					assert.Equal(t, tt.wantErrStr, err.Error())
				}
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _ := setup(t)

	var got []string
	orig := gooseRunFunc
	gooseRunFunc = func(db *sql.DB, command string, args ...string) error {
		switch command {
		case "up", "down", "redo", "reset", "status", "version":
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		got = append([]string{command}, args...)
		return nil
	}
	t.Cleanup(func() { gooseRunFunc = orig })

	runCLITests(t, cli, []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "down-to: non-int arg", args: []string{"migrate", "down-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "status", args: []string{"migrate", "status"}},
	})

	require.NoError(t, cli.run([]string{"admin", "migrate", "up-to", "3"}))
	assert.Equal(t, []string{"up-to", "3"}, got)
}

func Test_commandLine_addUser(t *testing.T) {
	cli, env := setup(t)

	runCLITests(t, cli, []cliTest{
		{name: "no args", args: []string{"adduser"}, wantErr: errHelp},
		{name: "no role", args: []string{"adduser", "-username", "alice"}, pwd: testutil.DefaultPassword, wantErr: errHelp},
		{name: "no password", args: []string{"adduser", "-username", "alice", "-role", "student"}, wantErr: errHelp},
		{name: "bad flag", args: []string{"adduser", "-lol"}, wantErrStr: "flag provided but not defined: -lol"},
		{name: "created", args: []string{"adduser", "-username", "Alice", "-role", "student"}, pwd: testutil.DefaultPassword},
	})

	usr, err := env.UserSvc.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, user.RoleStudent, usr.Role)

	t.Run("invalid", func(t *testing.T) {
		for _, args := range [][]string{
			{"adduser", "-username", "alice", "-role", "student"}, // taken
			{"adduser", "-username", "bob", "-role", "dean"},
		} {
			mockPassword(t, testutil.DefaultPassword)
			assert.Error(t, cli.run(append([]string{"admin"}, args...)), args)
		}
		mockPassword(t, "weak")
		assert.Error(t, cli.run([]string{"admin", "adduser", "-username", "bob", "-role", "staff"}))
	})
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli, env := setup(t)
	usr := testutil.CreateUser(t, env.UserSvc, "alice", user.RoleStaff)

	newPwd := "N3w&Better!pwd"
	runCLITests(t, cli, []cliTest{
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "username but no password", args: []string{"resetpassword", "-username", "alice"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-username", "lol"}, pwd: newPwd, wantErr: user.ErrNotFound},
		{name: "reset", args: []string{"resetpassword", "-username", "alice"}, pwd: newPwd},
	})

	_, err := env.UserSvc.Authenticate(context.Background(), usr.Username, newPwd)
	assert.NoError(t, err)
	_, err = env.UserSvc.Authenticate(context.Background(), usr.Username, testutil.DefaultPassword)
	assert.Equal(t, user.ErrInvalidCredential, err)
}

func Test_commandLine_importGrades(t *testing.T) {
	cli, env := setup(t)
	ctx := context.Background()

	s1 := testutil.CreateUser(t, env.UserSvc, "student1", user.RoleStudent)
	s2 := testutil.CreateUser(t, env.UserSvc, "student2", user.RoleStudent)
	testutil.CreateUser(t, env.UserSvc, "prof1", user.RoleProfessor)

	path := filepath.Join(t.TempDir(), "grades.csv")
	csv := fmt.Sprintf("student_id,grades\n%d,A\nbad,B\n%d,C\n", s1.ID, s2.ID)
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o600))

	runCLITests(t, cli, []cliTest{
		{name: "no args", args: []string{"importgrades"}, wantErr: errHelp},
		{name: "no file", args: []string{"importgrades", "-as", "prof1"}, wantErr: errHelp},
		{name: "unknown user", args: []string{"importgrades", "-as", "lol", "-file", path}, wantErr: user.ErrNotFound},
		{name: "student", args: []string{"importgrades", "-as", "student1", "-file", path}, wantErr: policy.ErrAccessDenied},
		{name: "imported", args: []string{"importgrades", "-as", "prof1", "-file", path}},
	})

	for id, want := range map[int]string{s1.ID: "A", s2.ID: "C"} {
		rec, err := env.RecordSvc.Find(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, rec.Grades)
	}

	err := cli.run([]string{"admin", "importgrades", "-as", "prof1", "-file", filepath.Join(t.TempDir(), "nope.csv")})
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
