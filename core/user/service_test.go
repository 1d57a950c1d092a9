package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/user"
	"github.com/trezcool/academia/tests"
)

func TestService_Authenticate(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()

	usr := testutil.CreateUser(t, env.UserSvc, "alice", user.RoleStudent)

	tests := []struct {
		name    string
		uname   string
		pwd     string
		wantErr error
	}{
		{name: "valid", uname: "alice", pwd: testutil.DefaultPassword},
		{name: "username is case insensitive", uname: " ALICE ", pwd: testutil.DefaultPassword},
		{name: "wrong password", uname: "alice", pwd: "nope", wantErr: user.ErrInvalidCredential},
		{name: "unknown user", uname: "bob", pwd: testutil.DefaultPassword, wantErr: user.ErrInvalidCredential},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := env.UserSvc.Authenticate(ctx, tt.uname, tt.pwd)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, usr.ID, got.ID)
		})
	}
}

func TestService_SetPassword(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()

	usr := testutil.CreateUser(t, env.UserSvc, "alice", user.RoleProfessor)
	newPwd := "N3w&Secret!pw"

	updated, err := env.UserSvc.SetPassword(ctx, usr.ID, newPwd)
	require.NoError(t, err)
	assert.NotEqual(t, usr.PasswordHash, updated.PasswordHash)
	assert.Equal(t, user.RoleProfessor, updated.Role)

	_, err = env.UserSvc.Authenticate(ctx, "alice", testutil.DefaultPassword)
	assert.Equal(t, user.ErrInvalidCredential, err)
	_, err = env.UserSvc.Authenticate(ctx, "alice", newPwd)
	assert.NoError(t, err)

	_, err = env.UserSvc.SetPassword(ctx, 404, newPwd)
	assert.Equal(t, user.ErrNotFound, err)
}

func TestService_Query(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()

	alice := testutil.CreateUser(t, env.UserSvc, "alice", user.RoleStudent)
	bob := testutil.CreateUser(t, env.UserSvc, "bob", user.RoleStaff)
	carol := testutil.CreateUser(t, env.UserSvc, "carol", user.RoleProfessor)

	tests := []struct {
		name   string
		filter *user.QueryFilter
		want   []user.User
	}{
		{"all", nil, []user.User{alice, bob, carol}},
		{"search", &user.QueryFilter{Search: "o"}, []user.User{bob, carol}},
		{"roles", &user.QueryFilter{Roles: []user.Role{user.RoleStaff, user.RoleProfessor}}, []user.User{bob, carol}},
		{"search & roles", &user.QueryFilter{Search: "a", Roles: []user.Role{user.RoleStudent}}, []user.User{alice}},
		{"no match", &user.QueryFilter{Search: "zed"}, []user.User{}},
		{"padded search", &user.QueryFilter{Search: "  BO "}, []user.User{bob}},
		{"blank search", &user.QueryFilter{Search: "   "}, []user.User{alice, bob, carol}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := env.UserSvc.Query(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewUser_Validate(t *testing.T) {
	env := testutil.NewEnv(t)
	testutil.CreateUser(t, env.UserSvc, "taken", user.RoleStudent)

	newUser := func(uname string, role user.Role, pwd string) user.NewUser {
		return user.NewUser{Username: uname, Role: role, Password: pwd, PasswordConfirm: pwd}
	}

	tests := []struct {
		name    string
		nu      user.NewUser
		wantErr bool
	}{
		{name: "valid", nu: newUser(" New_User ", " Staff ", testutil.DefaultPassword)},
		{name: "taken username", nu: newUser("TAKEN", user.RoleStudent, testutil.DefaultPassword), wantErr: true},
		{name: "bad username", nu: newUser("no spaces", user.RoleStudent, testutil.DefaultPassword), wantErr: true},
		{name: "bad role", nu: newUser("someone", "admin", testutil.DefaultPassword), wantErr: true},
		{name: "short password", nu: newUser("someone", user.RoleStudent, "Sh0rt!"), wantErr: true},
		{name: "password with space", nu: newUser("someone", user.RoleStudent, "Str0ng! Pass#42"), wantErr: true},
		{name: "numeric password", nu: newUser("someone", user.RoleStudent, "1234567890"), wantErr: true},
		{name: "simple password", nu: newUser("someone", user.RoleStudent, "password123"), wantErr: true},
		{name: "password like username", nu: newUser("dragonfly9", user.RoleStudent, "Dragonfly9!"), wantErr: true},
		{
			name:    "confirmation mismatch",
			nu:      user.NewUser{Username: "someone", Role: user.RoleStudent, Password: testutil.DefaultPassword, PasswordConfirm: "other"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nu := tt.nu
			err := nu.Validate(env.Validate, env.UserSvc)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "new_user", nu.Username)
			assert.Equal(t, user.RoleStaff, nu.Role)
		})
	}

	t.Run("taken username is a field error", func(t *testing.T) {
		nu := newUser("taken", user.RoleStudent, testutil.DefaultPassword)
		assert.True(t, core.IsValidationError(nu.Validate(env.Validate, env.UserSvc)))
	})
}

func TestParseRole(t *testing.T) {
	for _, r := range user.AllRoles {
		got, ok := user.ParseRole(" " + string(r) + " ")
		assert.True(t, ok)
		assert.Equal(t, r, got)
	}
	_, ok := user.ParseRole("admin")
	assert.False(t, ok)
}
