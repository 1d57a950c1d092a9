package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/trezcool/academia/core/user"
	"github.com/trezcool/academia/tests"
)

func Test_userApi_login(t *testing.T) {
	app, env := setup(t)
	testutil.CreateUser(t, env.UserSvc, "alice", user.RoleStudent)

	authFailed := marchallObj(t, httpErr{Error: "authentication failed"})

	tests := []httpTest{
		{
			name: "missing fields", method: http.MethodPost, path: "/v1/users/login",
			body: []byte(`{}`), wantCode: http.StatusBadRequest,
		},
		{
			name: "wrong password", method: http.MethodPost, path: "/v1/users/login",
			body:     marchallObj(t, map[string]string{"username": "alice", "password": "nope"}),
			wantCode: http.StatusBadRequest, wantData: authFailed,
		},
		{
			name: "unknown user", method: http.MethodPost, path: "/v1/users/login",
			body:     marchallObj(t, map[string]string{"username": "bob", "password": testutil.DefaultPassword}),
			wantCode: http.StatusBadRequest, wantData: authFailed,
		},
	}
	runHTTPTests(t, app, tests)

	t.Run("success", func(t *testing.T) {
		body := marchallObj(t, map[string]string{"username": "ALICE", "password": testutil.DefaultPassword})
		req, rec := newRequest(http.MethodPost, "/v1/users/login", body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; want %v (%s)", rec.Code, http.StatusOK, rec.Body.String())
		}

		var resp struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Token == "" {
			t.Fatalf("no token in response %s", rec.Body.String())
		}

		// the token authenticates the user
		req, rec = newAuthRequest(http.MethodGet, "/v1/users/me", resp.Token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("GET /me code = %v; want %v", rec.Code, http.StatusOK)
		}
	})
}

func Test_userApi_me(t *testing.T) {
	app, env := setup(t)
	alice := testutil.CreateUser(t, env.UserSvc, "alice", user.RoleStudent)

	tests := []httpTest{
		{name: "Auth required", path: "/v1/users/me", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Invalid token", path: "/v1/users/me", token: "not.a.token", wantCode: http.StatusUnauthorized,
		},
		{name: "me", path: "/v1/users/me", token: getToken(t, env, alice), wantCode: http.StatusOK, wantData: marchallObj(t, alice)},
		{
			name: "Deleted user", path: "/v1/users/me", token: getToken(t, env, user.User{ID: 404, Username: "ghost"}),
			wantCode: http.StatusUnauthorized,
		},
	}
	runHTTPTests(t, app, tests)
}

func Test_userApi_changePassword(t *testing.T) {
	app, env := setup(t)
	alice := testutil.CreateUser(t, env.UserSvc, "alice", user.RoleStudent)
	bob := testutil.CreateUser(t, env.UserSvc, "bob", user.RoleStaff)
	aliceToken := getToken(t, env, alice)

	newPwd := "N3w&Secret!pw"
	body := marchallObj(t, map[string]string{"password": newPwd, "password_confirm": newPwd})

	tests := []httpTest{
		{
			name: "someone else's password", method: http.MethodPut, path: "/v1/users/2/password",
			token: aliceToken, body: body, wantCode: http.StatusForbidden,
		},
		{
			name: "staff cannot change other's password", method: http.MethodPut, path: "/v1/users/1/password",
			token: getToken(t, env, bob), body: body, wantCode: http.StatusForbidden,
		},
		{
			name: "weak password", method: http.MethodPut, path: "/v1/users/1/password",
			token: aliceToken, body: marchallObj(t, map[string]string{"password": "weak", "password_confirm": "weak"}),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "own password", method: http.MethodPut, path: "/v1/users/1/password",
			token: aliceToken, body: body, wantCode: http.StatusOK,
		},
	}
	runHTTPTests(t, app, tests)

	if _, err := env.UserSvc.Authenticate(context.Background(), "alice", newPwd); err != nil {
		t.Errorf("Authenticate() with the new password failed: %v", err)
	}
}
