package tests

import (
	"net/http"
	"testing"
	"time"

	"github.com/trezcool/academia/core/schedule"
	"github.com/trezcool/academia/core/user"
	"github.com/trezcool/academia/tests"
)

func Test_scheduleApi(t *testing.T) {
	app, env := setup(t)

	usr := testutil.CreateUser(t, env.UserSvc, "student1", user.RoleStudent)
	other := testutil.CreateUser(t, env.UserSvc, "student2", user.RoleStudent)
	token := getToken(t, env, usr)

	soon := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Second)
	later := time.Now().UTC().Add(4 * 24 * time.Hour).Truncate(time.Second)

	tests := []httpTest{
		{name: "Auth required", path: "/v1/events", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "no events", path: "/v1/events", token: token, wantCode: http.StatusOK, wantData: []byte(`[]`)},
		{
			name: "blank event", method: http.MethodPost, path: "/v1/events", token: token,
			body: []byte(`{"event":"  ","time":"2024-05-01T08:00:00Z"}`), wantCode: http.StatusBadRequest,
		},
		{
			name: "bad time", method: http.MethodPost, path: "/v1/events", token: token,
			body: []byte(`{"event":"exam","time":"next week"}`), wantCode: http.StatusBadRequest,
		},
		{
			name: "create later", method: http.MethodPost, path: "/v1/events", token: token,
			body:     marchallObj(t, schedule.NewSchedule{Event: "exam", Time: later.Format(time.RFC3339)}),
			wantCode: http.StatusCreated,
			wantData: marchallObj(t, schedule.Schedule{ID: 1, UserID: usr.ID, Event: "exam", Time: schedule.FormatTime(later)}),
		},
		{
			name: "create soon", method: http.MethodPost, path: "/v1/events", token: token,
			body:     marchallObj(t, schedule.NewSchedule{Event: "quiz", Time: soon.Format(time.RFC3339)}),
			wantCode: http.StatusCreated,
		},
		{
			name: "events", path: "/v1/events", token: token, wantCode: http.StatusOK,
			wantData: marchallObj(t, []schedule.Event{
				{Title: "quiz", Start: schedule.FormatTime(soon)},
				{Title: "exam", Start: schedule.FormatTime(later)},
			}),
		},
		{
			name: "reminders", path: "/v1/reminders", token: token, wantCode: http.StatusOK,
			wantData: marchallObj(t, []schedule.Reminder{{Event: "quiz", Time: schedule.FormatTime(soon)}}),
		},
		{name: "other user's events", path: "/v1/events", token: getToken(t, env, other), wantCode: http.StatusOK, wantData: []byte(`[]`)},
	}
	runHTTPTests(t, app, tests)
}
