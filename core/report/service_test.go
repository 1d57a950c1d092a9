package report_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/academia/core/policy"
	"github.com/trezcool/academia/core/report"
	"github.com/trezcool/academia/core/user"
	"github.com/trezcool/academia/tests"
)

func TestService_Export(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()

	alice := testutil.CreateUser(t, env.UserSvc, "alice", user.RoleStudent)
	bob := testutil.CreateUser(t, env.UserSvc, "bob", user.RoleStudent)
	staff := testutil.CreateUser(t, env.UserSvc, "staff1", user.RoleStaff)

	_, err := env.RecordSvc.SetGrades(ctx, policy.ActorOf(staff), bob.ID, "B+")
	require.NoError(t, err)

	t.Run("own record without grades", func(t *testing.T) {
		doc, err := env.ReportSvc.Export(ctx, policy.ActorOf(alice), alice.ID, report.FormatCSV)
		require.NoError(t, err)
		assert.Equal(t, "Username,Grades\nalice,N/A\n", string(doc.Data))
		assert.Equal(t, "student_record_alice.csv", doc.Filename)
		assert.Equal(t, "text/csv; charset=utf-8", doc.ContentType)
	})

	t.Run("own record with grades", func(t *testing.T) {
		doc, err := env.ReportSvc.Export(ctx, policy.ActorOf(bob), bob.ID, report.FormatCSV)
		require.NoError(t, err)
		assert.Equal(t, "Username,Grades\nbob,B+\n", string(doc.Data))
	})

	t.Run("pdf", func(t *testing.T) {
		doc, err := env.ReportSvc.Export(ctx, policy.ActorOf(bob), bob.ID, report.FormatPDF)
		require.NoError(t, err)
		assert.Equal(t, "application/pdf", doc.ContentType)
		assert.Contains(t, string(doc.Data), "Student Record for bob")
		assert.Contains(t, string(doc.Data), "Grades: B+")
	})

	t.Run("student exports another student", func(t *testing.T) {
		_, err := env.ReportSvc.Export(ctx, policy.ActorOf(alice), bob.ID, report.FormatCSV)
		assert.True(t, policy.IsAccessDenied(err))
	})

	t.Run("staff exports a student", func(t *testing.T) {
		doc, err := env.ReportSvc.Export(ctx, policy.ActorOf(staff), bob.ID, report.FormatCSV)
		require.NoError(t, err)
		assert.Equal(t, "Username,Grades\nbob,B+\n", string(doc.Data))
	})

	t.Run("staff exports a non student", func(t *testing.T) {
		_, err := env.ReportSvc.Export(ctx, policy.ActorOf(staff), staff.ID, report.FormatCSV)
		assert.True(t, policy.IsAccessDenied(err))
	})

	t.Run("unknown student", func(t *testing.T) {
		_, err := env.ReportSvc.Export(ctx, policy.ActorOf(staff), 404, report.FormatCSV)
		assert.Equal(t, report.ErrStudentNotFound, err)
	})
}
