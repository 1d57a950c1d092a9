package policy

import (
	"testing"

	"github.com/trezcool/academia/core/user"
)

func TestAuthorize(t *testing.T) {
	student := Actor{ID: 1, Role: user.RoleStudent}
	staff := Actor{ID: 2, Role: user.RoleStaff}
	prof := Actor{ID: 3, Role: user.RoleProfessor}
	unknown := Actor{ID: 4, Role: user.Role("janitor")}

	tests := []struct {
		name   string
		actor  Actor
		target int
		action Action
		want   Decision
	}{
		// self actions
		{"student views own record", student, 1, ViewOwnRecord, Allow},
		{"student views other's record (own action)", student, 9, ViewOwnRecord, Deny},
		{"staff edits own profile", staff, 2, EditOwnProfile, Allow},
		{"staff edits other's profile", staff, 1, EditOwnProfile, Deny},
		{"professor views own record", prof, 3, ViewOwnRecord, Allow},
		{"unknown role edits own profile", unknown, 4, EditOwnProfile, Allow},

		// staff & professors
		{"staff views any record", staff, 1, ViewAnyRecord, Allow},
		{"professor edits any grades", prof, 1, EditAnyGrades, Allow},
		{"staff bulk imports", staff, 2, BulkImportGrades, Allow},
		{"professor lists all assignments", prof, 3, ListAllAssignments, Allow},
		{"staff downloads any assignment", staff, 1, DownloadAnyAssignment, Allow},
		{"staff cannot upload", staff, 2, UploadOwnAssignment, Deny},
		{"professor cannot export", prof, 3, ExportOwnRecord, Deny},

		// students
		{"student uploads own assignment", student, 1, UploadOwnAssignment, Allow},
		{"student exports own record", student, 1, ExportOwnRecord, Allow},
		{"student exports other's record", student, 2, ExportOwnRecord, Deny},
		{"student views any record", student, 1, ViewAnyRecord, Deny},
		{"student edits grades", student, 1, EditAnyGrades, Deny},
		{"student bulk imports", student, 1, BulkImportGrades, Deny},
		{"student lists all assignments", student, 1, ListAllAssignments, Deny},
		{"student downloads own assignment", student, 1, DownloadAnyAssignment, Deny},

		// default deny
		{"unknown role views any record", unknown, 1, ViewAnyRecord, Deny},
		{"unknown action", staff, 2, Action("deleteEverything"), Deny},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Authorize(tt.actor, tt.target, tt.action); got != tt.want {
				t.Errorf("Authorize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheck(t *testing.T) {
	student := Actor{ID: 1, Role: user.RoleStudent}

	if err := Check(student, 1, ViewOwnRecord); err != nil {
		t.Errorf("Check() unexpected error = %v", err)
	}
	err := Check(student, 1, ViewAnyRecord)
	if err == nil {
		t.Fatal("Check() expected an error")
	}
	if !IsAccessDenied(err) {
		t.Errorf("IsAccessDenied(%v) = false, want true", err)
	}
}

func TestAuthorize_deterministic(t *testing.T) {
	actor := Actor{ID: 7, Role: user.RoleProfessor}
	first := Authorize(actor, 3, EditAnyGrades)
	for i := 0; i < 100; i++ {
		if got := Authorize(actor, 3, EditAnyGrades); got != first {
			t.Fatalf("Authorize() = %v on call %d, want %v", got, i, first)
		}
	}
}
