// Package policy decides whether an actor may perform an action against a target user.
// It does no I/O.
package policy

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core/user"
)

// ErrAccessDenied is returned (wrapped) by Check whenever Authorize denies.
var ErrAccessDenied = errors.New("access denied")

type Action string

const (
	ViewOwnRecord         Action = "viewOwnRecord"
	EditOwnProfile        Action = "editOwnProfile"
	ViewAnyRecord         Action = "viewAnyRecord"
	EditAnyGrades         Action = "editAnyGrades"
	BulkImportGrades      Action = "bulkImportGrades"
	ListAllAssignments    Action = "listAllAssignments"
	DownloadAnyAssignment Action = "downloadAnyAssignment"
	UploadOwnAssignment   Action = "uploadOwnAssignment"
	ExportOwnRecord       Action = "exportOwnRecord"
)

type Decision bool

const (
	Deny  Decision = false
	Allow Decision = true
)

func (d Decision) String() string {
	if d {
		return "allow"
	}
	return "deny"
}

// Actor is the authenticated identity performing an operation.
type Actor struct {
	ID   int
	Role user.Role
}

func ActorOf(usr user.User) Actor {
	return Actor{ID: usr.ID, Role: usr.Role}
}

var (
	selfActions = map[Action]bool{
		ViewOwnRecord:  true,
		EditOwnProfile: true,
	}
	staffActions = map[Action]bool{
		ViewAnyRecord:         true,
		EditAnyGrades:         true,
		BulkImportGrades:      true,
		ListAllAssignments:    true,
		DownloadAnyAssignment: true,
	}
	studentActions = map[Action]bool{
		ViewOwnRecord:       true,
		UploadOwnAssignment: true,
		ExportOwnRecord:     true,
	}
)

// Authorize evaluates the rules in order; the first match wins.
func Authorize(actor Actor, targetUserID int, action Action) Decision {
	// 1. actions on oneself
	if selfActions[action] {
		return Decision(actor.ID == targetUserID)
	}

	switch actor.Role {
	// 2. staff & professors
	case user.RoleStaff, user.RoleProfessor:
		if staffActions[action] {
			return Allow
		}
	// 3. students, only on themselves
	case user.RoleStudent:
		return Decision(studentActions[action] && actor.ID == targetUserID)
	}

	// 4.
	return Deny
}

// Check is Authorize surfaced as an error wrapping ErrAccessDenied.
func Check(actor Actor, targetUserID int, action Action) error {
	if Authorize(actor, targetUserID, action) == Deny {
		return errors.Wrap(ErrAccessDenied, fmt.Sprintf("%s on user %d", action, targetUserID))
	}
	return nil
}

func IsAccessDenied(err error) bool {
	return errors.Cause(err) == ErrAccessDenied
}
