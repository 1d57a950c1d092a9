package report

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/policy"
	"github.com/trezcool/academia/core/record"
	"github.com/trezcool/academia/core/user"
)

// ErrStudentNotFound is returned when exporting the record of an unknown user or of a non student.
var ErrStudentNotFound = record.ErrStudentNotFound

type (
	// RecordFinder is the read path of the records.
	RecordFinder interface {
		Find(ctx context.Context, userID int) (record.StudentRecord, error)
	}

	UserGetter interface {
		GetByID(ctx context.Context, id int) (user.User, error)
	}

	Service struct {
		users   UserGetter
		records RecordFinder
	}

	// Document is a rendered record.
	Document struct {
		Filename    string
		ContentType string
		Data        []byte
	}
)

func NewService(users UserGetter, records RecordFinder) *Service {
	return &Service{users: users, records: records}
}

// Export renders the record of a student. Students may only export their own record;
// exporting someone else's requires the right to view any record.
func (svc *Service) Export(ctx context.Context, actor policy.Actor, studentID int, format Format) (Document, error) {
	action := policy.ViewAnyRecord
	if actor.ID == studentID {
		action = policy.ExportOwnRecord
	}
	if err := policy.Check(actor, studentID, action); err != nil {
		return Document{}, err
	}

	usr, err := svc.users.GetByID(ctx, studentID)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return Document{}, ErrStudentNotFound
		}
		return Document{}, core.NewStorageError(err, "finding student")
	}
	if !usr.IsStudent() {
		return Document{}, ErrStudentNotFound
	}

	var rec *record.StudentRecord
	if r, err := svc.records.Find(ctx, studentID); err == nil {
		rec = &r
	} else if errors.Cause(err) != record.ErrNotFound {
		return Document{}, errors.Wrap(err, "finding student record")
	}

	data, err := RenderRecord(format, usr, rec)
	if err != nil {
		return Document{}, errors.Wrap(err, "rendering record")
	}
	return Document{
		Filename:    "student_record_" + usr.Username + format.Extension(),
		ContentType: format.ContentType(),
		Data:        data,
	}, nil
}
