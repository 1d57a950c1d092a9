package record

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/policy"
	"github.com/trezcool/academia/core/user"
)

var (
	// errors
	ErrNotFound        = errors.New("student record not found")
	ErrStudentNotFound = errors.New("student not found")
)

type Repository interface {
	GetRecord(ctx context.Context, userID int) (StudentRecord, error)
	QueryRecords(ctx context.Context) ([]StudentRecord, error)
	// UpsertRecord replaces the grades of the record bound to userID, or creates it.
	// It must be atomic: concurrent upserts for the same userID never yield two records.
	UpsertRecord(ctx context.Context, userID int, grades string) (StudentRecord, error)
}

// UserGetter is the read path of the identity store needed by the records.
type UserGetter interface {
	GetByID(ctx context.Context, id int) (user.User, error)
}

type Service struct {
	repo   Repository
	users  UserGetter
	logger core.Logger
}

func NewService(repo Repository, users UserGetter, logger core.Logger) *Service {
	return &Service{repo: repo, users: users, logger: logger}
}

// getStudent returns the student User with given id, or ErrStudentNotFound.
func (svc *Service) getStudent(ctx context.Context, id int) (user.User, error) {
	usr, err := svc.users.GetByID(ctx, id)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return user.User{}, ErrStudentNotFound
		}
		return user.User{}, core.NewStorageError(err, "finding student")
	}
	if !usr.IsStudent() {
		return user.User{}, ErrStudentNotFound
	}
	return usr, nil
}

func (svc *Service) upsert(ctx context.Context, studentID int, grades string) (StudentRecord, error) {
	rec, err := svc.repo.UpsertRecord(ctx, studentID, grades)
	if err != nil {
		return StudentRecord{}, core.NewStorageError(err, "upserting student record")
	}
	return rec, nil
}

// Get returns the record of a student. It returns ErrNotFound if no grades were ever set.
func (svc *Service) Get(ctx context.Context, actor policy.Actor, studentID int) (StudentRecord, error) {
	action := policy.ViewAnyRecord
	if actor.ID == studentID {
		action = policy.ViewOwnRecord
	}
	if err := policy.Check(actor, studentID, action); err != nil {
		return StudentRecord{}, err
	}
	return svc.Find(ctx, studentID)
}

// Find is the unguarded read path: it returns the record bound to userID or ErrNotFound.
func (svc *Service) Find(ctx context.Context, userID int) (StudentRecord, error) {
	rec, err := svc.repo.GetRecord(ctx, userID)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return StudentRecord{}, ErrNotFound
		}
		return StudentRecord{}, core.NewStorageError(err, "finding student record")
	}
	return rec, nil
}

func (svc *Service) Query(ctx context.Context, actor policy.Actor) ([]StudentRecord, error) {
	if err := policy.Check(actor, actor.ID, policy.ViewAnyRecord); err != nil {
		return nil, err
	}
	recs, err := svc.repo.QueryRecords(ctx)
	if err != nil {
		return nil, core.NewStorageError(err, "querying student records")
	}
	return recs, nil
}

// SetGrades replaces the grades of a student, creating the record on first edit.
func (svc *Service) SetGrades(ctx context.Context, actor policy.Actor, studentID int, grades string) (StudentRecord, error) {
	if err := policy.Check(actor, studentID, policy.EditAnyGrades); err != nil {
		return StudentRecord{}, err
	}
	if _, err := svc.getStudent(ctx, studentID); err != nil {
		return StudentRecord{}, err
	}
	return svc.upsert(ctx, studentID, grades)
}

// ImportCSV parses a grades CSV and applies it with ImportGrades.
func (svc *Service) ImportCSV(ctx context.Context, actor policy.Actor, r io.Reader) (ImportSummary, error) {
	if err := policy.Check(actor, actor.ID, policy.BulkImportGrades); err != nil {
		return ImportSummary{}, err
	}
	rows, err := ParseCSV(r)
	if err != nil {
		return ImportSummary{}, err
	}
	return svc.ImportGrades(ctx, actor, rows)
}

// ImportGrades applies rows in order. Invalid rows are skipped and reported;
// a storage failure stops the import, leaving the rows already applied in place.
func (svc *Service) ImportGrades(ctx context.Context, actor policy.Actor, rows []ImportRow) (ImportSummary, error) {
	if err := policy.Check(actor, actor.ID, policy.BulkImportGrades); err != nil {
		return ImportSummary{}, err
	}

	summary := ImportSummary{SkippedRows: []SkippedRow{}}
	skip := func(idx int, reason string) {
		summary.SkippedRows = append(summary.SkippedRows, SkippedRow{RowIndex: idx, Reason: reason})
		svc.logger.Debug(fmt.Sprintf("grades import: skipping row %d: %s", idx, reason))
	}

	for idx, row := range rows {
		if row.parseErr != nil {
			skip(idx, row.parseErr.Error())
			continue
		}
		if len(row.missing) > 0 {
			skip(idx, "missing required field(s): "+strings.Join(row.missing, ", "))
			continue
		}
		studentID, err := strconv.Atoi(strings.TrimSpace(row.StudentID))
		if err != nil || studentID <= 0 {
			skip(idx, fmt.Sprintf("invalid student_id %q", row.StudentID))
			continue
		}
		if _, err = svc.getStudent(ctx, studentID); err != nil {
			if err == ErrStudentNotFound {
				skip(idx, fmt.Sprintf("student %d not found", studentID))
				continue
			}
			return summary, errors.Wrapf(err, "importing row %d", idx)
		}
		if _, err = svc.upsert(ctx, studentID, row.Grades); err != nil {
			return summary, errors.Wrapf(err, "importing row %d", idx)
		}
		summary.AppliedCount++
	}

	svc.logger.Info(fmt.Sprintf(
		"grades import by user %d: %d applied, %d skipped", actor.ID, summary.AppliedCount, len(summary.SkippedRows),
	))
	return summary, nil
}
