package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core/assignment"
)

type assignmentRow struct {
	ID        int       `db:"id"`
	StudentID int       `db:"student_id"`
	Filename  string    `db:"filename"`
	BlobRef   string    `db:"blob_ref"`
	CreatedAt time.Time `db:"created_at"`
}

func (r assignmentRow) unbind() assignment.Assignment {
	return assignment.Assignment{
		ID:        r.ID,
		StudentID: r.StudentID,
		Filename:  r.Filename,
		BlobRef:   r.BlobRef,
		CreatedAt: r.CreatedAt.UTC(),
	}
}

type assignmentRepository struct {
	db sqlx.ExtContext
}

var _ assignment.Repository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(db sqlx.ExtContext) *assignmentRepository {
	return &assignmentRepository{db: db}
}

func (repo assignmentRepository) CreateAssignment(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	var row assignmentRow
	err := sqlx.GetContext(ctx, repo.db, &row,
		`INSERT INTO assignment (student_id, filename, blob_ref, created_at) VALUES ($1, $2, $3, $4)
		RETURNING id, student_id, filename, blob_ref, created_at`,
		a.StudentID, a.Filename, a.BlobRef, a.CreatedAt.UTC(),
	)
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "inserting assignment")
	}
	return row.unbind(), nil
}

func (repo assignmentRepository) GetAssignment(ctx context.Context, id int) (assignment.Assignment, error) {
	var row assignmentRow
	err := sqlx.GetContext(ctx, repo.db, &row,
		`SELECT id, student_id, filename, blob_ref, created_at FROM assignment WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return assignment.Assignment{}, assignment.ErrNotFound
		}
		return assignment.Assignment{}, errors.Wrap(err, "finding assignment")
	}
	return row.unbind(), nil
}

func (repo assignmentRepository) QueryAssignments(ctx context.Context) ([]assignment.Assignment, error) {
	var rows []assignmentRow
	err := sqlx.SelectContext(ctx, repo.db, &rows,
		`SELECT id, student_id, filename, blob_ref, created_at FROM assignment ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "querying assignments")
	}
	as := make([]assignment.Assignment, 0, len(rows))
	for _, r := range rows {
		as = append(as, r.unbind())
	}
	return as, nil
}
