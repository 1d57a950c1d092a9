package boiledrepos

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/volatiletech/sqlboiler/v4/queries"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/record"
)

// postgres error codes
const uniqueViolation = "23505"

const recordColumns = `id, user_id, grades`

type recordRow struct {
	ID     int    `boil:"id"`
	UserID int    `boil:"user_id"`
	Grades string `boil:"grades"`
}

func (r recordRow) unboil() record.StudentRecord {
	return record.StudentRecord{ID: r.ID, UserID: r.UserID, Grades: r.Grades}
}

type recordRepository struct {
	exec core.DBExecutor
}

var _ record.Repository = (*recordRepository)(nil) // interface compliance check

func NewRecordRepository(exec core.DBExecutor) *recordRepository {
	return &recordRepository{exec: exec}
}

func (repo recordRepository) GetRecord(ctx context.Context, userID int) (record.StudentRecord, error) {
	var row recordRow
	err := queries.Raw(`SELECT `+recordColumns+` FROM student_record WHERE user_id = $1`, userID).Bind(ctx, repo.exec, &row)
	if err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return record.StudentRecord{}, record.ErrNotFound
		}
		return record.StudentRecord{}, errors.Wrap(err, "finding student record")
	}
	return row.unboil(), nil
}

func (repo recordRepository) QueryRecords(ctx context.Context) ([]record.StudentRecord, error) {
	var rows []recordRow
	if err := queries.Raw(`SELECT ` + recordColumns + ` FROM student_record ORDER BY id`).Bind(ctx, repo.exec, &rows); err != nil {
		return nil, errors.Wrap(err, "querying student records")
	}
	recs := make([]record.StudentRecord, 0, len(rows))
	for _, r := range rows {
		recs = append(recs, r.unboil())
	}
	return recs, nil
}

// UpsertRecord relies on the unique user_id constraint: concurrent first edits
// of the same student resolve to a single row.
func (repo recordRepository) UpsertRecord(ctx context.Context, userID int, grades string) (record.StudentRecord, error) {
	var row recordRow
	err := queries.Raw(
		`INSERT INTO student_record (user_id, grades) VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET grades = EXCLUDED.grades
		RETURNING `+recordColumns,
		userID, grades,
	).Bind(ctx, repo.exec, &row)
	if err != nil {
		return record.StudentRecord{}, errors.Wrap(err, "upserting student record")
	}
	return row.unboil(), nil
}
