package record

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
)

// required CSV columns; header names must match exactly
const (
	colStudentID = "student_id"
	colGrades    = "grades"
)

// NewImportRow builds a row as if it had been read from a CSV.
func NewImportRow(studentID, grades string) ImportRow {
	return ImportRow{StudentID: studentID, Grades: grades}
}

// ParseCSV reads a grades CSV. Columns other than student_id and grades are ignored.
// Only a missing or unreadable header fails the whole parse; broken lines are
// returned as rows to be skipped by ImportGrades.
func ParseCSV(r io.Reader) ([]ImportRow, error) {
	rdr := csv.NewReader(r)
	rdr.FieldsPerRecord = -1 // rows are checked one by one

	header, err := rdr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, core.NewValidationError(errors.New("empty CSV"), core.FieldError{Field: "file", Error: "empty CSV"})
		}
		return nil, core.NewValidationError(errors.Wrap(err, "reading CSV header"))
	}

	sidIdx, gradesIdx := -1, -1
	for i, col := range header {
		if i == 0 {
			col = strings.TrimPrefix(col, "\ufeff") // UTF-8 BOM
		}
		switch col {
		case colStudentID:
			sidIdx = i
		case colGrades:
			gradesIdx = i
		}
	}
	var missing []core.FieldError
	if sidIdx < 0 {
		missing = append(missing, core.FieldError{Field: colStudentID, Error: "missing CSV column"})
	}
	if gradesIdx < 0 {
		missing = append(missing, core.FieldError{Field: colGrades, Error: "missing CSV column"})
	}
	if missing != nil {
		return nil, core.NewValidationError(errors.New("CSV header must contain student_id and grades"), missing...)
	}

	var rows []ImportRow
	for {
		rec, err := rdr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pErr *csv.ParseError
			if errors.As(err, &pErr) {
				rows = append(rows, ImportRow{parseErr: pErr})
				continue
			}
			return nil, errors.Wrap(err, "reading CSV")
		}

		var row ImportRow
		if sidIdx < len(rec) {
			row.StudentID = rec[sidIdx]
		} else {
			row.missing = append(row.missing, colStudentID)
		}
		if gradesIdx < len(rec) {
			row.Grades = rec[gradesIdx]
		} else {
			row.missing = append(row.missing, colGrades)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
