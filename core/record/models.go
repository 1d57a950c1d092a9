package record

// StudentRecord holds the grades of one student User. There is at most one per UserID.
type StudentRecord struct {
	ID     int    `json:"id"`
	UserID int    `json:"user_id"`
	Grades string `json:"grades"` // free-form, caller-defined encoding
}

// GradesUpdate is the payload used to set a student's grades.
type GradesUpdate struct {
	Grades string `json:"grades"`
}

// ImportRow is one parsed line of a grades CSV.
type ImportRow struct {
	StudentID string
	Grades    string

	missing  []string // required columns absent from the line
	parseErr error
}

// SkippedRow reports a row of a bulk import that was not applied.
// RowIndex is the 0-based index of the data row (the header excluded).
type SkippedRow struct {
	RowIndex int    `json:"row_index"`
	Reason   string `json:"reason"`
}

type ImportSummary struct {
	AppliedCount int          `json:"applied_count"`
	SkippedRows  []SkippedRow `json:"skipped_rows"`
}
