package assignment

import "time"

// Assignment is the metadata of a file submitted by a student.
// The file content lives in the BlobStore under BlobRef.
type Assignment struct {
	ID        int       `json:"id"`
	StudentID int       `json:"student_id"`
	Filename  string    `json:"filename"`
	BlobRef   string    `json:"-"`
	CreatedAt time.Time `json:"created_at"` // UTC
}
