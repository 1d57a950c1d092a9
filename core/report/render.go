package report

import (
	"bytes"
	"encoding/csv"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/record"
	"github.com/trezcool/academia/core/user"
)

// Format of an exported record.
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"

	// NoGrades stands in for the grades of a student without a record.
	NoGrades = "N/A"
)

var errUnknownFormat = errors.New("unknown export format")

func ParseFormat(s string) (Format, error) {
	switch f := Format(core.CleanString(s, true /* lower */)); f {
	case FormatCSV, FormatPDF:
		return f, nil
	}
	return "", core.NewValidationError(errUnknownFormat, core.FieldError{Field: "format", Error: "format must be one of: csv, pdf"})
}

func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "text/csv; charset=utf-8"
}

func (f Format) Extension() string { return "." + string(f) }

// RenderRecord renders the record of usr. A nil rec renders as NoGrades.
func RenderRecord(format Format, usr user.User, rec *record.StudentRecord) ([]byte, error) {
	grades := NoGrades
	if rec != nil {
		grades = rec.Grades
	}

	switch format {
	case FormatCSV:
		return renderCSV(usr.Username, grades)
	case FormatPDF:
		return renderPDF(usr.Username, grades)
	}
	return nil, errUnknownFormat
}

func renderCSV(uname, grades string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll([][]string{
		{"Username", "Grades"},
		{uname, grades},
	}); err != nil {
		return nil, errors.Wrap(err, "writing CSV")
	}
	return buf.Bytes(), nil
}

func renderPDF(uname, grades string) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetCompression(false)
	pdf.SetTitle("Student Record for "+uname, true)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 12)

	// core fonts are cp1252
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.Text(100, 50, tr("Student Record for "+uname))
	pdf.Text(100, 80, tr("Grades: "+grades))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(err, "writing PDF")
	}
	return buf.Bytes(), nil
}
