package schedule

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
)

// TimeLayout is the one layout Schedule.Time is stored in (always UTC, "Z" suffixed),
// so that stored times order the same lexicographically and chronologically.
const TimeLayout = "2006-01-02T15:04:05Z"

type Schedule struct {
	ID     int    `json:"id"`
	UserID int    `json:"user_id"`
	Event  string `json:"event"`
	Time   string `json:"time"` // TimeLayout
}

// Event is the calendar view of a Schedule.
type Event struct {
	Title string `json:"title"`
	Start string `json:"start"`
}

// Reminder is the reminder view of a Schedule.
type Reminder struct {
	Event string `json:"event"`
	Time  string `json:"time"`
}

// NewSchedule contains information needed to create a new Schedule.
// Time accepts any RFC 3339 timestamp; it is normalized to TimeLayout.
type NewSchedule struct {
	Event string `json:"event" validate:"required,notblank,max=255"`
	Time  string `json:"time" validate:"required"`
}

func (ns *NewSchedule) Validate(validate *validator.Validate) error {
	ns.Event = core.CleanString(ns.Event)
	ns.Time = core.CleanString(ns.Time)
	if err := validate.Struct(ns); err != nil {
		return err
	}
	t, err := ParseTime(ns.Time)
	if err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "time", Error: "time must be an RFC 3339 timestamp"})
	}
	ns.Time = FormatTime(t)
	return nil
}

// QueryFilter filters the schedules of one user.
// Until, when set, keeps schedules whose Time <= Until (TimeLayout string comparison).
type QueryFilter struct {
	UserID int
	Until  string
}

func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime parses RFC 3339 timestamps, with or without fractional seconds.
// Timestamps without an offset are taken as UTC.
func ParseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02T15:04:05", s, time.UTC)
}
