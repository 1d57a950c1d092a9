package schedule

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/policy"
)

const (
	// ReminderWindow is how far ahead of now reminders look.
	ReminderWindow = 3 * 24 * time.Hour

	// MaxEventLen is the size of the schedule.event column, in characters.
	MaxEventLen = 255
)

var (
	errBlankEvent   = errors.New("event cannot be blank")
	errEventTooLong = fmt.Errorf("event cannot exceed %d characters", MaxEventLen)
)

type Repository interface {
	CreateSchedule(ctx context.Context, s Schedule) (Schedule, error)
	// QuerySchedules returns the matching schedules ordered by Time, then ID.
	QuerySchedules(ctx context.Context, filter QueryFilter) ([]Schedule, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create adds a Schedule owned by the actor. The time is stored in TimeLayout.
func (svc *Service) Create(ctx context.Context, actor policy.Actor, ns NewSchedule) (Schedule, error) {
	event := core.CleanString(ns.Event)
	if event == "" {
		return Schedule{}, core.NewValidationError(errBlankEvent, core.FieldError{Field: "event", Error: errBlankEvent.Error()})
	}
	if utf8.RuneCountInString(event) > MaxEventLen {
		return Schedule{}, core.NewValidationError(errEventTooLong, core.FieldError{Field: "event", Error: errEventTooLong.Error()})
	}
	t, err := ParseTime(strings.TrimSpace(ns.Time))
	if err != nil {
		return Schedule{}, core.NewValidationError(err, core.FieldError{Field: "time", Error: "time must be an RFC 3339 timestamp"})
	}

	s, err := svc.repo.CreateSchedule(ctx, Schedule{UserID: actor.ID, Event: event, Time: FormatTime(t)})
	if err != nil {
		return Schedule{}, core.NewStorageError(err, "creating schedule")
	}
	return s, nil
}

func (svc *Service) ListEvents(ctx context.Context, userID int) ([]Event, error) {
	schedules, err := svc.repo.QuerySchedules(ctx, QueryFilter{UserID: userID})
	if err != nil {
		return nil, core.NewStorageError(err, "querying schedules")
	}
	events := make([]Event, 0, len(schedules))
	for _, s := range schedules {
		events = append(events, Event{Title: s.Event, Start: s.Time})
	}
	return events, nil
}

// ListReminders returns the schedules of userID due no later than now + ReminderWindow.
func (svc *Service) ListReminders(ctx context.Context, userID int, now time.Time) ([]Reminder, error) {
	until := FormatTime(now.Add(ReminderWindow))
	schedules, err := svc.repo.QuerySchedules(ctx, QueryFilter{UserID: userID, Until: until})
	if err != nil {
		return nil, core.NewStorageError(err, "querying schedules")
	}
	reminders := make([]Reminder, 0, len(schedules))
	for _, s := range schedules {
		reminders = append(reminders, Reminder{Event: s.Event, Time: s.Time})
	}
	return reminders, nil
}
