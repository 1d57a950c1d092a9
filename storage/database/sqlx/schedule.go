package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core/schedule"
)

type scheduleRow struct {
	ID     int    `db:"id"`
	UserID int    `db:"user_id"`
	Event  string `db:"event"`
	Time   string `db:"time"`
}

type scheduleRepository struct {
	db sqlx.ExtContext
}

var _ schedule.Repository = (*scheduleRepository)(nil) // interface compliance check

func NewScheduleRepository(db sqlx.ExtContext) *scheduleRepository {
	return &scheduleRepository{db: db}
}

func (repo scheduleRepository) CreateSchedule(ctx context.Context, s schedule.Schedule) (schedule.Schedule, error) {
	err := sqlx.GetContext(ctx, repo.db, &s.ID,
		`INSERT INTO schedule (user_id, event, time) VALUES ($1, $2, $3) RETURNING id`,
		s.UserID, s.Event, s.Time,
	)
	if err != nil {
		return schedule.Schedule{}, errors.Wrap(err, "inserting schedule")
	}
	return s, nil
}

// QuerySchedules compares times as strings; they are all stored in schedule.TimeLayout.
func (repo scheduleRepository) QuerySchedules(ctx context.Context, filter schedule.QueryFilter) ([]schedule.Schedule, error) {
	q := `SELECT id, user_id, event, time FROM schedule WHERE user_id = $1`
	args := []interface{}{filter.UserID}
	if filter.Until != "" {
		q += ` AND time <= $2`
		args = append(args, filter.Until)
	}
	q += ` ORDER BY time, id`

	var rows []scheduleRow
	if err := sqlx.SelectContext(ctx, repo.db, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying schedules")
	}
	schedules := make([]schedule.Schedule, 0, len(rows))
	for _, r := range rows {
		schedules = append(schedules, schedule.Schedule{ID: r.ID, UserID: r.UserID, Event: r.Event, Time: r.Time})
	}
	return schedules, nil
}
