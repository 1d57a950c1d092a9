package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/academia/core/schedule"
)

type scheduleRepository struct {
	db *scheduleTable
}

var _ schedule.Repository = (*scheduleRepository)(nil) // interface compliance check

func NewScheduleRepository(db *DB) *scheduleRepository {
	return &scheduleRepository{db: db.schedule}
}

func (repo *scheduleRepository) CreateSchedule(_ context.Context, s schedule.Schedule) (schedule.Schedule, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.pk++
	s.ID = repo.db.pk
	repo.db.table[s.ID] = &s
	return s, nil
}

func (repo *scheduleRepository) QuerySchedules(_ context.Context, filter schedule.QueryFilter) ([]schedule.Schedule, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	schedules := make([]schedule.Schedule, 0)
	for _, s := range repo.db.table {
		if filter.UserID != 0 && s.UserID != filter.UserID {
			continue
		}
		if filter.Until != "" && s.Time > filter.Until {
			continue
		}
		schedules = append(schedules, *s)
	}
	sort.Slice(schedules, func(i, j int) bool {
		if schedules[i].Time != schedules[j].Time {
			return schedules[i].Time < schedules[j].Time
		}
		return schedules[i].ID < schedules[j].ID
	})
	return schedules, nil
}
