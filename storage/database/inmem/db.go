package inmemdb

import (
	"sync"

	"github.com/trezcool/academia/core/assignment"
	"github.com/trezcool/academia/core/record"
	"github.com/trezcool/academia/core/schedule"
	"github.com/trezcool/academia/core/user"
)

// DB is an in-memory store used for tests & local development without postgres.
type DB struct {
	user       *userTable
	record     *recordTable
	assignment *assignmentTable
	schedule   *scheduleTable
}

type (
	userTable struct {
		sync.RWMutex
		pk    int
		table map[int]*user.User
	}

	recordTable struct {
		sync.RWMutex
		pk    int
		table map[int]*record.StudentRecord // {userID: record}; one record per user
	}

	assignmentTable struct {
		sync.RWMutex
		pk    int
		table map[int]*assignment.Assignment
	}

	scheduleTable struct {
		sync.RWMutex
		pk    int
		table map[int]*schedule.Schedule
	}
)

func Open() *DB {
	return &DB{
		user:       &userTable{table: make(map[int]*user.User)},
		record:     &recordTable{table: make(map[int]*record.StudentRecord)},
		assignment: &assignmentTable{table: make(map[int]*assignment.Assignment)},
		schedule:   &scheduleTable{table: make(map[int]*schedule.Schedule)},
	}
}

// Reset empties all tables.
func (db *DB) Reset() {
	db.user.Lock()
	db.user.pk, db.user.table = 0, make(map[int]*user.User)
	db.user.Unlock()

	db.record.Lock()
	db.record.pk, db.record.table = 0, make(map[int]*record.StudentRecord)
	db.record.Unlock()

	db.assignment.Lock()
	db.assignment.pk, db.assignment.table = 0, make(map[int]*assignment.Assignment)
	db.assignment.Unlock()

	db.schedule.Lock()
	db.schedule.pk, db.schedule.table = 0, make(map[int]*schedule.Schedule)
	db.schedule.Unlock()
}
