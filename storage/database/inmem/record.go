package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/academia/core/record"
)

type recordRepository struct {
	db *recordTable
}

var _ record.Repository = (*recordRepository)(nil) // interface compliance check

func NewRecordRepository(db *DB) *recordRepository {
	return &recordRepository{db: db.record}
}

func (repo *recordRepository) GetRecord(_ context.Context, userID int) (record.StudentRecord, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if rec, ok := repo.db.table[userID]; ok {
		return *rec, nil
	}
	return record.StudentRecord{}, record.ErrNotFound
}

func (repo *recordRepository) QueryRecords(_ context.Context) ([]record.StudentRecord, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	recs := make([]record.StudentRecord, 0, len(repo.db.table))
	for _, rec := range repo.db.table {
		recs = append(recs, *rec)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].ID < recs[j].ID })
	return recs, nil
}

func (repo *recordRepository) UpsertRecord(_ context.Context, userID int, grades string) (record.StudentRecord, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	rec, ok := repo.db.table[userID]
	if !ok {
		repo.db.pk++
		rec = &record.StudentRecord{ID: repo.db.pk, UserID: userID}
		repo.db.table[userID] = rec
	}
	rec.Grades = grades
	return *rec, nil
}
