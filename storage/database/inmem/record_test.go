package inmemdb

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

func TestRecordRepository_UpsertRecord(t *testing.T) {
	repo := NewRecordRepository(Open())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := repo.UpsertRecord(ctx, 7, fmt.Sprintf("G%d", i)); err != nil {
				t.Errorf("UpsertRecord() error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	recs, err := repo.QueryRecords(ctx)
	if err != nil {
		t.Fatalf("QueryRecords() error = %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	if recs[0].ID != 1 || recs[0].UserID != 7 {
		t.Errorf("record = %+v, want ID 1 for user 7", recs[0])
	}
}

func TestDB_Reset(t *testing.T) {
	db := Open()
	ctx := context.Background()
	repo := NewRecordRepository(db)

	if _, err := repo.UpsertRecord(ctx, 1, "A"); err != nil {
		t.Fatalf("UpsertRecord() error = %v", err)
	}
	db.Reset()

	recs, _ := repo.QueryRecords(ctx)
	if len(recs) != 0 {
		t.Errorf("got %d records after Reset, want 0", len(recs))
	}
	rec, _ := repo.UpsertRecord(ctx, 1, "B")
	if rec.ID != 1 {
		t.Errorf("record ID = %d after Reset, want 1", rec.ID)
	}
}
