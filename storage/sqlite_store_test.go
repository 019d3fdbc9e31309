package storage

import (
	"errors"
	"path/filepath"
	"testing"

	"roomload/schedule"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "roomload_test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleRows() []schedule.Row {
	return []schedule.Row{
		{Number: 2, Values: map[string]string{"SCHEDULE": "8:00 AM-9:00 AM", "ROOM": "201", "UNITS ": "3"}},
		{Number: 4, Values: map[string]string{"SCHEDULE": "9:00 AM-10:00 AM", "ROOM": "IR"}},
	}
}

func TestSQLiteStore_RoundTripsRowsInImportOrder(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)

	inserted, err := store.ReplaceSourceRows("a.xlsx", sampleRows())
	if err != nil {
		t.Fatalf("insert rows: %v", err)
	}
	if inserted != 2 {
		t.Fatalf("expected 2 inserted rows, got %d", inserted)
	}
	if _, err := store.ReplaceSourceRows("b.csv", []schedule.Row{
		{Number: 2, Values: map[string]string{"ROOM": "SR"}},
	}); err != nil {
		t.Fatalf("insert rows: %v", err)
	}

	rows, err := store.ListRows()
	if err != nil {
		t.Fatalf("list rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].Number != 2 || rows[0].Values["UNITS "] != "3" {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
	if rows[1].Number != 4 || rows[2].Values["ROOM"] != "SR" {
		t.Fatalf("unexpected order: %+v", rows)
	}
}

func TestSQLiteStore_ReimportReplacesSourceRows(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)

	if _, err := store.ReplaceSourceRows("a.xlsx", sampleRows()); err != nil {
		t.Fatalf("insert rows: %v", err)
	}
	if _, err := store.ReplaceSourceRows("a.xlsx", sampleRows()[:1]); err != nil {
		t.Fatalf("reimport rows: %v", err)
	}

	sources, err := store.ListSources()
	if err != nil {
		t.Fatalf("list sources: %v", err)
	}
	if len(sources) != 1 || sources[0].File != "a.xlsx" || sources[0].Rows != 1 {
		t.Fatalf("unexpected sources: %+v", sources)
	}
	if sources[0].ImportedAt.IsZero() {
		t.Fatalf("expected imported timestamp")
	}
}

func TestSQLiteStore_DeleteAllRows(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)

	if _, err := store.ReplaceSourceRows("a.xlsx", sampleRows()); err != nil {
		t.Fatalf("insert rows: %v", err)
	}

	deleted, err := store.DeleteAllRows()
	if err != nil {
		t.Fatalf("delete rows: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("expected 2 deleted rows, got %d", deleted)
	}

	if _, err := store.ListRows(); !errors.Is(err, ErrRowsNotFound) {
		t.Fatalf("expected ErrRowsNotFound, got %v", err)
	}
}
