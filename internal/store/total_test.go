package store

import (
	"testing"

	"ecc-register/internal/database"
)

func setupTotalTestDB(t *testing.T) (*TotalStore, *EventStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewTotalStore(db), NewEventStore(db)
}

func TestTotalCRUD(t *testing.T) {
	ts, es := setupTotalTestDB(t)

	event, _ := es.Create("Conference")

	// Create
	total, err := ts.Create(event.ID, "All Teams", []string{"c1", "c2"})
	if err != nil {
		t.Fatalf("create total: %v", err)
	}
	if total.Name != "All Teams" {
		t.Errorf("name = %q, want %q", total.Name, "All Teams")
	}
	if len(total.Categories) != 2 {
		t.Fatalf("expected 2 category ids, got %d", len(total.Categories))
	}

	// Update
	updated, err := ts.Update(total.ID, "Everyone", []string{"c1", "c2", "c3"})
	if err != nil {
		t.Fatalf("update total: %v", err)
	}
	if updated.Name != "Everyone" {
		t.Errorf("name = %q, want %q", updated.Name, "Everyone")
	}
	if len(updated.Categories) != 3 {
		t.Errorf("expected 3 category ids, got %d", len(updated.Categories))
	}

	// Delete
	if err := ts.Delete(total.ID); err != nil {
		t.Fatalf("delete total: %v", err)
	}
	got, err := ts.GetByID(total.ID)
	if err != nil {
		t.Fatalf("get deleted total: %v", err)
	}
	if got != nil {
		t.Error("expected nil after delete")
	}
}

func TestTotalEmptyCategories(t *testing.T) {
	ts, es := setupTotalTestDB(t)

	event, _ := es.Create("Conference")

	total, err := ts.Create(event.ID, "Empty", nil)
	if err != nil {
		t.Fatalf("create total: %v", err)
	}
	if total.Categories == nil {
		t.Error("expected empty slice, got nil")
	}
	if len(total.Categories) != 0 {
		t.Errorf("expected 0 category ids, got %d", len(total.Categories))
	}
}

func TestTotalDuplicateCategoryIDs(t *testing.T) {
	ts, es := setupTotalTestDB(t)

	event, _ := es.Create("Conference")

	// Duplicates are stored as given; deduplication happens at tally time.
	total, err := ts.Create(event.ID, "Doubled", []string{"c1", "c1"})
	if err != nil {
		t.Fatalf("create total: %v", err)
	}
	if len(total.Categories) != 2 {
		t.Errorf("expected 2 stored ids, got %d", len(total.Categories))
	}
}

func TestTotalListScopedToEvent(t *testing.T) {
	ts, es := setupTotalTestDB(t)

	e1, _ := es.Create("One")
	e2, _ := es.Create("Two")

	ts.Create(e1.ID, "A", []string{"c1"})
	ts.Create(e2.ID, "B", []string{"c2"})

	totals, err := ts.ListByEvent(e1.ID)
	if err != nil {
		t.Fatalf("list totals: %v", err)
	}
	if len(totals) != 1 {
		t.Fatalf("expected 1 total, got %d", len(totals))
	}
	if totals[0].Name != "A" {
		t.Errorf("name = %q, want %q", totals[0].Name, "A")
	}
}
