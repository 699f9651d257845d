package store

import (
	"testing"

	"ecc-register/internal/database"
	"ecc-register/internal/model"
)

func setupCategoryTestDB(t *testing.T) (*CategoryStore, *EventStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewCategoryStore(db), NewEventStore(db)
}

func TestCategoryCRUD(t *testing.T) {
	cs, es := setupCategoryTestDB(t)

	event, _ := es.Create("Conference")

	// Create
	category, err := cs.Create(event.ID, "Red")
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	if category.ID == "" {
		t.Error("expected non-empty id")
	}
	if category.EventID != event.ID {
		t.Errorf("event_id = %q, want %q", category.EventID, event.ID)
	}
	if category.Name != "Red" {
		t.Errorf("name = %q, want %q", category.Name, "Red")
	}

	// Get by ID
	got, err := cs.GetByID(category.ID)
	if err != nil {
		t.Fatalf("get category: %v", err)
	}
	if got == nil {
		t.Fatal("expected category, got nil")
	}

	// Update
	updated, err := cs.Update(category.ID, "Crimson")
	if err != nil {
		t.Fatalf("update category: %v", err)
	}
	if updated.Name != "Crimson" {
		t.Errorf("name = %q, want %q", updated.Name, "Crimson")
	}

	// Delete
	if err := cs.Delete(category.ID); err != nil {
		t.Fatalf("delete category: %v", err)
	}
	got, err = cs.GetByID(category.ID)
	if err != nil {
		t.Fatalf("get deleted category: %v", err)
	}
	if got != nil {
		t.Error("expected nil after delete")
	}
}

func TestCategoryNotFound(t *testing.T) {
	cs, _ := setupCategoryTestDB(t)

	got, err := cs.GetByID("missing")
	if err != nil {
		t.Fatalf("get category: %v", err)
	}
	if got != nil {
		t.Error("expected nil for non-existent category")
	}
}

func TestCategoryListScopedToEvent(t *testing.T) {
	cs, es := setupCategoryTestDB(t)

	e1, _ := es.Create("One")
	e2, _ := es.Create("Two")

	cs.Create(e1.ID, "Red")
	cs.Create(e1.ID, "Blue")
	cs.Create(e2.ID, "Green")

	categories, err := cs.ListByEvent(e1.ID)
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(categories))
	}
	for _, c := range categories {
		if c.EventID != e1.ID {
			t.Errorf("category %q leaked from another event", c.Name)
		}
	}
}

func TestCategoryRenameLeavesAttendeeSnapshots(t *testing.T) {
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	es := NewEventStore(db)
	cs := NewCategoryStore(db)
	as := NewAttendeeStore(db)

	event, _ := es.Create("Conference")
	category, _ := cs.Create(event.ID, "Red")
	attendee, _ := as.Create(event.ID, "Ann", &model.CategoryRef{ID: category.ID, Name: category.Name})

	if _, err := cs.Update(category.ID, "Crimson"); err != nil {
		t.Fatalf("rename category: %v", err)
	}

	// The attendee's embedded copy is a snapshot of assignment time.
	got, _ := as.GetByID(attendee.ID)
	if got.Category == nil {
		t.Fatal("expected category ref")
	}
	if got.Category.Name != "Red" {
		t.Errorf("ref name = %q, want the stale snapshot %q", got.Category.Name, "Red")
	}
}
