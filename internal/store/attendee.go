package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ecc-register/internal/model"
)

type AttendeeStore struct {
	db *sql.DB
}

func NewAttendeeStore(db *sql.DB) *AttendeeStore {
	return &AttendeeStore{db: db}
}

func scanAttendee(scanner interface{ Scan(...any) error }) (*model.Attendee, error) {
	var a model.Attendee
	var categoryID, categoryName sql.NullString
	var present int

	err := scanner.Scan(&a.ID, &a.EventID, &a.Name, &categoryID, &categoryName, &present, &a.CreatedAt)
	if err != nil {
		return nil, err
	}

	a.Present = present != 0
	if categoryID.Valid {
		a.Category = &model.CategoryRef{ID: categoryID.String, Name: categoryName.String}
	}
	return &a, nil
}

const attendeeCols = `id, event_id, name, category_id, category_name, present, created_at`

func categoryRefColumns(ref *model.CategoryRef) (sql.NullString, sql.NullString) {
	if ref == nil {
		return sql.NullString{}, sql.NullString{}
	}
	return sql.NullString{String: ref.ID, Valid: true}, sql.NullString{String: ref.Name, Valid: true}
}

func (s *AttendeeStore) Create(eventID, name string, category *model.CategoryRef) (*model.Attendee, error) {
	id := uuid.NewString()
	createdAt := time.Now().UnixMilli()
	catID, catName := categoryRefColumns(category)

	_, err := s.db.Exec(
		`INSERT INTO attendees (id, event_id, name, category_id, category_name, present, created_at) VALUES (?, ?, ?, ?, ?, 0, ?)`,
		id, eventID, name, catID, catName, createdAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert attendee: %w", err)
	}
	return s.GetByID(id)
}

func (s *AttendeeStore) GetByID(id string) (*model.Attendee, error) {
	row := s.db.QueryRow(`SELECT `+attendeeCols+` FROM attendees WHERE id = ?`, id)
	a, err := scanAttendee(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get attendee: %w", err)
	}
	return a, nil
}

func (s *AttendeeStore) ListByEvent(eventID string) ([]model.Attendee, error) {
	rows, err := s.db.Query(
		`SELECT `+attendeeCols+` FROM attendees WHERE event_id = ? ORDER BY created_at DESC`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("list attendees: %w", err)
	}
	defer rows.Close()

	var attendees []model.Attendee
	for rows.Next() {
		a, err := scanAttendee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attendee: %w", err)
		}
		attendees = append(attendees, *a)
	}
	return attendees, rows.Err()
}

// ListByCategory returns attendees whose denormalized ref still points at
// the given category id, including refs left dangling by a deletion.
func (s *AttendeeStore) ListByCategory(eventID, categoryID string) ([]model.Attendee, error) {
	rows, err := s.db.Query(
		`SELECT `+attendeeCols+` FROM attendees WHERE event_id = ? AND category_id = ? ORDER BY created_at DESC`,
		eventID, categoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("list attendees by category: %w", err)
	}
	defer rows.Close()

	var attendees []model.Attendee
	for rows.Next() {
		a, err := scanAttendee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attendee: %w", err)
		}
		attendees = append(attendees, *a)
	}
	return attendees, rows.Err()
}

// Update replaces name and category assignment. The category ref passed in
// becomes the new snapshot; pass nil to move the attendee to "No Category".
func (s *AttendeeStore) Update(id, name string, category *model.CategoryRef) (*model.Attendee, error) {
	catID, catName := categoryRefColumns(category)

	_, err := s.db.Exec(
		`UPDATE attendees SET name = ?, category_id = ?, category_name = ? WHERE id = ?`,
		name, catID, catName, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update attendee: %w", err)
	}
	return s.GetByID(id)
}

// SetPresent writes one attendee's present flag. Last write wins; there is
// no optimistic concurrency at the document level.
func (s *AttendeeStore) SetPresent(id string, present bool) (*model.Attendee, error) {
	p := 0
	if present {
		p = 1
	}
	_, err := s.db.Exec(`UPDATE attendees SET present = ? WHERE id = ?`, p, id)
	if err != nil {
		return nil, fmt.Errorf("set present: %w", err)
	}
	return s.GetByID(id)
}

// ClearPresent sets present = false for every attendee in the event inside
// a single transaction: either all attendees are cleared or none are.
func (s *AttendeeStore) ClearPresent(eventID string) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin clear present: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`UPDATE attendees SET present = 0 WHERE event_id = ?`, eventID)
	if err != nil {
		return 0, fmt.Errorf("clear present: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit clear present: %w", err)
	}
	return count, nil
}

// ClearCategory removes the denormalized category ref from one attendee,
// moving it to the "No Category" state. Used by reconciliation.
func (s *AttendeeStore) ClearCategory(id string) error {
	_, err := s.db.Exec(
		`UPDATE attendees SET category_id = NULL, category_name = NULL WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("clear category: %w", err)
	}
	return nil
}

func (s *AttendeeStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM attendees WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete attendee: %w", err)
	}
	return nil
}
