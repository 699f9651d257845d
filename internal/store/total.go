package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ecc-register/internal/model"
)

type TotalStore struct {
	db *sql.DB
}

func NewTotalStore(db *sql.DB) *TotalStore {
	return &TotalStore{db: db}
}

func scanTotal(scanner interface{ Scan(...any) error }) (*model.Total, error) {
	var t model.Total
	var categoryIDs string

	err := scanner.Scan(&t.ID, &t.EventID, &t.Name, &categoryIDs, &t.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(categoryIDs), &t.Categories); err != nil {
		return nil, fmt.Errorf("decode category ids: %w", err)
	}
	if t.Categories == nil {
		t.Categories = []string{}
	}
	return &t, nil
}

const totalCols = `id, event_id, name, category_ids, created_at`

func encodeCategoryIDs(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("encode category ids: %w", err)
	}
	return string(data), nil
}

func (s *TotalStore) Create(eventID, name string, categoryIDs []string) (*model.Total, error) {
	id := uuid.NewString()
	createdAt := time.Now().UnixMilli()

	encoded, err := encodeCategoryIDs(categoryIDs)
	if err != nil {
		return nil, err
	}

	_, err = s.db.Exec(
		`INSERT INTO totals (id, event_id, name, category_ids, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, eventID, name, encoded, createdAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert total: %w", err)
	}
	return s.GetByID(id)
}

func (s *TotalStore) GetByID(id string) (*model.Total, error) {
	row := s.db.QueryRow(`SELECT `+totalCols+` FROM totals WHERE id = ?`, id)
	t, err := scanTotal(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get total: %w", err)
	}
	return t, nil
}

func (s *TotalStore) ListByEvent(eventID string) ([]model.Total, error) {
	rows, err := s.db.Query(
		`SELECT `+totalCols+` FROM totals WHERE event_id = ? ORDER BY created_at DESC`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("list totals: %w", err)
	}
	defer rows.Close()

	var totals []model.Total
	for rows.Next() {
		t, err := scanTotal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan total: %w", err)
		}
		totals = append(totals, *t)
	}
	return totals, rows.Err()
}

func (s *TotalStore) Update(id, name string, categoryIDs []string) (*model.Total, error) {
	encoded, err := encodeCategoryIDs(categoryIDs)
	if err != nil {
		return nil, err
	}

	_, err = s.db.Exec(
		`UPDATE totals SET name = ?, category_ids = ? WHERE id = ?`,
		name, encoded, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update total: %w", err)
	}
	return s.GetByID(id)
}

func (s *TotalStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM totals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete total: %w", err)
	}
	return nil
}
