package store

import (
	"sync"

	"github.com/triagegrid/triagegrid/pkg/domain"
)

// RowStore owns the canonical ordered sequence of rows. The grid view only
// ever holds a rendering projection of a snapshot; all mutations go through
// the store. Write-backs are keyed by the row's stable identifier rather
// than its position, so a classification completing after the collection
// changed underneath it resolves to the right row or is discarded.
type RowStore struct {
	mu   sync.RWMutex
	rows []domain.Row
}

// New creates a store seeded with the given number of unclassified rows.
func New(initialRows int) *RowStore {
	rows := make([]domain.Row, 0, initialRows)
	for range initialRows {
		rows = append(rows, domain.NewRow())
	}
	return &RowStore{rows: rows}
}

// List returns a snapshot copy of all rows in order.
func (s *RowStore) List() []domain.Row {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Row, len(s.rows))
	copy(out, s.rows)
	return out
}

// Get returns the row with the given identifier.
func (s *RowStore) Get(id string) (domain.Row, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, row := range s.rows {
		if row.ID == id {
			return row, true
		}
	}
	return domain.Row{}, false
}

// Append adds one new unclassified row at the end and returns it.
func (s *RowStore) Append() domain.Row {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := domain.NewRow()
	s.rows = append(s.rows, row)
	return row
}

// ReplaceByID fully replaces the row carrying the given identifier.
// If the identifier no longer exists (the grid was cleared while a
// classification was in flight), the stale result is discarded and
// ReplaceByID returns false.
func (s *RowStore) ReplaceByID(id string, row domain.Row) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.rows {
		if s.rows[i].ID == id {
			row.ID = id
			s.rows[i] = row
			return true
		}
	}
	return false
}

// ResetAll returns every row to the unclassified state, message text
// included. The row count never changes; identifiers are regenerated so
// in-flight classifications for the old content cannot land on cleared rows.
func (s *RowStore) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.rows {
		s.rows[i].Reset()
	}
}

// Len reports the current row count.
func (s *RowStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.rows)
}
