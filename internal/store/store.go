package store

import (
	"sync"

	"github.com/koinonia-app/core/internal/entity"
	"golang.org/x/exp/slices"
)

// Store is the in-memory mirror of the remote collections and the single
// source of truth for the UI. It is written only by the snapshot loader (full
// replace), the change-feed subscriber (per-collection replace) and the
// mutation gateway (append, replace-by-id, remove-by-id).
type Store struct {
	mutex       sync.RWMutex
	collections map[entity.Table]any
}

func New() *Store {
	return &Store{collections: make(map[entity.Table]any)}
}

// Snapshot is a staged set of collections built off-store and committed in one
// pass, so a half-finished load never leaks into the visible state.
type Snapshot struct {
	collections map[entity.Table]any
}

func NewSnapshot() *Snapshot {
	return &Snapshot{collections: make(map[entity.Table]any)}
}

func SnapshotSet[T entity.Record](snap *Snapshot, table entity.Table, rows []T) {
	snap.collections[table] = slices.Clone(rows)
}

// Apply replaces every collection present in the snapshot. Collections the
// snapshot does not mention are left untouched.
func (s *Store) Apply(snap *Snapshot) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for table, rows := range snap.collections {
		s.collections[table] = rows
	}
}

func (s *Store) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.collections = make(map[entity.Table]any)
}

// Rows returns a copy of a collection in its loaded order.
func Rows[T entity.Record](s *Store, table entity.Table) []T {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	rows, ok := s.collections[table].([]T)
	if !ok {
		return nil
	}

	return slices.Clone(rows)
}

func Set[T entity.Record](s *Store, table entity.Table, rows []T) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.collections[table] = slices.Clone(rows)
}

func Append[T entity.Record](s *Store, table entity.Table, row T) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	rows, _ := s.collections[table].([]T)
	s.collections[table] = append(rows, row)
}

// Upsert replaces the row with the same id, or appends when absent.
func Upsert[T entity.Record](s *Store, table entity.Table, row T) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	rows, _ := s.collections[table].([]T)
	index := slices.IndexFunc(rows, func(r T) bool { return r.RecordID() == row.RecordID() })
	if index < 0 {
		s.collections[table] = append(rows, row)
		return
	}

	rows = slices.Clone(rows)
	rows[index] = row
	s.collections[table] = rows
}

func Remove[T entity.Record](s *Store, table entity.Table, ids ...string) {
	RemoveWhere[T](s, table, func(r T) bool {
		return slices.Contains(ids, r.RecordID())
	})
}

func RemoveWhere[T entity.Record](s *Store, table entity.Table, pred func(T) bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	rows, ok := s.collections[table].([]T)
	if !ok {
		return
	}

	kept := make([]T, 0, len(rows))
	for _, r := range rows {
		if !pred(r) {
			kept = append(kept, r)
		}
	}

	s.collections[table] = kept
}

func Find[T entity.Record](s *Store, table entity.Table, pred func(T) bool) (T, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	rows, _ := s.collections[table].([]T)
	index := slices.IndexFunc(rows, pred)
	if index < 0 {
		var zero T
		return zero, false
	}

	return rows[index], true
}

func Get[T entity.Record](s *Store, table entity.Table, id string) (T, bool) {
	return Find(s, table, func(r T) bool { return r.RecordID() == id })
}

func CountWhere[T entity.Record](s *Store, table entity.Table, pred func(T) bool) int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	count := 0
	rows, _ := s.collections[table].([]T)
	for _, r := range rows {
		if pred(r) {
			count++
		}
	}

	return count
}
