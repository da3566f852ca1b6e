package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/koinonia-app/core/internal/entity"
	"github.com/koinonia-app/core/internal/remote"
	"github.com/koinonia-app/core/pkg/errorx"
	"golang.org/x/exp/slices"
)

// FakeRemote is an in-memory remote data service used as the fixture backend
// for tests: filtered reads, authoritative writes with server-assigned ids
// and timestamps, uniqueness constraints, and manually-driven change-feed
// events.
type FakeRemote struct {
	mutex   sync.Mutex
	tables  map[entity.Table][]remote.Row
	uniques map[entity.Table][][]string
	subs    []*fakeSubscription

	clock time.Time

	// FailReads and FailWrites force an error for a table.
	FailReads  map[entity.Table]error
	FailWrites map[entity.Table]error

	// CallFunc overrides remote procedure calls; Calls records their names.
	CallFunc func(procedure string, args map[string]any) (any, error)
	Calls    []string
}

func NewFakeRemote() *FakeRemote {
	return &FakeRemote{
		tables: make(map[entity.Table][]remote.Row),
		uniques: map[entity.Table][][]string{
			entity.TableReactions:       {{"post_id", "user_id", "type"}},
			entity.TablePrayerResponses: {{"prayer_request_id", "user_id"}},
			entity.TableUserBadges:      {{"user_id", "badge_id"}},
			entity.TableRSVPs:           {{"event_id", "user_id"}},
		},
		clock:      time.Now().Add(-time.Hour).UTC(),
		FailReads:  make(map[entity.Table]error),
		FailWrites: make(map[entity.Table]error),
	}
}

func (f *FakeRemote) Authorize(string) {}

// Seed inserts rows directly, assigning ids and timestamps when missing.
func (f *FakeRemote) Seed(table entity.Table, rows ...remote.Row) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	for _, row := range rows {
		f.tables[table] = append(f.tables[table], f.stamp(row))
	}
}

func (f *FakeRemote) Read(ctx context.Context, q remote.Query) ([]remote.Row, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if err := f.FailReads[q.Table]; err != nil {
		return nil, err
	}

	var result []remote.Row
	for _, row := range f.tables[q.Table] {
		if !matchesAll(row, q.Filters) || !matchesAny(row, q.AnyOf) {
			continue
		}

		result = append(result, cloneRow(row))
	}

	if q.Order != nil {
		column, descending := q.Order.Column, q.Order.Descending
		slices.SortStableFunc(result, func(a, b remote.Row) bool {
			if descending {
				return lessValue(b[column], a[column])
			}
			return lessValue(a[column], b[column])
		})
	}

	if q.Limit > 0 && len(result) > q.Limit {
		result = result[:q.Limit]
	}

	return result, nil
}

func (f *FakeRemote) Insert(
	ctx context.Context, table entity.Table, values map[string]any,
) (remote.Row, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if err := f.FailWrites[table]; err != nil {
		return nil, err
	}

	if f.violates(table, values, "") {
		return nil, errorx.New(errorx.AlreadyExists, "duplicate row in %s", table)
	}

	row := f.stamp(remote.Row(values))
	f.tables[table] = append(f.tables[table], row)
	return cloneRow(row), nil
}

func (f *FakeRemote) Update(
	ctx context.Context, table entity.Table, values map[string]any, filters ...remote.Filter,
) ([]remote.Row, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if err := f.FailWrites[table]; err != nil {
		return nil, err
	}

	var updated []remote.Row
	for _, row := range f.tables[table] {
		if !matchesAll(row, filters) {
			continue
		}

		for k, v := range values {
			row[k] = v
		}
		updated = append(updated, cloneRow(row))
	}

	return updated, nil
}

func (f *FakeRemote) Upsert(
	ctx context.Context, table entity.Table, values map[string]any, conflictColumns ...string,
) (remote.Row, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if err := f.FailWrites[table]; err != nil {
		return nil, err
	}

	for _, row := range f.tables[table] {
		conflict := len(conflictColumns) > 0
		for _, column := range conflictColumns {
			if !equalValue(row[column], values[column]) {
				conflict = false
				break
			}
		}

		if conflict {
			for k, v := range values {
				row[k] = v
			}
			return cloneRow(row), nil
		}
	}

	row := f.stamp(remote.Row(values))
	f.tables[table] = append(f.tables[table], row)
	return cloneRow(row), nil
}

func (f *FakeRemote) Delete(ctx context.Context, table entity.Table, filters ...remote.Filter) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if err := f.FailWrites[table]; err != nil {
		return err
	}

	kept := f.tables[table][:0]
	for _, row := range f.tables[table] {
		if !matchesAll(row, filters) {
			kept = append(kept, row)
		}
	}
	f.tables[table] = kept

	return nil
}

func (f *FakeRemote) Call(ctx context.Context, procedure string, args map[string]any) (any, error) {
	f.mutex.Lock()
	f.Calls = append(f.Calls, procedure)
	fn := f.CallFunc
	f.mutex.Unlock()

	if fn != nil {
		return fn(procedure, args)
	}

	return nil, nil
}

// Rows returns copies of a table's current rows.
func (f *FakeRemote) Rows(table entity.Table) []remote.Row {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	rows := make([]remote.Row, 0, len(f.tables[table]))
	for _, row := range f.tables[table] {
		rows = append(rows, cloneRow(row))
	}

	return rows
}

// CountRows counts rows whose columns all equal the given values.
func (f *FakeRemote) CountRows(table entity.Table, match map[string]any) int {
	count := 0
	for _, row := range f.Rows(table) {
		ok := true
		for column, value := range match {
			if !equalValue(row[column], value) {
				ok = false
				break
			}
		}
		if ok {
			count++
		}
	}

	return count
}

func (f *FakeRemote) stamp(row remote.Row) remote.Row {
	row = cloneRow(row)
	if _, ok := row["id"]; !ok {
		row["id"] = uuid.NewString()
	}
	if _, ok := row["created_at"]; !ok {
		f.clock = f.clock.Add(time.Second)
		row["created_at"] = f.clock
	}

	return row
}

func (f *FakeRemote) violates(table entity.Table, values map[string]any, skipID string) bool {
	for _, columns := range f.uniques[table] {
		for _, row := range f.tables[table] {
			if id, _ := row["id"].(string); skipID != "" && id == skipID {
				continue
			}

			same := true
			for _, column := range columns {
				if !equalValue(row[column], values[column]) {
					same = false
					break
				}
			}
			if same {
				return true
			}
		}
	}

	return false
}

func matchesAll(row remote.Row, filters []remote.Filter) bool {
	for _, filter := range filters {
		if !equalValue(row[filter.Column], filter.Value) {
			return false
		}
	}

	return true
}

func matchesAny(row remote.Row, filters []remote.Filter) bool {
	if len(filters) == 0 {
		return true
	}

	for _, filter := range filters {
		if equalValue(row[filter.Column], filter.Value) {
			return true
		}
	}

	return false
}

func cloneRow(row remote.Row) remote.Row {
	clone := make(remote.Row, len(row))
	for key, value := range row {
		clone[key] = value
	}

	return clone
}

func equalValue(a, b any) bool {
	if at, ok := a.(time.Time); ok {
		if bt, ok := b.(time.Time); ok {
			return at.Equal(bt)
		}
	}

	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

func lessValue(a, b any) bool {
	if at, ok := a.(time.Time); ok {
		if bt, ok := b.(time.Time); ok {
			return at.Before(bt)
		}
	}

	switch av := a.(type) {
	case int:
		if bv, ok := b.(int); ok {
			return av < bv
		}
	case float64:
		if bv, ok := b.(float64); ok {
			return av < bv
		}
	}

	return fmt.Sprintf("%v", a) < fmt.Sprintf("%v", b)
}
