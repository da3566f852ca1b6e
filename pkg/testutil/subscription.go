package testutil

import (
	"context"

	"github.com/koinonia-app/core/internal/entity"
	"github.com/koinonia-app/core/internal/remote"
	"golang.org/x/exp/slices"
)

type fakeSubscription struct {
	remote  *FakeRemote
	tables  []entity.Table
	handler remote.EventHandler
	closed  bool
}

func (s *fakeSubscription) Close() error {
	s.remote.mutex.Lock()
	defer s.remote.mutex.Unlock()
	s.closed = true
	return nil
}

func (f *FakeRemote) Subscribe(
	ctx context.Context,
	tables []entity.Table,
	kinds []entity.EventKind,
	handler remote.EventHandler,
) (remote.Subscription, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	sub := &fakeSubscription{remote: f, tables: tables, handler: handler}
	f.subs = append(f.subs, sub)
	return sub, nil
}

// OpenSubscriptions counts subscriptions that were never closed.
func (f *FakeRemote) OpenSubscriptions() int {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	open := 0
	for _, sub := range f.subs {
		if !sub.closed {
			open++
		}
	}

	return open
}

// Emit delivers one change-feed event to every open subscription watching the
// table, synchronously, the way a settled feed would.
func (f *FakeRemote) Emit(ctx context.Context, table entity.Table, kind entity.EventKind, row remote.Row) {
	f.mutex.Lock()
	subs := slices.Clone(f.subs)
	f.mutex.Unlock()

	for _, sub := range subs {
		if sub.closed || !slices.Contains(sub.tables, table) {
			continue
		}

		sub.handler(ctx, remote.Event{Table: table, Kind: kind, Row: row})
	}
}
