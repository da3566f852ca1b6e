package feed

import (
	"context"
	"sync"

	"github.com/koinonia-app/core/internal/entity"
	"github.com/koinonia-app/core/internal/loader"
	"github.com/koinonia-app/core/internal/remote"
	"github.com/koinonia-app/core/pkg/xcontext"
)

// Subscriber keeps the entity store current: one multiplexed subscription
// over the mutable tables, and a wholesale reload of a table's collection on
// any event for it. Coarse invalidate-and-reload trades bandwidth for
// correctness; no ordered-event reconciliation is needed because every reload
// is an authoritative read.
type Subscriber struct {
	remote remote.Client
	loader *loader.Loader

	// userID resolves the current user on every callback instead of capturing
	// it at subscribe time, so a stale session identity is never acted on.
	userID func() string

	mutex        sync.Mutex
	subscription remote.Subscription
}

func New(remoteClient remote.Client, snapshotLoader *loader.Loader, userID func() string) *Subscriber {
	return &Subscriber{remote: remoteClient, loader: snapshotLoader, userID: userID}
}

// Start opens the subscription. A previous subscription, if any, is always
// closed first: one session holds at most one feed handle.
func (s *Subscriber) Start(ctx context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.subscription != nil {
		if err := s.subscription.Close(); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot close previous change feed: %v", err)
		}
		s.subscription = nil
	}

	subscription, err := s.remote.Subscribe(ctx, entity.WatchedTables, entity.AllEventKinds, s.handle)
	if err != nil {
		return err
	}

	s.subscription = subscription
	return nil
}

// Stop tears the subscription down. It must run before the session identity
// is cleared so no late callback writes into a signed-out store.
func (s *Subscriber) Stop(ctx context.Context) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.subscription == nil {
		return
	}

	if err := s.subscription.Close(); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot close change feed: %v", err)
	}
	s.subscription = nil
}

func (s *Subscriber) handle(ctx context.Context, ev remote.Event) {
	me := s.userID()
	if me == "" {
		return
	}

	// Other users' notifications change constantly; skip the reload unless the
	// event's row belongs to the current user.
	if ev.Table == entity.TableNotifications {
		if owner, _ := ev.Row["user_id"].(string); owner != me {
			return
		}
	}

	if err := s.loader.Reload(ctx, ev.Table, me); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot reload %s after change event: %v", ev.Table, err)
		return
	}

	xcontext.Logger(ctx).Debugf("Reloaded %s after %s event", ev.Table, ev.Kind)
}
