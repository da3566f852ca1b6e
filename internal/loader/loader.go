package loader

import (
	"context"
	"sync"

	"github.com/koinonia-app/core/internal/entity"
	"github.com/koinonia-app/core/internal/remote"
	"github.com/koinonia-app/core/internal/store"
	"github.com/koinonia-app/core/pkg/errorx"
	"github.com/koinonia-app/core/pkg/xcontext"
)

// Loader fills the entity store from the remote service. Load issues one
// parallel batch of reads across every collection; each call fully replaces,
// never merges, the collections it loads.
type Loader struct {
	remote remote.Client
	store  *store.Store
}

func New(remoteClient remote.Client, entityStore *store.Store) *Loader {
	return &Loader{remote: remoteClient, store: entityStore}
}

// Load reads every collection in parallel, stages the results, and commits
// them in one pass. If any single read or decode fails, nothing is committed
// and the store keeps its prior state.
func (l *Loader) Load(ctx context.Context, me string) error {
	specs := collectionSpecs()
	snap := store.NewSnapshot()

	var wg sync.WaitGroup
	var snapMutex sync.Mutex
	errs := make([]error, len(specs))

	for i, cs := range specs {
		wg.Add(1)
		go func(i int, cs collectionSpec) {
			defer wg.Done()

			rows, err := l.remote.Read(ctx, cs.query(me))
			if err != nil {
				errs[i] = err
				return
			}

			snapMutex.Lock()
			defer snapMutex.Unlock()
			errs[i] = cs.apply(snap, rows)
		}(i, cs)
	}

	wg.Wait()

	for i, err := range errs {
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot load collection %s: %v", specs[i].table, err)
			return errorx.New(errorx.SnapshotFailed, "Could not load your community data")
		}
	}

	l.store.Apply(snap)

	if _, ok := store.Get[entity.Profile](l.store, entity.TableProfiles, me); !ok {
		xcontext.Logger(ctx).Warnf("Snapshot has no profile for the current user %s", me)
	}

	return nil
}

// Reload reissues the snapshot read for one table and replaces that single
// collection, leaving every other collection untouched.
func (l *Loader) Reload(ctx context.Context, table entity.Table, me string) error {
	cs, ok := specFor(table)
	if !ok {
		return errorx.New(errorx.NotFound, "Unknown collection %s", table)
	}

	rows, err := l.remote.Read(ctx, cs.query(me))
	if err != nil {
		return err
	}

	snap := store.NewSnapshot()
	if err := cs.apply(snap, rows); err != nil {
		return err
	}

	l.store.Apply(snap)
	return nil
}
