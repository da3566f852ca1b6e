package mutation

import (
	"context"
	"errors"
	"fmt"

	"github.com/koinonia-app/core/internal/common"
	"github.com/koinonia-app/core/internal/effects"
	"github.com/koinonia-app/core/internal/entity"
	"github.com/koinonia-app/core/internal/feedback"
	"github.com/koinonia-app/core/internal/remote"
	"github.com/koinonia-app/core/internal/store"
	"github.com/koinonia-app/core/pkg/errorx"
	"github.com/koinonia-app/core/pkg/storage"
	"github.com/koinonia-app/core/pkg/xcontext"
)

// Gateway executes every user-initiated write. Each operation follows the
// same shape: check the session, perform side artifacts (uploads) first,
// issue exactly one authoritative write, patch the store with the server's
// returned row, fire derived effects, and surface feedback. The store is
// never patched with a locally-constructed guess.
//
// Toggles read the store immediately before the write. Two near-simultaneous
// toggles on the same record can both observe "not present" and both insert;
// this is a bounded, self-healing window closed by the next change-feed
// reload, with the remote uniqueness constraint as the backstop. No client
// locking is attempted.
type Gateway struct {
	remote   remote.Client
	store    *store.Store
	blob     storage.Storage
	effects  *effects.Engine
	feedback *feedback.Queue
	cooldown *common.Cooldown

	// userID is a live accessor into the session, never a captured value.
	userID func() string
	bucket string
}

func NewGateway(
	remoteClient remote.Client,
	entityStore *store.Store,
	blob storage.Storage,
	effectsEngine *effects.Engine,
	feedbackQueue *feedback.Queue,
	cooldown *common.Cooldown,
	userID func() string,
	imageBucket string,
) *Gateway {
	return &Gateway{
		remote:   remoteClient,
		store:    entityStore,
		blob:     blob,
		effects:  effectsEngine,
		feedback: feedbackQueue,
		cooldown: cooldown,
		userID:   userID,
		bucket:   imageBucket,
	}
}

// actor returns the acting user, or false when the call must silently no-op:
// an unauthenticated call is not an error.
func (g *Gateway) actor() (string, bool) {
	me := g.userID()
	return me, me != ""
}

// throttled applies the advisory per-action cooldown on creation-shaped
// operations. Toggles are exempt so a deliberate on-off stays possible.
func (g *Gateway) throttled(action string) bool {
	if g.cooldown.Allow(action) {
		return false
	}

	g.feedback.Info("Please wait a moment before doing that again")
	return true
}

// leader returns the acting user when their profile carries a leader role.
func (g *Gateway) leader() (string, error) {
	me, ok := g.actor()
	if !ok {
		return "", nil
	}

	profile, ok := store.Get[entity.Profile](g.store, entity.TableProfiles, me)
	if !ok || !profile.Role.IsLeader() {
		return "", errorx.New(errorx.PermissionDenied, "Only leaders can do that")
	}

	return me, nil
}

func (g *Gateway) fail(ctx context.Context, err error, format string, a ...any) error {
	message := fmt.Sprintf(format, a...)
	xcontext.Logger(ctx).Errorf("%s: %v", message, err)
	g.feedback.Error(message)

	var xerr errorx.Error
	if errors.As(err, &xerr) {
		return xerr
	}

	return errorx.Unknown
}

func (g *Gateway) displayName(userID string) string {
	profile, ok := store.Get[entity.Profile](g.store, entity.TableProfiles, userID)
	if !ok || profile.FullName == "" {
		return "Someone"
	}

	return profile.FullName
}

// createRow inserts one row and appends the server's returned record.
func createRow[T entity.Record](
	ctx context.Context, g *Gateway, table entity.Table, values map[string]any,
) (*T, error) {
	row, err := g.remote.Insert(ctx, table, values)
	if err != nil {
		return nil, err
	}

	record, err := remote.DecodeRow[T](row)
	if err != nil {
		return nil, errorx.New(errorx.BadResponse, "Unexpected server response")
	}

	store.Append(g.store, table, *record)
	return record, nil
}

// updateRow updates one row by id and replaces the local record with the
// server's returned one.
func updateRow[T entity.Record](
	ctx context.Context, g *Gateway, table entity.Table, id string, values map[string]any,
) (*T, error) {
	rows, err := g.remote.Update(ctx, table, values, remote.Eq("id", id))
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, errorx.New(errorx.NotFound, "Not found")
	}

	record, err := remote.DecodeRow[T](rows[0])
	if err != nil {
		return nil, errorx.New(errorx.BadResponse, "Unexpected server response")
	}

	store.Upsert(g.store, table, *record)
	return record, nil
}

// deleteRow deletes one row by id and mirrors the removal locally.
func deleteRow[T entity.Record](
	ctx context.Context, g *Gateway, table entity.Table, id string,
) error {
	if err := g.remote.Delete(ctx, table, remote.Eq("id", id)); err != nil {
		return err
	}

	store.Remove[T](g.store, table, id)
	return nil
}
