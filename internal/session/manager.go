package session

import (
	"context"
	"sync"

	"github.com/golang-jwt/jwt/v4"
	"github.com/koinonia-app/core/config"
	"github.com/koinonia-app/core/internal/common"
	"github.com/koinonia-app/core/internal/effects"
	"github.com/koinonia-app/core/internal/entity"
	"github.com/koinonia-app/core/internal/feed"
	"github.com/koinonia-app/core/internal/feedback"
	"github.com/koinonia-app/core/internal/loader"
	"github.com/koinonia-app/core/internal/mutation"
	"github.com/koinonia-app/core/internal/remote"
	"github.com/koinonia-app/core/internal/store"
	"github.com/koinonia-app/core/pkg/errorx"
	"github.com/koinonia-app/core/pkg/storage"
	"github.com/koinonia-app/core/pkg/xcontext"
)

// Manager owns the session identity and lifecycle. Everything downstream
// resolves the current user through the live UserID accessor, never through a
// value captured at construction or subscribe time.
type Manager struct {
	remote remote.Client

	store    *store.Store
	loader   *loader.Loader
	feed     *feed.Subscriber
	gateway  *mutation.Gateway
	feedback *feedback.Queue

	mutex  sync.RWMutex
	userID string
}

func NewManager(remoteClient remote.Client, blob storage.Storage, cfg *config.Configs) *Manager {
	m := &Manager{remote: remoteClient}

	m.store = store.New()
	m.feedback = feedback.NewQueue(cfg.Feedback.TTL())
	m.loader = loader.New(remoteClient, m.store)
	m.feed = feed.New(remoteClient, m.loader, m.UserID)

	effectsEngine := effects.NewEngine(remoteClient, m.store, m.feedback, m.UserID)
	m.gateway = mutation.NewGateway(
		remoteClient,
		m.store,
		blob,
		effectsEngine,
		m.feedback,
		common.NewCooldown(cfg.Cooldown.Window()),
		m.UserID,
		cfg.File.ImageBucket,
	)

	return m
}

// UserID returns the current session user, or empty when signed out.
func (m *Manager) UserID() string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.userID
}

func (m *Manager) Store() *store.Store        { return m.store }
func (m *Manager) Gateway() *mutation.Gateway { return m.gateway }
func (m *Manager) Feedback() *feedback.Queue  { return m.feedback }

// MyProfile is the profile whose id equals the session user id.
func (m *Manager) MyProfile() (entity.Profile, bool) {
	me := m.UserID()
	if me == "" {
		return entity.Profile{}, false
	}

	return store.Get[entity.Profile](m.store, entity.TableProfiles, me)
}

// Conversations projects the current user's messages into partner groups.
func (m *Manager) Conversations() []entity.Conversation {
	return m.store.Conversations(m.UserID())
}

// SignIn establishes the session from a service-issued access token, loads
// the full snapshot, and opens the change feed. A failed snapshot leaves the
// manager signed out with an untouched (empty) store.
func (m *Manager) SignIn(ctx context.Context, accessToken string) error {
	userID, err := subjectOf(accessToken)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot parse access token: %v", err)
		return errorx.New(errorx.Unauthenticated, "Your session is invalid")
	}

	m.remote.Authorize(accessToken)

	m.mutex.Lock()
	m.userID = userID
	m.mutex.Unlock()

	if err := m.loader.Load(ctx, userID); err != nil {
		m.mutex.Lock()
		m.userID = ""
		m.mutex.Unlock()
		return err
	}

	if err := m.feed.Start(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot open change feed: %v", err)
		m.feedback.Error("Live updates are unavailable")
	}

	return nil
}

// Refresh re-runs the snapshot load for the signed-in user. Each collection
// is fully replaced, never merged.
func (m *Manager) Refresh(ctx context.Context) error {
	me := m.UserID()
	if me == "" {
		return errorx.New(errorx.Unauthenticated, "You are signed out")
	}

	return m.loader.Load(ctx, me)
}

// SignOut tears the change feed down before the identity is cleared, so a
// late feed callback can never write into a signed-out store.
func (m *Manager) SignOut(ctx context.Context) {
	m.feed.Stop(ctx)

	m.mutex.Lock()
	m.userID = ""
	m.mutex.Unlock()

	m.remote.Authorize("")
	m.store.Clear()
}

// subjectOf extracts the user id from the access token. The token was issued
// and signed by the remote service; the client only reads its claims.
func subjectOf(accessToken string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return "", err
	}

	subject, ok := claims["sub"].(string)
	if !ok || subject == "" {
		return "", errorx.New(errorx.Unauthenticated, "token has no subject")
	}

	return subject, nil
}
