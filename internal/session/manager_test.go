package session

import (
	"context"
	"testing"

	"github.com/koinonia-app/core/internal/entity"
	"github.com/koinonia-app/core/internal/remote"
	"github.com/koinonia-app/core/internal/store"
	"github.com/koinonia-app/core/pkg/errorx"
	"github.com/koinonia-app/core/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func newManagerFixture() (*Manager, *testutil.FakeRemote) {
	f := testutil.NewFakeRemote()
	testutil.SeedCommunity(f)
	return NewManager(f, &testutil.MockStorage{}, testutil.TestConfigs()), f
}

func Test_SignIn_LoadsSnapshotAndOpensFeed(t *testing.T) {
	ctx := context.Background()
	m, f := newManagerFixture()

	require.NoError(t, m.SignIn(ctx, testutil.AccessToken(t, testutil.John)))

	require.Equal(t, testutil.John, m.UserID())
	require.Equal(t, 1, f.OpenSubscriptions())

	profile, ok := m.MyProfile()
	require.True(t, ok)
	require.Equal(t, "John Carter", profile.FullName)
	require.Len(t, store.Rows[entity.Profile](m.Store(), entity.TableProfiles), 3)
}

func Test_SignIn_BadToken(t *testing.T) {
	m, _ := newManagerFixture()

	err := m.SignIn(context.Background(), "not-a-token")
	require.Error(t, err)
	require.True(t, errorx.IsCode(err, errorx.Unauthenticated))
	require.Empty(t, m.UserID())
}

func Test_SignIn_SnapshotFailureSignsBackOut(t *testing.T) {
	m, f := newManagerFixture()
	f.FailReads[entity.TablePosts] = errorx.New(errorx.Unavailable, "read timeout")

	err := m.SignIn(context.Background(), testutil.AccessToken(t, testutil.John))
	require.Error(t, err)
	require.True(t, errorx.IsCode(err, errorx.SnapshotFailed))
	require.Empty(t, m.UserID())
	require.Empty(t, store.Rows[entity.Profile](m.Store(), entity.TableProfiles))
}

func Test_SignIn_TwiceKeepsOneSubscription(t *testing.T) {
	ctx := context.Background()
	m, f := newManagerFixture()

	require.NoError(t, m.SignIn(ctx, testutil.AccessToken(t, testutil.John)))
	require.NoError(t, m.SignIn(ctx, testutil.AccessToken(t, testutil.Mary)))

	require.Equal(t, testutil.Mary, m.UserID())
	require.Equal(t, 1, f.OpenSubscriptions())
}

func Test_SignOut_TearsDownInOrder(t *testing.T) {
	ctx := context.Background()
	m, f := newManagerFixture()
	require.NoError(t, m.SignIn(ctx, testutil.AccessToken(t, testutil.John)))

	m.SignOut(ctx)

	require.Empty(t, m.UserID())
	require.Zero(t, f.OpenSubscriptions())
	require.Empty(t, store.Rows[entity.Profile](m.Store(), entity.TableProfiles))

	// A late change event must not repopulate a signed-out store.
	f.Seed(entity.TablePosts, remote.Row{
		"id": "p1", "author_id": testutil.Mary, "content": "after sign-out",
	})
	f.Emit(ctx, entity.TablePosts, entity.EventInsert, remote.Row{"id": "p1"})
	require.Empty(t, store.Rows[entity.Post](m.Store(), entity.TablePosts))
}

func Test_Refresh_ReplacesCollections(t *testing.T) {
	ctx := context.Background()
	m, f := newManagerFixture()
	require.NoError(t, m.SignIn(ctx, testutil.AccessToken(t, testutil.John)))

	f.Seed(entity.TablePosts, remote.Row{
		"id": "p1", "author_id": testutil.Mary, "content": "fresh",
	})
	require.NoError(t, m.Refresh(ctx))
	require.Len(t, store.Rows[entity.Post](m.Store(), entity.TablePosts), 1)

	// A row deleted remotely disappears on the next refresh instead of
	// lingering in a merge.
	require.NoError(t, f.Delete(ctx, entity.TablePosts, remote.Eq("id", "p1")))
	require.NoError(t, m.Refresh(ctx))
	require.Empty(t, store.Rows[entity.Post](m.Store(), entity.TablePosts))
}

func Test_Refresh_SignedOut(t *testing.T) {
	m, _ := newManagerFixture()

	err := m.Refresh(context.Background())
	require.Error(t, err)
	require.True(t, errorx.IsCode(err, errorx.Unauthenticated))
}

func Test_Gateway_SeesLiveIdentity(t *testing.T) {
	ctx := context.Background()
	m, f := newManagerFixture()
	require.NoError(t, m.SignIn(ctx, testutil.AccessToken(t, testutil.John)))

	require.NoError(t, m.Gateway().CreatePost(ctx, "hello", nil, ""))
	require.Equal(t, 1, f.CountRows(entity.TablePosts, map[string]any{"author_id": testutil.John}))

	// After signing out the same gateway silently no-ops.
	m.SignOut(ctx)
	require.NoError(t, m.Gateway().CreatePost(ctx, "ghost", nil, ""))
	require.Len(t, f.Rows(entity.TablePosts), 1)
}
