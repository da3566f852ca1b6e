package mutation

import (
	"testing"

	"github.com/koinonia-app/core/internal/entity"
	"github.com/koinonia-app/core/internal/remote"
	"github.com/koinonia-app/core/internal/store"
	"github.com/koinonia-app/core/pkg/errorx"
	"github.com/koinonia-app/core/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func seedNotification(fx *gatewayFixture, id, userID string, read bool) {
	fx.remote.Seed(entity.TableNotifications, remote.Row{
		"id": id, "user_id": userID, "type": "comment",
		"title": "New comment", "is_read": read,
	})
}

func Test_MarkNotificationRead_Monotonic(t *testing.T) {
	fx := newGatewayFixture(t, testutil.John)
	seedNotification(fx, "n1", testutil.John, false)
	fx.as(t, testutil.John)

	require.NoError(t, fx.gateway.MarkNotificationRead(fx.ctx, "n1"))
	notification, ok := store.Get[entity.Notification](fx.store, entity.TableNotifications, "n1")
	require.True(t, ok)
	require.True(t, notification.IsRead)

	// Already read: no second write goes out at all.
	fx.remote.FailWrites[entity.TableNotifications] = errorx.New(errorx.Unavailable, "down")
	require.NoError(t, fx.gateway.MarkNotificationRead(fx.ctx, "n1"))
}

func Test_MarkNotificationRead_UnknownIsNoOp(t *testing.T) {
	fx := newGatewayFixture(t, testutil.John)
	require.NoError(t, fx.gateway.MarkNotificationRead(fx.ctx, "missing"))
}

func Test_MarkAllNotificationsRead(t *testing.T) {
	fx := newGatewayFixture(t, testutil.John)
	seedNotification(fx, "n1", testutil.John, false)
	seedNotification(fx, "n2", testutil.John, false)
	seedNotification(fx, "n3", testutil.John, true)
	seedNotification(fx, "n4", testutil.Mary, false)
	fx.as(t, testutil.John)

	require.NoError(t, fx.gateway.MarkAllNotificationsRead(fx.ctx))

	for _, notification := range store.Rows[entity.Notification](fx.store, entity.TableNotifications) {
		require.True(t, notification.IsRead)
	}

	// Mary's stays untouched.
	require.Equal(t, 1, fx.remote.CountRows(entity.TableNotifications, map[string]any{
		"user_id": testutil.Mary, "is_read": false,
	}))
}

func Test_DeleteNotification(t *testing.T) {
	fx := newGatewayFixture(t, testutil.John)
	seedNotification(fx, "n1", testutil.John, false)
	fx.as(t, testutil.John)

	require.NoError(t, fx.gateway.DeleteNotification(fx.ctx, "n1"))
	require.Empty(t, fx.remote.Rows(entity.TableNotifications))
	require.Empty(t, store.Rows[entity.Notification](fx.store, entity.TableNotifications))
}
