package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_Cooldown_BlocksWithinWindow(t *testing.T) {
	c := NewCooldown(time.Minute)
	now := time.Now()
	c.now = func() time.Time { return now }

	require.True(t, c.Allow("create_post"))
	require.False(t, c.Allow("create_post"))

	// Another class of action has its own window.
	require.True(t, c.Allow("add_comment"))

	now = now.Add(time.Minute + time.Second)
	require.True(t, c.Allow("create_post"))
}

func Test_Cooldown_ZeroWindowDisables(t *testing.T) {
	c := NewCooldown(0)

	require.True(t, c.Allow("create_post"))
	require.True(t, c.Allow("create_post"))
	require.True(t, c.Allow("create_post"))
}
