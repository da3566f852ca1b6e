package common

import (
	"time"

	"github.com/puzpuzpuz/xsync"
)

// Cooldown rejects a repeat of the same class of action within a fixed
// window. It is advisory only: the remote uniqueness constraints, not this
// map, protect the store's invariants.
type Cooldown struct {
	window time.Duration
	last   *xsync.MapOf[string, time.Time]
	now    func() time.Time
}

func NewCooldown(window time.Duration) *Cooldown {
	return &Cooldown{
		window: window,
		last:   xsync.NewMapOf[time.Time](),
		now:    time.Now,
	}
}

// Allow reports whether the action may run now, recording the attempt when it
// may.
func (c *Cooldown) Allow(action string) bool {
	now := c.now()
	if last, ok := c.last.Load(action); ok && now.Sub(last) < c.window {
		return false
	}

	c.last.Store(action, now)
	return true
}
