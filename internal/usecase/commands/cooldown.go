package commands

import (
	"sync"
	"time"
)

// Cooldowns tracks per-(user, command) invocation expiries. A hit means the
// invocation is swallowed silently, matching how the bot has always treated
// spammed commands.
type Cooldowns struct {
	mu    sync.Mutex
	until map[cooldownKey]time.Time
	now   func() time.Time
}

type cooldownKey struct {
	userID    string
	commandID string
}

func NewCooldowns() *Cooldowns {
	return &Cooldowns{
		until: make(map[cooldownKey]time.Time),
		now:   time.Now,
	}
}

// Hit reports whether the user is still cooling down on the command and, if
// not, arms a fresh cooldown of duration d.
func (c *Cooldowns) Hit(userID, commandID string, d time.Duration) bool {
	if d <= 0 {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := cooldownKey{userID: userID, commandID: commandID}
	now := c.now()
	if now.Before(c.until[key]) {
		return true
	}
	c.until[key] = now.Add(d)

	if len(c.until) > 4096 {
		for k, t := range c.until {
			if now.After(t) {
				delete(c.until, k)
			}
		}
	}
	return false
}
