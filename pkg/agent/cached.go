package agent

import (
	"context"

	"github.com/matzehuels/trazo/pkg/cache"
	"github.com/matzehuels/trazo/pkg/observability"
)

// Cached memoizes another agent's replies for cache.TTLInterpretation.
// Replies are keyed by the inner agent's name and the full prompt, so the
// same session state and message always get the same answer.
type Cached struct {
	Inner Agent
	Cache cache.Cache
	Keyer cache.Keyer
}

// NewCached wraps inner. A nil keyer uses cache.DefaultKeyer.
func NewCached(inner Agent, c cache.Cache, keyer cache.Keyer) *Cached {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &Cached{Inner: inner, Cache: c, Keyer: keyer}
}

func (c *Cached) Name() string { return c.Inner.Name() }

func (c *Cached) Reply(ctx context.Context, req Request) (string, error) {
	key := c.Keyer.AgentKey(c.Inner.Name(), req.prompt())
	if data, ok, _ := c.Cache.Get(ctx, key); ok {
		observability.Cache().OnCacheHit(ctx, "agent")
		return string(data), nil
	}
	observability.Cache().OnCacheMiss(ctx, "agent")

	reply, err := c.Inner.Reply(ctx, req)
	if err != nil {
		return "", err
	}
	if err := c.Cache.Set(ctx, key, []byte(reply), cache.TTLInterpretation); err == nil {
		observability.Cache().OnCacheSet(ctx, "agent", len(reply))
	}
	return reply, nil
}

var _ Agent = (*Cached)(nil)
