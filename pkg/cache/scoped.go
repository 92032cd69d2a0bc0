package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one backend without colliding.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "trazo:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// AgentKey generates a prefixed agent key.
func (k *ScopedKeyer) AgentKey(model, prompt string) string {
	return k.prefix + k.inner.AgentKey(model, prompt)
}

// RenderKey generates a prefixed render key.
func (k *ScopedKeyer) RenderKey(kind, input string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(kind, input, opts)
}
