package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Keyer builds cache keys.
type Keyer interface {
	// AgentKey identifies an agent reply for a model and prompt.
	AgentKey(model, prompt string) string
	// RenderKey identifies a rendered image.
	RenderKey(kind, input string, opts RenderKeyOpts) string
}

// RenderKeyOpts are the render settings that change the output bytes.
type RenderKeyOpts struct {
	WidthIn    float64 `json:"w"`
	HeightIn   float64 `json:"h"`
	DPI        float64 `json:"dpi"`
	FontPath   string  `json:"font,omitempty"`
	SymbolFont string  `json:"symbol_font,omitempty"`
}

// DefaultKeyer hashes every key component.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// AgentKey returns "agent:<sha256>".
func (DefaultKeyer) AgentKey(model, prompt string) string {
	return hashKey("agent", model, prompt)
}

// RenderKey returns "render:<kind>:<sha256>".
func (DefaultKeyer) RenderKey(kind, input string, opts RenderKeyOpts) string {
	return hashKey("render:"+kind, input, opts)
}
