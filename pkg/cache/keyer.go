package cache

// RenderKeyOpts are the render options that change the output bytes.
type RenderKeyOpts struct {
	Format string  `json:"format"`
	View   string  `json:"view"`
	Scale  float64 `json:"scale,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// RenderKey returns the key for a rendered scene. sceneHash identifies
	// the scene content, see render.Scene.Hash.
	RenderKey(sceneHash string, opts RenderKeyOpts) string
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// RenderKey implements Keyer.
func (DefaultKeyer) RenderKey(sceneHash string, opts RenderKeyOpts) string {
	return keyOf("render", sceneHash, opts)
}

// ScopedKeyer wraps a Keyer with a prefix so that several deployments can
// share one Redis database:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "stepwise:")
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

// RenderKey generates a prefixed render key.
func (k *ScopedKeyer) RenderKey(sceneHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(sceneHash, opts)
}
