package cache

// ScopedKeyer wraps a Keyer with a prefix so several documents can share one
// cache without colliding, for example one prefix per project name.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "project:poster:")
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

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(sceneHash, opts)
}

// ImageKey generates a prefixed key for decoded image caching.
func (k *ScopedKeyer) ImageKey(contentHash string, maxDim int) string {
	return k.prefix + k.inner.ImageKey(contentHash, maxDim)
}
