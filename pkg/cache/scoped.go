package cache

// ScopedKeyer prefixes every key of an inner Keyer, so deployments sharing
// one Redis keep separate entries. It is enabled by cache.key_prefix.
type ScopedKeyer struct {
	Inner  Keyer
	Prefix string
}

// NewScopedKeyer scopes inner under prefix. A nil inner means the default
// key layout.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = DefaultKeyer{}
	}
	return ScopedKeyer{Inner: inner, Prefix: prefix}
}

func (k ScopedKeyer) ManifestKey(source string) string {
	return k.Prefix + k.Inner.ManifestKey(source)
}
