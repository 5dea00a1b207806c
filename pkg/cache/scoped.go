package cache

// ScopedKeyer wraps a Keyer with a prefix, giving separate runs or
// deployments their own cache namespace on a shared backend.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to every key. A nil
// inner keyer falls back to the default keyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// RoutesKey generates a prefixed route-aggregation key.
func (k *ScopedKeyer) RoutesKey(opts RoutesKeyOpts) string {
	return k.prefix + k.inner.RoutesKey(opts)
}

// ExportKey generates a prefixed export-document key.
func (k *ScopedKeyer) ExportKey(graphHash string, opts ExportKeyOpts) string {
	return k.prefix + k.inner.ExportKey(graphHash, opts)
}

// FigureKey generates a prefixed rendered-figure key.
func (k *ScopedKeyer) FigureKey(name, format string) string {
	return k.prefix + k.inner.FigureKey(name, format)
}

// Ensure ScopedKeyer implements Keyer.
var _ Keyer = (*ScopedKeyer)(nil)
