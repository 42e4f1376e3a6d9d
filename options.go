package rustache

// registryOptions holds Registry construction settings, generalizing
// the teacher's single-field Options struct into a small functional
// options set.
type registryOptions struct {
	debug   bool
	escape  EscapeFunc
	workers int
}

func newRegistryOptions() registryOptions {
	return registryOptions{escape: DefaultEscape}
}

// Option configures Registry construction.
type Option func(*registryOptions)

// WithDebug enables logging of per-file load failures.
func WithDebug(b bool) Option {
	return func(o *registryOptions) { o.debug = b }
}

// WithEscape overrides the default five-entity HTML escape function
// used by escaped variables rendered from this registry.
func WithEscape(fn EscapeFunc) Option {
	return func(o *registryOptions) { o.escape = fn }
}

// WithWorkers overrides the loader's worker pool size. The default is
// runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(o *registryOptions) { o.workers = n }
}
