package flatvec

// Options controls how a BufferTable materializes values.
type Options struct {
	// UnsafeStrings returns strings that alias the buffer instead of
	// copying them. Such strings are only meaningful while the buffer is
	// not reused; caller must ensure buf lifetime.
	UnsafeStrings bool

	// OnRelease is handed the backing bytes when the table is released,
	// typically to return them to a pool.
	OnRelease func([]byte)
}

// Option mutates Options.
type Option func(*Options)

// WithUnsafeStrings toggles zero-copy strings.
func WithUnsafeStrings(on bool) Option {
	return func(o *Options) { o.UnsafeStrings = on }
}

// WithReleaseHook installs fn as the release hook.
func WithReleaseHook(fn func([]byte)) Option {
	return func(o *Options) { o.OnRelease = fn }
}

func buildOptions(opts []Option) Options {
	var o Options
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
