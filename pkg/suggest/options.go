package suggest

// EmptyQueryMode controls what an empty query returns.
type EmptyQueryMode string

const (
	// EmptyQueryNone returns no suggestions.
	EmptyQueryNone EmptyQueryMode = "none"
	// EmptyQueryTop returns the first options in declared order.
	EmptyQueryTop EmptyQueryMode = "top"
)

// Options tunes Search and the HTTP handler.
type Options struct {
	QueryParam     string
	LimitParam     string
	DefaultLimit   int
	MaxLimit       int
	EmptyQueryMode EmptyQueryMode
}

// OptionFn mutates Options.
type OptionFn func(*Options)

// DefaultOptions returns the defaults: ?q= and ?limit=, 50 results by
// default, 200 at most, and the first options for an empty query.
func DefaultOptions() Options {
	return Options{
		QueryParam:     "q",
		LimitParam:     "limit",
		DefaultLimit:   50,
		MaxLimit:       200,
		EmptyQueryMode: EmptyQueryTop,
	}
}

// NewOptions applies fns over the defaults and repairs zero values.
func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn != nil {
			fn(&opts)
		}
	}
	defaults := DefaultOptions()
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = defaults.DefaultLimit
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = defaults.MaxLimit
	}
	if opts.EmptyQueryMode == "" {
		opts.EmptyQueryMode = defaults.EmptyQueryMode
	}
	if opts.QueryParam == "" {
		opts.QueryParam = defaults.QueryParam
	}
	if opts.LimitParam == "" {
		opts.LimitParam = defaults.LimitParam
	}
	return opts
}

func WithQueryParam(name string) OptionFn {
	return func(o *Options) { o.QueryParam = name }
}

func WithLimitParam(name string) OptionFn {
	return func(o *Options) { o.LimitParam = name }
}

func WithDefaultLimit(limit int) OptionFn {
	return func(o *Options) { o.DefaultLimit = limit }
}

func WithMaxLimit(limit int) OptionFn {
	return func(o *Options) { o.MaxLimit = limit }
}

func WithEmptyQueryMode(mode EmptyQueryMode) OptionFn {
	return func(o *Options) { o.EmptyQueryMode = mode }
}

// clampLimit maps a requested limit onto [0, MaxLimit]; zero selects the
// default and negative values disable results.
func clampLimit(limit int, opts Options) int {
	if limit < 0 {
		return 0
	}
	if limit == 0 {
		limit = opts.DefaultLimit
	}
	if opts.MaxLimit > 0 && limit > opts.MaxLimit {
		return opts.MaxLimit
	}
	return limit
}
