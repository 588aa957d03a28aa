package alloc

import "log/slog"

// Option configures a RegionAllocator.
type Option func(*RegionAllocator)

// WithStrict makes Free report invalid frees as ErrInvalidFree instead of
// ignoring them. Useful in tests and debug builds to surface caller bugs.
func WithStrict(strict bool) Option {
	return func(ra *RegionAllocator) {
		ra.strict = strict
	}
}

// WithLogger sets the logger used for allocation failures, rescans and
// invalid frees. A nil logger keeps the default.
func WithLogger(l *slog.Logger) Option {
	return func(ra *RegionAllocator) {
		if l != nil {
			ra.log = l
		}
	}
}
