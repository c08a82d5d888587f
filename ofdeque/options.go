package ofdeque

import "github.com/joeycumines/go-ofdeque/internal/logx"

type config[V any] struct {
	bufferSize  int
	elimination bool
	empty       V
	logger      *logx.Logger
}

// Option configures a Deque at construction, following the teacher's
// functional-options convention (see eventloop's options.go).
type Option[V comparable] func(*config[V])

// WithBufferSize sets the per-buffer slot count. Valid values are the
// same powers of two the original harness exposed as rideable variants:
// 512, 1024, 4096, 8192. Invalid sizes fall back to the 1024 default.
func WithBufferSize[V comparable](n int) Option[V] {
	return func(c *config[V]) {
		switch n {
		case 512, 1024, 4096, 8192:
			c.bufferSize = n
		}
	}
}

// WithElimination toggles the elimination-array back-off path.
func WithElimination[V comparable](enabled bool) Option[V] {
	return func(c *config[V]) { c.elimination = enabled }
}

// WithEmptySentinel sets the value returned by LeftPop/RightPop when the
// deque is empty on that side.
func WithEmptySentinel[V comparable](empty V) Option[V] {
	return func(c *config[V]) { c.empty = empty }
}

// WithLogger overrides the structured logger handed to the deque's hazard
// tracker, which logs each freed retired buffer; elimination is not logged.
func WithLogger[V comparable](l *logx.Logger) Option[V] {
	return func(c *config[V]) {
		if l != nil {
			c.logger = l
		}
	}
}
