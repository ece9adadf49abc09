package stream

// Defaults.  The depth cap bounds Discard recursion on hostile
// nesting; the allocation cap bounds payload copies against declared
// lengths far beyond the buffer.
const (
	defaultMaxDepth = 1024
	defaultMaxAlloc = 1 << 30
)

// Option configures a Reader or Writer at construction time.
type Option func(*options)

type options struct {
	tracking bool
	strict   bool
	maxDepth int
	maxAlloc int
}

func newOptions(opts []Option) options {
	o := options{
		tracking: true,
		maxDepth: defaultMaxDepth,
		maxAlloc: defaultMaxAlloc,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithoutTracking disables the compound-structure tracking stack.
// Push, decrement and close operations become unconditional no-ops;
// this trades the traversal-balance checks for speed.
func WithoutTracking() Option {
	return func(o *options) {
		o.tracking = false
	}
}

// WithStrictAsserts makes caller-bug conditions (reading past a
// compound's declared count, closing the wrong frame, destroying with
// open frames) panic instead of latching CodeOther.
func WithStrictAsserts() Option {
	return func(o *options) {
		o.strict = true
	}
}

// WithMaxDepth bounds the nesting depth Discard will traverse.
func WithMaxDepth(n int) Option {
	return func(o *options) {
		o.maxDepth = n
	}
}

// WithMaxAllocSize bounds the declared length payload-copying reads
// will allocate for.  Longer declarations fault with CodeMemory.
func WithMaxAllocSize(n int) Option {
	return func(o *options) {
		o.maxAlloc = n
	}
}
