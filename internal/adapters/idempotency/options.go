package idempotency

// Option applies a configuration option to the LRU keeper.
type Option func(*lruKeeper)

// WithMaxSize sets the number of keys remembered. Non-positive values are
// ignored.
func WithMaxSize(maxSize int) Option {
	return func(k *lruKeeper) {
		if maxSize > 0 {
			k.maxSize = maxSize
		}
	}
}
