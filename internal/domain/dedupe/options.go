package dedupe

// Option applies a configuration option to the deduper.
type Option func(*inMemoryDeduper)

// WithCapacity pre-sizes the deduper for n keys. Negative n is ignored.
func WithCapacity(n int) Option {
	return func(d *inMemoryDeduper) {
		if n > 0 {
			d.capacity = n
		}
	}
}
