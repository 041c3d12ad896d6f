package depreciation

import "time"

// =============================================================================
// SERVICE - Wires every component onto one store and one locker
// =============================================================================

// Service groups the components that share a Store, Locker and clock.
type Service struct {
	Categories *CategoryRegistry
	Assets     *AssetLedger
	Engine     *Engine
	Ledger     *Ledger
}

type options struct {
	locker  Locker
	clock   func() time.Time
	workers int
}

type Option func(*options)

// WithLocker replaces the in-process KeyedLocker, e.g. with a Redis lock.
func WithLocker(l Locker) Option {
	return func(o *options) { o.locker = l }
}

// WithClock fixes the timestamp source (tests).
func WithClock(clock func() time.Time) Option {
	return func(o *options) { o.clock = clock }
}

// WithWorkers bounds ClosePeriod concurrency.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

func New(store Store, opts ...Option) *Service {
	o := options{workers: DefaultWorkers}
	for _, opt := range opts {
		opt(&o)
	}
	if o.locker == nil {
		o.locker = NewKeyedLocker()
	}
	return &Service{
		Categories: &CategoryRegistry{Store: store, Locker: o.locker, Clock: o.clock},
		Assets:     &AssetLedger{Store: store, Locker: o.locker, Clock: o.clock},
		Engine:     &Engine{Store: store, Locker: o.locker, Clock: o.clock, Workers: o.workers},
		Ledger:     &Ledger{Store: store, Clock: o.clock},
	}
}
