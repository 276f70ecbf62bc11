package metrics

// Noop is a metrics recorder that discards everything. Used in tests and when
// metrics are disabled.
type Noop struct{}

func NewNoop() *Noop { return &Noop{} }

func (Noop) RecordProviderRequest(provider, outcome string)      {}
func (Noop) RecordCacheEvent(key, event string)                  {}
func (Noop) RecordRangePosition(sector string, position float64) {}
func (Noop) RecordLatency(op string, seconds float64)            {}
