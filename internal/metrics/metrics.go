package metrics

import (
	"sync/atomic"
	"time"
)

type Counter struct {
	value uint64
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Add(n uint64) {
	atomic.AddUint64(&c.value, n)
}

func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// FilterMetrics groups the counters of the facet pipeline.
type FilterMetrics struct {
	Recomputations     Counter
	StoreReadFailures  Counter
	StoreWriteFailures Counter
	CatalogFailures    Counter

	// total recompute time in nanoseconds
	recomputeNanos Counter
}

func (m *FilterMetrics) ObserveRecompute(d time.Duration) {
	m.Recomputations.Inc()
	if d > 0 {
		m.recomputeNanos.Add(uint64(d))
	}
}

type Snapshot struct {
	Recomputations     uint64  `json:"recomputations"`
	StoreReadFailures  uint64  `json:"store_read_failures"`
	StoreWriteFailures uint64  `json:"store_write_failures"`
	CatalogFailures    uint64  `json:"catalog_failures"`
	AvgRecomputeMillis float64 `json:"avg_recompute_ms"`
}

func (m *FilterMetrics) Snapshot() Snapshot {
	s := Snapshot{
		Recomputations:     m.Recomputations.Load(),
		StoreReadFailures:  m.StoreReadFailures.Load(),
		StoreWriteFailures: m.StoreWriteFailures.Load(),
		CatalogFailures:    m.CatalogFailures.Load(),
	}
	if s.Recomputations > 0 {
		avg := time.Duration(m.recomputeNanos.Load() / s.Recomputations)
		s.AvgRecomputeMillis = float64(avg) / float64(time.Millisecond)
	}
	return s
}
