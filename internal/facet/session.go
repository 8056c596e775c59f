package facet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"

	"vapeshop-be/internal/filterstore"
	"vapeshop-be/internal/logger"
	"vapeshop-be/internal/metrics"

	"go.uber.org/zap"
)

// StorageKey is the key under which selections are saved. Sessions get
// their own suffix; an anonymous caller shares the bare key.
const StorageKey = "vapeshop:filters"

func storageKey(sessionID string) string {
	if sessionID == "" {
		return StorageKey
	}
	return StorageKey + ":" + sessionID
}

// Session persists filter states through a filterstore.Store. Read
// problems never surface: the caller just gets the defaults.
type Session struct {
	store   filterstore.Store
	metrics *metrics.FilterMetrics

	// striped per-session locks; they serialize writers within one process
	locks [lockStripes]sync.Mutex
}

const lockStripes = 64

func NewSession(store filterstore.Store, m *metrics.FilterMetrics) *Session {
	if m == nil {
		m = &metrics.FilterMetrics{}
	}
	return &Session{store: store, metrics: m}
}

// Load restores the saved state for sessionID, clamped to bounds. Missing,
// unreadable or malformed data yields DefaultState(bounds).
func (s *Session) Load(ctx context.Context, sessionID string, bounds PriceRange) FilterState {
	log := logger.FromCtx(ctx).With(zap.String("component", "facet.session"))

	raw, err := s.store.Get(ctx, storageKey(sessionID))
	if errors.Is(err, filterstore.ErrNotFound) {
		return DefaultState(bounds)
	}
	if err != nil {
		s.metrics.StoreReadFailures.Inc()
		log.Warn("reading saved filters failed, using defaults", zap.Error(err))
		return DefaultState(bounds)
	}

	state, err := decodeState(raw)
	if err != nil {
		s.metrics.StoreReadFailures.Inc()
		log.Warn("saved filters are malformed, using defaults", zap.Error(err))
		return DefaultState(bounds)
	}
	return state.Clamp(bounds)
}

// Save writes the state. The error is informational; the in-memory result
// is valid either way.
func (s *Session) Save(ctx context.Context, sessionID string, state FilterState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode filter state: %w", err)
	}
	if err := s.store.Set(ctx, storageKey(sessionID), raw); err != nil {
		s.metrics.StoreWriteFailures.Inc()
		return err
	}
	return nil
}

// Reset drops the saved state; the next Load returns the defaults.
func (s *Session) Reset(ctx context.Context, sessionID string) error {
	if err := s.store.Delete(ctx, storageKey(sessionID)); err != nil {
		s.metrics.StoreWriteFailures.Inc()
		return err
	}
	return nil
}

// Lock serializes load-modify-save cycles of one session and returns the
// unlock func. Replicas behind a shared store are not coordinated.
func (s *Session) Lock(sessionID string) func() {
	h := fnv.New32a()
	h.Write([]byte(sessionID))
	mu := &s.locks[h.Sum32()%lockStripes]
	mu.Lock()
	return mu.Unlock
}

func decodeState(raw []byte) (FilterState, error) {
	// Start from defaults so fields absent in older snapshots stay sane.
	state := DefaultState(FallbackBounds)
	if err := json.Unmarshal(raw, &state); err != nil {
		return FilterState{}, err
	}
	if err := validPrice(state.PriceRange.Min); err != nil {
		return FilterState{}, err
	}
	if err := validPrice(state.PriceRange.Max); err != nil {
		return FilterState{}, err
	}
	return state.Clone(), nil
}
