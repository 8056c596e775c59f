package facet

import (
	"context"
	"fmt"

	"vapeshop-be/internal/logger"
	"vapeshop-be/internal/metrics"
	"vapeshop-be/internal/product"

	"go.uber.org/zap"
)

// CatalogProvider supplies the product list. The engine never writes to it.
type CatalogProvider interface {
	Products(ctx context.Context) ([]product.Product, error)
}

// cacheInvalidator is implemented by providers that cache the catalog.
type cacheInvalidator interface {
	Invalidate()
}

type Service interface {
	Current(ctx context.Context, sessionID string) (*Result, error)
	Apply(ctx context.Context, sessionID string, change Change) (*Result, error)
	Classify(flavor string) []string
	RefreshCatalog() bool
	Metrics() metrics.Snapshot
}

type service struct {
	catalog CatalogProvider
	session *Session
	engine  *Engine
	metrics *metrics.FilterMetrics
}

func NewService(catalog CatalogProvider, session *Session, engine *Engine, m *metrics.FilterMetrics) Service {
	if m == nil {
		m = &metrics.FilterMetrics{}
	}
	return &service{catalog: catalog, session: session, engine: engine, metrics: m}
}

// Current recomputes the result for the session's saved selections.
func (s *service) Current(ctx context.Context, sessionID string) (*Result, error) {
	products, err := s.products(ctx)
	if err != nil {
		return nil, err
	}

	state := s.session.Load(ctx, sessionID, Bounds(products))
	return s.recompute(ctx, products, state), nil
}

// Apply loads the saved state, applies one change, persists the new state
// and recomputes. Clear deletes the saved state instead of writing the
// defaults. A failed write is logged; the result is still returned.
func (s *service) Apply(ctx context.Context, sessionID string, change Change) (*Result, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Apply"),
	)

	products, err := s.products(ctx)
	if err != nil {
		return nil, err
	}
	bounds := Bounds(products)

	unlock := s.session.Lock(sessionID)
	defer unlock()

	state := s.session.Load(ctx, sessionID, bounds)
	next, err := change.Apply(state, bounds)
	if err != nil {
		log.Info("rejected filter change", zap.Int("kind", int(change.Kind)), zap.Error(err))
		return nil, err
	}

	if change.Kind == ChangeClear {
		if err := s.session.Reset(ctx, sessionID); err != nil {
			log.Warn("failed to reset filters", zap.Error(err))
		}
	} else if err := s.session.Save(ctx, sessionID, next); err != nil {
		log.Warn("failed to persist filters", zap.Error(err))
	}

	return s.recompute(ctx, products, next), nil
}

func (s *service) Classify(flavor string) []string {
	return s.engine.Classifier().Classify(flavor)
}

// RefreshCatalog drops a cached catalog so the next request reloads it.
// It reports false when the provider does not cache.
func (s *service) RefreshCatalog() bool {
	c, ok := s.catalog.(cacheInvalidator)
	if ok {
		c.Invalidate()
	}
	return ok
}

func (s *service) Metrics() metrics.Snapshot {
	return s.metrics.Snapshot()
}

func (s *service) products(ctx context.Context) ([]product.Product, error) {
	products, err := s.catalog.Products(ctx)
	if err != nil {
		s.metrics.CatalogFailures.Inc()
		logger.FromCtx(ctx).Error("catalog unavailable", zap.Error(err))
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return products, nil
}

func (s *service) recompute(ctx context.Context, products []product.Product, state FilterState) *Result {
	timer := metrics.StartTimer()
	res := s.engine.Recompute(products, state)
	elapsed := timer.Duration()
	s.metrics.ObserveRecompute(elapsed)

	logger.FromCtx(ctx).Debug("filters recomputed",
		zap.Int("catalog", len(products)),
		zap.Int("matched", res.Total),
		zap.Int("active_facets", state.ActiveFacets()),
		zap.String("count_mode", s.engine.Mode().String()),
		zap.Duration("duration", elapsed),
	)
	return &res
}
