package product

import (
	"context"
	"sync"
	"time"
)

const DefaultCatalogTTL = 5 * time.Minute

// Catalog caches the full product list in front of a Repository.
// Callers get their own slice; the products themselves are shared and
// must be treated as read-only.
type Catalog struct {
	repo Repository
	ttl  time.Duration
	now  func() time.Time

	mu        sync.RWMutex
	products  []Product
	fetchedAt time.Time
}

func NewCatalog(repo Repository, ttl time.Duration) *Catalog {
	if ttl <= 0 {
		ttl = DefaultCatalogTTL
	}
	return &Catalog{repo: repo, ttl: ttl, now: time.Now}
}

func (c *Catalog) Products(ctx context.Context) ([]Product, error) {
	c.mu.RLock()
	if c.products != nil && c.now().Sub(c.fetchedAt) < c.ttl {
		out := append([]Product(nil), c.products...)
		c.mu.RUnlock()
		return out, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// another caller may have refreshed while we waited for the lock
	if c.products != nil && c.now().Sub(c.fetchedAt) < c.ttl {
		return append([]Product(nil), c.products...), nil
	}

	products, err := c.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []Product{}
	}
	c.products = products
	c.fetchedAt = c.now()

	return append([]Product(nil), products...), nil
}

// Invalidate forces the next Products call to hit the repository.
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	c.products = nil
	c.mu.Unlock()
}
