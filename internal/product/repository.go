package product

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"vapeshop-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	GetAll(ctx context.Context) ([]Product, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const selectProductColumns = `
	SELECT id, name, price, stock, COALESCE(brand, ''),
	       flavors, nicotine, specifications, image_url
	FROM products`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (Product, error) {
	var (
		p     Product
		specs []byte
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Price, &p.Stock, &p.Brand,
		pq.Array(&p.Flavors), pq.Array(&p.Nicotine), &specs, &p.ImageURL,
	)
	if err != nil {
		return Product{}, err
	}

	if len(specs) > 0 {
		p.Specifications, err = decodeSpecifications(specs)
		if err != nil {
			// A broken spec blob should not hide the product from the catalog.
			logger.Named("product").Warn("invalid specifications json",
				zap.String("product_id", p.ID),
				zap.Error(err),
			)
		}
	}

	return p, nil
}

// decodeSpecifications flattens a JSONB object into strings. Numbers and
// booleans keep their JSON text, nested values are dropped.
func decodeSpecifications(raw []byte) (map[string]string, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, nil
	}

	specs := make(map[string]string, len(fields))
	for k, v := range fields {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			specs[k] = s
			continue
		}
		var scalar any
		if err := json.Unmarshal(v, &scalar); err != nil {
			continue
		}
		switch scalar.(type) {
		case float64, bool:
			specs[k] = string(bytes.TrimSpace(v))
		}
	}
	return specs, nil
}

// GetAll returns active products in catalog order.
func (r *repository) GetAll(ctx context.Context) ([]Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetAll"),
	)

	rows, err := r.db.QueryContext(ctx, selectProductColumns+`
	WHERE status = 'active'
	ORDER BY created_at, id`)
	if err != nil {
		log.Error("query products failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrFailedGetProducts, err)
	}
	defer rows.Close()

	products := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			log.Error("scan product failed", zap.Error(err))
			return nil, fmt.Errorf("%w: %v", ErrFailedScanProduct, err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedGetProducts, err)
	}

	log.Debug("products loaded", zap.Int("count", len(products)))
	return products, nil
}
