package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maltedev/amazon-product-cards/internal/models"
)

const createCacheTableSQL = `
CREATE TABLE IF NOT EXISTS product_cache (
	asin       TEXT PRIMARY KEY,
	record     JSONB NOT NULL,
	expires_at TIMESTAMPTZ NOT NULL
)`

// PostgresCache keeps cache entries in a single table with an expiry column.
// Expired rows read as misses and are overwritten by the next Put; there is
// no background reaper.
type PostgresCache struct {
	pool *pgxpool.Pool
	ttl  time.Duration
}

func NewPostgresCache(ctx context.Context, dsn string, ttl time.Duration) (*PostgresCache, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, createCacheTableSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create cache table: %w", err)
	}

	return &PostgresCache{pool: pool, ttl: ttl}, nil
}

func (c *PostgresCache) Get(ctx context.Context, asin string) (*models.Product, error) {
	var data []byte
	err := c.pool.QueryRow(ctx,
		`SELECT record FROM product_cache WHERE asin = $1 AND expires_at > now()`,
		asin,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("cache select failed: %w", err)
	}

	var product models.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, ErrMiss
	}

	return &product, nil
}

func (c *PostgresCache) Put(ctx context.Context, asin string, product *models.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("failed to encode product: %w", err)
	}

	_, err = c.pool.Exec(ctx,
		`INSERT INTO product_cache (asin, record, expires_at)
		 VALUES ($1, $2, now() + make_interval(secs => $3))
		 ON CONFLICT (asin) DO UPDATE
		 SET record = EXCLUDED.record, expires_at = EXCLUDED.expires_at`,
		asin, data, c.ttl.Seconds(),
	)
	if err != nil {
		return fmt.Errorf("cache upsert failed: %w", err)
	}
	return nil
}

func (c *PostgresCache) Invalidate(ctx context.Context, asin string) error {
	if _, err := c.pool.Exec(ctx, `DELETE FROM product_cache WHERE asin = $1`, asin); err != nil {
		return fmt.Errorf("cache delete failed: %w", err)
	}
	return nil
}

func (c *PostgresCache) Close() {
	c.pool.Close()
}
