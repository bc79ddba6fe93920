// Package cache stores fetched product records keyed by ASIN with a fixed
// time-to-live, fronting both the API and scrape fetch paths.
//
// The cache makes no single-flight guarantee: two concurrent lookups for a
// never-seen ASIN may both miss and both trigger an upstream fetch. That is
// a known inefficiency, not a bug; last writer wins on Put.
package cache

import (
	"context"
	"errors"

	"github.com/maltedev/amazon-product-cards/internal/models"
)

// ErrMiss is returned for never-seen ASINs and for expired entries alike.
// Callers cannot distinguish the two; both require a fresh fetch.
var ErrMiss = errors.New("cache miss")

// Cache is the TTL keyed store fronting product acquisition. Put always
// overwrites any existing entry and resets its TTL clock. Implementations
// must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, asin string) (*models.Product, error)
	Put(ctx context.Context, asin string, product *models.Product) error
	Invalidate(ctx context.Context, asin string) error
}
