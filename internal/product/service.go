// Package product ties the acquisition pipeline together: URL validation,
// ASIN extraction, cache lookup, the signed API attempt, the scrape fallback
// and the cache write.
package product

import (
	"context"
	"errors"
	"log/slog"

	"github.com/maltedev/amazon-product-cards/internal/asin"
	"github.com/maltedev/amazon-product-cards/internal/cache"
	"github.com/maltedev/amazon-product-cards/internal/models"
)

// APIFetcher is the structured-data path (PA-API GetItems).
type APIFetcher interface {
	GetItem(ctx context.Context, asin string) (*models.Product, error)
}

// PageScraper is the HTML fallback path.
type PageScraper interface {
	Scrape(ctx context.Context, url string) (*models.Product, error)
}

type Service struct {
	cache   cache.Cache
	api     APIFetcher // nil when credentials are not configured
	scraper PageScraper
	logger  *slog.Logger
}

func NewService(c cache.Cache, api APIFetcher, scraper PageScraper, logger *slog.Logger) *Service {
	return &Service{
		cache:   c,
		api:     api,
		scraper: scraper,
		logger:  logger.With("component", "product"),
	}
}

// Acquire resolves a product URL to a normalized record, consulting the
// cache first. Records are cached by ASIN, so different URLs resolving to
// the same product share one entry. Failed acquisitions are never cached; a
// transient failure must not poison the cache for a full TTL.
func (s *Service) Acquire(ctx context.Context, url string) (*models.Product, error) {
	id, err := asin.Extract(url)
	if err != nil {
		return nil, models.ErrInvalidURL
	}

	if cached, err := s.cache.Get(ctx, id); err == nil {
		s.logger.Debug("cache hit", "asin", id)
		return cached, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		// A broken cache backend should not take acquisition down;
		// fall through to a fresh fetch.
		s.logger.Warn("cache lookup failed", "asin", id, "error", err)
	}

	product, fetchErr := s.fetch(ctx, id, url)
	if fetchErr != nil {
		return nil, fetchErr
	}

	product.ASIN = id
	product.URL = url

	if err := s.cache.Put(ctx, id, product); err != nil {
		s.logger.Warn("cache write failed", "asin", id, "error", err)
	}

	return product, nil
}

// Invalidate evicts the cache entry for one ASIN. Exposed for
// administrative and debug use.
func (s *Service) Invalidate(ctx context.Context, id string) error {
	return s.cache.Invalidate(ctx, id)
}

func (s *Service) fetch(ctx context.Context, id, url string) (*models.Product, error) {
	if s.api != nil {
		product, err := s.api.GetItem(ctx, id)
		if err == nil {
			return product, nil
		}
		s.logger.Info("api fetch failed, falling back to scrape", "asin", id, "error", err)
	}

	product, err := s.scraper.Scrape(ctx, url)
	if err != nil {
		if errors.Is(err, models.ErrParseFailure) {
			// The document was retrieved but unusable; that is the more
			// informative failure.
			return nil, models.ErrParseFailure
		}
		return nil, models.ErrFetchFailed
	}

	return product, nil
}
