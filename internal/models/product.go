package models

import (
	"errors"
	"time"
)

// PriceNotAvailable is stored when the API answered but carried no listing
// price. It distinguishes "no price offered" from "lookup failed".
const PriceNotAvailable = "Price not available"

// Acquisition failure kinds. Everything the upstream paths can throw is
// downgraded to one of these before it leaves the product service.
var (
	ErrInvalidURL   = errors.New("could not extract ASIN from URL")
	ErrUnavailable  = errors.New("product data unavailable")
	ErrParseFailure = errors.New("no usable title or image in document")
	ErrFetchFailed  = errors.New("failed to fetch product data")
)

// Product holds the normalized metadata for a single Amazon product.
// URL is always the original input URL, unmodified. Price, when present,
// is a currency-symbol-prefixed decimal with two fraction digits
// (e.g. "$19.99") or the PriceNotAvailable sentinel.
type Product struct {
	ASIN      string    `json:"asin"`
	Title     string    `json:"title,omitempty"`
	Price     string    `json:"price,omitempty"`
	Image     string    `json:"image,omitempty"`
	URL       string    `json:"url"`
	FetchedAt time.Time `json:"fetched_at"`
}

// IsValid reports whether the product carries enough data to display.
// A price alone is not enough; bot-detection pages still contain
// price-looking strings.
func (p *Product) IsValid() bool {
	return p.Title != "" || p.Image != ""
}

// AcquireResult is the envelope returned to the editor/front-end callers.
type AcquireResult struct {
	Success bool     `json:"success"`
	Data    *Product `json:"data,omitempty"`
	Error   string   `json:"error,omitempty"`
}
