// Package scraper retrieves Amazon product pages over plain HTTP and
// extracts title, image and price with ordered selector cascades. It is the
// fallback path when the Product Advertising API is unconfigured or failing.
package scraper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"github.com/maltedev/amazon-product-cards/internal/models"
	"github.com/maltedev/amazon-product-cards/internal/ratelimit"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// titleSelectors is tried in order; the first non-empty text wins. Amazon
// serves several page layouts, including an e-book variant.
var titleSelectors = []string{
	"span#productTitle",
	"h1#title span",
	"h1.product-title-word-break",
	"h1.a-size-large.a-spacing-none span",
	"span#ebooksProductTitle",
}

// imageSelectors pairs a selector with the attribute carrying the image URL.
// data-old-hires is preferred where present since it holds the
// high-resolution source.
var imageSelectors = []struct {
	selector string
	attr     string
}{
	{"img#landingImage", "src"},
	{"img#imgBlkFront", "src"},
	{"img#main-image", "src"},
	{"div#imgTagWrapperId img", "src"},
	{"div[class*=imgTagWrapper] img", "src"},
	{"div#mainImageContainer img", "src"},
	{"img[data-old-hires]", "data-old-hires"},
	{"img#ebooksImgBlkFront", "src"},
}

type Options struct {
	Timeout      time.Duration
	MaxRedirects int
	// Limiter paces requests when set. Nil means unpaced single-shot
	// requests, matching the low-volume embed use case.
	Limiter ratelimit.Limiter
}

type Scraper struct {
	client  *http.Client
	limiter ratelimit.Limiter
	logger  *slog.Logger
}

func New(opts Options, logger *slog.Logger) *Scraper {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	maxRedirects := opts.MaxRedirects
	if maxRedirects == 0 {
		maxRedirects = 5
	}

	return &Scraper{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
		limiter: opts.Limiter,
		logger:  logger.With("component", "scraper"),
	}
}

// Scrape fetches the product page and extracts a product record. Transport
// errors, non-200 statuses and empty bodies map to models.ErrUnavailable; a
// retrieved document with neither title nor image maps to
// models.ErrParseFailure. A price-only page is not a valid result.
func (s *Scraper) Scrape(ctx context.Context, url string) (*models.Product, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrUnavailable, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid URL", models.ErrUnavailable)
	}

	// Browser-like headers reduce the chance of being served a
	// bot-detection or CAPTCHA page.
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Cache-Control", "max-age=0")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("scrape request failed", "url", url, "error", err)
		return nil, fmt.Errorf("%w: %v", models.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Warn("scrape returned non-200 status", "url", url, "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: status %d", models.ErrUnavailable, resp.StatusCode)
	}

	utf8Reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode body", models.ErrUnavailable)
	}

	var body strings.Builder
	if _, err := io.Copy(&body, utf8Reader); err != nil {
		return nil, fmt.Errorf("%w: failed to read body", models.ErrUnavailable)
	}
	if body.Len() == 0 {
		return nil, fmt.Errorf("%w: empty response body", models.ErrUnavailable)
	}

	return s.parse(body.String(), url)
}

// parse runs the extraction cascades over a retrieved document body.
// Malformed markup is tolerated; goquery parses best-effort and failed
// selectors simply yield nothing.
func (s *Scraper) parse(body, url string) (*models.Product, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse HTML", models.ErrParseFailure)
	}

	product := &models.Product{
		URL:       url,
		FetchedAt: time.Now(),
	}

	product.Title = extractTitle(doc)
	product.Image = extractImage(doc, body)
	product.Price = extractPrice(doc, body)

	if !product.IsValid() {
		s.logger.Warn("no title or image found", "url", url)
		return nil, models.ErrParseFailure
	}

	return product, nil
}

func extractTitle(doc *goquery.Document) string {
	for _, selector := range titleSelectors {
		if text := strings.TrimSpace(doc.Find(selector).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

func extractImage(doc *goquery.Document, body string) string {
	for _, is := range imageSelectors {
		src, exists := doc.Find(is.selector).First().Attr(is.attr)
		if !exists {
			continue
		}
		src = strings.TrimSpace(src)
		if strings.HasPrefix(src, "http") {
			return src
		}
	}

	// High-resolution URLs often only appear in embedded JavaScript data.
	for _, pattern := range imageJSONPatterns {
		if matches := pattern.FindStringSubmatch(body); matches != nil {
			return matches[1]
		}
	}

	return ""
}
