// Package paapi fetches product data from the Amazon Product Advertising
// API 5.0 (GetItems) using AWS Signature Version 4 request signing.
package paapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"github.com/maltedev/amazon-product-cards/internal/config"
	"github.com/maltedev/amazon-product-cards/internal/models"
)

const getItemsPath = "/paapi5/getitems"

// regionDomains maps an API region to its marketplace domain. Unknown
// regions fall back to the primary marketplace.
var regionDomains = map[string]string{
	"us-east-1":      "com",
	"eu-west-1":      "co.uk",
	"us-west-2":      "com",
	"ap-southeast-1": "com",
}

func domainForRegion(region string) string {
	if domain, ok := regionDomains[region]; ok {
		return domain
	}
	return "com"
}

type getItemsRequest struct {
	ItemIds     []string `json:"ItemIds"`
	Resources   []string `json:"Resources"`
	PartnerTag  string   `json:"PartnerTag"`
	PartnerType string   `json:"PartnerType"`
	Marketplace string   `json:"Marketplace"`
}

type Client struct {
	creds   config.CredentialsConfig
	client  *http.Client
	logger  *slog.Logger
	baseURL string // overrides the PA-API host when set, for tests
	now     func() time.Time
}

func NewClient(creds config.CredentialsConfig, logger *slog.Logger) *Client {
	return &Client{
		creds: creds,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger.With("component", "paapi"),
		now:    time.Now,
	}
}

// GetItem fetches title, primary image and listing price for one ASIN.
// Any transport error, non-2xx status or response without the expected item
// is reported as models.ErrUnavailable; nothing else escapes this boundary.
func (c *Client) GetItem(ctx context.Context, asin string) (*models.Product, error) {
	domain := domainForRegion(c.creds.Region)
	host := "webservices.amazon." + domain

	payload, err := json.Marshal(getItemsRequest{
		ItemIds: []string{asin},
		Resources: []string{
			"Images.Primary.Large",
			"ItemInfo.Title",
			"Offers.Listings.Price",
		},
		PartnerTag:  c.creds.PartnerTag,
		PartnerType: "Associates",
		Marketplace: "www.amazon." + domain,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode request", models.ErrUnavailable)
	}

	url := "https://" + host + getItemsPath
	if c.baseURL != "" {
		url = c.baseURL + getItemsPath
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build request", models.ErrUnavailable)
	}

	headers := sign(host, getItemsPath, payload, c.creds.AccessKey, c.creds.SecretKey, c.creds.Region, c.now())
	req.Header.Set("Content-Type", headers.ContentType)
	req.Header.Set("Authorization", headers.Authorization)
	req.Header.Set("X-Amz-Date", headers.AmzDate)
	req.Header.Set("X-Amz-Target", headers.AmzTarget)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("api request failed", "asin", asin, "error", err)
		return nil, fmt.Errorf("%w: %v", models.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response", models.ErrUnavailable)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("api returned non-success status", "asin", asin, "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: status %d", models.ErrUnavailable, resp.StatusCode)
	}

	item := gjson.GetBytes(body, "ItemsResult.Items.0")
	if !item.Exists() {
		c.logger.Warn("api response missing item", "asin", asin)
		return nil, fmt.Errorf("%w: no item in response", models.ErrUnavailable)
	}

	price := item.Get("Offers.Listings.0.Price.DisplayAmount").String()
	if price == "" {
		// The API answered but the listing has no price; keep that
		// distinguishable from a failed lookup.
		price = models.PriceNotAvailable
	}

	return &models.Product{
		ASIN:      asin,
		Title:     item.Get("ItemInfo.Title.DisplayValue").String(),
		Image:     item.Get("Images.Primary.Large.URL").String(),
		Price:     price,
		FetchedAt: c.now(),
	}, nil
}
