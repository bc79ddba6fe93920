package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docFromHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtractPriceFromOffscreen(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected string
	}{
		{
			name:     "complete price with symbol",
			html:     `<span class="a-price"><span class="a-offscreen">$19.99</span></span>`,
			expected: "$19.99",
		},
		{
			name:     "plain digits get a symbol prepended",
			html:     `<span class="a-offscreen">24.50</span>`,
			expected: "$24.50",
		},
		{
			name:     "price-to-pay variant",
			html:     `<span class="priceToPay something"><span class="a-offscreen">$7.00</span></span>`,
			expected: "$7.00",
		},
		{
			name: "non-price offscreen text is skipped in favor of parts",
			html: `<span class="a-offscreen">See options</span>
				<span class="a-price"><span class="a-price-symbol">$</span><span class="a-price-whole">5.</span><span class="a-price-fraction">49</span></span>`,
			expected: "$5.49",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := docFromHTML(t, tt.html)
			assert.Equal(t, tt.expected, extractPrice(doc, tt.html))
		})
	}
}

func TestExtractPriceIdempotent(t *testing.T) {
	// Feeding an already-canonical price through the cascade must yield
	// the same string unchanged.
	html := `<span class="a-offscreen">$19.99</span>`
	doc := docFromHTML(t, html)

	first := extractPrice(doc, html)
	require.Equal(t, "$19.99", first)

	again := docFromHTML(t, `<span class="a-offscreen">`+first+`</span>`)
	assert.Equal(t, first, extractPrice(again, first))
}

func TestExtractPriceFromParts(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected string
	}{
		{
			name: "whole, fraction and symbol",
			html: `<span class="a-price">
				<span class="a-price-symbol">$</span>
				<span class="a-price-whole">19.</span>
				<span class="a-price-fraction">99</span>
			</span>`,
			expected: "$19.99",
		},
		{
			name: "missing fraction appends .00",
			html: `<span class="a-price">
				<span class="a-price-symbol">$</span>
				<span class="a-price-whole">19.</span>
			</span>`,
			expected: "$19.00",
		},
		{
			name: "missing symbol defaults to dollar",
			html: `<span class="a-price">
				<span class="a-price-whole">42</span>
				<span class="a-price-fraction">10</span>
			</span>`,
			expected: "$42.10",
		},
		{
			name: "range containers are skipped",
			html: `<span class="a-price a-text-price-range">
				<span class="a-price-whole">10.</span>
			</span>
			<span class="a-price">
				<span class="a-price-symbol">$</span>
				<span class="a-price-whole">15.</span>
				<span class="a-price-fraction">25</span>
			</span>`,
			expected: "$15.25",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := docFromHTML(t, tt.html)
			assert.Equal(t, tt.expected, extractPrice(doc, tt.html))
		})
	}
}

func TestExtractPriceFromEmbeddedJSON(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{
			name:     "quoted amount with decimals",
			body:     `<div></div><script>{"priceAmount": "34.95"}</script>`,
			expected: "$34.95",
		},
		{
			name:     "unquoted integer amount gets .00",
			body:     `<script>{"priceAmount": 34}</script>`,
			expected: "$34.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := docFromHTML(t, tt.body)
			assert.Equal(t, tt.expected, extractPrice(doc, tt.body))
		})
	}
}

func TestExtractPriceFromAriaLabel(t *testing.T) {
	html := `<div aria-label="Current price: $12.34, was $20.00">widget</div>`
	doc := docFromHTML(t, html)
	assert.Equal(t, "$12.34", extractPrice(doc, html))
}

func TestExtractPriceNothingFound(t *testing.T) {
	html := `<div><p>A page with no price at all</p></div>`
	doc := docFromHTML(t, html)
	assert.Empty(t, extractPrice(doc, html))
}

func TestExtractPriceMethodOrder(t *testing.T) {
	// Offscreen wins over parts, embedded JSON and aria-label.
	html := `<span class="a-offscreen">$1.11</span>
		<span class="a-price"><span class="a-price-whole">2.</span><span class="a-price-fraction">22</span></span>
		<script>{"priceAmount": "3.33"}</script>
		<div aria-label="$4.44"></div>`
	doc := docFromHTML(t, html)
	assert.Equal(t, "$1.11", extractPrice(doc, html))
}
