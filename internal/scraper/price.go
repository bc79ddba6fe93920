package scraper

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// offscreenSelectors locate accessibility text nodes that usually hold the
// complete formatted price.
var offscreenSelectors = []string{
	"span.a-offscreen",
	"span.a-price span.a-offscreen",
	"div.a-section span.a-offscreen",
	"span.a-price.a-text-price.a-size-medium.apexPriceToPay span.a-offscreen",
	"span[class*=priceToPay] span.a-offscreen",
}

var (
	plainPricePattern  = regexp.MustCompile(`^\d+\.\d{2}$`)
	priceAmountPattern = regexp.MustCompile(`"priceAmount":\s*"?(\d+(?:\.\d{2})?)"?`)
	ariaPricePattern   = regexp.MustCompile(`\$\d+(?:\.\d{2})?`)

	// imageJSONPatterns finds high-resolution image URLs in embedded
	// JavaScript data, tried in order.
	imageJSONPatterns = []*regexp.Regexp{
		regexp.MustCompile(`"hiRes":"([^"]+)"`),
		regexp.MustCompile(`"large":"([^"]+)"`),
	}
)

// extractPrice reconciles the several ways Amazon renders a price into one
// canonical currency string, e.g. "$19.99". Methods are tried in strict
// order, stopping at the first success; an empty result means "unknown",
// never zero.
func extractPrice(doc *goquery.Document, body string) string {
	// Method 1: complete price in offscreen/accessibility elements.
	for _, selector := range offscreenSelectors {
		price := strings.TrimSpace(doc.Find(selector).First().Text())
		if price == "" {
			continue
		}
		if strings.Contains(price, "$") {
			return price
		}
		if plainPricePattern.MatchString(price) {
			return "$" + price
		}
	}

	// Method 2: reassemble from whole/fraction/symbol parts inside a price
	// container. Range prices are skipped; a range is not one price.
	var built string
	doc.Find("span.a-price").EachWithBreak(func(_ int, container *goquery.Selection) bool {
		if class, _ := container.Attr("class"); strings.Contains(class, "a-text-price-range") {
			return true
		}

		whole := strings.TrimSpace(container.Find("span.a-price-whole").First().Text())
		whole = strings.TrimSuffix(whole, ".")
		if whole == "" {
			return true
		}

		symbol := strings.TrimSpace(container.Find("span.a-price-symbol").First().Text())
		if symbol == "" {
			symbol = "$"
		}

		fraction := strings.TrimSpace(container.Find("span.a-price-fraction").First().Text())
		if fraction == "" {
			fraction = "00"
		}

		built = symbol + whole + "." + fraction
		return false
	})
	if built != "" {
		return built
	}

	// Method 3: embedded JSON price field in the raw body.
	if matches := priceAmountPattern.FindStringSubmatch(body); matches != nil {
		amount := matches[1]
		if !strings.Contains(amount, ".") {
			amount += ".00"
		}
		return "$" + amount
	}

	// Method 4: any aria-label carrying a currency-prefixed number.
	var fromAria string
	doc.Find("[aria-label]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		label, _ := sel.Attr("aria-label")
		if !strings.Contains(label, "$") {
			return true
		}
		if match := ariaPricePattern.FindString(label); match != "" {
			fromAria = match
			return false
		}
		return true
	})

	return fromAria
}
