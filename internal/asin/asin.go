package asin

import (
	"regexp"
	"strings"

	"github.com/maltedev/amazon-product-cards/internal/models"
)

// urlPatterns is tried in order, most specific path markers first. The
// generic 10-character fallbacks must come last because they false-positive
// on other path segments.
var urlPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/dp/([A-Z0-9]{10})`),
	regexp.MustCompile(`/gp/product/([A-Z0-9]{10})`),
	regexp.MustCompile(`/exec/obidos/ASIN/([A-Z0-9]{10})`),
	regexp.MustCompile(`/o/ASIN/([A-Z0-9]{10})`),
	regexp.MustCompile(`/gp/aw/d/([A-Z0-9]{10})`),
	regexp.MustCompile(`product/([A-Z0-9]{10})`),
	regexp.MustCompile(`ASIN/([A-Z0-9]{10})`),
	regexp.MustCompile(`/([A-Z0-9]{10})(?:/|\?|$)`),
	regexp.MustCompile(`\b([A-Z0-9]{10})\b`),
}

// Extract derives the ASIN from an Amazon product URL. It is a pure
// function of the URL; trailing slashes and query strings do not change
// the result. Returns models.ErrInvalidURL when no pattern matches.
func Extract(url string) (string, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return "", models.ErrInvalidURL
	}

	for _, pattern := range urlPatterns {
		if matches := pattern.FindStringSubmatch(url); matches != nil {
			return matches[1], nil
		}
	}

	return "", models.ErrInvalidURL
}
