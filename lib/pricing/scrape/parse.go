package scrape

import (
	"net/url"
	"regexp"
	"strings"

	"obracalc-backend/lib/htmlutil"
	"obracalc-backend/lib/pricing"
	"obracalc-backend/lib/textutil"
	"obracalc-backend/lib/timezone"

	"github.com/PuerkitoBio/purell"
	"github.com/antzucaro/matchr"
	"github.com/shopspring/decimal"
)

// currency symbol or code adjacent to a decimal number; the order
// matters, "US$" and "R$" must win over the bare "$". Amounts come
// grouped ("1.234,56", "1,234.56") or ungrouped ("1500,00", "2450").
const amountPattern = `(?:[0-9]{1,3}(?:[.,][0-9]{3})+|[0-9]+)(?:[.,][0-9]{1,2})?`

var prefixPriceRegex = regexp.MustCompile(`(R\$|US\$|\$|€|£|BRL|USD|EUR|GBP|ARS|CLP)\s*(` + amountPattern + `)`)
var suffixPriceRegex = regexp.MustCompile(`(` + amountPattern + `)\s?(BRL\b|USD\b|EUR\b|GBP\b|ARS\b|CLP\b|€|£)`)

var currencyBySymbol = map[string]string{
	"R$":  "BRL",
	"US$": "USD",
	"$":   "USD",
	"€":   "EUR",
	"£":   "GBP",
}

// parsePrice extracts the first currency-adjacent numeric token. The
// adjacent symbol/code decides the detected currency; conversion to
// the request currency is a presentation concern and never happens
// here.
func parsePrice(text string) (decimal.Decimal, string, bool) {
	var currency, amount string
	if m := prefixPriceRegex.FindStringSubmatch(text); m != nil {
		currency, amount = m[1], m[2]
	} else if m := suffixPriceRegex.FindStringSubmatch(text); m != nil {
		amount, currency = m[1], m[2]
	} else {
		return decimal.Decimal{}, "", false
	}

	if mapped, ok := currencyBySymbol[currency]; ok {
		currency = mapped
	}

	price, err := decimal.NewFromString(normalizeAmount(amount))
	if err != nil {
		return decimal.Decimal{}, "", false
	}
	return price, currency, true
}

// normalizeAmount rewrites both "1.234,56" and "1,234.56" groupings
// into a plain decimal string.
func normalizeAmount(s string) string {
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			// 1.234,56
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			// 1,234.56
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if len(s)-lastComma-1 == 3 {
			// 1,234 reads as a thousands group
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.ReplaceAll(s, ",", ".")
		}
	case lastDot >= 0:
		if len(s)-lastDot-1 == 3 {
			// 1.234 reads as a thousands group
			s = strings.ReplaceAll(s, ".", "")
		}
	}
	return s
}

var phoneRegex = regexp.MustCompile(`(?:\+\d{1,3}\s?)?(?:\(\d{2,3}\)|\b\d{2,3})[\s.-]?\d{3,5}[-.\s]\d{4}\b`)

func parsePhone(text string) string {
	return phoneRegex.FindString(text)
}

// canonicalizeStore snaps a cleaned result title onto a known regional
// chain name when it is close enough, so "Leroy Merlin Brasil" and
// "LEROY MERLIN" collapse into one store.
func canonicalizeStore(name, country string) string {
	normalized := textutil.NormalizeName(name)
	for _, chain := range chainsByCountry[strings.ToUpper(country)] {
		chainNorm := textutil.NormalizeName(chain.name)
		if textutil.MatchName(name, []string{chainNorm}) || strings.Contains(chainNorm, normalized) {
			return chain.name
		}
		if matchr.JaroWinkler(normalized, chainNorm, false) >= 0.9 {
			return chain.name
		}
	}
	return name
}

// normalizeWebsite strips tracking query strings and fragments so the
// same store page reached through different search links dedupes to
// one point.
func normalizeWebsite(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	u.RawQuery = ""
	u.Fragment = ""
	return purell.NormalizeURL(u, purell.FlagsUsuallySafeGreedy)
}

func extractPoints(results []htmlutil.SearchResult, loc pricing.Location, material pricing.MaterialID) []pricing.PricePoint {
	seen := map[string]struct{}{}
	var points []pricing.PricePoint

	for _, result := range results {
		price, currency, ok := parsePrice(result.Snippet)
		if !ok {
			price, currency, ok = parsePrice(result.Title)
		}
		if !ok {
			continue
		}

		website := normalizeWebsite(result.Href)
		if _, duplicate := seen[website]; duplicate {
			continue
		}
		seen[website] = struct{}{}

		points = append(points, pricing.PricePoint{
			Material: material,
			Store: pricing.Store{
				Name:    canonicalizeStore(textutil.CleanTitle(result.Title), loc.Country),
				Phone:   parsePhone(result.Snippet),
				Website: website,
			},
			Price:      price,
			Currency:   currency,
			CapturedAt: timezone.Now(),
			Confidence: pricing.ConfidenceScraped,
		})
	}
	return points
}
