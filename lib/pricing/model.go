// Package pricing locates approximate market prices for construction
// materials at a geographic location, aggregating untrusted sources
// through an ordered provider chain with caching and graceful
// degradation.
package pricing

import (
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Location identifies a market. Country is an ISO 3166-1 alpha-2 code
// and is required; region and city narrow the market down when known.
// The zero string means unspecified.
type Location struct {
	Country string `json:"country"`
	Region  string `json:"region,omitempty"`
	City    string `json:"city,omitempty"`
}

func (l Location) Tokens() []string {
	var tokens []string
	if l.City != "" {
		tokens = append(tokens, l.City)
	}
	if l.Region != "" {
		tokens = append(tokens, l.Region)
	}
	if l.Country != "" {
		tokens = append(tokens, l.Country)
	}
	return tokens
}

type MaterialCategory string

const (
	CategoryConcrete MaterialCategory = "concrete"
	CategorySteel    MaterialCategory = "steel"
	CategoryWood     MaterialCategory = "wood"
	CategoryCement   MaterialCategory = "cement"
	CategorySand     MaterialCategory = "sand"
	CategoryGravel   MaterialCategory = "gravel"
	CategoryBrick    MaterialCategory = "brick"
	CategoryRebar    MaterialCategory = "rebar"
	CategoryTile     MaterialCategory = "tile"
	CategoryPaint    MaterialCategory = "paint"
)

var Categories = []MaterialCategory{
	CategoryConcrete,
	CategorySteel,
	CategoryWood,
	CategoryCement,
	CategorySand,
	CategoryGravel,
	CategoryBrick,
	CategoryRebar,
	CategoryTile,
	CategoryPaint,
}

func ParseCategory(s string) (MaterialCategory, bool) {
	normalized := MaterialCategory(strings.ToLower(strings.TrimSpace(s)))
	for _, c := range Categories {
		if c == normalized {
			return c, true
		}
	}
	return "", false
}

// MaterialID identifies a purchasable material. Identity is
// (Category, Code); Unit and Description are display metadata.
type MaterialID struct {
	Category    MaterialCategory `json:"category"`
	Code        string           `json:"code"`
	Unit        string           `json:"unit,omitempty"`
	Description string           `json:"description,omitempty"`
}

func (m MaterialID) SameIdentity(other MaterialID) bool {
	return m.Category == other.Category && m.Code == other.Code
}

type PriceRequest struct {
	Location  Location     `json:"location"`
	Materials []MaterialID `json:"materials"`
	Currency  string       `json:"currency"`
}

type Store struct {
	Name       string  `json:"name"`
	Address    string  `json:"address,omitempty"`
	Phone      string  `json:"phone,omitempty"`
	Website    string  `json:"website,omitempty"`
	DistanceKm float64 `json:"distance_km,omitempty"`
}

// Confidence tags the origin of a price point.
type Confidence string

const (
	// extracted from a live source
	ConfidenceScraped Confidence = "scraped"
	// a provider's internal fallback guess
	ConfidenceEstimated Confidence = "estimated"
	// a fixed catalog entry
	ConfidenceStatic Confidence = "static"
)

// PricePoint is one observed or estimated price. Never mutated after
// creation.
type PricePoint struct {
	Material   MaterialID      `json:"material"`
	Store      Store           `json:"store"`
	Price      decimal.Decimal `json:"price"`
	Currency   string          `json:"currency"`
	CapturedAt time.Time       `json:"captured_at"`
	Confidence Confidence      `json:"confidence"`
}

// PriceResponse is always returned, even on total source failure.
// Callers inspect Warnings to tell fully priced, partially priced and
// no-data outcomes apart.
type PriceResponse struct {
	Prices   []PricePoint `json:"prices"`
	Warnings []string     `json:"warnings,omitempty"`
}

// Fingerprint derives the cache key for a single material at a
// location in a target currency. Fields are escaped so distinct tuples
// can never collide on the separator.
func Fingerprint(loc Location, material MaterialID, currency string) string {
	parts := []string{
		loc.Country,
		loc.Region,
		loc.City,
		string(material.Category),
		material.Code,
		currency,
	}
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.QueryEscape(strings.ToLower(p))
	}
	return strings.Join(escaped, "|")
}
