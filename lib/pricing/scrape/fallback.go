package scrape

import (
	"strings"

	"obracalc-backend/lib/pricing"
	"obracalc-backend/lib/timezone"

	"github.com/shopspring/decimal"
)

// known regional store chains, the provider's internal fallback when a
// results page yields no parseable price mentions
type storeChain struct {
	name    string
	website string
}

var chainsByCountry = map[string][]storeChain{
	"BR": {
		{name: "Leroy Merlin", website: "https://www.leroymerlin.com.br"},
		{name: "Telhanorte", website: "https://www.telhanorte.com.br"},
		{name: "Center Castilho", website: "https://www.centercastilho.com.br"},
	},
	"US": {
		{name: "The Home Depot", website: "https://www.homedepot.com"},
		{name: "Lowe's", website: "https://www.lowes.com"},
	},
}

var currencyByCountry = map[string]string{
	"BR": "BRL",
	"US": "USD",
}

// rough per-unit market figures, deliberately coarse: they only exist
// so a dead or unparseable source still yields an order-of-magnitude
// answer
var estimatesByCategory = map[pricing.MaterialCategory]map[string]string{
	pricing.CategoryConcrete: {"BR": "420.00", "US": "145.00"},
	pricing.CategorySteel:    {"BR": "28.50", "US": "5.20"},
	pricing.CategoryWood:     {"BR": "18.90", "US": "4.75"},
	pricing.CategoryCement:   {"BR": "33.00", "US": "12.50"},
	pricing.CategorySand:     {"BR": "120.00", "US": "45.00"},
	pricing.CategoryGravel:   {"BR": "135.00", "US": "52.00"},
	pricing.CategoryBrick:    {"BR": "1.60", "US": "0.85"},
	pricing.CategoryRebar:    {"BR": "42.00", "US": "9.10"},
	pricing.CategoryTile:     {"BR": "39.90", "US": "14.00"},
	pricing.CategoryPaint:    {"BR": "92.00", "US": "38.00"},
}

// estimate produces chain-backed estimated points for the material's
// category, tagged accordingly. Returns nil when the country or the
// category is not covered.
func (p *Provider) estimate(loc pricing.Location, material pricing.MaterialID) []pricing.PricePoint {
	country := strings.ToUpper(loc.Country)
	chains := chainsByCountry[country]
	if len(chains) == 0 {
		return nil
	}
	byCountry, ok := estimatesByCategory[material.Category]
	if !ok {
		return nil
	}
	amount, ok := byCountry[country]
	if !ok {
		return nil
	}

	price, err := decimal.NewFromString(amount)
	if err != nil {
		return nil
	}

	capturedAt := timezone.Now()
	var points []pricing.PricePoint
	for _, chain := range chains {
		points = append(points, pricing.PricePoint{
			Material: material,
			Store: pricing.Store{
				Name:    chain.name,
				Website: chain.website,
			},
			Price:      price,
			Currency:   currencyByCountry[country],
			CapturedAt: capturedAt,
			Confidence: pricing.ConfidenceEstimated,
		})
	}
	return points
}
