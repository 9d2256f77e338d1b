// Package static implements the last-resort catalog provider: a fixed
// in-memory table of approximate prices for a small set of known
// markets. It never performs I/O and never fails, guaranteeing a
// non-empty response for covered locations even when every network
// source is down.
package static

import (
	"context"
	"strings"

	"obracalc-backend/lib/pricing"
	"obracalc-backend/lib/timezone"

	"github.com/shopspring/decimal"
)

type Entry struct {
	Country  string
	Region   string // empty matches any region in the country
	Store    string
	Website  string
	Category pricing.MaterialCategory
	Price    decimal.Decimal
	Currency string
}

type Provider struct {
	entries []Entry
}

// New builds a catalog provider over the given entries. With no
// arguments the built-in catalog is used.
func New(entries ...Entry) *Provider {
	if len(entries) == 0 {
		entries = builtinCatalog
	}
	return &Provider{entries: entries}
}

func (p *Provider) Name() string {
	return "static-catalog"
}

func (p *Provider) SupportsLocation(loc pricing.Location) bool {
	for _, entry := range p.entries {
		if entry.matches(loc) {
			return true
		}
	}
	return false
}

func (p *Provider) FetchPrices(_ context.Context, req pricing.PriceRequest) (pricing.PriceResponse, error) {
	var response pricing.PriceResponse
	capturedAt := timezone.Now()

	for _, material := range req.Materials {
		for _, entry := range p.entries {
			if !entry.matches(req.Location) || entry.Category != material.Category {
				continue
			}
			response.Prices = append(response.Prices, pricing.PricePoint{
				Material: material,
				Store: pricing.Store{
					Name:    entry.Store,
					Website: entry.Website,
				},
				Price:      entry.Price,
				Currency:   entry.Currency,
				CapturedAt: capturedAt,
				Confidence: pricing.ConfidenceStatic,
			})
		}
	}
	return response, nil
}

func (e Entry) matches(loc pricing.Location) bool {
	if !strings.EqualFold(e.Country, loc.Country) {
		return false
	}
	if e.Region != "" && loc.Region != "" && !strings.EqualFold(e.Region, loc.Region) {
		return false
	}
	return true
}

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

var builtinCatalog = []Entry{
	// BR / São Paulo market
	{Country: "BR", Region: "SP", Store: "Leroy Merlin", Website: "https://www.leroymerlin.com.br", Category: pricing.CategoryConcrete, Price: mustDecimal("415.00"), Currency: "BRL"},
	{Country: "BR", Region: "SP", Store: "Leroy Merlin", Website: "https://www.leroymerlin.com.br", Category: pricing.CategoryCement, Price: mustDecimal("31.90"), Currency: "BRL"},
	{Country: "BR", Region: "SP", Store: "Telhanorte", Website: "https://www.telhanorte.com.br", Category: pricing.CategoryCement, Price: mustDecimal("32.50"), Currency: "BRL"},
	{Country: "BR", Region: "SP", Store: "Telhanorte", Website: "https://www.telhanorte.com.br", Category: pricing.CategoryTile, Price: mustDecimal("42.90"), Currency: "BRL"},
	{Country: "BR", Region: "SP", Store: "Center Castilho", Website: "https://www.centercastilho.com.br", Category: pricing.CategorySand, Price: mustDecimal("118.00"), Currency: "BRL"},
	{Country: "BR", Store: "Leroy Merlin", Website: "https://www.leroymerlin.com.br", Category: pricing.CategorySteel, Price: mustDecimal("29.90"), Currency: "BRL"},
	{Country: "BR", Store: "Leroy Merlin", Website: "https://www.leroymerlin.com.br", Category: pricing.CategoryPaint, Price: mustDecimal("89.90"), Currency: "BRL"},
	{Country: "BR", Store: "Telhanorte", Website: "https://www.telhanorte.com.br", Category: pricing.CategoryBrick, Price: mustDecimal("1.55"), Currency: "BRL"},

	// US market
	{Country: "US", Store: "The Home Depot", Website: "https://www.homedepot.com", Category: pricing.CategoryConcrete, Price: mustDecimal("142.00"), Currency: "USD"},
	{Country: "US", Store: "The Home Depot", Website: "https://www.homedepot.com", Category: pricing.CategoryRebar, Price: mustDecimal("8.95"), Currency: "USD"},
	{Country: "US", Store: "Lowe's", Website: "https://www.lowes.com", Category: pricing.CategoryWood, Price: mustDecimal("4.65"), Currency: "USD"},
	{Country: "US", Store: "Lowe's", Website: "https://www.lowes.com", Category: pricing.CategoryPaint, Price: mustDecimal("36.00"), Currency: "USD"},
}
