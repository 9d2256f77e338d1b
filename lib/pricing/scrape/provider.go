// Package scrape implements the network reconnaissance provider: it
// issues one search-engine query per (material, location) pair and
// mines the result snippets for price mentions. When a page yields no
// parseable prices it falls back to estimated prices for known
// regional store chains instead of returning empty.
package scrape

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"obracalc-backend/lib/htmlutil"
	"obracalc-backend/lib/pricing"
	"obracalc-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("obracalc.lib.pricing.scrape")

type Options struct {
	// HTML results endpoint, e.g. "https://html.duckduckgo.com/html/"
	SearchURL string
	// query string parameter holding the search terms, default "q"
	QueryParam string
	// per-request HTTP timeout, default 15s
	Timeout time.Duration
	// provider-local cache TTL, default 10m
	CacheTTL time.Duration
}

type Provider struct {
	client     *resty.Client
	searchURL  string
	queryParam string
	cache      *pricing.Cache
}

func New(opts Options) *Provider {
	if opts.QueryParam == "" {
		opts.QueryParam = "q"
	}
	if opts.Timeout == 0 {
		opts.Timeout = time.Second * 15
	}
	if opts.CacheTTL == 0 {
		opts.CacheTTL = time.Minute * 10
	}

	client := resty.New()
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetTimeout(opts.Timeout)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	telemetry.InstrumentResty(client, "obracalc.lib.pricing.scrape.http")

	return &Provider{
		client:     client,
		searchURL:  opts.SearchURL,
		queryParam: opts.QueryParam,
		cache:      pricing.NewCache(opts.CacheTTL),
	}
}

func (p *Provider) Name() string {
	return "serp"
}

func (p *Provider) SupportsLocation(loc pricing.Location) bool {
	_, ok := chainsByCountry[strings.ToUpper(loc.Country)]
	return ok
}

func (p *Provider) FetchPrices(ctx context.Context, req pricing.PriceRequest) (pricing.PriceResponse, error) {
	ctx, span := tracer.Start(ctx, "FetchPrices")
	defer span.End()

	var response pricing.PriceResponse
	for _, material := range req.Materials {
		key := pricing.Fingerprint(req.Location, material, req.Currency)
		if points, ok := p.cache.Get(key); ok {
			// cached points keep their original capture timestamps
			response.Prices = append(response.Prices, points...)
			continue
		}

		points, err := p.scrapeMaterial(ctx, req.Location, material)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "scrape failed")
			return pricing.PriceResponse{}, &pricing.ProviderError{Provider: p.Name(), Err: err}
		}

		if len(points) == 0 {
			points = p.estimate(req.Location, material)
			span.AddEvent("no parseable prices, using chain estimates",
				trace.WithAttributes(otelMaterial(material)))
		}
		if len(points) == 0 {
			continue
		}

		p.cache.Set(key, points)
		response.Prices = append(response.Prices, points...)
	}
	return response, nil
}

func (p *Provider) scrapeMaterial(ctx context.Context, loc pricing.Location, material pricing.MaterialID) ([]pricing.PricePoint, error) {
	ctx, span := tracer.Start(ctx, "scrapeMaterial")
	defer span.End()
	span.SetAttributes(otelMaterial(material))

	query := buildQuery(material, loc)
	span.SetAttributes(attribute.String("query", query))

	res, err := p.client.R().
		SetContext(ctx).
		SetQueryParam(p.queryParam, query).
		Get(p.searchURL)
	if err != nil {
		return nil, err
	}
	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("search endpoint returned status %d", res.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return nil, err
	}

	results := htmlutil.GetSearchResults(ctx, doc)
	points := extractPoints(results, loc, material)
	span.SetAttributes(attribute.Int("points", len(points)))
	return points, nil
}

// buildQuery concatenates the material description, location tokens
// and fixed qualifier terms into one search query.
func buildQuery(material pricing.MaterialID, loc pricing.Location) string {
	description := material.Description
	if description == "" {
		description = string(material.Category) + " " + material.Code
	}

	terms := []string{description}
	terms = append(terms, loc.Tokens()...)
	terms = append(terms, qualifiers(loc.Country)...)
	return strings.Join(terms, " ")
}

func qualifiers(country string) []string {
	if strings.EqualFold(country, "BR") {
		return []string{"preço", "comprar", "loja de materiais de construção"}
	}
	return []string{"price", "buy", "building materials store"}
}

func otelMaterial(m pricing.MaterialID) attribute.KeyValue {
	return attribute.String("material", string(m.Category)+"/"+m.Code)
}
