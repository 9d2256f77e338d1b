package pricing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"
)

var tracer = otel.Tracer("obracalc.lib.pricing")

// Engine orchestrates an ordered registry of providers over a shared
// cache. Registration order is priority order: first registered is
// tried first. The registry is a copy-on-write snapshot so in-flight
// requests never observe it mutating mid-iteration.
type Engine struct {
	mu        sync.Mutex
	providers []Provider

	cache  *Cache
	flight singleflight.Group
}

func NewEngine(cacheTTL time.Duration) *Engine {
	return &Engine{
		cache: NewCache(cacheTTL),
	}
}

// RegisterProvider appends the provider at the end of the current
// priority order. Expected to be called before serving traffic; there
// is no de-registration.
func (e *Engine) RegisterProvider(p Provider) {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := make([]Provider, len(e.providers), len(e.providers)+1)
	copy(next, e.providers)
	e.providers = append(next, p)
}

func (e *Engine) snapshot() []Provider {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.providers
}

type materialResult struct {
	points   []PricePoint
	warnings []string
}

// FetchPrices never returns a hard failure except for request
// malformation; source failures degrade to warnings in the response.
// Materials are fetched concurrently, so latency is bounded by the
// slowest single material's provider chain. If ctx carries a deadline,
// materials still in flight when it expires are abandoned with a
// warning each.
func (e *Engine) FetchPrices(ctx context.Context, req PriceRequest) (PriceResponse, error) {
	ctx, span := tracer.Start(ctx, "FetchPrices")
	defer span.End()
	span.SetAttributes(
		attribute.String("country", req.Location.Country),
		attribute.Int("materials", len(req.Materials)),
	)

	if err := validateRequest(req); err != nil {
		return PriceResponse{}, err
	}
	if len(req.Materials) == 0 {
		return PriceResponse{}, nil
	}

	providers := e.snapshot()

	results := make([]materialResult, len(req.Materials))
	wg := sync.WaitGroup{}
	for i, material := range req.Materials {
		wg.Add(1)
		go func(i int, material MaterialID) {
			defer wg.Done()
			results[i] = e.fetchMaterial(ctx, providers, req, material)
		}(i, material)
	}
	wg.Wait()

	// reassemble in request material order
	var response PriceResponse
	for _, result := range results {
		response.Prices = append(response.Prices, result.points...)
		response.Warnings = append(response.Warnings, result.warnings...)
	}
	return response, nil
}

// fetchMaterial coalesces concurrent identical fetches: N simultaneous
// callers on the same uncached fingerprint trigger exactly one provider
// chain run. The shared run is detached from the caller's cancellation
// so an abandoning caller doesn't kill it for the others; its result
// still lands in the cache either way.
func (e *Engine) fetchMaterial(ctx context.Context, providers []Provider, req PriceRequest, material MaterialID) materialResult {
	key := Fingerprint(req.Location, material, req.Currency)

	ch := e.flight.DoChan(key, func() (interface{}, error) {
		return e.resolveMaterial(context.WithoutCancel(ctx), providers, req, material), nil
	})

	select {
	case res := <-ch:
		return res.Val.(materialResult)
	case <-ctx.Done():
		return materialResult{
			warnings: []string{fmt.Sprintf(
				"abandoned fetch for material %s: %s",
				materialName(material), ctx.Err(),
			)},
		}
	}
}

// resolveMaterial runs cache lookup then the provider chain for one
// material: strictly in registration order, first success wins.
func (e *Engine) resolveMaterial(ctx context.Context, providers []Provider, req PriceRequest, material MaterialID) materialResult {
	ctx, span := tracer.Start(ctx, "resolveMaterial")
	defer span.End()
	span.SetAttributes(attribute.String("material", materialName(material)))

	key := Fingerprint(req.Location, material, req.Currency)
	if points, ok := e.cache.Get(key); ok {
		span.AddEvent("cache hit")
		return materialResult{points: points}
	}

	scoped := PriceRequest{
		Location:  req.Location,
		Materials: []MaterialID{material},
		Currency:  req.Currency,
	}

	var warnings []string
	tried := 0
	for _, provider := range providers {
		if !provider.SupportsLocation(req.Location) {
			continue
		}
		tried++

		res, err := provider.FetchPrices(ctx, scoped)
		if err != nil {
			slog.WarnContext(ctx, "provider failed",
				"provider", provider.Name(),
				"material", materialName(material),
				"err", err,
			)
			warnings = append(warnings, fmt.Sprintf(
				"provider %s failed for material %s: %s",
				provider.Name(), materialName(material), err,
			))
			continue
		}
		warnings = append(warnings, res.Warnings...)

		matching := keepMatching(res.Prices, material)
		if len(matching) == 0 {
			warnings = append(warnings, fmt.Sprintf(
				"provider %s returned no prices for material %s",
				provider.Name(), materialName(material),
			))
			continue
		}

		// normalize to a single representative point per material:
		// the cheapest offer the winning provider found
		points := []PricePoint{cheapest(matching, req.Currency)}
		e.cache.Set(key, points)
		return materialResult{points: points, warnings: warnings}
	}

	switch {
	case len(providers) == 0:
		warnings = append(warnings, fmt.Sprintf(
			"could not price material %s: no providers registered",
			materialName(material),
		))
	case tried == 0:
		warnings = append(warnings, fmt.Sprintf(
			"no provider available for material %s at location %s",
			materialName(material), locationName(req.Location),
		))
	default:
		warnings = append(warnings, fmt.Sprintf(
			"could not price material %s: all providers exhausted",
			materialName(material),
		))
	}
	return materialResult{warnings: warnings}
}

// keepMatching drops points whose material identity strayed from the
// requested one, so every returned point belongs to the request's
// material set.
func keepMatching(points []PricePoint, material MaterialID) []PricePoint {
	var kept []PricePoint
	for _, p := range points {
		if p.Material.SameIdentity(material) {
			kept = append(kept, p)
		}
	}
	return kept
}

// cheapest prefers offers detected in the request's target currency;
// prices in mixed currencies are not comparable, so when none match
// the first extracted offer wins.
func cheapest(points []PricePoint, currency string) PricePoint {
	var best *PricePoint
	for i := range points {
		p := &points[i]
		if !strings.EqualFold(p.Currency, currency) {
			continue
		}
		if best == nil || p.Price.LessThan(best.Price) {
			best = p
		}
	}
	if best == nil {
		return points[0]
	}
	return *best
}

func validateRequest(req PriceRequest) error {
	if req.Location.Country == "" {
		return &RequestError{Reason: "location country is required"}
	}
	if req.Currency == "" {
		return &RequestError{Reason: "target currency is required"}
	}
	for _, m := range req.Materials {
		if m.Code == "" {
			return &RequestError{Reason: "material code is required"}
		}
		if _, ok := ParseCategory(string(m.Category)); !ok {
			return &RequestError{Reason: fmt.Sprintf("unknown material category %q", m.Category)}
		}
	}
	return nil
}

func materialName(m MaterialID) string {
	return fmt.Sprintf("%s/%s", m.Category, m.Code)
}

func locationName(l Location) string {
	name := l.Country
	if l.Region != "" {
		name += "/" + l.Region
	}
	if l.City != "" {
		name += "/" + l.City
	}
	return name
}
