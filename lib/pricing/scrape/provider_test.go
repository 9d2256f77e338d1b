package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"obracalc-backend/lib/pricing"

	"github.com/stretchr/testify/require"
)

const serpPage = `
<html><body>
<div class="g">
	<a href="https://www.telhanorte.com.br/concreto"><h3>Concreto Usinado 30MPa | Telhanorte - Melhor Preço</h3></a>
	<span>Concreto usinado 30MPa a partir de R$ 410,00 o m³. Ligue (19) 3232-1234.</span>
</div>
<div class="g">
	<a href="https://www.leroymerlin.com.br/concreto"><h3>Concreto - LEROY MERLIN BRASIL</h3></a>
	<span>Entrega em Campinas por R$ 425,50 o m³.</span>
</div>
<div class="g">
	<a href="https://www.leroymerlin.com.br/concreto?utm_source=serp"><h3>Concreto - Leroy Merlin</h3></a>
	<span>Mesmo anúncio duplicado, R$ 425,50.</span>
</div>
<div class="g">
	<a href="https://blog.example.com/como-escolher-concreto"><h3>Como escolher concreto</h3></a>
	<span>Guia completo sem preços.</span>
</div>
</body></html>`

const emptyPage = `<html><body><div class="g">
<a href="https://blog.example.com/guia"><h3>Guia de reformas</h3></a>
<span>Nenhuma menção de valores aqui.</span>
</div></body></html>`

var campinas = pricing.Location{Country: "BR", Region: "SP", City: "Campinas"}

var concrete = pricing.MaterialID{
	Category:    pricing.CategoryConcrete,
	Code:        "30mpa",
	Unit:        "m3",
	Description: "concreto usinado 30MPa",
}

func request(materials ...pricing.MaterialID) pricing.PriceRequest {
	return pricing.PriceRequest{
		Location:  campinas,
		Materials: materials,
		Currency:  "BRL",
	}
}

func newTestProvider(t *testing.T, handler http.HandlerFunc, cacheTTL time.Duration) *Provider {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return New(Options{
		SearchURL: server.URL,
		CacheTTL:  cacheTTL,
	})
}

func TestSupportsLocation(t *testing.T) {
	provider := New(Options{SearchURL: "http://unused"})

	require.True(t, provider.SupportsLocation(campinas))
	require.True(t, provider.SupportsLocation(pricing.Location{Country: "us"}))
	require.False(t, provider.SupportsLocation(pricing.Location{Country: "DE"}))
}

func TestScrapedExtraction(t *testing.T) {
	var query atomic.Value
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		query.Store(r.URL.Query().Get("q"))
		w.Write([]byte(serpPage))
	}, time.Minute)

	res, err := provider.FetchPrices(context.Background(), request(concrete))
	require.Nil(t, err)

	// two unique stores: the duplicated leroy result collapses on its
	// normalized url, the priceless blog entry is dropped
	require.Len(t, res.Prices, 2)

	first := res.Prices[0]
	require.Equal(t, "Telhanorte", first.Store.Name)
	require.Equal(t, "410", first.Price.String())
	require.Equal(t, "BRL", first.Currency)
	require.Equal(t, "(19) 3232-1234", first.Store.Phone)
	require.Equal(t, pricing.ConfidenceScraped, first.Confidence)

	second := res.Prices[1]
	require.Equal(t, "Leroy Merlin", second.Store.Name)
	require.Equal(t, "425.5", second.Price.String())

	// the query concatenates description, location tokens and the
	// fixed qualifier terms
	q := query.Load().(string)
	require.Contains(t, q, "concreto usinado 30MPa")
	require.Contains(t, q, "Campinas")
	require.Contains(t, q, "preço")
}

func TestProviderLocalCache(t *testing.T) {
	var hits atomic.Int64
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(serpPage))
	}, time.Minute)

	first, err := provider.FetchPrices(context.Background(), request(concrete))
	require.Nil(t, err)

	second, err := provider.FetchPrices(context.Background(), request(concrete))
	require.Nil(t, err)

	require.Equal(t, int64(1), hits.Load())
	// cached points keep their original capture timestamps
	require.Equal(t, first.Prices[0].CapturedAt, second.Prices[0].CapturedAt)
}

func TestEstimatedFallback(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(emptyPage))
	}, time.Minute)

	res, err := provider.FetchPrices(context.Background(), request(concrete))
	require.Nil(t, err)

	require.NotEmpty(t, res.Prices)
	for _, point := range res.Prices {
		require.Equal(t, pricing.ConfidenceEstimated, point.Confidence)
		require.Equal(t, "BRL", point.Currency)
	}
	// fallback points come from the known regional chains
	require.Equal(t, "Leroy Merlin", res.Prices[0].Store.Name)
}

func TestTransportFailure(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}, time.Minute)

	_, err := provider.FetchPrices(context.Background(), request(concrete))
	require.NotNil(t, err)

	var providerErr *pricing.ProviderError
	require.ErrorAs(t, err, &providerErr)
	require.Equal(t, "serp", providerErr.Provider)
}
