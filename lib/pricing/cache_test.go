package pricing

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func cachePoint(code string, price string) PricePoint {
	return PricePoint{
		Material: MaterialID{Category: CategoryCement, Code: code},
		Store:    Store{Name: "Telhanorte"},
		Price:    decimal.RequireFromString(price),
		Currency: "BRL",
	}
}

func TestCacheMissAndHit(t *testing.T) {
	cache := NewCache(time.Minute)

	_, ok := cache.Get("unknown")
	require.False(t, ok)

	points := []PricePoint{cachePoint("cp2", "32.50")}
	cache.Set("key", points)

	got, ok := cache.Get("key")
	require.True(t, ok)
	require.Equal(t, points, got)
	require.Equal(t, 1, cache.Len())
}

func TestCacheReplacement(t *testing.T) {
	cache := NewCache(time.Minute)

	cache.Set("key", []PricePoint{cachePoint("cp2", "32.50")})
	cache.Set("key", []PricePoint{cachePoint("cp2", "29.90")})

	got, ok := cache.Get("key")
	require.True(t, ok)
	require.Len(t, got, 1)
	require.True(t, got[0].Price.Equal(decimal.RequireFromString("29.90")))
}

func TestCacheExpiry(t *testing.T) {
	cache := NewCache(time.Second)

	cache.Set("key", []PricePoint{cachePoint("cp2", "32.50")})
	_, ok := cache.Get("key")
	require.True(t, ok)

	time.Sleep(time.Millisecond * 1200)

	_, ok = cache.Get("key")
	require.False(t, ok)
	// lazy expiry dropped the entry
	require.Equal(t, 0, cache.Len())
}

func TestCacheSweep(t *testing.T) {
	cache := NewCache(time.Second)
	cache.Set("a", []PricePoint{cachePoint("cp2", "32.50")})
	cache.Set("b", []PricePoint{cachePoint("cp4", "35.00")})

	time.Sleep(time.Millisecond * 1200)
	cache.Sweep()
	require.Equal(t, 0, cache.Len())
}

func TestCacheConcurrentAccess(t *testing.T) {
	cache := NewCache(time.Minute)

	wg := sync.WaitGroup{}
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", i%4)
			cache.Set(key, []PricePoint{cachePoint("cp2", "32.50")})
			cache.Get(key)
			cache.Sweep()
		}(i)
	}
	wg.Wait()

	require.Equal(t, 4, cache.Len())
}
