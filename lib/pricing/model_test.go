package pricing

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestFingerprint(t *testing.T) {
	campinas := Location{Country: "BR", Region: "SP", City: "Campinas"}
	concrete := MaterialID{Category: CategoryConcrete, Code: "30mpa", Unit: "m3", Description: "concreto usinado 30MPa"}

	// identical identity tuples collide regardless of display metadata
	require.Equal(t,
		Fingerprint(campinas, concrete, "BRL"),
		Fingerprint(campinas, MaterialID{Category: CategoryConcrete, Code: "30mpa"}, "BRL"),
	)

	// case differences collapse
	require.Equal(t,
		Fingerprint(campinas, concrete, "BRL"),
		Fingerprint(Location{Country: "br", Region: "sp", City: "campinas"}, concrete, "brl"),
	)

	// every identity field participates
	require.NotEqual(t,
		Fingerprint(campinas, concrete, "BRL"),
		Fingerprint(campinas, concrete, "USD"),
	)
	require.NotEqual(t,
		Fingerprint(campinas, concrete, "BRL"),
		Fingerprint(Location{Country: "BR", Region: "SP"}, concrete, "BRL"),
	)
	require.NotEqual(t,
		Fingerprint(campinas, concrete, "BRL"),
		Fingerprint(campinas, MaterialID{Category: CategoryCement, Code: "30mpa"}, "BRL"),
	)

	// separator characters in fields cannot collide with the tuple layout
	require.NotEqual(t,
		Fingerprint(Location{Country: "BR", Region: "a|b"}, concrete, "BRL"),
		Fingerprint(Location{Country: "BR", Region: "a", City: "b"}, concrete, "BRL"),
	)
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory(" Concrete ")
	require.True(t, ok)
	require.Equal(t, CategoryConcrete, c)

	_, ok = ParseCategory("vibranium")
	require.False(t, ok)
}

func TestPriceResponseRoundTrip(t *testing.T) {
	original := PriceResponse{
		Prices: []PricePoint{
			{
				Material: MaterialID{Category: CategoryConcrete, Code: "30mpa", Unit: "m3"},
				Store: Store{
					Name:    "Leroy Merlin",
					Phone:   "(11) 4004-1234",
					Website: "https://www.leroymerlin.com.br",
				},
				Price:      decimal.RequireFromString("415.00"),
				Currency:   "BRL",
				CapturedAt: time.Date(2026, 8, 12, 14, 30, 0, 0, time.UTC),
				Confidence: ConfidenceStatic,
			},
		},
		Warnings: []string{"provider serp failed for material cement/cp2: timeout"},
	}

	encoded, err := json.Marshal(original)
	require.Nil(t, err)

	var decoded PriceResponse
	err = json.Unmarshal(encoded, &decoded)
	require.Nil(t, err)

	diff := cmp.Diff(original, decoded, cmp.Comparer(func(a, b decimal.Decimal) bool {
		return a.Equal(b)
	}))
	require.Empty(t, diff)
}
