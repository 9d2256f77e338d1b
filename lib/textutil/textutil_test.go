package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	testCases := []struct {
		input  string
		expect string
	}{
		{input: "  Leroy   Merlin ", expect: "leroymerlin"},
		{input: "TELHANORTE", expect: "telhanorte"},
		{input: "Home\tDepot\n", expect: "homedepot"},
	}

	for _, test := range testCases {
		require.Equal(t, test.expect, NormalizeName(test.input))
	}
}

func TestMatchName(t *testing.T) {
	matchers := []string{"leroymerlin", "telhanorte"}

	require.True(t, MatchName("LEROY MERLIN BRASIL", matchers))
	require.True(t, MatchName("  Telhanorte SP ", matchers))
	require.False(t, MatchName("Loja do Construtor", matchers))
	require.False(t, MatchName("", matchers))
}

func TestCleanTitle(t *testing.T) {
	testCases := []struct {
		input  string
		expect string
	}{
		{
			input:  "Cimento CP II 50kg | Telhanorte - Frete Grátis",
			expect: "Telhanorte",
		},
		{
			input:  "Concreto Usinado 30MPa - Melhor Preço - Leroy Merlin",
			expect: "Leroy Merlin",
		},
		{
			input:  "Rebar #4 Grade 60 | The Home Depot",
			expect: "The Home Depot",
		},
		{
			input:  "Loja do Construtor",
			expect: "Loja do Construtor",
		},
		{
			input:  "Areia Lavada m³ — Oferta",
			expect: "Areia Lavada m³",
		},
	}

	for _, test := range testCases {
		require.Equal(t, test.expect, CleanTitle(test.input))
	}
}

func TestCollapseSpaces(t *testing.T) {
	require.Equal(t, "a b c", CollapseSpaces("  a\t\tb \n c "))
}
