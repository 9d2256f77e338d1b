package scrape

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	testCases := []struct {
		text     string
		amount   string
		currency string
		ok       bool
	}{
		{text: "Saco de cimento por R$ 32,90 na loja", amount: "32.9", currency: "BRL", ok: true},
		{text: "Concreto usinado a partir de R$ 1.234,56 o m³", amount: "1234.56", currency: "BRL", ok: true},
		{text: "Grade 60 rebar starting at $8.52 each", amount: "8.52", currency: "USD", ok: true},
		{text: "Lumber 2x4 from US$ 4.75", amount: "4.75", currency: "USD", ok: true},
		{text: "Bulk price 1,234.56 USD per ton", amount: "1234.56", currency: "USD", ok: true},
		{text: "ab 92,00 € pro Eimer", amount: "92", currency: "EUR", ok: true},
		{text: "Concreto usinado por R$ 1500,00 o m³", amount: "1500", currency: "BRL", ok: true},
		{text: "Steel beam at $2450.00 each", amount: "2450", currency: "USD", ok: true},
		{text: "Areia lavada R$ 118 o m³", amount: "118", currency: "BRL", ok: true},
		{text: "quote of 12500 USD per container", amount: "12500", currency: "USD", ok: true},
		{text: "entrega em 3 dias úteis", ok: false},
		{text: "", ok: false},
	}

	for _, test := range testCases {
		price, currency, ok := parsePrice(test.text)
		require.Equal(t, test.ok, ok, test.text)
		if !test.ok {
			continue
		}
		require.Equal(t, test.currency, currency, test.text)
		require.Equal(t, test.amount, price.String(), test.text)
	}
}

func TestNormalizeAmount(t *testing.T) {
	testCases := []struct {
		input  string
		expect string
	}{
		{input: "1.234,56", expect: "1234.56"},
		{input: "1,234.56", expect: "1234.56"},
		{input: "32,90", expect: "32.90"},
		{input: "8.52", expect: "8.52"},
		{input: "1.234", expect: "1234"},
		{input: "1,234", expect: "1234"},
		{input: "410", expect: "410"},
		{input: "1500,00", expect: "1500.00"},
		{input: "2450.00", expect: "2450.00"},
		{input: "12500", expect: "12500"},
	}

	for _, test := range testCases {
		require.Equal(t, test.expect, normalizeAmount(test.input), test.input)
	}
}

func TestParsePhone(t *testing.T) {
	testCases := []struct {
		text   string
		expect string
	}{
		{text: "Ligue (11) 4004-1234 para orçamento", expect: "(11) 4004-1234"},
		{text: "WhatsApp (19) 98765-4321", expect: "(19) 98765-4321"},
		{text: "Call (555) 123-4567 today", expect: "(555) 123-4567"},
		{text: "preço R$ 1.234,56 sem telefone", expect: ""},
	}

	for _, test := range testCases {
		require.Equal(t, test.expect, parsePhone(test.text), test.text)
	}
}

func TestCanonicalizeStore(t *testing.T) {
	require.Equal(t, "Leroy Merlin", canonicalizeStore("LEROY MERLIN BRASIL", "BR"))
	require.Equal(t, "Leroy Merlin", canonicalizeStore("Leroy Merlin", "br"))
	require.Equal(t, "Telhanorte", canonicalizeStore("telhanorte sp", "BR"))
	require.Equal(t, "Loja do Construtor", canonicalizeStore("Loja do Construtor", "BR"))
	require.Equal(t, "The Home Depot", canonicalizeStore("Home Depot", "US"))
}
