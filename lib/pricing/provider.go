package pricing

import "context"

// Provider is a single source of price points. Implementations are
// shared read-only across concurrent requests: they must be safe to
// call from multiple goroutines and must not hold request state.
//
// "No results" is success with an empty point list; an error return is
// reserved for transport or parse failure that prevented the attempt.
// Implementations that touch the network must bound every call with a
// timeout of their own on top of whatever deadline ctx carries.
type Provider interface {
	// stable identifier used in warnings and telemetry
	Name() string
	// pure, side-effect-free coverage check
	SupportsLocation(loc Location) bool
	FetchPrices(ctx context.Context, req PriceRequest) (PriceResponse, error)
}

// RequestError rejects a malformed request before any provider is
// touched. It is the only hard error the engine surfaces.
type RequestError struct {
	Reason string
}

func (e *RequestError) Error() string {
	return "invalid price request: " + e.Reason
}

// ProviderError wraps a transport/parse failure local to one provider
// attempt. The engine recovers it by advancing the fallback chain.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return "provider " + e.Provider + ": " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
