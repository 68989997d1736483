// Package providers defines the external data sources consumed by the route scout.
package providers

import (
	"context"
	"sync"

	"github.com/gagliardetto/solana-go"

	"github.com/jonasrmichel/jup-routes/pkg/types"
)

// QuoteRequest describes a single-pair quote request.
type QuoteRequest struct {
	InputMint        solana.PublicKey
	OutputMint       solana.PublicKey
	Amount           uint64 // Atomic units of InputMint
	OnlyDirectRoutes bool
	SlippageBps      int
}

// QuoteSource returns the alternative conversion offers for a mint pair.
type QuoteSource interface {
	// Name returns the unique identifier for this source.
	Name() string

	// Quote fetches offers for the request. An unsupported pair or an
	// unreachable upstream is reported as an error.
	Quote(ctx context.Context, req QuoteRequest) ([]types.Offer, error)
}

// PrecisionSource resolves the number of decimal places of a mint.
type PrecisionSource interface {
	Decimals(ctx context.Context, mint solana.PublicKey) (uint8, error)
}

// CachedPrecision memoizes a PrecisionSource. Mint decimals never change,
// so entries do not expire. Failed lookups are not cached.
type CachedPrecision struct {
	source PrecisionSource

	cache   map[solana.PublicKey]uint8
	cacheMu sync.RWMutex
}

// NewCachedPrecision wraps source with a process-wide cache.
func NewCachedPrecision(source PrecisionSource) *CachedPrecision {
	return &CachedPrecision{
		source: source,
		cache:  make(map[solana.PublicKey]uint8),
	}
}

// Decimals returns the cached decimals for mint, fetching them on first use.
func (c *CachedPrecision) Decimals(ctx context.Context, mint solana.PublicKey) (uint8, error) {
	c.cacheMu.RLock()
	if d, ok := c.cache[mint]; ok {
		c.cacheMu.RUnlock()
		return d, nil
	}
	c.cacheMu.RUnlock()

	d, err := c.source.Decimals(ctx, mint)
	if err != nil {
		return 0, err
	}

	c.cacheMu.Lock()
	c.cache[mint] = d
	c.cacheMu.Unlock()

	return d, nil
}

// StaticPrecision is a fixed decimals table, useful for well-known mints
// and for running without an RPC endpoint.
type StaticPrecision map[solana.PublicKey]uint8

// Decimals returns the configured decimals for mint.
func (s StaticPrecision) Decimals(_ context.Context, mint solana.PublicKey) (uint8, error) {
	d, ok := s[mint]
	if !ok {
		return 0, &UnknownMintError{Mint: mint}
	}
	return d, nil
}

// UnknownMintError is returned when a mint has no known precision.
type UnknownMintError struct {
	Mint solana.PublicKey
}

func (e *UnknownMintError) Error() string {
	return "unknown mint: " + e.Mint.String()
}

// FallbackPrecision tries each source in order and returns the first success.
type FallbackPrecision []PrecisionSource

// Decimals returns the first successful lookup, or the last error.
func (f FallbackPrecision) Decimals(ctx context.Context, mint solana.PublicKey) (uint8, error) {
	var lastErr error = &UnknownMintError{Mint: mint}
	for _, s := range f {
		d, err := s.Decimals(ctx, mint)
		if err == nil {
			return d, nil
		}
		lastErr = err
	}
	return 0, lastErr
}
