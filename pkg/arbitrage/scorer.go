// Package arbitrage scores swap routes and selects those beating the direct route.
package arbitrage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"

	"github.com/jonasrmichel/jup-routes/pkg/metrics"
	"github.com/jonasrmichel/jup-routes/pkg/providers"
	"github.com/jonasrmichel/jup-routes/pkg/types"
)

var (
	// ErrInvalidPath is returned when scoring a route with fewer than two tokens.
	ErrInvalidPath = errors.New("path must contain at least two tokens")

	// ErrUpstreamMetadata wraps failures resolving a mint's decimals.
	ErrUpstreamMetadata = errors.New("upstream metadata error")
)

// HopEvaluator quotes a single hop. Implemented by *quote.Evaluator.
type HopEvaluator interface {
	EvaluateHop(ctx context.Context, from, to solana.PublicKey, fromDecimals, toDecimals uint8) (*types.HopQuote, error)
}

// Scorer values a route as the product of its hops' best rates.
type Scorer struct {
	evaluator HopEvaluator
	precision providers.PrecisionSource
	metrics   *metrics.Metrics
	log       zerolog.Logger
}

// NewScorer creates a scorer.
func NewScorer(evaluator HopEvaluator, precision providers.PrecisionSource, m *metrics.Metrics, log zerolog.Logger) *Scorer {
	return &Scorer{
		evaluator: evaluator,
		precision: precision,
		metrics:   m,
		log:       log.With().Str("component", "scorer").Logger(),
	}
}

// ScorePath quotes every hop of path and returns the compounded valuation
// with a per-hop report. Any hop failure aborts the whole path.
func (s *Scorer) ScorePath(ctx context.Context, path []solana.PublicKey) (*types.ScoredRoute, error) {
	if len(path) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPath, len(path))
	}

	// Decimals are looked up once per mint within a path.
	decimals := make(map[solana.PublicKey]uint8, len(path))
	lookup := func(mint solana.PublicKey) (uint8, error) {
		if d, ok := decimals[mint]; ok {
			return d, nil
		}
		d, err := s.precision.Decimals(ctx, mint)
		if err != nil {
			s.metrics.UpstreamError(metrics.SourcePrecision)
			return 0, fmt.Errorf("%w: decimals for %s: %w", ErrUpstreamMetadata, mint, err)
		}
		decimals[mint] = d
		return d, nil
	}

	var report strings.Builder
	valuation := 1.0
	hops := make([]*types.HopQuote, 0, len(path)-1)

	for i := 0; i+1 < len(path); i++ {
		from, to := path[i], path[i+1]

		fromDecimals, err := lookup(from)
		if err != nil {
			return nil, err
		}
		toDecimals, err := lookup(to)
		if err != nil {
			return nil, err
		}

		hop, err := s.evaluator.EvaluateHop(ctx, from, to, fromDecimals, toDecimals)
		if err != nil {
			return nil, err
		}

		report.WriteString(hop.Header())
		report.WriteString(hop.Detail())
		report.WriteString("\n")

		valuation *= hop.Rate
		hops = append(hops, hop)
	}

	s.metrics.Scored()
	s.log.Debug().Int("hops", len(hops)).Float64("valuation", valuation).Msg("scored route")

	route := make([]solana.PublicKey, len(path))
	copy(route, path)

	return &types.ScoredRoute{
		Path:      route,
		Hops:      hops,
		Valuation: valuation,
		Report:    report.String(),
	}, nil
}
