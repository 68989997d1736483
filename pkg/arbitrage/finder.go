package arbitrage

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"

	"github.com/jonasrmichel/jup-routes/pkg/graph"
	"github.com/jonasrmichel/jup-routes/pkg/metrics"
	"github.com/jonasrmichel/jup-routes/pkg/types"
)

// Finder runs one complete search: score the direct route, enumerate
// candidates and keep those at least as good as the direct route.
type Finder struct {
	scorer   PathScorer
	selector *Selector
	metrics  *metrics.Metrics
	log      zerolog.Logger
}

// NewFinder creates a finder.
func NewFinder(scorer PathScorer, selector *Selector, m *metrics.Metrics, log zerolog.Logger) *Finder {
	return &Finder{
		scorer:   scorer,
		selector: selector,
		metrics:  m,
		log:      log.With().Str("component", "finder").Logger(),
	}
}

// Find searches routeMap for routes from start to end with at most maxHops
// swaps. The direct route [start, end] is the baseline; if it cannot be
// scored the search fails.
func (f *Finder) Find(ctx context.Context, routeMap graph.RouteMap[solana.PublicKey], start, end solana.PublicKey, maxHops int) (*types.FindResult, error) {
	startedAt := time.Now()

	f.log.Info().Str("start", start.String()).Str("end", end.String()).Int("max_hops", maxHops).Msg("scoring direct route")
	baseline, err := f.scorer.ScorePath(ctx, []solana.PublicKey{start, end})
	if err != nil {
		return nil, fmt.Errorf("failed to score direct route: %w", err)
	}

	candidates := graph.FindAllRoutes(routeMap, start, end, maxHops)
	f.metrics.Enumerated(len(candidates))
	f.log.Info().Int("candidates", len(candidates)).Str("graph", routeMap.String()).Msg("enumerated routes")

	retained := f.selector.Select(ctx, candidates, baseline.Valuation)

	best := 0.0
	for _, r := range retained {
		if r.Valuation > best {
			best = r.Valuation
		}
	}
	f.metrics.ObserveSearch(baseline.Valuation, best)

	result := &types.FindResult{
		Start:      start,
		End:        end,
		MaxHops:    maxHops,
		Baseline:   baseline,
		Candidates: len(candidates),
		Retained:   retained,
		Discarded:  len(candidates) - len(retained),
		StartedAt:  startedAt,
		Duration:   time.Since(startedAt),
	}

	f.log.Info().
		Float64("baseline", baseline.Valuation).
		Int("retained", len(retained)).
		Int("discarded", result.Discarded).
		Dur("duration", result.Duration).
		Msg("search complete")

	return result, nil
}
