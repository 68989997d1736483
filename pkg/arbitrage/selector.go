package arbitrage

import (
	"context"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"

	"github.com/jonasrmichel/jup-routes/pkg/metrics"
	"github.com/jonasrmichel/jup-routes/pkg/types"
)

// PathScorer scores a route. Implemented by *Scorer.
type PathScorer interface {
	ScorePath(ctx context.Context, path []solana.PublicKey) (*types.ScoredRoute, error)
}

// Selector keeps the candidate routes whose valuation meets a baseline.
type Selector struct {
	scorer  PathScorer
	workers int
	metrics *metrics.Metrics
	log     zerolog.Logger
}

// NewSelector creates a selector. workers <= 1 scores candidates one at a
// time; larger values score up to that many candidates concurrently.
func NewSelector(scorer PathScorer, workers int, m *metrics.Metrics, log zerolog.Logger) *Selector {
	if workers < 1 {
		workers = 1
	}
	return &Selector{
		scorer:  scorer,
		workers: workers,
		metrics: m,
		log:     log.With().Str("component", "selector").Logger(),
	}
}

// Select scores every candidate and returns those with valuation >= baseline,
// in candidate order. Candidates that fail to score are dropped silently.
func (s *Selector) Select(ctx context.Context, candidates [][]solana.PublicKey, baseline float64) []*types.ScoredRoute {
	// One slot per candidate keeps the output in enumeration order
	// regardless of completion order.
	slots := make([]*types.ScoredRoute, len(candidates))

	if s.workers == 1 || len(candidates) < 2 {
		for i, path := range candidates {
			slots[i] = s.judge(ctx, path, baseline)
		}
	} else {
		s.fanOut(ctx, candidates, baseline, slots)
	}

	retained := make([]*types.ScoredRoute, 0, len(candidates))
	for _, r := range slots {
		if r != nil {
			retained = append(retained, r)
		}
	}
	return retained
}

// fanOut scores candidates on a bounded pool of goroutines. Each goroutine
// writes only its own slot.
func (s *Selector) fanOut(ctx context.Context, candidates [][]solana.PublicKey, baseline float64, slots []*types.ScoredRoute) {
	jobs := make(chan int)
	var wg sync.WaitGroup

	workers := s.workers
	if workers > len(candidates) {
		workers = len(candidates)
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				slots[i] = s.judge(ctx, candidates[i], baseline)
			}
		}()
	}

	for i := range candidates {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
}

// judge scores one candidate and returns it if it meets the baseline.
func (s *Selector) judge(ctx context.Context, path []solana.PublicKey, baseline float64) *types.ScoredRoute {
	scored, err := s.scorer.ScorePath(ctx, path)
	if err != nil {
		s.metrics.Discarded(metrics.ReasonScoreFailed)
		s.log.Debug().Err(err).Int("hops", len(path)-1).Msg("discarding route")
		return nil
	}

	if scored.Valuation < baseline {
		s.metrics.Discarded(metrics.ReasonBelowBaseline)
		s.log.Debug().Float64("valuation", scored.Valuation).Float64("baseline", baseline).Msg("route below baseline")
		return nil
	}

	s.metrics.Retained()
	return scored
}
