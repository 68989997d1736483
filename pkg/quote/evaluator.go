// Package quote selects the best direct conversion offer for a single hop.
package quote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"

	"github.com/jonasrmichel/jup-routes/pkg/metrics"
	"github.com/jonasrmichel/jup-routes/pkg/providers"
	"github.com/jonasrmichel/jup-routes/pkg/types"
)

// ErrUpstreamQuote wraps every failure of the quote source.
var ErrUpstreamQuote = errors.New("upstream quote error")

const (
	// DefaultSlippageBps is the slippage tolerance sent with every quote request.
	DefaultSlippageBps = 100

	// DefaultUIAmount is the nominal input, in display units, quoted for each hop.
	DefaultUIAmount = 1.0
)

// Config holds evaluator settings.
type Config struct {
	SlippageBps int
	UIAmount    float64
}

// DefaultConfig returns the default evaluator configuration.
func DefaultConfig() Config {
	return Config{
		SlippageBps: DefaultSlippageBps,
		UIAmount:    DefaultUIAmount,
	}
}

// Evaluator quotes a hop and picks the offer with the highest normalized rate.
type Evaluator struct {
	source  providers.QuoteSource
	config  Config
	metrics *metrics.Metrics
	log     zerolog.Logger
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithMetrics attaches Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Evaluator) { e.metrics = m }
}

// WithLogger sets the evaluator logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Evaluator) { e.log = l.With().Str("component", "quote").Logger() }
}

// NewEvaluator creates an evaluator backed by source.
func NewEvaluator(source providers.QuoteSource, config Config, opts ...Option) *Evaluator {
	if config.SlippageBps <= 0 {
		config.SlippageBps = DefaultSlippageBps
	}
	if config.UIAmount <= 0 {
		config.UIAmount = DefaultUIAmount
	}

	e := &Evaluator{
		source: source,
		config: config,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EvaluateHop quotes UIAmount of from into to using direct offers only and
// returns the offer count and the best offer.
//
// A pair with no offers is not an error: the returned hop has Rate 0 and no
// Best offer, which makes any route through it worthless.
func (e *Evaluator) EvaluateHop(ctx context.Context, from, to solana.PublicKey, fromDecimals, toDecimals uint8) (*types.HopQuote, error) {
	amount, err := UIToAtomic(e.config.UIAmount, fromDecimals)
	if err != nil {
		return nil, fmt.Errorf("invalid input amount for %s: %w", from, err)
	}

	start := time.Now()
	offers, err := e.source.Quote(ctx, providers.QuoteRequest{
		InputMint:        from,
		OutputMint:       to,
		Amount:           amount,
		OnlyDirectRoutes: true,
		SlippageBps:      e.config.SlippageBps,
	})
	e.metrics.ObserveHopQuote(time.Since(start))
	if err != nil {
		e.metrics.UpstreamError(metrics.SourceQuote)
		return nil, fmt.Errorf("%w: %s -> %s via %s: %w", ErrUpstreamQuote, from, to, e.source.Name(), err)
	}

	hop := &types.HopQuote{
		From:       from,
		To:         to,
		OfferCount: len(offers),
	}

	for i, offer := range offers {
		best := toBestOffer(i, offer, fromDecimals, toDecimals)
		// Strictly greater replaces, so the first of equal offers wins
		if best.Rate > hop.Rate {
			hop.Rate = best.Rate
			hop.Best = best
		}
	}

	if hop.Best == nil {
		e.log.Debug().Str("from", from.String()).Str("to", to.String()).Int("offers", len(offers)).Msg("hop has no usable offer")
	}

	return hop, nil
}

// toBestOffer converts an offer into display units and computes its rate.
func toBestOffer(index int, offer types.Offer, fromDecimals, toDecimals uint8) *types.BestOffer {
	label := offer.Label
	if label == "" {
		label = types.UnknownLabel
	}

	in := AtomicToUI(offer.InAmount, fromDecimals)
	out := AtomicToUI(offer.OutAmount, toDecimals)

	var rate float64
	if in > 0 {
		rate = out / in
	}

	return &types.BestOffer{
		Index:          index,
		Label:          label,
		InAmount:       in,
		OutAmount:      out,
		WorstOutAmount: AtomicToUI(offer.WorstOutAmount, toDecimals),
		PriceImpactPct: offer.PriceImpact * 100,
		Rate:           rate,
	}
}
