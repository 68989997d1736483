// Package solana adapts the Jupiter API and Solana RPC to the provider
// interfaces consumed by the route scout.
package solana

import (
	"context"
	"fmt"
	"math/big"
	"strconv"

	"github.com/jonasrmichel/jup-routes/pkg/jupiter"
	"github.com/jonasrmichel/jup-routes/pkg/providers"
	"github.com/jonasrmichel/jup-routes/pkg/types"
)

// quoter is the subset of *jupiter.Client used by JupiterQuoteSource.
type quoter interface {
	GetQuote(ctx context.Context, params *jupiter.QuoteParams) (*jupiter.QuoteResponse, error)
}

// JupiterQuoteSource implements providers.QuoteSource via the Jupiter quote API.
type JupiterQuoteSource struct {
	client quoter
}

// NewJupiterQuoteSourceWithClient wraps an existing Jupiter client.
func NewJupiterQuoteSourceWithClient(client *jupiter.Client) *JupiterQuoteSource {
	return &JupiterQuoteSource{client: client}
}

// Name returns the source name.
func (s *JupiterQuoteSource) Name() string {
	return "jupiter"
}

// Quote fetches a quote and returns one offer per market in its route plan.
// Split routes yield one offer per leg, each with a share of the quote's
// slippage-adjusted minimum proportional to its output.
func (s *JupiterQuoteSource) Quote(ctx context.Context, req providers.QuoteRequest) ([]types.Offer, error) {
	resp, err := s.client.GetQuote(ctx, &jupiter.QuoteParams{
		InputMint:        req.InputMint.String(),
		OutputMint:       req.OutputMint.String(),
		Amount:           strconv.FormatUint(req.Amount, 10),
		SlippageBps:      req.SlippageBps,
		SwapMode:         jupiter.SwapModeExactIn,
		OnlyDirectRoutes: req.OnlyDirectRoutes,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch Jupiter quote: %w", err)
	}

	return offersFromQuote(resp)
}

func offersFromQuote(resp *jupiter.QuoteResponse) ([]types.Offer, error) {
	totalOut, err := parseAmount("outAmount", resp.OutAmount)
	if err != nil {
		return nil, err
	}
	threshold, err := parseAmount("otherAmountThreshold", resp.OtherAmountThreshold)
	if err != nil {
		return nil, err
	}

	var priceImpact float64
	if resp.PriceImpactPct != "" {
		priceImpact, err = strconv.ParseFloat(resp.PriceImpactPct, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse priceImpactPct: %w", err)
		}
	}

	// No markets in the plan means no offers for the pair
	if len(resp.RoutePlan) == 0 {
		return nil, nil
	}

	offers := make([]types.Offer, 0, len(resp.RoutePlan))
	for _, step := range resp.RoutePlan {
		in, err := parseAmount("swapInfo.inAmount", step.SwapInfo.InAmount)
		if err != nil {
			return nil, err
		}
		out, err := parseAmount("swapInfo.outAmount", step.SwapInfo.OutAmount)
		if err != nil {
			return nil, err
		}

		offers = append(offers, types.Offer{
			Label:          step.SwapInfo.Label,
			InAmount:       in,
			OutAmount:      out,
			WorstOutAmount: proportion(out, threshold, totalOut),
			PriceImpact:    priceImpact,
		})
	}

	return offers, nil
}

// proportion returns part * num / den without intermediate overflow.
func proportion(part, num, den uint64) uint64 {
	if den == 0 {
		return 0
	}
	r := new(big.Int).Mul(new(big.Int).SetUint64(part), new(big.Int).SetUint64(num))
	r.Quo(r, new(big.Int).SetUint64(den))
	if !r.IsUint64() {
		return part
	}
	return r.Uint64()
}

func parseAmount(field, value string) (uint64, error) {
	if value == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", field, err)
	}
	return n, nil
}
