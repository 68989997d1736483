package solana

import (
	"context"

	"github.com/gagliardetto/solana-go"

	solanarpc "github.com/jonasrmichel/jup-routes/pkg/solana"
)

type mintReader interface {
	GetMintDecimals(ctx context.Context, mint solana.PublicKey) (uint8, error)
}

// MintPrecision implements providers.PrecisionSource by reading SPL mint
// accounts over RPC.
type MintPrecision struct {
	client mintReader
}

// NewMintPrecision creates a precision source backed by client.
func NewMintPrecision(client *solanarpc.Client) *MintPrecision {
	return &MintPrecision{client: client}
}

// Decimals returns the decimals recorded in the mint account.
func (p *MintPrecision) Decimals(ctx context.Context, mint solana.PublicKey) (uint8, error) {
	return p.client.GetMintDecimals(ctx, mint)
}
