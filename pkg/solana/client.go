// Package solana provides a read-only client for Solana account data.
package solana

import (
	"context"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
)

// MintSize is the length of an SPL token mint account. Token-2022 mints
// carry extensions after this prefix.
const MintSize = 82

// ErrMintNotFound is returned when the mint account does not exist.
var ErrMintNotFound = errors.New("mint account not found")

// accountFetcher is the subset of *rpc.Client used by Client.
type accountFetcher interface {
	GetAccountInfoWithOpts(ctx context.Context, account solana.PublicKey, opts *rpc.GetAccountInfoOpts) (*rpc.GetAccountInfoResult, error)
}

// Client wraps the Solana RPC client.
type Client struct {
	rpc        accountFetcher
	rpcURL     string
	commitment rpc.CommitmentType
}

// ClientConfig contains configuration for the Solana client.
type ClientConfig struct {
	RPCURL     string // Solana RPC endpoint
	Commitment string // processed|confirmed|finalized
}

// NewClient creates a new Solana client.
func NewClient(config *ClientConfig) *Client {
	if config == nil {
		config = &ClientConfig{}
	}

	rpcURL := config.RPCURL
	if rpcURL == "" {
		rpcURL = rpc.MainNetBeta_RPC
	}

	commitment := rpc.CommitmentType(config.Commitment)
	if commitment == "" {
		commitment = rpc.CommitmentConfirmed
	}

	return &Client{
		rpc:        rpc.New(rpcURL),
		rpcURL:     rpcURL,
		commitment: commitment,
	}
}

// RPCURL returns the endpoint the client talks to.
func (c *Client) RPCURL() string {
	return c.rpcURL
}

// GetMintDecimals fetches a mint account and returns its decimals.
func (c *Client) GetMintDecimals(ctx context.Context, mint solana.PublicKey) (uint8, error) {
	result, err := c.rpc.GetAccountInfoWithOpts(ctx, mint, &rpc.GetAccountInfoOpts{
		Encoding:   solana.EncodingBase64,
		Commitment: c.commitment,
	})
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return 0, fmt.Errorf("%w: %s", ErrMintNotFound, mint)
		}
		return 0, fmt.Errorf("failed to get account %s: %w", mint, err)
	}
	if result == nil || result.Value == nil || result.Value.Data == nil {
		return 0, fmt.Errorf("%w: %s", ErrMintNotFound, mint)
	}

	decimals, err := DecodeMintDecimals(result.Value.Data.GetBinary())
	if err != nil {
		return 0, fmt.Errorf("failed to decode mint %s: %w", mint, err)
	}

	return decimals, nil
}

// DecodeMintDecimals decodes SPL mint account data and returns its decimals.
func DecodeMintDecimals(data []byte) (uint8, error) {
	if len(data) < MintSize {
		return 0, fmt.Errorf("mint data too short: %d bytes", len(data))
	}

	var mint token.Mint
	if err := bin.NewBinDecoder(data[:MintSize]).Decode(&mint); err != nil {
		return 0, err
	}
	if !mint.IsInitialized {
		return 0, fmt.Errorf("mint is not initialized")
	}

	return mint.Decimals, nil
}

// IsValidAddress validates a Solana address (Base58 public key).
func IsValidAddress(address string) bool {
	_, err := solana.PublicKeyFromBase58(address)
	return err == nil
}
