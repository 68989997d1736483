package providers

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	solMint  = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	usdcMint = solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
	bonkMint = solana.MustPublicKeyFromBase58("DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263")
)

type countingPrecision struct {
	decimals map[solana.PublicKey]uint8
	calls    int
	err      error
}

func (c *countingPrecision) Decimals(_ context.Context, mint solana.PublicKey) (uint8, error) {
	c.calls++
	if c.err != nil {
		return 0, c.err
	}
	return c.decimals[mint], nil
}

func TestCachedPrecision(t *testing.T) {
	src := &countingPrecision{decimals: map[solana.PublicKey]uint8{solMint: 9, usdcMint: 6}}
	cached := NewCachedPrecision(src)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d, err := cached.Decimals(ctx, solMint)
		require.NoError(t, err)
		assert.Equal(t, uint8(9), d)
	}
	d, err := cached.Decimals(ctx, usdcMint)
	require.NoError(t, err)
	assert.Equal(t, uint8(6), d)

	assert.Equal(t, 2, src.calls)
}

func TestCachedPrecision_ErrorsNotCached(t *testing.T) {
	src := &countingPrecision{err: errors.New("rpc down")}
	cached := NewCachedPrecision(src)

	_, err := cached.Decimals(context.Background(), solMint)
	require.Error(t, err)
	_, err = cached.Decimals(context.Background(), solMint)
	require.Error(t, err)

	assert.Equal(t, 2, src.calls)
}

func TestStaticPrecision(t *testing.T) {
	s := StaticPrecision{bonkMint: 5}

	d, err := s.Decimals(context.Background(), bonkMint)
	require.NoError(t, err)
	assert.Equal(t, uint8(5), d)

	_, err = s.Decimals(context.Background(), solMint)
	var unknown *UnknownMintError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, solMint, unknown.Mint)
}

func TestFallbackPrecision(t *testing.T) {
	failing := &countingPrecision{err: errors.New("rpc down")}
	f := FallbackPrecision{failing, StaticPrecision{usdcMint: 6}}

	d, err := f.Decimals(context.Background(), usdcMint)
	require.NoError(t, err)
	assert.Equal(t, uint8(6), d)

	_, err = f.Decimals(context.Background(), bonkMint)
	var unknown *UnknownMintError
	assert.ErrorAs(t, err, &unknown)

	_, err = FallbackPrecision{}.Decimals(context.Background(), bonkMint)
	assert.ErrorAs(t, err, &unknown)
}
