package solana

import (
	"context"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var usdcMint = solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")

// mintData lays out an SPL mint account: COption<Pubkey> mint authority,
// u64 supply, u8 decimals, bool initialized, COption<Pubkey> freeze authority.
func mintData(decimals uint8, initialized bool) []byte {
	data := make([]byte, MintSize)
	binary.LittleEndian.PutUint32(data[0:4], 1)
	copy(data[4:36], usdcMint[:])
	binary.LittleEndian.PutUint64(data[36:44], 1_000_000)
	data[44] = decimals
	if initialized {
		data[45] = 1
	}
	return data
}

type stubFetcher struct {
	result *rpc.GetAccountInfoResult
	err    error
	opts   *rpc.GetAccountInfoOpts
}

func (s *stubFetcher) GetAccountInfoWithOpts(_ context.Context, _ solana.PublicKey, opts *rpc.GetAccountInfoOpts) (*rpc.GetAccountInfoResult, error) {
	s.opts = opts
	return s.result, s.err
}

func accountResult(data []byte) *rpc.GetAccountInfoResult {
	return &rpc.GetAccountInfoResult{
		Value: &rpc.Account{
			Owner: solana.TokenProgramID,
			Data:  rpc.DataBytesOrJSONFromBytes(data),
		},
	}
}

func TestDecodeMintDecimals(t *testing.T) {
	d, err := DecodeMintDecimals(mintData(6, true))
	require.NoError(t, err)
	assert.Equal(t, uint8(6), d)

	// Token-2022 mints have trailing extension data.
	extended := append(mintData(9, true), make([]byte, 90)...)
	d, err = DecodeMintDecimals(extended)
	require.NoError(t, err)
	assert.Equal(t, uint8(9), d)
}

func TestDecodeMintDecimals_Errors(t *testing.T) {
	_, err := DecodeMintDecimals(make([]byte, 10))
	assert.Error(t, err)

	_, err = DecodeMintDecimals(mintData(6, false))
	assert.Error(t, err)
}

func TestGetMintDecimals(t *testing.T) {
	fetcher := &stubFetcher{result: accountResult(mintData(5, true))}
	c := &Client{rpc: fetcher, commitment: rpc.CommitmentFinalized}

	d, err := c.GetMintDecimals(context.Background(), usdcMint)
	require.NoError(t, err)
	assert.Equal(t, uint8(5), d)
	assert.Equal(t, solana.EncodingBase64, fetcher.opts.Encoding)
	assert.Equal(t, rpc.CommitmentFinalized, fetcher.opts.Commitment)
}

func TestGetMintDecimals_NotFound(t *testing.T) {
	c := &Client{rpc: &stubFetcher{err: rpc.ErrNotFound}}
	_, err := c.GetMintDecimals(context.Background(), usdcMint)
	assert.ErrorIs(t, err, ErrMintNotFound)

	c = &Client{rpc: &stubFetcher{result: &rpc.GetAccountInfoResult{}}}
	_, err = c.GetMintDecimals(context.Background(), usdcMint)
	assert.ErrorIs(t, err, ErrMintNotFound)
}

func TestGetMintDecimals_RPCError(t *testing.T) {
	boom := errors.New("connection refused")
	c := &Client{rpc: &stubFetcher{err: boom}}

	_, err := c.GetMintDecimals(context.Background(), usdcMint)
	assert.ErrorIs(t, err, boom)
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(nil)
	assert.Equal(t, rpc.MainNetBeta_RPC, c.RPCURL())
	assert.Equal(t, rpc.CommitmentConfirmed, c.commitment)

	c = NewClient(&ClientConfig{RPCURL: "http://localhost:8899", Commitment: "finalized"})
	assert.Equal(t, "http://localhost:8899", c.RPCURL())
	assert.Equal(t, rpc.CommitmentFinalized, c.commitment)
}

func TestIsValidAddress(t *testing.T) {
	assert.True(t, IsValidAddress("So11111111111111111111111111111111111111112"))
	assert.False(t, IsValidAddress("not a mint"))
}
