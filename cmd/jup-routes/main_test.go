package main

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonasrmichel/jup-routes/pkg/config"
	"github.com/jonasrmichel/jup-routes/pkg/jupiter"
)

func TestParseHops(t *testing.T) {
	n, err := parseHops(" 3 ")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = parseHops("three")
	assert.Error(t, err)

	_, err = parseHops("-1")
	assert.Error(t, err)
}

func TestResolveHops(t *testing.T) {
	ask := func() string { return "4" }
	noAsk := func() string {
		t.Error("unexpected prompt")
		return ""
	}

	n, err := resolveHops(2, 3, noAsk)
	require.NoError(t, err)
	assert.Equal(t, 2, n, "flag wins")

	n, err = resolveHops(-1, 0, noAsk)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "configured direct-only bound")

	n, err = resolveHops(-1, -1, ask)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	_, err = resolveHops(-1, -1, func() string { return "x" })
	assert.Error(t, err)
}

func TestPrompt(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("SOL\n  USDC  \n2"))
	assert.Equal(t, "SOL", prompt(r, "start?"))
	assert.Equal(t, "USDC", prompt(r, "end?"))
	assert.Equal(t, "2", prompt(r, "hops?"))
	assert.Equal(t, "", prompt(r, "eof?"))
}

func TestParseMint(t *testing.T) {
	cfg := config.DefaultConfig()
	nop := zerolog.Nop()

	assert.Equal(t, solana.MustPublicKeyFromBase58(jupiter.USDCMint), parseMint(cfg, "usdc", nop, "start"))
	assert.Equal(t, solana.MustPublicKeyFromBase58(jupiter.BONKMint), parseMint(cfg, jupiter.BONKMint, nop, "end"))
	assert.Equal(t, solana.PublicKey{}, parseMint(cfg, "not a mint", nop, "start"))
}

func TestStaticPrecision(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Tokens = append(cfg.Tokens, config.TokenSettings{Symbol: "BAD", Mint: "??", Decimals: 3})

	table := staticPrecision(cfg, zerolog.Nop())
	assert.Len(t, table, 5)

	d, err := table.Decimals(context.Background(), solana.MustPublicKeyFromBase58(jupiter.SOLMint))
	require.NoError(t, err)
	assert.Equal(t, uint8(9), d)
}

func TestLoadRouteMap_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"mintKeys":["`+jupiter.SOLMint+`","`+jupiter.USDCMint+`"],"indexedRouteMap":{"0":[1],"1":[0,5]}}`), 0o644))

	routeMap, err := loadRouteMap(context.Background(), path, nil, zerolog.Nop())
	require.NoError(t, err)

	sol := solana.MustPublicKeyFromBase58(jupiter.SOLMint)
	usdc := solana.MustPublicKeyFromBase58(jupiter.USDCMint)
	assert.True(t, routeMap.HasEdge(sol, usdc))
	assert.True(t, routeMap.HasEdge(usdc, sol))
	assert.Equal(t, 2, routeMap.EdgeCount())

	_, err = loadRouteMap(context.Background(), filepath.Join(t.TempDir(), "missing.json"), nil, zerolog.Nop())
	assert.Error(t, err)
}
