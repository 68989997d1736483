package quote

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// UIToAtomic converts a display amount into atomic units of a mint with the
// given decimals, truncating toward zero.
func UIToAtomic(uiAmount float64, decimals uint8) (uint64, error) {
	if uiAmount < 0 {
		return 0, fmt.Errorf("negative amount %v", uiAmount)
	}

	atomic := decimal.NewFromFloat(uiAmount).Shift(int32(decimals)).Truncate(0)
	if !atomic.BigInt().IsUint64() {
		return 0, fmt.Errorf("amount %v with %d decimals overflows uint64", uiAmount, decimals)
	}
	return atomic.BigInt().Uint64(), nil
}

// AtomicToUI converts atomic units of a mint into its display amount.
func AtomicToUI(amount uint64, decimals uint8) float64 {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -int32(decimals)).InexactFloat64()
}
