package contracts

import "math/big"

// GasParams are explicit transaction gas settings for chains where the
// provider's estimates are known to be wrong or wasteful. Values tuned for
// one network must never leak to another, so unknown chains get none and
// fall back to provider estimation.
type GasParams struct {
	GasLimit uint64
	FeeCap   *big.Int // wei
	TipCap   *big.Int // wei
}

// Known low-fee test networks. Adding a network is a new map entry, not a
// new conditional.
var networkGasParams = map[uint64]GasParams{
	// Base Sepolia
	84532: {
		GasLimit: 500_000,
		FeeCap:   big.NewInt(1_500_000_000), // 1.5 gwei
		TipCap:   big.NewInt(1_000_000_000),
	},
	// Ethereum Sepolia
	11155111: {
		GasLimit: 500_000,
		FeeCap:   big.NewInt(30_000_000_000),
		TipCap:   big.NewInt(1_500_000_000),
	},
	// Optimism Sepolia
	11155420: {
		GasLimit: 500_000,
		FeeCap:   big.NewInt(1_500_000_000),
		TipCap:   big.NewInt(1_000_000_000),
	},
}

// GasParamsFor returns the fixed gas parameters for a chain, if any.
func GasParamsFor(chainID uint64) (GasParams, bool) {
	params, ok := networkGasParams[chainID]
	return params, ok
}
