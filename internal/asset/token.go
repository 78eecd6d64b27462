package asset

import (
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/fd1az/arbitrage-evaluator/internal/apperror"
)

// Chain IDs
const (
	ChainIDEthereum = 1
	ChainIDOptimism = 10
	ChainIDBSC      = 56
	ChainIDPolygon  = 137
	ChainIDArbitrum = 42161
)

// NativeAddress is the placeholder route APIs use for a chain's native coin.
var NativeAddress = common.HexToAddress("0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE")

// Chains maps route-API chain names to chain IDs.
var Chains = map[string]uint64{
	"ethereum": ChainIDEthereum,
	"optimism": ChainIDOptimism,
	"bsc":      ChainIDBSC,
	"polygon":  ChainIDPolygon,
	"arbitrum": ChainIDArbitrum,
}

// Token is an on-chain asset. The zero-value Address is never valid; native
// coins use NativeAddress.
type Token struct {
	ChainID  uint64
	Address  common.Address
	Symbol   Symbol
	Decimals uint8
}

// IsNative reports whether t is the chain's native coin.
func (t Token) IsNative() bool {
	return t.Address == NativeAddress
}

func (t Token) String() string {
	return fmt.Sprintf("%s@%d", t.Symbol, t.ChainID)
}

// ToBaseUnits scales a human amount (1.5 USDT) to base units (1500000).
// Fractions finer than the token's decimals are rejected.
func (t Token) ToBaseUnits(amount decimal.Decimal) (*big.Int, error) {
	if !amount.IsPositive() {
		return nil, apperror.Validation(apperror.CodeInvalidInput, "amount must be positive")
	}
	scaled := amount.Shift(int32(t.Decimals))
	if !scaled.Equal(scaled.Truncate(0)) {
		return nil, apperror.Validation(apperror.CodeInvalidInput,
			fmt.Sprintf("%s supports at most %d decimals", t.Symbol, t.Decimals))
	}
	return scaled.BigInt(), nil
}

// FromBaseUnits converts base units back to a human amount.
func (t Token) FromBaseUnits(raw *big.Int) decimal.Decimal {
	if raw == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(raw, -int32(t.Decimals))
}

type tokenKey struct {
	chainID uint64
	symbol  Symbol
}

// Registry is a thread-safe lookup of known tokens by chain and symbol or address.
type Registry struct {
	mu        sync.RWMutex
	bySymbol  map[tokenKey]Token
	byAddress map[common.Address][]Token
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		bySymbol:  make(map[tokenKey]Token),
		byAddress: make(map[common.Address][]Token),
	}
}

// Register adds t, replacing any token with the same chain and symbol.
func (r *Registry) Register(t Token) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.bySymbol[tokenKey{t.ChainID, t.Symbol}] = t
	r.byAddress[t.Address] = append(r.byAddress[t.Address], t)
}

// Resolve finds a token on chainID by symbol or by hex address. Unknown
// addresses that are well-formed resolve to an 18-decimal token.
func (r *Registry) Resolve(chainID uint64, symbolOrAddress string) (Token, error) {
	ref := strings.TrimSpace(symbolOrAddress)

	if common.IsHexAddress(ref) {
		addr := common.HexToAddress(ref)
		r.mu.RLock()
		defer r.mu.RUnlock()
		for _, t := range r.byAddress[addr] {
			if t.ChainID == chainID {
				return t, nil
			}
		}
		return Token{ChainID: chainID, Address: addr, Symbol: Symbol(addr.Hex()), Decimals: 18}, nil
	}

	if strings.HasPrefix(ref, "0x") || strings.HasPrefix(ref, "0X") {
		return Token{}, apperror.Validation(apperror.CodeInvalidTokenAddress, ref)
	}

	sym, err := Normalize(ref)
	if err != nil {
		return Token{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if t, ok := r.bySymbol[tokenKey{chainID, sym}]; ok {
		return t, nil
	}
	return Token{}, apperror.NotFound(apperror.CodeNotFound, fmt.Sprintf("token %s on chain %d", sym, chainID))
}

// Count returns the number of registered tokens.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bySymbol)
}

// DefaultRegistry returns the Ethereum mainnet stablecoins, wrapped majors and
// a native coin entry for every supported chain.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	mainnet := []Token{
		{ChainIDEthereum, common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7"), "USDT", 6},
		{ChainIDEthereum, common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"), "USDC", 6},
		{ChainIDEthereum, common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F"), "DAI", 18},
		{ChainIDEthereum, common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"), "WETH", 18},
		{ChainIDEthereum, common.HexToAddress("0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599"), "WBTC", 8},
	}
	for _, t := range mainnet {
		r.Register(t)
	}

	natives := map[uint64]Symbol{
		ChainIDEthereum: "ETH",
		ChainIDOptimism: "ETH",
		ChainIDArbitrum: "ETH",
		ChainIDBSC:      "BNB",
		ChainIDPolygon:  "POL",
	}
	for chainID, sym := range natives {
		r.Register(Token{ChainID: chainID, Address: NativeAddress, Symbol: sym, Decimals: 18})
	}

	return r
}
