package entities

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

type CurrencyKind uint8

const (
	KindNative CurrencyKind = iota
	KindToken
)

func (k CurrencyKind) String() string {
	switch k {
	case KindNative:
		return "native"
	case KindToken:
		return "token"
	default:
		return fmt.Sprintf("CurrencyKind(%d)", uint8(k))
	}
}

// Currency is either a chain's native currency or an ERC20 token. Values are immutable.
type Currency struct {
	kind     CurrencyKind
	chainID  ChainID
	address  common.Address
	decimals uint8
	symbol   string
	name     string
}

// NewNative returns the native currency of a chain.
func NewNative(chainID ChainID, decimals uint8, symbol, name string) Currency {
	return Currency{
		kind:     KindNative,
		chainID:  chainID,
		decimals: decimals,
		symbol:   symbol,
		name:     name,
	}
}

// NewToken validates the address and returns a token currency.
func NewToken(chainID ChainID, address string, decimals uint8, symbol, name string) (Currency, error) {
	if !common.IsHexAddress(address) {
		return Currency{}, fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	return Currency{
		kind:     KindToken,
		chainID:  chainID,
		address:  common.HexToAddress(address),
		decimals: decimals,
		symbol:   symbol,
		name:     name,
	}, nil
}

// MustToken is NewToken for static tables; it panics on an invalid address.
func MustToken(chainID ChainID, address string, decimals uint8, symbol, name string) Currency {
	token, err := NewToken(chainID, address, decimals, symbol, name)
	if err != nil {
		panic(err)
	}
	return token
}

func (c Currency) Kind() CurrencyKind      { return c.kind }
func (c Currency) IsNative() bool          { return c.kind == KindNative }
func (c Currency) IsToken() bool           { return c.kind == KindToken }
func (c Currency) ChainID() ChainID        { return c.chainID }
func (c Currency) Address() common.Address { return c.address }
func (c Currency) Decimals() uint8         { return c.decimals }
func (c Currency) Symbol() string          { return c.symbol }
func (c Currency) Name() string            { return c.name }

// Equal reports currency identity. Tokens compare by chain and address, native
// currencies by chain.
func (c Currency) Equal(other Currency) bool {
	if c.kind != other.kind || c.chainID != other.chainID {
		return false
	}
	if c.kind == KindToken {
		return c.address == other.address
	}
	return true
}

// SortsBefore orders two tokens of the same chain by address.
func (c Currency) SortsBefore(other Currency) (bool, error) {
	if !c.IsToken() || !other.IsToken() {
		return false, fmt.Errorf("%w: only tokens can be sorted", ErrCurrencyMismatch)
	}
	if c.chainID != other.chainID {
		return false, ErrChainMismatch
	}
	cmp := bytes.Compare(c.address.Bytes(), other.address.Bytes())
	if cmp == 0 {
		return false, fmt.Errorf("%w: identical addresses %s", ErrInvalidAddress, c.address.Hex())
	}
	return cmp < 0, nil
}

func (c Currency) String() string {
	if c.IsToken() {
		if c.symbol != "" {
			return c.symbol
		}
		return c.address.Hex()
	}
	return c.symbol
}
