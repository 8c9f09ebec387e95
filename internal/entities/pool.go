package entities

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Protocol identifies the swap rule of a pool or the mix of rules along a route.
type Protocol int

const (
	ProtocolV2 Protocol = iota
	ProtocolV3
	ProtocolMixed
)

func (p Protocol) String() string {
	switch p {
	case ProtocolV2:
		return "v2"
	case ProtocolV3:
		return "v3"
	case ProtocolMixed:
		return "mixed"
	default:
		return fmt.Sprintf("Protocol(%d)", int(p))
	}
}

// ParseProtocol accepts the names produced by Protocol.String.
func ParseProtocol(value string) (Protocol, error) {
	switch value {
	case "v2":
		return ProtocolV2, nil
	case "v3":
		return ProtocolV3, nil
	case "mixed":
		return ProtocolMixed, nil
	default:
		return 0, fmt.Errorf("%w: unknown protocol %q", ErrInvalidOption, value)
	}
}

// Pool is a snapshot of one pair of tokens with a swap rule. Swaps never mutate the
// receiver; they return the pool state after the swap instead.
type Pool interface {
	Protocol() Protocol
	ChainID() ChainID
	Address() common.Address
	Token0() Currency
	Token1() Currency
	// Fee in pips (hundredths of a basis point).
	Fee() uint32
	InvolvesToken(token Currency) bool
	Token0Price() Price
	Token1Price() Price
	PriceOf(token Currency) (Price, error)
	GetOutputAmount(inputAmount CurrencyAmount) (CurrencyAmount, Pool, error)
	GetInputAmount(outputAmount CurrencyAmount) (CurrencyAmount, Pool, error)
}

var poolKeyArguments = abi.Arguments{
	{Type: mustABIType("address")},
	{Type: mustABIType("address")},
}

func mustABIType(name string) abi.Type {
	t, err := abi.NewType(name, "", nil)
	if err != nil {
		panic(err)
	}
	return t
}

// SortTokens orders two tokens by address.
func SortTokens(tokenA, tokenB Currency) (Currency, Currency, error) {
	before, err := tokenA.SortsBefore(tokenB)
	if err != nil {
		return Currency{}, Currency{}, err
	}
	if before {
		return tokenA, tokenB, nil
	}
	return tokenB, tokenA, nil
}

// GetAddress derives the create2 address of the pool for two tokens in any order.
// The salt is keccak256(abi.encode(token0, token1)).
func GetAddress(tokenA, tokenB Currency, deployer common.Address, initCodeHash common.Hash) (common.Address, error) {
	token0, token1, err := SortTokens(tokenA, tokenB)
	if err != nil {
		return common.Address{}, err
	}
	encoded, err := poolKeyArguments.Pack(token0.Address(), token1.Address())
	if err != nil {
		return common.Address{}, fmt.Errorf("encode pool key: %w", err)
	}
	salt := crypto.Keccak256Hash(encoded)
	return crypto.CreateAddress2(deployer, salt, initCodeHash.Bytes()), nil
}

func priceOf(pool Pool, token Currency) (Price, error) {
	switch {
	case token.Equal(pool.Token0()):
		return pool.Token0Price(), nil
	case token.Equal(pool.Token1()):
		return pool.Token1Price(), nil
	default:
		return Price{}, fmt.Errorf("%w: %s not in pool", ErrCurrencyMismatch, token)
	}
}

func involvesToken(pool Pool, token Currency) bool {
	return token.Equal(pool.Token0()) || token.Equal(pool.Token1())
}

// otherToken returns the pool token that is not token.
func otherToken(pool Pool, token Currency) Currency {
	if token.Equal(pool.Token0()) {
		return pool.Token1()
	}
	return pool.Token0()
}
