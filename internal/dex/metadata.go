package dex

import (
	"bytes"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"routeScope/internal/entities"
	"routeScope/internal/model"
)

type tokenKey struct {
	chainID entities.ChainID
	address common.Address
}

// TokenCache interns tokens by chain and address so every pool built from a snapshot set
// shares one Currency per token.
type TokenCache struct {
	mu   sync.RWMutex
	data map[tokenKey]entities.Currency
}

func NewTokenCache() *TokenCache {
	return &TokenCache{data: make(map[tokenKey]entities.Currency)}
}

func (c *TokenCache) Get(chainID entities.ChainID, address common.Address) (entities.Currency, bool) {
	c.mu.RLock()
	token, ok := c.data[tokenKey{chainID: chainID, address: address}]
	c.mu.RUnlock()
	return token, ok
}

func (c *TokenCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// Resolve returns the cached token for meta or creates it. Metadata that disagrees with the
// cached decimals is rejected.
func (c *TokenCache) Resolve(chainID entities.ChainID, meta model.TokenMeta) (entities.Currency, error) {
	if !common.IsHexAddress(meta.Address) {
		return entities.Currency{}, fmt.Errorf("%w: token %q", entities.ErrInvalidAddress, meta.Address)
	}
	key := tokenKey{chainID: chainID, address: common.HexToAddress(meta.Address)}

	c.mu.RLock()
	token, ok := c.data[key]
	c.mu.RUnlock()
	if ok {
		return checkDecimals(token, meta)
	}

	token, err := entities.NewToken(chainID, meta.Address, meta.Decimals, meta.Symbol, meta.Name)
	if err != nil {
		return entities.Currency{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.data[key]; ok {
		return checkDecimals(existing, meta)
	}
	c.data[key] = token
	return token, nil
}

func checkDecimals(token entities.Currency, meta model.TokenMeta) (entities.Currency, error) {
	if token.Decimals() != meta.Decimals {
		return entities.Currency{}, fmt.Errorf("%w: token %s has %d decimals, snapshot says %d",
			ErrTokenConflict, token.Address().Hex(), token.Decimals(), meta.Decimals)
	}
	return token, nil
}

// DecodeTokenMeta builds token metadata from the raw return data of the ERC20 decimals,
// symbol and name calls. Symbol and name may be strings or bytes32; empty data leaves them blank.
func DecodeTokenMeta(token common.Address, decimalsData, symbolData, nameData []byte) (model.TokenMeta, error) {
	meta := model.TokenMeta{Address: token.Hex()}

	stringABI, err := erc20StringABI.get()
	if err != nil {
		return meta, fmt.Errorf("parse erc20 string abi: %w", err)
	}
	bytes32ABI, err := erc20Bytes32ABI.get()
	if err != nil {
		return meta, fmt.Errorf("parse erc20 bytes32 abi: %w", err)
	}

	values, err := stringABI.Unpack("decimals", decimalsData)
	if err != nil {
		return meta, fmt.Errorf("unpack decimals: %w", err)
	}
	decimals, err := asUint8(values[0])
	if err != nil {
		return meta, err
	}
	meta.Decimals = decimals

	decodeText := func(method string, data []byte) string {
		if len(data) == 0 {
			return ""
		}
		if values, err := stringABI.Unpack(method, data); err == nil {
			if text, ok := values[0].(string); ok {
				return text
			}
		}
		if values, err := bytes32ABI.Unpack(method, data); err == nil {
			if text, ok := bytes32ToString(values[0]); ok {
				return text
			}
		}
		return ""
	}
	meta.Symbol = decodeText("symbol", symbolData)
	meta.Name = decodeText("name", nameData)

	return meta, nil
}

func bytes32ToString(value interface{}) (string, bool) {
	switch v := value.(type) {
	case [32]byte:
		return string(bytes.TrimRight(v[:], "\x00")), true
	case []byte:
		return string(bytes.TrimRight(v, "\x00")), true
	default:
		return "", false
	}
}

func asBigInt(value interface{}) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		return new(big.Int).Set(v), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	case int8:
		return big.NewInt(int64(v)), nil
	case int16:
		return big.NewInt(int64(v)), nil
	case int32:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	default:
		return nil, fmt.Errorf("unsupported int type %T", value)
	}
}

func asUint8(value interface{}) (uint8, error) {
	switch v := value.(type) {
	case uint8:
		return v, nil
	case *big.Int:
		if !v.IsUint64() || v.Uint64() > 255 {
			return 0, fmt.Errorf("uint8 overflow: %s", v.String())
		}
		return uint8(v.Uint64()), nil
	default:
		return 0, fmt.Errorf("unsupported uint8 type %T", value)
	}
}

func int24FromBig(value *big.Int) (int32, error) {
	min := big.NewInt(-1 << 23)
	max := big.NewInt((1 << 23) - 1)
	if value.Cmp(min) < 0 || value.Cmp(max) > 0 {
		return 0, fmt.Errorf("int24 overflow: %s", value.String())
	}
	return int32(value.Int64()), nil
}

// int24FromTopic decodes an indexed int24 event argument.
func int24FromTopic(topic string) (int32, error) {
	if !strings.HasPrefix(topic, "0x") || len(topic) != 66 {
		return 0, fmt.Errorf("invalid topic %q", topic)
	}
	value := common.HexToHash(topic).Big()
	if value.Bit(255) == 1 {
		value.Sub(value, new(big.Int).Lsh(big.NewInt(1), 256))
	}
	return int24FromBig(value)
}
