package dex

import (
	"errors"
	"fmt"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"routeScope/internal/entities"
	"routeScope/internal/model"
)

func TestDecodeTokenMeta(t *testing.T) {
	stringABI, err := erc20StringABI.get()
	if err != nil {
		t.Fatalf("abi parse: %v", err)
	}
	bytes32ABI, err := erc20Bytes32ABI.get()
	if err != nil {
		t.Fatalf("abi parse: %v", err)
	}

	decimals, err := stringABI.Methods["decimals"].Outputs.Pack(uint8(6))
	if err != nil {
		t.Fatalf("pack decimals: %v", err)
	}
	symbol, err := stringABI.Methods["symbol"].Outputs.Pack("USDC")
	if err != nil {
		t.Fatalf("pack symbol: %v", err)
	}
	var raw [32]byte
	copy(raw[:], "Maker")
	name, err := bytes32ABI.Methods["name"].Outputs.Pack(raw)
	if err != nil {
		t.Fatalf("pack name: %v", err)
	}

	token := common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	meta, err := DecodeTokenMeta(token, decimals, symbol, name)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if meta.Address != token.Hex() || meta.Decimals != 6 {
		t.Fatalf("meta mismatch: %+v", meta)
	}
	if meta.Symbol != "USDC" || meta.Name != "Maker" {
		t.Fatalf("text mismatch: %q %q", meta.Symbol, meta.Name)
	}

	meta, err = DecodeTokenMeta(token, decimals, nil, nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if meta.Symbol != "" || meta.Name != "" {
		t.Fatalf("expected blank text, got %+v", meta)
	}

	if _, err := DecodeTokenMeta(token, nil, symbol, name); err == nil {
		t.Fatalf("expected error for missing decimals")
	}
}

func TestTokenCacheResolve(t *testing.T) {
	cache := NewTokenCache()

	first, err := cache.Resolve(entities.ChainMainnet, metaA)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	again, err := cache.Resolve(entities.ChainMainnet, model.TokenMeta{Address: metaA.Address, Decimals: 18, Symbol: "other"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if again.Symbol() != first.Symbol() {
		t.Fatalf("cached token not reused: %s", again.Symbol())
	}

	if _, err := cache.Resolve(entities.ChainMainnet, model.TokenMeta{Address: metaA.Address, Decimals: 6}); !errors.Is(err, ErrTokenConflict) {
		t.Fatalf("expected token conflict, got %v", err)
	}
	if _, err := cache.Resolve(entities.ChainMainnet, model.TokenMeta{Address: "nope"}); !errors.Is(err, entities.ErrInvalidAddress) {
		t.Fatalf("expected invalid address, got %v", err)
	}

	// the same address on another chain is a different token
	if _, err := cache.Resolve(entities.ChainBSC, model.TokenMeta{Address: metaA.Address, Decimals: 6}); err != nil {
		t.Fatalf("resolve bsc: %v", err)
	}
	if cache.Len() != 2 {
		t.Fatalf("cache size mismatch: %d", cache.Len())
	}
}

func TestTokenCacheResolveConcurrentConflicts(t *testing.T) {
	for round := 0; round < 50; round++ {
		cache := NewTokenCache()
		start := make(chan struct{})
		errs := make(chan error, 16)
		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			decimals := uint8(18)
			if i%2 == 1 {
				decimals = 6
			}
			wg.Add(1)
			go func(decimals uint8) {
				defer wg.Done()
				<-start
				token, err := cache.Resolve(entities.ChainMainnet, model.TokenMeta{Address: metaA.Address, Decimals: decimals})
				switch {
				case errors.Is(err, ErrTokenConflict):
				case err != nil:
					errs <- err
				case token.Decimals() != decimals:
					errs <- fmt.Errorf("asked for %d decimals, got %d", decimals, token.Decimals())
				}
			}(decimals)
		}
		close(start)
		wg.Wait()
		close(errs)
		for err := range errs {
			t.Fatalf("round %d: %v", round, err)
		}
		if cache.Len() != 1 {
			t.Fatalf("cache size mismatch: %d", cache.Len())
		}
	}
}

func TestCheckDecimals(t *testing.T) {
	token := entities.MustToken(entities.ChainMainnet, metaA.Address, 18, "A", "")
	if _, err := checkDecimals(token, model.TokenMeta{Address: metaA.Address, Decimals: 6}); !errors.Is(err, ErrTokenConflict) {
		t.Fatalf("expected token conflict, got %v", err)
	}
	got, err := checkDecimals(token, model.TokenMeta{Address: metaA.Address, Decimals: 18})
	if err != nil || !got.Equal(token) {
		t.Fatalf("expected cached token, got %v %v", got, err)
	}
}

func TestInt24FromTopic(t *testing.T) {
	cases := map[int64]string{
		-60: topicFromInt(-60).Hex(),
		60:  topicFromInt(60).Hex(),
		0:   topicFromInt(0).Hex(),
	}
	for want, topic := range cases {
		got, err := int24FromTopic(topic)
		if err != nil {
			t.Fatalf("decode %s: %v", topic, err)
		}
		if int64(got) != want {
			t.Fatalf("tick mismatch: %d != %d", got, want)
		}
	}
	if _, err := int24FromTopic(topicFromInt(1 << 23).Hex()); err == nil {
		t.Fatalf("expected overflow")
	}
	if _, err := int24FromTopic(common.BigToHash(big.NewInt(1)).Hex()[:10]); err == nil {
		t.Fatalf("expected invalid topic")
	}
}
