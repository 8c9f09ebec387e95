package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"routeScope/internal/model"
)

func TestSnapshotArgs(t *testing.T) {
	snap := model.PoolSnapshot{
		Protocol: "v2",
		ChainID:  56,
		Address:  "0xabcdefabcdefabcdefabcdefabcdefabcdefabcd",
		Token0:   model.TokenMeta{Address: "0x0000000000000000000000000000000000000001", Decimals: 18},
		Token1:   model.TokenMeta{Address: "0x0000000000000000000000000000000000000002", Decimals: 6},
		Fee:      2500,
		Reserve0: "10",
		Reserve1: "20",
	}

	args, err := snapshotArgs(snap)
	require.NoError(t, err)
	require.Len(t, args, 14)
	require.Equal(t, int64(56), args[0])
	require.Equal(t, common.HexToAddress(snap.Address).Hex(), args[1])
	require.JSONEq(t, `{"address":"0x0000000000000000000000000000000000000002","decimals":6}`, string(args[4].([]byte)))
	require.Nil(t, args[7])
	require.JSONEq(t, `[]`, string(args[10].([]byte)))
	require.Equal(t, "10", *args[11].(*string))
}

// TestStoreRoundTrip needs a disposable database in ROUTER_TEST_PG_DSN.
func TestStoreRoundTrip(t *testing.T) {
	dsn := os.Getenv("ROUTER_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("ROUTER_TEST_PG_DSN not set")
	}
	ctx := context.Background()
	store, err := NewStore(ctx, dsn)
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.EnsureSchema(ctx))

	tick := int32(-12)
	snap := model.PoolSnapshot{
		Protocol:     "v3",
		ChainID:      999001,
		Address:      "0x1111111111111111111111111111111111111111",
		Token0:       model.TokenMeta{Address: "0x0000000000000000000000000000000000000001", Decimals: 18, Symbol: "A"},
		Token1:       model.TokenMeta{Address: "0x0000000000000000000000000000000000000002", Decimals: 18, Symbol: "B"},
		Fee:          3000,
		TickSpacing:  60,
		SqrtPriceX96: "79228162514264337593543950336",
		Tick:         &tick,
		Liquidity:    "5",
		Ticks: []model.TickSnapshot{
			{Index: -60, LiquidityGross: "5", LiquidityNet: "5"},
			{Index: 60, LiquidityGross: "5", LiquidityNet: "-5"},
		},
		BlockNumber: 10,
	}
	require.NoError(t, store.PutPoolSnapshots(ctx, []model.PoolSnapshot{snap}))

	older := snap
	older.Liquidity = "1"
	older.BlockNumber = 9
	require.NoError(t, store.PutPoolSnapshots(ctx, []model.PoolSnapshot{older}))

	loaded, err := store.LoadPoolSnapshots(ctx, 999001)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	require.Equal(t, "5", loaded[0].Liquidity)
	require.Equal(t, snap.Ticks, loaded[0].Ticks)
	require.Equal(t, snap.Token0, loaded[0].Token0)
	require.NotNil(t, loaded[0].Tick)
	require.Equal(t, tick, *loaded[0].Tick)
	require.Equal(t, uint64(10), loaded[0].BlockNumber)

	require.Error(t, store.PutPoolSnapshots(ctx, []model.PoolSnapshot{{ChainID: 1}}))
}
