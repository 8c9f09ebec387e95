package model

// PoolSnapshot is the persisted state of one pool at a point in time.
// V3 pools fill the price, liquidity and tick fields; V2 pairs fill the reserves.
type PoolSnapshot struct {
	Protocol     string         `json:"protocol"`
	ChainID      uint64         `json:"chain_id"`
	Address      string         `json:"address,omitempty"`
	Token0       TokenMeta      `json:"token0"`
	Token1       TokenMeta      `json:"token1"`
	Fee          uint32         `json:"fee"`
	TickSpacing  int32          `json:"tick_spacing,omitempty"`
	SqrtPriceX96 string         `json:"sqrt_price_x96,omitempty"`
	Tick         *int32         `json:"tick,omitempty"`
	Liquidity    string         `json:"liquidity,omitempty"`
	Ticks        []TickSnapshot `json:"ticks,omitempty"`
	Reserve0     string         `json:"reserve0,omitempty"`
	Reserve1     string         `json:"reserve1,omitempty"`
	BlockNumber  uint64         `json:"block_number,omitempty"`
	UpdatedAt    string         `json:"updated_at,omitempty"`
}

// TickSnapshot is one initialized tick of a V3 pool.
type TickSnapshot struct {
	Index          int32  `json:"index"`
	LiquidityGross string `json:"liquidity_gross"`
	LiquidityNet   string `json:"liquidity_net"`
}
