package model

// Quote is one ranked best-trade result as printed by the quote command.
type Quote struct {
	Rank           int      `json:"rank"`
	TradeType      string   `json:"trade_type"`
	Protocol       string   `json:"protocol"`
	Path           []string `json:"path"`
	Pools          []string `json:"pools"`
	AmountIn       string   `json:"amount_in"`
	AmountOut      string   `json:"amount_out"`
	ExecutionPrice string   `json:"execution_price"`
	PriceImpact    string   `json:"price_impact"`
	MinimumOut     string   `json:"minimum_out,omitempty"`
	MaximumIn      string   `json:"maximum_in,omitempty"`
}
