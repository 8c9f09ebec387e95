package model

// CallRecord is the raw return data of a contract call captured by an external fetcher.
// Args holds decimal call arguments, such as the tick index of a ticks(int24) call.
type CallRecord struct {
	ChainID     uint64   `json:"chain_id"`
	BlockNumber uint64   `json:"block_number"`
	Address     string   `json:"address"`
	Method      string   `json:"method"`
	Args        []string `json:"args,omitempty"`
	Result      string   `json:"result"`
}
