package postgres

import "github.com/ethereum/go-ethereum/common"

func normalizeAddress(address string) string {
	if !common.IsHexAddress(address) {
		return address
	}
	return common.HexToAddress(address).Hex()
}
