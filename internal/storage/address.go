package storage

import "github.com/ethereum/go-ethereum/common"

// normalizeAddress maps any spelling of a hex address to its checksummed form.
func normalizeAddress(address string) string {
	if !common.IsHexAddress(address) {
		return address
	}
	return common.HexToAddress(address).Hex()
}
