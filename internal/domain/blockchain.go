package domain

import (
	"slices"

	"github.com/samber/lo"
)

// SentinelPriority is returned for blockchains missing from the priority table.
// It is lower than every defined priority, so such balances are never shown.
const SentinelPriority = -99

// blockchainPriorities is unexported to prevent runtime mutation.
// Higher values are displayed first; chains of the same tier share a value.
var blockchainPriorities = map[string]int{
	"Osmosis":  100,
	"Ethereum": 50,
	"Arbitrum": 30,
	"Zilliqa":  20,
	"Neo":      20,
}

// Priority returns the display priority of a blockchain, or SentinelPriority when unknown.
// Identifiers are matched case-sensitively.
func Priority(blockchain string) int {
	if p, ok := blockchainPriorities[blockchain]; ok {
		return p
	}
	return SentinelPriority
}

// IsKnownBlockchain reports whether the blockchain has a priority above the sentinel.
func IsKnownBlockchain(blockchain string) bool {
	return Priority(blockchain) > SentinelPriority
}

// KnownBlockchains returns the identifiers of the priority table, sorted by name.
func KnownBlockchains() []string {
	keys := lo.Keys(blockchainPriorities)
	slices.Sort(keys)
	return keys
}
