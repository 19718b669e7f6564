package watcher

import (
	"github.com/zgorizzo69/binance-futures-follow-up/internal/models"
)

// Reconcile merges one cycle's changes into the account's full record set,
// active positions plus closed history. Closed history always survives; an
// active record survives only when the cycle did not touch its symbol.
//
// An empty change list returns previousAll as is, never an empty set. That is
// both the idempotence contract and the failure path: a failed fetch
// reconciles with no changes and loses nothing.
func Reconcile(previousAll, changed []models.Position) []models.Position {
	if len(changed) == 0 {
		return previousAll
	}

	changedSymbols := make(map[string]bool, len(changed))
	for _, p := range changed {
		changedSymbols[p.Symbol] = true
	}

	result := make([]models.Position, 0, len(previousAll)+len(changed))
	for _, p := range previousAll {
		if p.IsClose || !changedSymbols[p.Symbol] {
			result = append(result, p)
		}
	}
	return append(result, changed...)
}
