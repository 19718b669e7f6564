package exchange

import (
	"context"

	"github.com/zgorizzo69/binance-futures-follow-up/internal/models"
)

// Provider fetches one account's current position snapshot from an exchange.
//
// The returned slice only ever contains non-zero positions, and a fetch either
// succeeds atomically or fails with an error. A nil error with an empty slice
// means the account is genuinely flat; callers must never read an error as
// "no positions".
type Provider interface {
	FetchPositions(ctx context.Context, account models.Account) ([]models.RawPosition, error)
}
