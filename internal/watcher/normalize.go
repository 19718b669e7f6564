package watcher

import (
	"fmt"

	"github.com/zgorizzo69/binance-futures-follow-up/internal/models"
)

// Normalize maps one raw exchange position onto the canonical record for an
// account. Direction, status and the display timestamp are derived here and
// nowhere else.
func Normalize(raw models.RawPosition, account models.Account) (models.Position, error) {
	if raw.Symbol == "" {
		return models.Position{}, fmt.Errorf("normalize: position without symbol for %s/%s", account.Team, account.Username)
	}
	if raw.PositionAmt.IsZero() {
		return models.Position{}, fmt.Errorf("normalize: zero-amount position %s slipped past the source filter", raw.Symbol)
	}

	return models.Position{
		Team:        account.Team,
		Username:    account.Username,
		Symbol:      raw.Symbol,
		Direction:   models.DirectionFor(raw.PositionAmt),
		Status:      models.StatusOpen,
		IsClose:     false,
		Leverage:    raw.Leverage,
		EntryPrice:  raw.EntryPrice,
		PositionAmt: raw.PositionAmt,
		UpdateTime:  raw.UpdateTime,
		UpdatedTime: models.DisplayTime(raw.UpdateTime),
	}, nil
}

// NormalizeAll converts a whole snapshot. One malformed entry rejects the
// snapshot: a partial snapshot would read as positions having closed.
func NormalizeAll(raw []models.RawPosition, account models.Account) ([]models.Position, error) {
	snapshot := make([]models.Position, 0, len(raw))
	for _, r := range raw {
		pos, err := Normalize(r, account)
		if err != nil {
			return nil, err
		}
		snapshot = append(snapshot, pos)
	}
	return snapshot, nil
}
