package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction of a position. A position is short iff its signed amount is negative.
const (
	DirectionLong  = "long"
	DirectionShort = "short"
)

// Status of a position record. Closed records are terminal history.
const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// Account is one exchange credential pair, identified by (team, username).
// The Test flag routes the account to the futures testnet.
type Account struct {
	Team      string `json:"team" yaml:"team"`
	Username  string `json:"username" yaml:"username"`
	APIKey    string `json:"apiKey" yaml:"apiKey"`
	APISecret string `json:"apiSecret" yaml:"apiSecret"`
	Test      bool   `json:"test" yaml:"test"`
}

// RawPosition is a non-zero position exactly as the exchange reports it,
// before it is tied to an account. UpdateTime is epoch milliseconds.
type RawPosition struct {
	Symbol      string
	PositionAmt decimal.Decimal
	EntryPrice  decimal.Decimal
	Leverage    int
	UpdateTime  int64
}

// Position is the canonical record tracked per account. Active records are
// replaced in place from the latest snapshot (identity is account+symbol);
// once IsClose flips to true the record is history and never mutated again.
type Position struct {
	Team        string          `json:"team"`
	Username    string          `json:"username"`
	Symbol      string          `json:"symbol"`
	Direction   string          `json:"direction"`
	Status      string          `json:"status"`
	IsClose     bool            `json:"isClose"`
	Leverage    int             `json:"leverage"`
	EntryPrice  decimal.Decimal `json:"entryPrice"`
	PositionAmt decimal.Decimal `json:"positionAmt"`
	UpdateTime  int64           `json:"updateTime"`
	UpdatedTime string          `json:"updatedTime"`
}

// DirectionFor derives the direction from a signed position amount.
func DirectionFor(amt decimal.Decimal) string {
	if amt.IsNegative() {
		return DirectionShort
	}
	return DirectionLong
}

// DisplayTime formats an exchange update timestamp for the display column.
func DisplayTime(updateTime int64) string {
	return time.UnixMilli(updateTime).Format("15:04:05")
}

// IsShort reports whether the record holds a short direction. Closed records
// keep the last direction the exchange reported, not a recomputed one.
func (p Position) IsShort() bool {
	return p.Direction == DirectionShort
}

// BelongsTo reports whether the record is part of the given account's partition.
func (p Position) BelongsTo(a Account) bool {
	return p.Team == a.Team && p.Username == a.Username
}
