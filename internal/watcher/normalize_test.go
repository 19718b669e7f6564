package watcher

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zgorizzo69/binance-futures-follow-up/internal/models"
)

var testAccount = models.Account{Team: "alpha", Username: "trader-one"}

func TestNormalizeLong(t *testing.T) {
	raw := models.RawPosition{
		Symbol:      "BTCUSDT",
		PositionAmt: decimal.NewFromFloat(0.5),
		EntryPrice:  decimal.NewFromInt(43000),
		Leverage:    20,
		UpdateTime:  1700000000000,
	}

	pos, err := Normalize(raw, testAccount)
	require.NoError(t, err)

	assert.Equal(t, "alpha", pos.Team)
	assert.Equal(t, "trader-one", pos.Username)
	assert.Equal(t, models.DirectionLong, pos.Direction)
	assert.Equal(t, models.StatusOpen, pos.Status)
	assert.False(t, pos.IsClose)
	assert.Equal(t, 20, pos.Leverage)
	assert.Equal(t, time.UnixMilli(1700000000000).Format("15:04:05"), pos.UpdatedTime)
}

func TestNormalizeShort(t *testing.T) {
	raw := models.RawPosition{
		Symbol:      "ETHUSDT",
		PositionAmt: decimal.NewFromInt(-3),
		EntryPrice:  decimal.NewFromInt(2400),
		Leverage:    10,
		UpdateTime:  1700000000000,
	}

	pos, err := Normalize(raw, testAccount)
	require.NoError(t, err)
	assert.Equal(t, models.DirectionShort, pos.Direction)
	assert.True(t, pos.IsShort())
}

func TestNormalizeRejectsMalformed(t *testing.T) {
	_, err := Normalize(models.RawPosition{PositionAmt: decimal.NewFromInt(1)}, testAccount)
	assert.Error(t, err, "missing symbol")

	_, err = Normalize(models.RawPosition{Symbol: "BTCUSDT"}, testAccount)
	assert.Error(t, err, "zero amount")
}

func TestNormalizeAllRejectsWholeSnapshot(t *testing.T) {
	raw := []models.RawPosition{
		{Symbol: "BTCUSDT", PositionAmt: decimal.NewFromInt(1), EntryPrice: decimal.NewFromInt(100), Leverage: 5},
		{Symbol: "", PositionAmt: decimal.NewFromInt(2)},
	}

	snapshot, err := NormalizeAll(raw, testAccount)
	assert.Error(t, err)
	assert.Nil(t, snapshot, "a partial snapshot would read as positions having closed")
}
