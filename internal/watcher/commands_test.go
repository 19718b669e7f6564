package watcher

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zgorizzo69/binance-futures-follow-up/internal/models"
)

func TestHandleCommandPing(t *testing.T) {
	w, _ := newTestWatcher(nil, &stubProvider{})
	assert.Equal(t, "pong", w.HandleCommand("/ping"))
}

func TestHandleCommandUnknown(t *testing.T) {
	w, _ := newTestWatcher(nil, &stubProvider{})
	assert.Contains(t, w.HandleCommand("/sell BTCUSDT"), "Unknown command")
}

func TestHandleCommandPositionsEmpty(t *testing.T) {
	w, _ := newTestWatcher(nil, &stubProvider{})
	assert.Equal(t, "No positions tracked yet.", w.HandleCommand("/positions"))
}

func TestHandleCommandRefresh(t *testing.T) {
	provider := &stubProvider{}
	provider.set(accountA, []models.RawPosition{rawPos("BTCUSDT", 1, 100)}, nil)

	w, _ := newTestWatcher([]models.Account{accountA}, provider)

	reply := w.HandleCommand("/refresh")
	assert.Contains(t, reply, "BTCUSDT")
	require.Len(t, w.Positions(), 1)
}

func TestHandleCommandStatus(t *testing.T) {
	provider := &stubProvider{}
	provider.set(accountA, []models.RawPosition{rawPos("BTCUSDT", 1, 100)}, nil)

	w, _ := newTestWatcher([]models.Account{accountA}, provider)
	require.True(t, w.Poll(context.Background()))

	status := w.HandleCommand("/status")
	assert.Contains(t, status, "Accounts: 1")
	assert.Contains(t, status, "Open: 1 | Closed: 0")
}

func TestFormatPositionsMarksClosed(t *testing.T) {
	provider := &stubProvider{}
	provider.set(accountA, []models.RawPosition{rawPos("BTCUSDT", 1, 100)}, nil)

	w, _ := newTestWatcher([]models.Account{accountA}, provider)
	require.True(t, w.Poll(context.Background()))

	provider.set(accountA, nil, nil)
	require.True(t, w.Poll(context.Background()))

	lines := strings.Split(w.HandleCommand("/positions"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "[closed]")
}
