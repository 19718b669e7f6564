package watcher

import (
	"fmt"

	"github.com/zgorizzo69/binance-futures-follow-up/internal/models"
)

// Notifier delivers one formatted transition message. The default sink is
// telegram.Notify; tests swap in a recorder.
type Notifier func(text string)

// announce reports every open/close transition of a cycle. Updated positions
// stay quiet, the refreshed list already reflects them.
func announce(notify Notifier, ch Changes) {
	if notify == nil {
		return
	}
	for _, pos := range ch.Opened {
		notify(transitionMessage(pos))
	}
	for _, pos := range ch.Closed {
		notify(transitionMessage(pos))
	}
}

func transitionMessage(pos models.Position) string {
	verb := "opened"
	if pos.IsClose {
		verb = "closed"
	}
	return fmt.Sprintf("[+] Team: %s ==> %s %s a %s on %s with leverage %d. Entry price: %s",
		pos.Team, pos.Username, verb, pos.Direction, pos.Symbol, pos.Leverage, pos.EntryPrice)
}
