package watcher

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// HandleCommand serves the Telegram bot commands. Commands only read state or
// trigger a refresh; all mutation still flows through the poll cycle.
func (w *Watcher) HandleCommand(cmd string) string {
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return ""
	}

	switch fields[0] {
	case "/ping":
		return "pong"
	case "/status":
		return w.getStatus()
	case "/positions":
		return w.formatPositions()
	case "/refresh":
		if !w.Refresh(context.Background()) {
			return "⏳ A refresh is already running, try again in a moment."
		}
		return w.formatPositions()
	default:
		return fmt.Sprintf("Unknown command: %s", fields[0])
	}
}

func (w *Watcher) getStatus() string {
	open, closed := 0, 0
	for _, p := range w.Positions() {
		if p.IsClose {
			closed++
		} else {
			open++
		}
	}

	var sb strings.Builder
	sb.WriteString("📡 *Futures Follow-Up*\n")
	fmt.Fprintf(&sb, "Uptime: %s\n", time.Since(w.startTime).Round(time.Second))
	fmt.Fprintf(&sb, "Accounts: %d\n", len(w.accounts))
	fmt.Fprintf(&sb, "Open: %d | Closed: %d", open, closed)
	return sb.String()
}

func (w *Watcher) formatPositions() string {
	positions := w.Positions()
	if len(positions) == 0 {
		return "No positions tracked yet."
	}

	var sb strings.Builder
	sb.WriteString("*Positions*\n")
	for _, p := range positions {
		if p.IsClose {
			fmt.Fprintf(&sb, "- %s/%s %s %s [closed]\n", p.Team, p.Username, p.Symbol, p.Direction)
			continue
		}
		fmt.Fprintf(&sb, "- %s/%s %s %s x%d @ %s (%s)\n",
			p.Team, p.Username, p.Symbol, p.Direction, p.Leverage, p.EntryPrice, p.UpdatedTime)
	}
	return strings.TrimRight(sb.String(), "\n")
}
