package watcher

import (
	"github.com/zgorizzo69/binance-futures-follow-up/internal/models"
)

// Changes partitions one account's fresh snapshot against its previously
// active positions. Symbol is the join key; the partitions are disjoint and
// together cover every symbol seen on either side.
type Changes struct {
	Updated []models.Position // on both sides, carrying the snapshot's values
	Opened  []models.Position // only in the snapshot
	Closed  []models.Position // only in the previous set, re-emitted as closed
}

// Changed flattens the partitions in notification order: updated, opened, closed.
func (c Changes) Changed() []models.Position {
	out := make([]models.Position, 0, len(c.Updated)+len(c.Opened)+len(c.Closed))
	out = append(out, c.Updated...)
	out = append(out, c.Opened...)
	out = append(out, c.Closed...)
	return out
}

// Empty reports whether no symbol changed this cycle.
func (c Changes) Empty() bool {
	return len(c.Updated) == 0 && len(c.Opened) == 0 && len(c.Closed) == 0
}

// Diff compares the previously active positions with a freshly normalized
// snapshot. Updated and opened records take the snapshot's field values; a
// closed record keeps the previous record's values, the exchange no longer
// reports it, so the last known amount and direction stand.
//
// A snapshot record identical to its active counterpart is not re-emitted:
// a cycle that changes nothing produces an empty change list, which merges
// back to the identical previous state.
func Diff(previousActive, snapshot []models.Position) Changes {
	prevBySymbol := make(map[string]models.Position, len(previousActive))
	for _, p := range previousActive {
		prevBySymbol[p.Symbol] = p
	}

	var ch Changes
	inSnapshot := make(map[string]bool, len(snapshot))
	for _, np := range snapshot {
		inSnapshot[np.Symbol] = true
		prev, ok := prevBySymbol[np.Symbol]
		switch {
		case !ok:
			ch.Opened = append(ch.Opened, np)
		case !sameFields(prev, np):
			ch.Updated = append(ch.Updated, np)
		}
	}

	for _, p := range previousActive {
		if inSnapshot[p.Symbol] {
			continue
		}
		p.IsClose = true
		p.Status = models.StatusClosed
		ch.Closed = append(ch.Closed, p)
	}
	return ch
}

// sameFields reports whether a snapshot record carries no new data for an
// already-active symbol. Derived fields are left out: they follow from these.
func sameFields(prev, next models.Position) bool {
	return prev.PositionAmt.Equal(next.PositionAmt) &&
		prev.EntryPrice.Equal(next.EntryPrice) &&
		prev.Leverage == next.Leverage &&
		prev.UpdateTime == next.UpdateTime
}
