package watcher

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/zgorizzo69/binance-futures-follow-up/internal/config"
	"github.com/zgorizzo69/binance-futures-follow-up/internal/exchange"
	"github.com/zgorizzo69/binance-futures-follow-up/internal/models"
	"github.com/zgorizzo69/binance-futures-follow-up/internal/telegram"
)

// Watcher owns the canonical position list across every configured account
// and runs the reconciliation cycles against the exchange.
type Watcher struct {
	cfg      *config.Config
	accounts []models.Account
	provider exchange.Provider
	notify   Notifier

	mu        sync.RWMutex
	positions []models.Position

	// cycleMu serializes reconciliation cycles. A manual refresh fired while
	// the timer cycle is still in flight is rejected, never interleaved.
	cycleMu sync.Mutex

	startTime time.Time
}

func New(cfg *config.Config, accounts []models.Account, provider exchange.Provider) *Watcher {
	return &Watcher{
		cfg:       cfg,
		accounts:  accounts,
		provider:  provider,
		notify:    telegram.Notify,
		startTime: time.Now(),
	}
}

// Positions returns a copy of the canonical flat position list, active
// records and closed history alike.
func (w *Watcher) Positions() []models.Position {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]models.Position, len(w.positions))
	copy(out, w.positions)
	return out
}

// accountResult carries one account task's outcome back to the join point.
type accountResult struct {
	account   models.Account
	positions []models.Position
	err       error
}

// Poll runs one reconciliation cycle: every account is checked concurrently,
// the tasks are joined, and only then is the global list swapped in a single
// assignment. Returns false when a previous cycle is still in flight and this
// one was rejected.
func (w *Watcher) Poll(ctx context.Context) bool {
	if !w.cycleMu.TryLock() {
		log.Println("⚠️ Reconciliation cycle already in flight, trigger rejected")
		return false
	}
	defer w.cycleMu.Unlock()

	previous := w.Positions()

	results := make([]accountResult, len(w.accounts))
	var wg sync.WaitGroup
	for i, acc := range w.accounts {
		wg.Add(1)
		go func(i int, acc models.Account) {
			defer wg.Done()
			results[i] = w.checkAccount(ctx, acc, partition(previous, acc))
		}(i, acc)
	}
	wg.Wait()

	next := make([]models.Position, 0, len(previous))
	for _, res := range results {
		if res.err != nil {
			log.Printf("[-] Error: %s/%s: %v (previous state preserved)",
				res.account.Team, res.account.Username, res.err)
		}
		next = append(next, res.positions...)
	}

	w.mu.Lock()
	w.positions = next
	w.mu.Unlock()
	return true
}

// Refresh is the manual trigger; it runs exactly one cycle unless a cycle is
// already running.
func (w *Watcher) Refresh(ctx context.Context) bool {
	return w.Poll(ctx)
}

// checkAccount runs fetch, normalize, diff and reconcile for one account.
// Any failure reconciles with an empty change list so the previous records
// survive untouched; an error is never read as "all positions closed".
func (w *Watcher) checkAccount(ctx context.Context, acc models.Account, previousAll []models.Position) accountResult {
	log.Printf("[+] Check started on %s's account", acc.Username)

	changes, err := w.fetchChanges(ctx, acc, previousAll)
	if err != nil {
		return accountResult{account: acc, positions: Reconcile(previousAll, nil), err: err}
	}

	announce(w.notify, changes)
	return accountResult{account: acc, positions: Reconcile(previousAll, changes.Changed())}
}

func (w *Watcher) fetchChanges(ctx context.Context, acc models.Account, previousAll []models.Position) (Changes, error) {
	if w.cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.cfg.FetchTimeout)
		defer cancel()
	}

	raw, err := w.provider.FetchPositions(ctx, acc)
	if err != nil {
		return Changes{}, err
	}

	snapshot, err := NormalizeAll(raw, acc)
	if err != nil {
		return Changes{}, err
	}

	return Diff(activeOnly(previousAll), snapshot), nil
}

// partition selects the records belonging to one account. Account partitions
// never overlap, so this is the inverse of the concatenation in Poll.
func partition(positions []models.Position, acc models.Account) []models.Position {
	var out []models.Position
	for _, p := range positions {
		if p.BelongsTo(acc) {
			out = append(out, p)
		}
	}
	return out
}

func activeOnly(positions []models.Position) []models.Position {
	var out []models.Position
	for _, p := range positions {
		if !p.IsClose {
			out = append(out, p)
		}
	}
	return out
}
