package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zgorizzo69/binance-futures-follow-up/internal/config"
	"github.com/zgorizzo69/binance-futures-follow-up/internal/exchange/binance"
	"github.com/zgorizzo69/binance-futures-follow-up/internal/logger"
	"github.com/zgorizzo69/binance-futures-follow-up/internal/telegram"
	"github.com/zgorizzo69/binance-futures-follow-up/internal/watcher"
)

const logFile = "followup.log"

func main() {
	cfg := config.Load()
	logger.Setup(logFile, cfg.MaxLogSizeMB, cfg.MaxLogBackups)

	accounts, err := config.LoadAccounts(cfg.AccountsFile)
	if err != nil {
		log.Fatalf("CRITICAL: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := watcher.New(cfg, accounts, binance.New())

	go telegram.StartListener(w.HandleCommand)

	// Second manual-refresh path besides the /refresh command.
	refresh := make(chan os.Signal, 1)
	signal.Notify(refresh, syscall.SIGUSR1)
	go func() {
		for range refresh {
			log.Println("Manual refresh requested (SIGUSR1)")
			w.Refresh(ctx)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-quit
		log.Println("⚠️ Shutting down: system signal received")
		cancel()
	}()

	log.Printf("Futures Follow-Up started: %d accounts, polling every %d min",
		len(accounts), cfg.PollIntervalMins)

	w.Poll(ctx) // run once immediately on start

	ticker := time.NewTicker(time.Duration(cfg.PollIntervalMins) * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("🛑 Main loop stopping...")
			return
		case <-ticker.C:
			w.Poll(ctx)
		}
	}
}
