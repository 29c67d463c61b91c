package main

import (
	"log"

	"github.com/netzero-prep/netzero-quiz/internal/bank"
	"github.com/netzero-prep/netzero-quiz/internal/bot"
	"github.com/netzero-prep/netzero-quiz/internal/config"
)

func main() {
	cfg := config.FromEnv()
	if cfg.TelegramToken == "" {
		log.Fatal("TELEGRAM_TOKEN environment variable is required")
	}

	b, err := bank.Load(cfg.BankPath)
	if err != nil {
		log.Fatalf("load bank: %v", err)
	}

	tb, err := bot.New(cfg.TelegramToken, bank.NewHolder(b))
	if err != nil {
		log.Fatalf("start bot: %v", err)
	}

	log.Printf("bot starting with %d questions", b.Len())
	tb.Start()
}
