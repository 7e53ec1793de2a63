package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"injective-token-lab/internal/config"
	"injective-token-lab/internal/dex"
	"injective-token-lab/internal/holders"
	"injective-token-lab/internal/injective"
	"injective-token-lab/internal/portfolio"
	"injective-token-lab/internal/registry"
	"injective-token-lab/internal/scamlist"
	"injective-token-lab/internal/supply"
	"injective-token-lab/internal/walletscan"
)

// core holds the read-only services shared by every subcommand.
type core struct {
	registry  *registry.Registry
	scams     *scamlist.List
	lcd       *injective.LCDClient
	holders   *holders.Service
	supply    *supply.Analyzer
	portfolio *portfolio.Service
	wallets   *walletscan.Analyzer
}

func newCore(cfg *config.Config) (*core, error) {
	reg, err := registry.Load(cfg.RegistryPath)
	if err != nil {
		return nil, fmt.Errorf("load registry: %w", err)
	}
	scams, err := scamlist.Load(cfg.ScamListPath)
	if err != nil {
		return nil, fmt.Errorf("load scam list: %w", err)
	}

	// one gate for every upstream client of the process
	gate := injective.NewGate(cfg.UpstreamConcurrency)
	lcd := injective.NewLCDClient(cfg.LCDURL, injective.WithTimeout(cfg.UpstreamTimeout), injective.WithGate(gate))
	explorer := injective.NewExplorerClient(cfg.ExplorerURL, injective.WithTimeout(cfg.UpstreamTimeout), injective.WithGate(gate))

	scanner := walletscan.NewScanner(explorer, walletscan.WithMaxTransactions(cfg.ScanMaxTransactions))

	log.Info().
		Str("network", cfg.Network).
		Str("lcd", cfg.LCDURL).
		Int("tokens", len(reg.Tokens)).
		Int("scam_entries", scams.Len()).
		Int("concurrency", cfg.UpstreamConcurrency).
		Msg("core services ready")

	return &core{
		registry:  reg,
		scams:     scams,
		lcd:       lcd,
		holders:   holders.NewService(lcd, reg),
		supply:    supply.NewAnalyzer(lcd, dex.NewClient(cfg.DexPriceURL), reg),
		portfolio: portfolio.NewService(lcd, reg),
		wallets:   walletscan.NewAnalyzer(scanner, scams, reg),
	}, nil
}

// commandContext is canceled on SIGINT/SIGTERM.
func commandContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
