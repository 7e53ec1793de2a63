package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"injective-token-lab/internal/api"
	"injective-token-lab/internal/chat"
	"injective-token-lab/internal/config"
	"injective-token-lab/internal/jobs"
	"injective-token-lab/internal/notify"
	"injective-token-lab/internal/scamlist"
	"injective-token-lab/internal/storage"
	chstore "injective-token-lab/internal/storage/clickhouse"
	"injective-token-lab/internal/storage/csvfile"
	"injective-token-lab/internal/storage/memory"
	"injective-token-lab/internal/storage/migrations"
	pgstore "injective-token-lab/internal/storage/postgres"
	"injective-token-lab/internal/talent"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, scheduled jobs and the chat command channel",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd.Context())
		defer cancel()
		return serve(ctx, cfg)
	},
}

// stores holds the selected storage backends.
type stores struct {
	talents   storage.TalentStore
	reports   storage.ScamReportStore
	snapshots storage.SupplySnapshotStore
	flusher   jobs.Flusher
	closers   []func()
}

func (s *stores) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	s := &stores{
		reports:   memory.NewScamReportStore(),
		snapshots: memory.NewSupplySnapshotStore(),
	}

	if cfg.PostgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		s.closers = append(s.closers, pool.Close)
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			s.close()
			return nil, fmt.Errorf("postgres migrations: %w", err)
		}
		s.reports = pgstore.NewScamReportStore(pool)
		if cfg.TalentBackend == config.TalentBackendPostgres {
			s.talents = pgstore.NewTalentStore(pool)
		}
		log.Info().Str("component", "storage").Msg("postgres stores ready")
	}

	if s.talents == nil {
		csv, err := csvfile.OpenTalentStore(cfg.TalentFilePath)
		if err != nil {
			s.close()
			return nil, fmt.Errorf("open talent file: %w", err)
		}
		s.talents = csv
		s.flusher = csv
		log.Info().Str("component", "storage").Str("path", csv.Path()).Msg("talent file ready")
	}

	if cfg.ClickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickhouseDSN)
		if err != nil {
			s.close()
			return nil, fmt.Errorf("clickhouse migrations: %w", err)
		}
		s.closers = append(s.closers, func() { conn.Close() })
		s.snapshots = chstore.NewSupplySnapshotStore(conn)
		log.Info().Str("component", "storage").Msg("clickhouse snapshot store ready")
	}

	return s, nil
}

func newNotifier(cfg *config.Config) notify.Notifier {
	urls := map[notify.Kind]string{
		notify.KindBurn:   cfg.WebhookBurnURL,
		notify.KindScam:   cfg.WebhookScamURL,
		notify.KindTalent: cfg.WebhookTalentURL,
	}
	return notify.NewWebhook(urls)
}

func serve(ctx context.Context, cfg *config.Config) error {
	c, err := newCore(cfg)
	if err != nil {
		return err
	}
	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	notifier := newNotifier(cfg)
	talents := talent.NewService(st.talents, notifier)
	reports := scamlist.NewReports(c.scams, st.reports, notifier)

	scheduler := jobs.NewScheduler()
	if err := scheduler.Add(cfg.BurnWatchSchedule, jobs.NewBurnWatcher(c.supply, c.registry.Tokens, notifier)); err != nil {
		return err
	}
	snapshot := jobs.NewSupplySnapshot(c.supply, st.snapshots)
	if err := scheduler.Add(cfg.SupplySnapshotSchedule, snapshot); err != nil {
		return err
	}
	if st.flusher != nil {
		if err := scheduler.Add("@every 1m", jobs.NewTalentFlush(st.flusher)); err != nil {
			return err
		}
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	router := api.NewRouter(api.Services{
		Portfolio:           c.portfolio,
		Holders:             c.holders,
		Supply:              c.supply,
		Snapshots:           st.snapshots,
		Wallets:             c.wallets,
		Talents:             talents,
		Scams:               reports,
		MaxScanTransactions: cfg.ScanMaxTransactions,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return api.NewServer(cfg.HTTPAddr, router).Run(gctx)
	})
	// seed history so /token_info/history is not empty until the first tick
	g.Go(func() error {
		scheduler.RunNow(snapshot)
		return nil
	})

	if cfg.ChatEnabled() {
		bot := chat.NewBot(cfg.DiscordChannelID, chat.NewREST(cfg.DiscordAPIURL, cfg.DiscordBotToken), talents, c.supply, c.wallets)
		gateway := chat.NewGateway(cfg.DiscordGatewayURL, cfg.DiscordBotToken, nil)
		g.Go(func() error {
			err := gateway.Run(gctx, bot.Handle)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
		log.Info().Str("component", "chat").Str("channel", cfg.DiscordChannelID).Msg("chat command mode enabled")
	}

	err = g.Wait()
	if st.flusher != nil && st.flusher.Dirty() {
		if ferr := st.flusher.Flush(); ferr != nil {
			log.Error().Str("component", "talent").Err(ferr).Msg("unsaved talent changes lost on shutdown")
		}
	}
	return err
}
