package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/spf13/cobra"

	"anime-news/api/server"
	"anime-news/catalog"
	"anime-news/config"
	"anime-news/db"
	"anime-news/dto"
	"anime-news/eventbus"
	"anime-news/feeder"
	"anime-news/repositories"
	"anime-news/routing"
	"anime-news/services"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "newsctl",
		Short:         "Anime news portal operations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config.yaml path (default: nearest config.yaml upwards from cwd)")

	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newRouteCmd())
	root.AddCommand(newIngestCmd(&configPath))
	root.AddCommand(newCleanupCmd(&configPath))
	root.AddCommand(newSeedCmd(&configPath))
	root.AddCommand(newAggregateCmd(&configPath))
	return root
}

func loadConfig(path string) (*config.AppConfig, error) {
	if path == "" {
		config.InitApp()
		cfg := config.GetConfig()
		return &cfg, nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	config.SetConfig(cfg)
	return cfg, nil
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			app, err := services.NewApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer app.Close()
			return server.Run(ctx, app)
		},
	}
}

func newRouteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "route <url>",
		Short: "Resolve a front-end URL to its page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd, dto.NewRouteDTO(routing.Resolve(args[0])))
		},
	}
}

func newIngestCmd(configPath *string) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Fetch the configured RSS feeds into the Mongo catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if len(cfg.Feeds) == 0 {
				return errors.New("no feeds configured (key: feeds)")
			}
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			if err := db.Init(ctx, cfg.Mongo); err != nil {
				return err
			}
			defer func() { _ = db.Disconnect(context.Background()) }()

			opts := []feeder.IngesterOption{feeder.WithBatchSize(limit)}
			if cfg.Kafka.Enabled {
				topic := eventbus.NewTopic(cfg.Kafka.Topic)
				if err := eventbus.EnsureTopics(cfg.Kafka.Brokers, topic, 1); err != nil {
					return err
				}
				bus, err := eventbus.NewKafkaEventBus(cfg.Kafka.Brokers)
				if err != nil {
					return err
				}
				defer bus.Close()
				opts = append(opts, feeder.WithPublisher(bus, topic.Base()))
			}

			inserted := feeder.NewMongoIngester(db.Database(), opts...).Run(ctx, cfg.Feeds)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "ingested %d new articles from %d feeds\n", inserted, len(cfg.Feeds))
			return err
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "max items per feed")
	return cmd
}

func newCleanupCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Remove expired view dedup timestamps for every visitor",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Cleanup.Timeout)
			defer cancel()

			app, err := services.NewApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			visitors, removed, err := app.Trackers.CleanupAll(ctx)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "removed %d entries across %d visitors\n", removed, visitors)
			return err
		},
	}
}

func newSeedCmd(configPath *string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert the seed articles into the Mongo catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if file == "" {
				file = cfg.Catalog.SeedFile
			}
			articles, err := catalog.SeedArticles(file)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := db.Init(ctx, cfg.Mongo); err != nil {
				return err
			}
			defer func() { _ = db.Disconnect(context.Background()) }()

			repo := repositories.NewArticleRepository(db.Database())
			for i := range articles {
				if _, err := repo.UpsertBySlug(ctx, &articles[i]); err != nil {
					return fmt.Errorf("seed %s: %w", articles[i].Slug, err)
				}
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "seeded %d articles\n", len(articles))
			return err
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "seed yaml (default: catalog.seed_file or the embedded seed)")
	return cmd
}

func newAggregateCmd(configPath *string) *cobra.Command {
	var group string
	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Consume view events from Kafka and fold them into article view totals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if !cfg.Kafka.Enabled {
				return errors.New("aggregate requires kafka.enabled")
			}
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			if err := db.Init(ctx, cfg.Mongo); err != nil {
				return err
			}
			defer func() { _ = db.Disconnect(context.Background()) }()

			topic := eventbus.NewTopic(cfg.Kafka.Topic)
			if err := eventbus.EnsureTopics(cfg.Kafka.Brokers, topic, 1); err != nil {
				return err
			}
			bus, err := eventbus.NewKafkaEventBus(cfg.Kafka.Brokers)
			if err != nil {
				return err
			}
			defer bus.Close()

			agg := services.NewViewAggregator(repositories.NewArticleRepository(db.Database()))
			err = agg.Run(ctx, bus, group, topic)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&group, "group", "anime-news-view-aggregator", "kafka consumer group")
	return cmd
}
