package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kairoscv/resume-extractor/internal/config"
	"github.com/kairoscv/resume-extractor/internal/db"
	"github.com/kairoscv/resume-extractor/internal/llm"
	"github.com/kairoscv/resume-extractor/internal/pipeline"
	"github.com/kairoscv/resume-extractor/internal/server"
	"github.com/kairoscv/resume-extractor/internal/storage"
	"github.com/kairoscv/resume-extractor/internal/visual"
)

// sharedFlags are the flags extract and serve both accept.
type sharedFlags struct {
	configPath string
	provider   string
	noAI       bool
	verbose    bool
}

func (f *sharedFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.configPath, "config", "", "Path to a JSON or YAML config file (values can be overridden by other flags)")
	cmd.Flags().StringVar(&f.provider, "provider", "", "Model provider: gemini or anthropic")
	cmd.Flags().BoolVar(&f.noAI, "no-ai", false, "Skip the model and use the heuristic parser")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Print detailed debug information")
}

// resolveConfig loads the config file, applies explicitly set flags and the
// environment, fills defaults and validates the result.
func resolveConfig(cmd *cobra.Command, f *sharedFlags, override func(*config.Config)) (config.Config, error) {
	var cfg config.Config
	if f.configPath != "" {
		loaded, err := config.LoadConfig(f.configPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}

	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("provider") {
		cfg.Provider = f.provider
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = f.verbose
	}
	if override != nil {
		override(&cfg)
	}

	cfg.FromEnv()
	cfg = cfg.MergeWithDefaults(config.Defaults())
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// app holds the wired components for one command invocation.
type app struct {
	cfg     config.Config
	log     *logrus.Logger
	client  llm.Client
	store   storage.SnapshotStore
	runs    pipeline.RunLog
	db      *db.DB
	closers []func()
}

// newApp connects the model client, snapshot store and run log named by
// cfg. A missing API key or noAI leaves the client nil so every layer uses
// its fallback.
func newApp(ctx context.Context, cfg config.Config, log *logrus.Logger, noAI bool) (*app, error) {
	a := &app{cfg: cfg, log: log}

	if !noAI {
		key := cfg.ProviderAPIKey()
		if key == "" {
			log.WithField("provider", cfg.Provider).Warn("No API key configured; using the heuristic parser")
		} else {
			client, err := llm.NewClient(ctx, cfg.LLMConfig(), key)
			if err != nil {
				return nil, fmt.Errorf("failed to create LLM client: %w", err)
			}
			a.closers = append(a.closers, func() { _ = client.Close() })
			a.client = llm.NewRateLimitedClient(client, cfg.RequestsPerMinute)
		}
	}

	var database *db.DB
	if cfg.DatabaseURL != "" {
		var err error
		database, err = db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.closers = append(a.closers, database.Close)
		if err := database.EnsureSchema(ctx); err != nil {
			a.Close()
			return nil, err
		}
		a.runs = database
		a.db = database
	}

	switch cfg.Store {
	case config.StoreRedis:
		rs, err := storage.NewRedisStore(cfg.RedisURL, 0, log)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = rs.Close() })
		if err := rs.Ping(ctx); err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.store = rs
	case config.StorePostgres:
		a.store = database.Snapshots()
	default:
		a.store = storage.NewFileStore(cfg.SnapshotDir, log)
	}

	log.WithFields(logrus.Fields{
		"provider": cfg.Provider,
		"store":    cfg.Store,
		"model":    a.client != nil,
		"run_log":  a.runs != nil,
	}).Debug("Components ready")
	return a, nil
}

// orchestrator builds the pipeline for the app's components.
func (a *app) orchestrator() *pipeline.Orchestrator {
	opts := pipeline.Options{
		Client: a.client,
		Store:  a.store,
		Runs:   a.runs,
		Retry:  a.cfg.RetryPolicy(),
		Logger: a.log,
	}
	if a.client != nil && a.cfg.EnableVisual {
		opts.Visual = visual.NewGeminiExtractor(a.client, visual.Options{Retry: a.cfg.RetryPolicy(), Logger: a.log})
	}
	return pipeline.New(opts)
}

// history returns the run log reader, or nil without a database.
func (a *app) history() server.RunHistory {
	if a.db == nil {
		return nil
	}
	return a.db
}

// Close releases connections in reverse order of opening.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
