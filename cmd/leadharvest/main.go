// cmd/leadharvest/main.go

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dacionxo/leadharvest/internal/config"
	"github.com/dacionxo/leadharvest/internal/extract"
	"github.com/dacionxo/leadharvest/internal/feed"
	"github.com/dacionxo/leadharvest/internal/fetch"
	"github.com/dacionxo/leadharvest/internal/lead"
	"github.com/dacionxo/leadharvest/internal/monitoring"
	"github.com/dacionxo/leadharvest/internal/output"
	"github.com/dacionxo/leadharvest/internal/pipeline"
	"github.com/dacionxo/leadharvest/internal/queue"
	"github.com/dacionxo/leadharvest/internal/store"
	"github.com/dacionxo/leadharvest/internal/utils"
)

// Version information (set by build flags)
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "run":
		requireConfigArg("run")
		if err := runLocal(os.Args[2], pipeline.ModeEnrich); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "scrape":
		requireConfigArg("scrape")
		if err := runLocal(os.Args[2], pipeline.ModeListing); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "seed":
		requireConfigArg("seed")
		if err := seedQueue(os.Args[2]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "work":
		requireConfigArg("work")
		if err := runWorker(os.Args[2]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "clear":
		requireConfigArg("clear")
		if err := clearQueue(os.Args[2]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "validate":
		requireConfigArg("validate")
		if _, err := config.Load(os.Args[2]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Configuration file '%s' is valid\n", os.Args[2])

	case "version", "--version":
		printVersion()

	case "help", "--help", "-h":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command '%s'\n", command)
		printUsage()
		os.Exit(1)
	}
}

func requireConfigArg(command string) {
	if len(os.Args) < 3 {
		fmt.Fprintf(os.Stderr, "Error: config file required\n")
		fmt.Fprintf(os.Stderr, "Usage: leadharvest %s <config.yaml>\n", command)
		os.Exit(1)
	}
}

// runLocal processes a CSV feed in-process and exports the results. The
// mode selects between people-search enrichment and listing scraping.
func runLocal(configFile, mode string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if cfg.Input.CSV == "" {
		return fmt.Errorf("run requires input.csv in the configuration")
	}
	logger := utils.NewLoggerWithLevel(utils.ParseLevel(cfg.LogLevel))

	items, err := feed.LoadCSV(cfg.Input.CSV)
	if err != nil {
		return err
	}
	logger.Infof("loaded %d work items from %s", len(items), cfg.Input.CSV)

	coord, cleanup, err := buildCoordinator(cfg, logger, nil, mode)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats, records, err := coord.Run(ctx, items)
	if err != nil {
		return err
	}
	if err := exportRecords(cfg, logger, records); err != nil {
		return err
	}

	fmt.Printf("Run complete: %s\n", stats)
	return nil
}

// seedQueue pushes every feed row onto the Redis queue for workers.
func seedQueue(configFile string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if cfg.Input.CSV == "" {
		return fmt.Errorf("seed requires input.csv in the configuration")
	}
	if cfg.Redis.Addr == "" {
		return fmt.Errorf("seed requires redis.addr in the configuration")
	}
	logger := utils.NewLoggerWithLevel(utils.ParseLevel(cfg.LogLevel))

	items, err := feed.LoadCSV(cfg.Input.CSV)
	if err != nil {
		return err
	}

	q, err := queue.NewRedisQueue(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Key, logger)
	if err != nil {
		return err
	}
	defer q.Close()

	ctx := context.Background()
	for i, item := range items {
		if err := q.Push(ctx, item); err != nil {
			return fmt.Errorf("failed after %d of %d items: %w", i, len(items), err)
		}
	}

	fmt.Printf("Seeded %d jobs\n", len(items))
	return nil
}

// runWorker drains the Redis queue, serving metrics while it runs.
func runWorker(configFile string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if cfg.Redis.Addr == "" {
		return fmt.Errorf("work requires redis.addr in the configuration")
	}
	logger := utils.NewLoggerWithLevel(utils.ParseLevel(cfg.LogLevel))

	q, err := queue.NewRedisQueue(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Key, logger)
	if err != nil {
		return err
	}
	defer q.Close()

	var metrics *monitoring.Metrics
	if cfg.Monitoring.Enabled {
		metrics = monitoring.NewMetrics()
		srv := monitoring.NewServer(cfg.Monitoring.Listen, metrics, nil, logger)
		srv.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	coord, cleanup, err := buildCoordinator(cfg, logger, metrics, pipeline.ModeEnrich)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats, records, err := coord.RunQueue(ctx, q, cfg.Redis.PopTimeout)
	if err != nil {
		return err
	}
	if err := exportRecords(cfg, logger, records); err != nil {
		return err
	}

	fmt.Printf("Worker finished: %s\n", stats)
	return nil
}

// clearQueue drops every pending job.
func clearQueue(configFile string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if cfg.Redis.Addr == "" {
		return fmt.Errorf("clear requires redis.addr in the configuration")
	}
	logger := utils.NewLoggerWithLevel(utils.ParseLevel(cfg.LogLevel))

	q, err := queue.NewRedisQueue(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Key, logger)
	if err != nil {
		return err
	}
	defer q.Close()

	if err := q.Clear(context.Background()); err != nil {
		return err
	}
	fmt.Println("Queue cleared")
	return nil
}

// buildCoordinator assembles the fetcher, extractor, and store from the
// configuration. The returned cleanup releases them.
func buildCoordinator(cfg *config.Config, logger utils.Logger, metrics *monitoring.Metrics, mode string) (*pipeline.Coordinator, func(), error) {
	fetcher, fetcherClose, err := buildFetcher(cfg, logger, metrics)
	if err != nil {
		return nil, nil, err
	}

	st, err := buildStore(cfg, logger)
	if err != nil {
		fetcherClose()
		return nil, nil, err
	}

	blacklist := extract.NewPhoneBlacklist(cfg.Fetch.PhoneBlacklist)
	extractor := extract.NewExtractor(logger, blacklist)

	pipelineCfg := pipeline.Config{
		Mode:         mode,
		Workers:      cfg.Workers,
		SearchBase:   cfg.Fetch.SearchBase,
		DebugDir:     cfg.Debug.Dir,
		DebugSamples: cfg.Debug.Samples,
	}
	if metrics != nil {
		pipelineCfg.Recorder = metrics
	}

	coord := pipeline.NewCoordinator(fetcher, extractor, st, logger, pipelineCfg)
	cleanup := func() {
		fetcherClose()
		if st != nil {
			if err := st.Close(); err != nil {
				logger.Warnf("store close failed: %v", err)
			}
		}
	}
	return coord, cleanup, nil
}

func buildFetcher(cfg *config.Config, logger utils.Logger, metrics *monitoring.Metrics) (pipeline.Fetcher, func(), error) {
	retry := fetch.RetryPolicy{
		MaxAttempts: cfg.Fetch.RetryAttempts,
		BaseDelay:   cfg.Fetch.RetryDelay,
	}
	var onRetry func(fetch.Status)
	if metrics != nil {
		onRetry = func(status fetch.Status) { metrics.RecordRetry(status.String()) }
	}

	switch cfg.Fetch.Mode {
	case "browser":
		opts := fetch.DefaultBrowserOptions()
		opts.Timeout = cfg.Fetch.Timeout
		opts.ProxyEndpoint = cfg.Fetch.ProxyEndpoint
		opts.AllowedDomain = cfg.Fetch.AllowedDomain
		opts.Retry = retry
		opts.OnRetry = onRetry
		browser, err := fetch.NewBrowser(opts, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to start browser: %w", err)
		}
		return browser, func() { browser.Close() }, nil

	default:
		client := fetch.NewClient(fetch.Options{
			Timeout:           cfg.Fetch.Timeout,
			ProxyEndpoint:     cfg.Fetch.ProxyEndpoint,
			AllowedDomain:     cfg.Fetch.AllowedDomain,
			RequestsPerSecond: cfg.Fetch.RequestsPerSecond,
			Retry:             retry,
			UserAgents:        cfg.Fetch.UserAgents,
			OnRetry:           onRetry,
		}, logger)
		return client, func() {}, nil
	}
}

func buildStore(cfg *config.Config, logger utils.Logger) (store.Store, error) {
	switch cfg.Store.Backend {
	case "postgres":
		return store.NewPostgresStore(cfg.Store.DSN, cfg.Store.Table, logger)
	case "mysql":
		return store.NewMySQLStore(cfg.Store.DSN, cfg.Store.Table, logger)
	case "sqlite":
		return store.NewSQLiteStore(cfg.Store.DSN, cfg.Store.Table, logger)
	case "mongodb":
		return store.NewMongoStore(cfg.Store.DSN, cfg.Store.Database, cfg.Store.Collection, logger)
	case "memory":
		return store.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func exportRecords(cfg *config.Config, logger utils.Logger, records []lead.LeadRecord) error {
	if len(records) == 0 {
		return nil
	}
	if cfg.Export.CSV != "" {
		if err := output.WriteCSVFile(cfg.Export.CSV, records); err != nil {
			return err
		}
		logger.Infof("exported %d records to %s", len(records), cfg.Export.CSV)
	}
	if cfg.Export.Excel != "" {
		if err := output.WriteExcelFile(cfg.Export.Excel, cfg.Export.Sheet, records); err != nil {
			return err
		}
		logger.Infof("exported %d records to %s", len(records), cfg.Export.Excel)
	}
	return nil
}

func printVersion() {
	fmt.Printf("leadharvest %s\n", version)
	fmt.Printf("  build time: %s\n", buildTime)
	fmt.Printf("  git commit: %s\n", gitCommit)
}

func printUsage() {
	fmt.Println("leadharvest - Real Estate Lead Enrichment Pipeline")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  leadharvest run <config.yaml>       Enrich a CSV feed in-process")
	fmt.Println("  leadharvest scrape <config.yaml>    Scrape each feed item's own listing page")
	fmt.Println("  leadharvest seed <config.yaml>      Push feed rows onto the Redis queue")
	fmt.Println("  leadharvest work <config.yaml>      Drain the Redis queue as a worker")
	fmt.Println("  leadharvest clear <config.yaml>     Drop all pending queue jobs")
	fmt.Println("  leadharvest validate <config.yaml>  Validate a configuration file")
	fmt.Println("  leadharvest version                 Show version information")
	fmt.Println("  leadharvest help                    Show this help message")
}
