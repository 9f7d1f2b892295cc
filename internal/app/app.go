// Package app initializes and holds long-lived application services, acting
// as the dependency injection point for the commands.
package app

import (
	"context"
	"fmt"

	gcstorage "cloud.google.com/go/storage"
	"go.uber.org/zap"

	"github.com/eventra/judge-scout/internal/config"
	"github.com/eventra/judge-scout/internal/extractor/headless"
	"github.com/eventra/judge-scout/internal/extractor/static"
	"github.com/eventra/judge-scout/internal/logging"
	publisherMemory "github.com/eventra/judge-scout/internal/publisher/memory"
	publisherPubsub "github.com/eventra/judge-scout/internal/publisher/pubsub"
	"github.com/eventra/judge-scout/internal/scout"
	snapshotGCS "github.com/eventra/judge-scout/internal/snapshot/gcs"
	snapshotMemory "github.com/eventra/judge-scout/internal/snapshot/memory"
	storeMemory "github.com/eventra/judge-scout/internal/store/memory"
	storePostgres "github.com/eventra/judge-scout/internal/store/postgres"
)

// App holds the shared, long-lived services for the application. It is built
// once at startup and handed to commands; Close releases everything it owns.
type App struct {
	Config    config.Config
	Logger    *zap.Logger
	Store     scout.JudgeStore
	Finder    *scout.Finder
	publisher scout.Publisher

	pgStore   *storePostgres.JudgeStore
	pubsubPub *publisherPubsub.Publisher
	gcsClient *gcstorage.Client
}

// New assembles the service graph from configuration, failing fast when a
// required downstream cannot be initialized.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	scout.InitMetrics()

	a := &App{Config: cfg, Logger: logger}

	if err := a.initStore(ctx, cfg); err != nil {
		a.Close()
		return nil, err
	}
	if err := a.initPublisher(ctx, cfg); err != nil {
		a.Close()
		return nil, err
	}

	snapshot, err := a.initSnapshot(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	extractor, err := a.buildExtractor(cfg, snapshot)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Finder = scout.NewFinder(extractor, a.Store, a.publisher, nil, logger.Named("finder"))
	logger.Info("application services initialized",
		zap.String("engine", cfg.Scraper.Engine),
		zap.Bool("postgres", a.pgStore != nil),
		zap.Bool("pubsub", a.pubsubPub != nil),
	)
	return a, nil
}

func (a *App) initStore(ctx context.Context, cfg config.Config) error {
	if cfg.DB.DSN == "" {
		a.Logger.Info("no database configured, judges are kept in memory")
		a.Store = storeMemory.NewJudgeStore()
		return nil
	}
	pg, err := storePostgres.NewJudgeStore(ctx, storePostgres.JudgeStoreConfig{
		DSN:      cfg.DB.DSN,
		Table:    cfg.DB.Table,
		MaxConns: cfg.DB.MaxConns,
		MinConns: cfg.DB.MinConns,
	}, a.Logger.Named("store"))
	if err != nil {
		return fmt.Errorf("init judge store: %w", err)
	}
	a.pgStore = pg
	a.Store = pg
	return nil
}

func (a *App) initPublisher(ctx context.Context, cfg config.Config) error {
	if cfg.PubSub.ProjectID == "" {
		a.publisher = publisherMemory.New()
		return nil
	}
	pub, err := publisherPubsub.New(ctx, cfg.PubSub.ProjectID, cfg.PubSub.TopicName)
	if err != nil {
		return fmt.Errorf("init pubsub publisher: %w", err)
	}
	a.pubsubPub = pub
	a.publisher = pub
	return nil
}

func (a *App) initSnapshot(ctx context.Context, cfg config.Config) (scout.SnapshotStore, error) {
	switch cfg.Snapshot.Provider {
	case config.SnapshotNone, "":
		return nil, nil
	case config.SnapshotMemory:
		return snapshotMemory.NewStore(), nil
	case config.SnapshotGCS:
		client, err := gcstorage.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("init gcs client: %w", err)
		}
		a.gcsClient = client
		store, err := snapshotGCS.New(client, snapshotGCS.Config{
			Bucket: cfg.Snapshot.Bucket,
			Prefix: cfg.Snapshot.Prefix,
		})
		if err != nil {
			return nil, fmt.Errorf("init gcs snapshot store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown snapshot provider %q", cfg.Snapshot.Provider)
	}
}

func (a *App) buildExtractor(cfg config.Config, snapshot scout.SnapshotStore) (scout.Extractor, error) {
	switch cfg.Scraper.Engine {
	case config.EngineStatic:
		ex, err := static.New(static.Config{
			BaseURL:     cfg.Scraper.BaseURL,
			Timeout:     cfg.WaitTimeout(),
			MaxProfiles: cfg.Scraper.MaxProfiles,
			UserAgent:   cfg.Browser.UserAgent,
		}, a.Logger.Named("static"))
		if err != nil {
			return nil, fmt.Errorf("init static extractor: %w", err)
		}
		return ex, nil
	default:
		ex, err := headless.New(headless.Config{
			Endpoint:    cfg.Browser.Endpoint,
			Token:       cfg.Browser.Token,
			BaseURL:     cfg.Scraper.BaseURL,
			WaitTimeout: cfg.WaitTimeout(),
			MaxProfiles: cfg.Scraper.MaxProfiles,
			UserAgent:   cfg.Browser.UserAgent,
		}, snapshot, a.Logger.Named("headless"))
		if err != nil {
			return nil, fmt.Errorf("init headless extractor: %w", err)
		}
		return ex, nil
	}
}

// Close shuts down every service the container owns.
func (a *App) Close() {
	if a == nil {
		return
	}
	if a.pgStore != nil {
		a.pgStore.Close()
	}
	if a.pubsubPub != nil {
		if err := a.pubsubPub.Close(); err != nil && a.Logger != nil {
			a.Logger.Warn("close pubsub publisher failed", zap.Error(err))
		}
	}
	if a.gcsClient != nil {
		if err := a.gcsClient.Close(); err != nil && a.Logger != nil {
			a.Logger.Warn("close gcs client failed", zap.Error(err))
		}
	}
	logging.Flush(a.Logger)
}
