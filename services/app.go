package services

import (
	"context"
	"fmt"
	"strings"

	"anime-news/catalog"
	"anime-news/config"
	"anime-news/db"
	"anime-news/eventbus"
	"anime-news/repositories"
	"anime-news/storage"
	"anime-news/tracker"
)

// App holds every dependency built from the config. Close releases them.
type App struct {
	Config    *config.AppConfig
	Catalog   catalog.Source
	Store     storage.Store
	Bus       eventbus.EventBus
	Topic     eventbus.Topic
	Trackers  *VisitorTrackers
	Articles  *ArticleService
	Tracking  *TrackingService
	closeFunc []func()
}

// NewApp connects the configured backends.
func NewApp(ctx context.Context, cfg *config.AppConfig) (*App, error) {
	app := &App{Config: cfg, Topic: eventbus.NewTopic(cfg.Kafka.Topic)}

	if err := storage.ValidateBackend(cfg.Storage.Backend); err != nil {
		return nil, err
	}
	if usesMongo(cfg) {
		if err := db.Init(ctx, cfg.Mongo); err != nil {
			return nil, fmt.Errorf("services: connect mongo: %w", err)
		}
		app.onClose(func() {
			if err := db.Disconnect(context.Background()); err != nil {
				config.Logger.Warnf("services: disconnect mongo: %v", err)
			}
		})
	}

	src, err := OpenCatalog(cfg.Catalog)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Catalog = src

	store, err := OpenStore(ctx, cfg.Storage)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Store = store
	app.onClose(func() {
		if err := storage.Close(store); err != nil {
			config.Logger.Warnf("services: close store: %v", err)
		}
	})

	var publisher eventbus.Publisher = eventbus.NopPublisher{}
	switch {
	case cfg.Kafka.Enabled:
		bus, err := eventbus.NewKafkaEventBus(cfg.Kafka.Brokers)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.Bus, publisher = bus, bus
	case isMongo(cfg.Catalog.Backend):
		// no broker: fold view events into the catalog in-process
		bus := eventbus.NewMemoryBus(0)
		app.Bus, publisher = bus, bus
	}
	if app.Bus != nil {
		app.onClose(app.Bus.Close)
	}

	app.Trackers = NewVisitorTrackers(store, tracker.OptionsFromConfig(cfg.Tracker),
		WithEventPublisher(publisher, app.Topic.Base()))
	app.Articles = NewArticleService(src)
	app.Tracking = NewTrackingService(src, app.Trackers)
	return app, nil
}

// StartBackground runs the in-process view aggregator when the app uses the
// memory bus with a Mongo catalog. It returns immediately.
func (a *App) StartBackground(ctx context.Context) {
	bus, ok := a.Bus.(*eventbus.MemoryBus)
	if !ok {
		return
	}
	repo, ok := a.Catalog.(*repositories.ArticleRepository)
	if !ok {
		return
	}
	go func() {
		err := NewViewAggregator(repo).Run(ctx, bus, "in-process", a.Topic)
		if err != nil && ctx.Err() == nil {
			config.Logger.Errorf("services: view aggregator stopped: %v", err)
		}
	}()
}

func (a *App) onClose(fn func()) { a.closeFunc = append(a.closeFunc, fn) }

// Close releases resources in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closeFunc) - 1; i >= 0; i-- {
		a.closeFunc[i]()
	}
	a.closeFunc = nil
}

func usesMongo(cfg *config.AppConfig) bool {
	return isMongo(cfg.Catalog.Backend) || isMongo(cfg.Storage.Backend)
}

func isMongo(backend string) bool {
	return strings.EqualFold(backend, storage.BackendMongo)
}

// OpenCatalog builds the configured article source. The mongo backend needs db.Init first.
func OpenCatalog(cfg config.CatalogConfig) (catalog.Source, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "static":
		return catalog.LoadStatic(cfg.SeedFile)
	case "mongo":
		if db.Database() == nil {
			return nil, fmt.Errorf("services: mongo catalog requires a database connection")
		}
		return repositories.NewArticleRepository(db.Database()), nil
	}
	return nil, fmt.Errorf("services: unknown catalog backend %q", cfg.Backend)
}

// OpenStore builds the configured key-value store. The mongo backend needs db.Init first.
func OpenStore(ctx context.Context, cfg config.StorageConfig) (storage.Store, error) {
	switch strings.ToLower(cfg.Backend) {
	case storage.BackendMemory:
		return storage.NewMemoryStore(), nil
	case storage.BackendSQLite:
		return storage.NewSQLiteStore(cfg.SQLitePath)
	case storage.BackendRedis:
		return storage.NewRedisStore(ctx, storage.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	case storage.BackendMongo:
		if db.Database() == nil {
			return nil, fmt.Errorf("services: mongo storage requires a database connection")
		}
		return storage.NewMongoStore(db.Database(), cfg.MongoCollection), nil
	}
	return nil, storage.ValidateBackend(cfg.Backend)
}
