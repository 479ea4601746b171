package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/product-api/internal/cfg"
	v1Http "github.com/DRSN-tech/product-api/internal/delivery/v1/http"
	"github.com/DRSN-tech/product-api/internal/infrastructure/kafka"
	"github.com/DRSN-tech/product-api/internal/repository/memory"
	"github.com/DRSN-tech/product-api/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/product-api/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/product-api/internal/repository/redis"
	redisConv "github.com/DRSN-tech/product-api/internal/repository/redis/converter"
	"github.com/DRSN-tech/product-api/internal/usecase"
	"github.com/DRSN-tech/product-api/pkg/clients"
	"github.com/DRSN-tech/product-api/pkg/closer"
	"github.com/DRSN-tech/product-api/pkg/e"
	"github.com/DRSN-tech/product-api/pkg/logger"
	"github.com/DRSN-tech/product-api/pkg/postgres"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const (
	initTimeout     = 30 * time.Second
	pingTimeout     = 5 * time.Second
	shutdownTimeout = 10 * time.Second
	topicTimeout    = 10 * time.Second
)

// App собирает зависимости сервиса и управляет его жизненным циклом.
type App struct {
	cfg     *config.Config
	logger  logger.Logger
	closer  *closer.Closer
	httpSrv *v1Http.Server
}

func NewApp(cfg *config.Config, logger logger.Logger) (*App, error) {
	a := &App{
		cfg:    cfg,
		logger: logger,
		closer: closer.NewCloser(logger, 0),
	}

	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()

	productRepo, health, err := a.initProductRepo(ctx)
	if err != nil {
		a.closeOnInitError()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	cacheRepo, err := a.initCacheRepo(ctx)
	if err != nil {
		a.closeOnInitError()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	publisher := a.initPublisher()

	productUC := usecase.NewProductUC(
		productRepo,
		cacheRepo,
		publisher,
		logger,
		cfg.Pagination.MaxPerPage,
	)

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, logger)
	router.Init(productUC, v1Http.RouterOptions{
		DefaultPerPage: cfg.Pagination.DefaultPerPage,
		SwaggerHost:    cfg.Http.SwaggerHost,
		Health:         health,
	})

	a.httpSrv = v1Http.NewServer(r, cfg.Http)

	return a, nil
}

// Run запускает HTTP сервер и блокирует до сигнала остановки или ошибки сервера.
func (a *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		errCh <- a.httpSrv.Run()
	}()

	// === Ожидание сигнала или ошибки ===
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	var appErr error
	select {
	case appErr = <-errCh:
		if appErr != nil {
			a.logger.Errorf(appErr, "HTTP server fatal error")
		}
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	// === Graceful shutdown ===
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := a.httpSrv.Stop(shutdownCtx); err != nil {
		a.logger.Errorf(err, "HTTP server shutdown error")
	} else {
		a.logger.Infof("HTTP server stopped")
	}

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Errorf(err, "failed to release resources")
	}

	a.logger.Infof("Application shutdown complete")
	return appErr
}

// initProductRepo выбирает хранилище по STORE_DRIVER и возвращает проверку готовности для /healthz.
func (a *App) initProductRepo(ctx context.Context) (usecase.ProductRepository, func(*http.Request) error, error) {
	if a.cfg.Store.Driver == config.StoreDriverMemory {
		a.logger.Warnf("Using in-memory product store, data is lost on restart")
		return memory.NewProductRepo(), nil, nil
	}

	db, err := initPGDB(ctx, a.logger, a.cfg)
	if err != nil {
		return nil, nil, err
	}
	a.closer.Add("postgres", db.Close)

	health := func(r *http.Request) error {
		pingCtx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()
		return db.Ping(pingCtx)
	}

	return pgdb.NewProductRepo(db.Pool, pgdbConv.NewProductConverter()), health, nil
}

func (a *App) initCacheRepo(ctx context.Context) (usecase.CacheRepository, error) {
	if !a.cfg.Redis.Enabled {
		return redis.NopCacheRepo{}, nil
	}

	redisClient := clients.NewRedisClient(a.cfg.Redis)
	a.closer.Add("redis", redisClient.Close)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := redisClient.Ping(pingCtx); err != nil {
		a.logger.Errorf(err, "failed to connect to redis")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return redis.NewCacheRepo(redisClient, redisConv.NewProductConverter(), a.cfg.Redis.ProductTTL, a.logger), nil
}

func (a *App) initPublisher() usecase.EventPublisher {
	if !a.cfg.Kafka.Enabled {
		return kafka.NopProducer{}
	}

	producer := kafka.NewProducer(a.logger, a.cfg.Kafka)
	if err := producer.EnsureTopic(topicTimeout); err != nil {
		// Топик может создаваться брокером автоматически, старт не блокируем
		a.logger.Warnf("Failed to ensure kafka topic %s: %v", a.cfg.Kafka.Topic, err)
	}
	a.closer.Add("kafka producer", producer.Close)

	return producer
}

func (a *App) closeOnInitError() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.closer.Close(ctx); err != nil {
		a.logger.Warnf("failed to release resources after init error: %v", err)
	}
}

func initPGDB(ctx context.Context, logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(ctx, cfg.Db, logger)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		db.Pool.Close()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
