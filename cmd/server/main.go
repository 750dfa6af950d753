package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/cropmarket-backend/internal/config"
	"github.com/ignatzorin/cropmarket-backend/internal/db"
	"github.com/ignatzorin/cropmarket-backend/internal/domain/repository"
	"github.com/ignatzorin/cropmarket-backend/internal/goroutine"
	httpMiddleware "github.com/ignatzorin/cropmarket-backend/internal/http/middleware"
	httpRouter "github.com/ignatzorin/cropmarket-backend/internal/http/router"
	"github.com/ignatzorin/cropmarket-backend/internal/infrastructure/cache"
	"github.com/ignatzorin/cropmarket-backend/internal/infrastructure/oracle"
	"github.com/ignatzorin/cropmarket-backend/internal/infrastructure/persistence"
	"github.com/ignatzorin/cropmarket-backend/internal/interface/http/handler"
	"github.com/ignatzorin/cropmarket-backend/internal/logger"
	"github.com/ignatzorin/cropmarket-backend/internal/service"
	"github.com/ignatzorin/cropmarket-backend/internal/storage"
	"github.com/ignatzorin/cropmarket-backend/internal/usecase/bid"
	"github.com/ignatzorin/cropmarket-backend/internal/usecase/listing"
	"github.com/ignatzorin/cropmarket-backend/internal/usecase/price"
	"github.com/ignatzorin/cropmarket-backend/internal/usecase/stats"
	"github.com/ignatzorin/cropmarket-backend/internal/usecase/transaction"
	"github.com/ignatzorin/cropmarket-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	logger.Init(cfg.LogLevel)
	if !cfg.IsProduction() {
		logger.SetTextFormatter()
	}
	log := logger.Log

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, db.Migrations()); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	// Redis необязателен: без него кэш оракула и счётчики лимитера живут в памяти.
	var rdb *cache.Redis
	if cfg.RedisAddr != "" {
		rdb, err = cache.NewRedis(ctx, cache.Config{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		if err != nil {
			log.WithError(err).Warn("main: redis недоступен, работаем без кэша")
			rdb = nil
		} else {
			defer func() { _ = rdb.Close() }()
		}
	}

	var redisClient *redis.Client
	if rdb != nil {
		redisClient = rdb.Underlying()
	}
	limiterStore, err := httpMiddleware.NewLimiterStore(redisClient)
	if err != nil {
		log.Fatalf("main: ошибка инициализации лимитера: %v", err)
	}

	priceOracle := newPriceOracle(ctx, cfg, rdb)

	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)

	photoStorage, err := storage.NewPhotoStorage(cfg.MediaStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("main: не удалось подготовить файловое хранилище: %v", err)
	}

	// Вебсокеты.
	hub := ws.NewHub()
	go hub.Run(ctx)

	// Репозитории.
	txManager := persistence.NewTxManager(dbConn)
	listingRepo := persistence.NewListingRepositoryAdapter(dbConn)
	bidRepo := persistence.NewBidRepositoryAdapter(dbConn)
	transactionRepo := persistence.NewTransactionRepositoryAdapter(dbConn)
	priceRepo := persistence.NewPriceHistoryRepositoryAdapter(dbConn)
	statsRepo := persistence.NewStatsRepositoryAdapter(dbConn)

	// Фоновое завершение объявлений с истёкшим сроком.
	expireUC := listing.NewExpireListingsUseCase(txManager, listingRepo)
	goroutine.SafeGo(func() { expireUC.Run(ctx, cfg.ListingExpiryInterval) })

	// HTTP хэндлеры.
	handlers := httpRouter.Handlers{
		Listing: handler.NewListingHandler(
			listing.NewCreateListingUseCase(listingRepo, priceOracle),
			listing.NewQueryListingsUseCase(listingRepo),
			listing.NewGetListingDetailUseCase(listingRepo, bidRepo),
			listing.NewListMyListingsUseCase(listingRepo),
			listing.NewListCropNamesUseCase(listingRepo),
		),
		Bid: handler.NewBidHandler(
			bid.NewPlaceBidUseCase(txManager, listingRepo, bidRepo, hub),
			bid.NewResolveBidUseCase(txManager, listingRepo, bidRepo, hub),
			bid.NewListBuyerBidsUseCase(bidRepo),
			bid.NewListReceivedBidsUseCase(bidRepo),
		),
		Transaction: handler.NewTransactionHandler(
			transaction.NewCreateTransactionUseCase(bidRepo, transactionRepo, hub),
			transaction.NewGetTransactionUseCase(transactionRepo),
			transaction.NewListTransactionsUseCase(transactionRepo),
			transaction.NewProcessPaymentUseCase(txManager, transactionRepo, listingRepo, priceRepo, hub),
			transaction.NewUpdateDeliveryStatusUseCase(txManager, transactionRepo, hub),
		),
		Price: handler.NewPriceHandler(
			price.NewRecentPricesUseCase(priceRepo),
			price.NewSuggestPriceUseCase(priceOracle),
			price.NewPriceHistoryUseCase(priceRepo),
		),
		Stats: handler.NewStatsHandler(
			stats.NewFarmerStatsUseCase(statsRepo),
			stats.NewBuyerStatsUseCase(statsRepo),
		),
		Media:  handler.NewMediaHandler(photoStorage),
		WS:     handler.NewWSHandler(hub, tokenManager, cfg.AllowedOrigins),
		Health: handler.NewHealthHandler(healthChecks(dbConn, rdb)),
	}

	engine := httpRouter.SetupRouter(cfg, handlers, tokenManager, limiterStore)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("main: ошибка остановки http сервера")
		}
	}()

	log.WithFields(logrus.Fields{
		"port":   cfg.HTTPPort,
		"env":    cfg.Env,
		"oracle": cfg.PriceOracleURL != "",
		"redis":  rdb != nil,
	}).Info("main: HTTP сервер запущен")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// newPriceOracle: без PRICE_ORACLE_URL оракул молчит; ответы кэшируются в Redis или в памяти.
func newPriceOracle(ctx context.Context, cfg *config.Config, rdb *cache.Redis) repository.PriceOracle {
	if cfg.PriceOracleURL == "" {
		return oracle.Disabled{}
	}
	client := oracle.NewClient(cfg.PriceOracleURL, cfg.PriceOracleTimeout)
	if rdb == nil {
		return oracle.NewCached(client, cache.NewMemory(ctx, 0), cfg.PriceCacheTTL)
	}
	return oracle.NewCached(client, rdb, cfg.PriceCacheTTL)
}

func healthChecks(dbConn *sqlx.DB, rdb *cache.Redis) map[string]handler.HealthCheck {
	checks := map[string]handler.HealthCheck{
		"database": dbConn.PingContext,
	}
	if rdb != nil {
		checks["redis"] = rdb.Ping
	}
	return checks
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil && logger.Log != nil {
		logger.Log.WithError(err).Error("main: ошибка закрытия базы")
	}
}
