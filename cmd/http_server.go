package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/nhatminh-dev/drinkstore/internal"
	"github.com/nhatminh-dev/drinkstore/internal/cart"
	cartPostgres "github.com/nhatminh-dev/drinkstore/internal/cart/postgres"
	"github.com/nhatminh-dev/drinkstore/internal/catalog"
	catalogPostgres "github.com/nhatminh-dev/drinkstore/internal/catalog/postgres"
	"github.com/nhatminh-dev/drinkstore/internal/core/events"
	"github.com/nhatminh-dev/drinkstore/internal/order"
	orderPostgres "github.com/nhatminh-dev/drinkstore/internal/order/postgres"
	"github.com/nhatminh-dev/drinkstore/internal/payment"
	paymentPostgres "github.com/nhatminh-dev/drinkstore/internal/payment/postgres"
	"github.com/nhatminh-dev/drinkstore/internal/transport/rest"
	"github.com/nhatminh-dev/drinkstore/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Redis  *redis.Client
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
		if deps.Redis != nil {
			if err := deps.Redis.Close(); err != nil {
				deps.Logger.Error("redis close error", "error", err)
			}
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Format)
	appLogger := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	var redisClient *redis.Client
	if config.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     config.Redis.Addr,
			Password: config.Redis.Password,
			DB:       config.Redis.DB,
		})
	}

	eventBus := events.NewEventBus(appLogger)

	productRepo := catalogPostgres.NewProductRepository(gormDB)
	orderRepo := orderPostgres.NewOrderRepository(gormDB)
	cartRepo := cartPostgres.NewCartRepository(gormDB)
	paymentRepo := paymentPostgres.NewPaymentRepository(gormDB)

	catalogService := catalog.NewService(productRepo, appLogger)
	orderService := order.NewService(orderRepo, catalogService, appLogger)
	cartService := cart.NewService(cartRepo, catalogService, appLogger)

	settler := payment.NewSettler(paymentRepo, orderService, cartService, eventBus, appLogger)
	paymentService := payment.NewService(paymentRepo, orderService, settler, payment.GatewayConfig{
		TmnCode:    config.VNPay.TmnCode,
		HashSecret: config.VNPay.HashSecret,
		PayURL:     config.VNPay.PayURL,
		ReturnURL:  config.VNPay.ReturnURL,
		Version:    config.VNPay.Version,
		Command:    config.VNPay.Command,
		CurrCode:   config.VNPay.CurrCode,
		Locale:     config.VNPay.Locale,
		OrderType:  config.VNPay.OrderType,
		Expire:     config.VNPay.Expire,
	}, appLogger)

	catalogEventHandler := catalog.NewEventHandler(catalogService, orderRepo, appLogger)
	catalogEventHandler.RegisterEventHandlers(eventBus)

	catalogHandler := catalog.NewHandler(catalogService, appLogger)
	cartHandler := cart.NewHandler(cartService, appLogger)
	orderHandler := order.NewHandler(orderService, appLogger)
	paymentHandler := payment.NewHandler(paymentService, appLogger)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, db.DB, redisClient, catalogHandler, cartHandler, orderHandler, paymentHandler, appLogger)

	return &Dependencies{
		Config: config,
		DB:     db,
		Redis:  redisClient,
		Router: router,
		Logger: appLogger,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
