package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"auction-house/internal/api/handlers"
	"auction-house/internal/config"
	"auction-house/internal/domain"
	"auction-house/internal/infrastructure/bank"
	"auction-house/internal/infrastructure/leader"
	"auction-house/internal/infrastructure/memory"
	redisinfra "auction-house/internal/infrastructure/redis"
	"auction-house/internal/infrastructure/websocket"
	"auction-house/internal/services"
	"auction-house/pkg/logger"

	redisClient "github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	log := logger.New()
	log.Info("Starting Auction House Service")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	houseCfg, err := houseConfig(cfg)
	if err != nil {
		log.Error("Invalid house configuration", "error", err)
		os.Exit(1)
	}

	// Initialize Redis
	rdb := redisClient.NewClient(&redisClient.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Test Redis connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("Connected to Redis", "address", cfg.Redis.Address)

	// Initialize stores
	registry := memory.NewPartyRegistry()
	lots := memory.NewLotStore()

	// Initialize event pipeline
	eventPublisher := redisinfra.NewRedisEventPublisher(rdb)
	eventSubscriber := redisinfra.NewRedisEventSubscriber(rdb, log)

	// Initialize banking collaborator
	bankService := bank.NewHTTPBankService(cfg.Bank.URL, cfg.Bank.Timeout, log)

	// Initialize leader election
	leaderElection := leader.NewRedisLeaderElection(rdb, cfg.Leader.TTL)

	// Initialize the auction house core
	house := services.NewAuctionHouse(houseCfg, registry, lots, eventPublisher, bankService, log)

	// Initialize scheduler
	scheduler := services.NewCronAuctionScheduler(house, leaderElection, cfg.Instance.ID, log)

	// Initialize notification delivery
	connManager := websocket.NewConnectionManager(log)
	notifier := websocket.NewWebSocketNotifier(connManager)
	eventListener := services.NewEventListener(notifier, log)
	wsHandler := websocket.NewHandler(connManager, log)

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{
			echo.GET, echo.HEAD, echo.PUT, echo.PATCH,
			echo.POST, echo.DELETE, echo.OPTIONS,
		},
	}))

	// Initialize handlers
	auctionHandler := handlers.NewAuctionHandler(house, scheduler, log)
	auctionHandler.Register(e.Group("/api/v1"))

	// WebSocket notification stream
	e.GET("/ws", echo.WrapHandler(http.HandlerFunc(wsHandler.HandleConnection)))

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":    "ok",
			"service":   "auction-house",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// Start background services
	listenerCtx, stopListener := context.WithCancel(context.Background())
	defer stopListener()
	go func() {
		if err := eventListener.Start(listenerCtx, eventSubscriber); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("Event listener stopped", "error", err)
		}
	}()

	go func() {
		if err := scheduler.Start(context.Background()); err != nil {
			log.Error("Failed to start scheduler", "error", err)
		}
	}()

	// Try to become leader
	go func() {
		for {
			became, err := leaderElection.BecomeLeader(context.Background(), cfg.Instance.ID)
			if err != nil {
				log.Error("Failed to attempt leadership", "error", err)
				time.Sleep(5 * time.Second)
				continue
			}
			if became {
				log.Info("Became auction house leader", "instance_id", cfg.Instance.ID)
			}
			time.Sleep(10 * time.Second)
		}
	}()

	// Start server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("Starting auction house server", "address", serverAddr)

	go func() {
		if err := e.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down auction house service...")

	// Graceful shutdown
	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stopListener()
	if err := scheduler.Stop(); err != nil {
		log.Error("Failed to stop scheduler", "error", err)
	}
	if err := leaderElection.ReleaseLeadership(ctx, cfg.Instance.ID); err != nil {
		log.Error("Failed to release leadership", "error", err)
	}

	if err := e.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	log.Info("Auction house service stopped")
}

func houseConfig(cfg *config.Config) (services.HouseConfig, error) {
	increment, err := domain.NewMoney(cfg.House.Increment)
	if err != nil {
		return services.HouseConfig{}, fmt.Errorf("house.increment: %w", err)
	}
	commission, err := domain.NewMoney(cfg.House.Commission)
	if err != nil {
		return services.HouseConfig{}, fmt.Errorf("house.commission: %w", err)
	}
	premium, err := domain.NewMoney(cfg.House.BuyerPremium)
	if err != nil {
		return services.HouseConfig{}, fmt.Errorf("house.buyer_premium: %w", err)
	}

	return services.HouseConfig{
		Increment:    increment,
		Commission:   commission,
		BuyerPremium: premium,
		BankAccount:  cfg.House.BankAccount,
		BankAuthCode: cfg.House.BankAuthCode,
	}, nil
}
