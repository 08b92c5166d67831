package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/laker77/PointsStoreService-main/internal/api"
	"github.com/laker77/PointsStoreService-main/internal/catalog"
	"github.com/laker77/PointsStoreService-main/internal/config"
	"github.com/laker77/PointsStoreService-main/internal/infrastructure/kafka"
	"github.com/laker77/PointsStoreService-main/internal/infrastructure/redis"
	"github.com/laker77/PointsStoreService-main/internal/infrastructure/sheets"
	"github.com/laker77/PointsStoreService-main/internal/infrastructure/telegram"
	"github.com/laker77/PointsStoreService-main/internal/observability"
	core "github.com/laker77/PointsStoreService-main/internal/repository/sheets"
	service "github.com/laker77/PointsStoreService-main/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using default env vars")
	}

	shutdown := observability.Setup("points-store")
	defer shutdown(context.Background())

	cfg := config.Load()
	if cfg.ServiceAccountJSON == "" {
		log.Fatal("SERVICE_ACCOUNT_JSON is not set")
	}
	if cfg.BotToken == "" {
		log.Fatal("TELEGRAM_TOKEN is not set")
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatalf("Invalid timezone %q: %v", cfg.Timezone, err)
	}

	// Bad credentials are fatal here, not on the first user request.
	store, err := sheets.NewClient(cfg.ServiceAccountJSON, cfg.SheetID)
	if err != nil {
		log.Fatalf("Failed to set up the record store client: %v", err)
	}

	accountRepo := core.NewSheetsAccountRepository(store)
	productRepo := core.NewSheetsProductRepository(store)
	historyRepo := core.NewSheetsHistoryRepository(store, location)
	catalogCache := catalog.NewCache(productRepo, catalog.DefaultTTL)
	notifier := telegram.NewBot(cfg.BotToken, cfg.OrderChatID, cfg.OrderTopicID, cfg.AdminChatID)

	var locker service.AccountLocker = service.NewMemoryLock()
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(cfg.RedisAddr)
		defer redisClient.Close()
		locker = redis.NewAccountLock(redisClient)
	}

	var producer kafka.KafkaProducer
	if cfg.KafkaBroker != "" {
		p := kafka.NewProducer([]string{cfg.KafkaBroker})
		defer p.Close()
		producer = p
	}

	svc := service.NewStoreService(accountRepo, historyRepo, catalogCache, notifier, locker, producer, location)
	router := api.SetupRouter(svc)

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}
	go func() {
		log.Printf("Starting server on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped")
}
