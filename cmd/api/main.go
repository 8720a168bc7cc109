package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/cahaya-atk/storefront/internal/auth"
	"github.com/cahaya-atk/storefront/internal/cart"
	"github.com/cahaya-atk/storefront/internal/catalog"
	"github.com/cahaya-atk/storefront/internal/checkout"
	"github.com/cahaya-atk/storefront/internal/config"
	"github.com/cahaya-atk/storefront/internal/httpx"
	kafkax "github.com/cahaya-atk/storefront/internal/kafka"
	"github.com/cahaya-atk/storefront/internal/logging"
	"github.com/cahaya-atk/storefront/internal/orders"
	"github.com/cahaya-atk/storefront/internal/postgres"
	"github.com/cahaya-atk/storefront/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logging.New(cfg.ServiceName)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		log.Error("db migrate", "err", err)
		os.Exit(1)
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers, satu per topic.
	prodCreated := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderCreated, 1024)
	prodCreated.Start()
	prodStatus := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderStatusChanged, 1024)
	prodStatus.Start()
	prodDeleted := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderDeleted, 1024)
	prodDeleted.Start()

	// Repo & service
	orderRepo := &orders.Repo{DB: db}
	carts := cart.NewStore()

	api := &httpx.API{
		Tokens:   &auth.Tokens{Secret: []byte(cfg.JWTSecret), TTL: cfg.TokenTTL},
		Profiles: &auth.Repo{DB: db},
		Catalog:  &catalog.Repo{DB: db},
		Carts:    carts,
		Checkout: &checkout.Service{
			Store:       orderRepo,
			Carts:       carts,
			Redis:       rdb,
			Producer:    prodCreated,
			ServiceName: cfg.ServiceName,
			Log:         log,
		},
		Orders:         orderRepo,
		Redis:          rdb,
		ProducerStatus: prodStatus,
		ProducerDelete: prodDeleted,
		ServiceName:    cfg.ServiceName,
		Log:            log,
	}

	router := httpx.NewRouter()
	api.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Info("HTTP listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("listen", "err", err)
			os.Exit(1)
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)

	// tutup inbox -> flush & close writer
	prodCreated.Close()
	prodStatus.Close()
	prodDeleted.Close()
	prodCreated.WaitClosed()
	prodStatus.WaitClosed()
	prodDeleted.WaitClosed()
}
