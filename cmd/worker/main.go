package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/cahaya-atk/storefront/internal/config"
	kafkax "github.com/cahaya-atk/storefront/internal/kafka"
	"github.com/cahaya-atk/storefront/internal/logging"
	"github.com/cahaya-atk/storefront/internal/notify"
	"github.com/cahaya-atk/storefront/internal/orders"
	"github.com/cahaya-atk/storefront/internal/redisx"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logging.New(cfg.ServiceName + "-worker")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &notify.Service{Redis: rdb, Log: log}

	// Satu consumer per topic, semua masuk handler yang sama.
	topics := []string{
		orders.TopicOrderCreated,
		orders.TopicOrderStatusChanged,
		orders.TopicOrderDeleted,
	}
	for _, topic := range topics {
		cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.WorkerGroup, topic, cfg.Workers, log)
		go func(topic string) {
			log.Info("consumer started", "group", cfg.WorkerGroup, "topic", topic, "workers", cfg.Workers)
			if err := cons.Start(ctx, svc.HandleOrderEvent); err != nil {
				log.Error("consumer exit", "topic", topic, "err", err)
				cancel()
			}
		}(topic)
	}

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Info("shutting down worker...")
	cancel()
	time.Sleep(500 * time.Millisecond)
}
