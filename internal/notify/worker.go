// Package notify merawat read-model di Redis dari event pesanan:
// cache status per order dan counter dashboard.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/cahaya-atk/storefront/internal/kafka"
	"github.com/cahaya-atk/storefront/internal/orders"
	"github.com/cahaya-atk/storefront/internal/redisx"
)

// Cache adalah potongan client Redis yang dipakai worker; *redis.Client
// memenuhinya langsung, fake di tes juga.
type Cache interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
	IncrBy(ctx context.Context, key string, value int64) *redis.IntCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
}

type Service struct {
	Redis Cache
	Log   *slog.Logger
}

// HandleOrderEvent dipasang sebagai handler consumer untuk ketiga topic order.
func (s *Service) HandleOrderEvent(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}

	// Dedup via Redis pakai event_id; event ulangan dianggap sudah beres.
	dkey := fmt.Sprintf(redisx.KeyDedup, "notify", env.EventID)
	if n, _ := s.Redis.Exists(ctx, dkey).Result(); n > 0 {
		return nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	switch env.EventType {
	case orders.EventOrderCreated:
		p, err := kafkax.UnwrapPayload[orders.OrderCreatedPayload](env.Payload)
		if err != nil {
			return err
		}
		_ = s.Redis.Set(ctx,
			fmt.Sprintf(redisx.KeyOrderStatus, p.OrderID),
			`{"status":"pending"}`, redisx.TTLStatusCache).Err()
		_ = s.Redis.Incr(ctx, redisx.KeyStatsOrders).Err()
		_ = s.Redis.IncrBy(ctx, redisx.KeyStatsRevenue, int64(p.TotalAmount)).Err()
		_ = s.Redis.Del(ctx, redisx.KeyDashboard).Err()
		s.Log.Info("order created", "order_id", p.OrderID, "total", p.TotalAmount)

	case orders.EventOrderStatusChanged:
		p, err := kafkax.UnwrapPayload[orders.OrderStatusChangedPayload](env.Payload)
		if err != nil {
			return err
		}
		_ = s.Redis.Set(ctx,
			fmt.Sprintf(redisx.KeyOrderStatus, p.OrderID),
			fmt.Sprintf(`{"status":%q}`, p.Status), redisx.TTLStatusCache).Err()
		_ = s.Redis.Del(ctx, redisx.KeyDashboard).Err()
		s.Log.Info("order status changed", "order_id", p.OrderID, "status", p.Status)

	case orders.EventOrderDeleted:
		p, err := kafkax.UnwrapPayload[orders.OrderDeletedPayload](env.Payload)
		if err != nil {
			return err
		}
		_ = s.Redis.Del(ctx, fmt.Sprintf(redisx.KeyOrderStatus, p.OrderID)).Err()
		_ = s.Redis.Del(ctx, redisx.KeyDashboard).Err()
		s.Log.Info("order deleted", "order_id", p.OrderID)

	default:
		// topic lain bukan urusan worker ini
	}
	return nil
}
