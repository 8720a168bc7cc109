package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kafkax "github.com/cahaya-atk/storefront/internal/kafka"
	"github.com/cahaya-atk/storefront/internal/orders"
	"github.com/cahaya-atk/storefront/internal/redisx"
)

// fakeCache memenuhi Cache dengan map biasa; cukup untuk memverifikasi
// key mana yang ditulis, dinaikkan, dan dihapus.
type fakeCache struct {
	strings map[string]string
	ints    map[string]int64
	setOps  int
}

func newFakeCache() *fakeCache {
	return &fakeCache{strings: map[string]string{}, ints: map[string]int64{}}
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	f.strings[key] = fmt.Sprint(value)
	f.setOps++
	return redis.NewStatusCmd(ctx)
}

func (f *fakeCache) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.strings[k]; ok {
			n++
		}
		delete(f.strings, k)
		delete(f.ints, k)
	}
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(n)
	return cmd
}

func (f *fakeCache) Incr(ctx context.Context, key string) *redis.IntCmd {
	return f.IncrBy(ctx, key, 1)
}

func (f *fakeCache) IncrBy(ctx context.Context, key string, value int64) *redis.IntCmd {
	f.ints[key] += value
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(f.ints[key])
	return cmd
}

func (f *fakeCache) Exists(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.strings[k]; ok {
			n++
		}
	}
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(n)
	return cmd
}

func newTestService(cache *fakeCache) *Service {
	return &Service{
		Redis: cache,
		Log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func eventMessage(t *testing.T, eventID, eventType string, payload any) kafkago.Message {
	t.Helper()
	env := orders.Envelope{
		EventID:      eventID,
		EventType:    eventType,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     "test",
		Payload:      kafkax.MustMarshal(payload),
	}
	return kafkago.Message{Value: kafkax.MustMarshal(env)}
}

func TestHandleOrderCreated(t *testing.T) {
	cache := newFakeCache()
	cache.strings[redisx.KeyDashboard] = "basi"
	svc := newTestService(cache)

	m := eventMessage(t, uuid.NewString(), orders.EventOrderCreated, orders.OrderCreatedPayload{
		OrderID: "o-1", UserID: "u-1", TotalAmount: 25000, PaymentMethod: "cod",
	})
	require.NoError(t, svc.HandleOrderEvent(context.Background(), m))

	assert.Equal(t, `{"status":"pending"}`, cache.strings[fmt.Sprintf(redisx.KeyOrderStatus, "o-1")])
	assert.Equal(t, int64(1), cache.ints[redisx.KeyStatsOrders])
	assert.Equal(t, int64(25000), cache.ints[redisx.KeyStatsRevenue])
	// cache dashboard lama ikut terhapus
	_, ok := cache.strings[redisx.KeyDashboard]
	assert.False(t, ok)
}

func TestHandleOrderEventDedup(t *testing.T) {
	cache := newFakeCache()
	svc := newTestService(cache)

	eventID := uuid.NewString()
	m := eventMessage(t, eventID, orders.EventOrderCreated, orders.OrderCreatedPayload{
		OrderID: "o-1", TotalAmount: 10000,
	})

	require.NoError(t, svc.HandleOrderEvent(context.Background(), m))
	require.NoError(t, svc.HandleOrderEvent(context.Background(), m))

	// event kembar tidak menghitung dua kali
	assert.Equal(t, int64(1), cache.ints[redisx.KeyStatsOrders])
	assert.Equal(t, int64(10000), cache.ints[redisx.KeyStatsRevenue])

	// event lain dengan id baru tetap dihitung
	m2 := eventMessage(t, uuid.NewString(), orders.EventOrderCreated, orders.OrderCreatedPayload{
		OrderID: "o-2", TotalAmount: 5000,
	})
	require.NoError(t, svc.HandleOrderEvent(context.Background(), m2))
	assert.Equal(t, int64(2), cache.ints[redisx.KeyStatsOrders])
	assert.Equal(t, int64(15000), cache.ints[redisx.KeyStatsRevenue])
}

func TestHandleOrderStatusChanged(t *testing.T) {
	cache := newFakeCache()
	cache.strings[redisx.KeyDashboard] = "basi"
	svc := newTestService(cache)

	m := eventMessage(t, uuid.NewString(), orders.EventOrderStatusChanged,
		orders.OrderStatusChangedPayload{OrderID: "o-1", Status: "shipped"})
	require.NoError(t, svc.HandleOrderEvent(context.Background(), m))

	assert.Equal(t, `{"status":"shipped"}`, cache.strings[fmt.Sprintf(redisx.KeyOrderStatus, "o-1")])
	_, ok := cache.strings[redisx.KeyDashboard]
	assert.False(t, ok)
}

func TestHandleOrderDeleted(t *testing.T) {
	cache := newFakeCache()
	statusKey := fmt.Sprintf(redisx.KeyOrderStatus, "o-1")
	cache.strings[statusKey] = `{"status":"pending"}`
	cache.strings[redisx.KeyDashboard] = "basi"
	svc := newTestService(cache)

	m := eventMessage(t, uuid.NewString(), orders.EventOrderDeleted,
		orders.OrderDeletedPayload{OrderID: "o-1"})
	require.NoError(t, svc.HandleOrderEvent(context.Background(), m))

	_, ok := cache.strings[statusKey]
	assert.False(t, ok)
	_, ok = cache.strings[redisx.KeyDashboard]
	assert.False(t, ok)
}

func TestHandleOrderEventBadInput(t *testing.T) {
	cache := newFakeCache()
	svc := newTestService(cache)

	// bukan envelope
	err := svc.HandleOrderEvent(context.Background(), kafkago.Message{Value: []byte("bukan json")})
	require.Error(t, err)

	// event type asing: bukan error, cuma ditandai sudah dilihat
	m := eventMessage(t, uuid.NewString(), "PaymentSettled", map[string]string{})
	require.NoError(t, svc.HandleOrderEvent(context.Background(), m))
	assert.Zero(t, cache.ints[redisx.KeyStatsOrders])
}
