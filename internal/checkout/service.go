// Package checkout menjalankan alur pemesanan: validasi stok, tulis order,
// lalu efek samping (event, cache status, kosongkan keranjang).
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/cahaya-atk/storefront/internal/cart"
	kafkax "github.com/cahaya-atk/storefront/internal/kafka"
	"github.com/cahaya-atk/storefront/internal/orders"
	"github.com/cahaya-atk/storefront/internal/redisx"
)

var (
	ErrEmptyCart       = errors.New("keranjang masih kosong")
	ErrMissingShipping = errors.New("silakan lengkapi nomor telepon dan alamat pengiriman")
)

// Store adalah potongan repo pesanan yang dibutuhkan alur checkout.
type Store interface {
	ProductStock(ctx context.Context, productID string) (name string, stock int, err error)
	CreateOrder(ctx context.Context, in orders.CheckoutInput) (orders.Order, error)
}

// Carts adalah sumber isi keranjang user.
type Carts interface {
	Items(userID string) []cart.Item
	Clear(userID string)
}

type Service struct {
	Store       Store
	Carts       Carts
	Redis       *redis.Client
	Producer    *kafkax.Producer // topic order.created
	ServiceName string
	Log         *slog.Logger
}

type Request struct {
	UserID        string
	Phone         string
	Address       string
	PaymentMethod string
	TraceID       string
}

// Checkout memproses satu pesanan dari keranjang user.
// Urutan: validasi input -> validasi stok (baca saja, pesan error menyebut
// produk + sisa stok) -> tulis order transaksional. Validasi stok di sini
// hanya sopan santun ke pembeli; penjaga konsistensi sebenarnya adalah
// decrement bersyarat di dalam transaksi CreateOrder.
func (s *Service) Checkout(ctx context.Context, req Request) (orders.Order, error) {
	if req.Phone == "" || req.Address == "" {
		return orders.Order{}, ErrMissingShipping
	}
	payment, err := orders.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return orders.Order{}, err
	}

	items := s.Carts.Items(req.UserID)
	if len(items) == 0 {
		return orders.Order{}, ErrEmptyCart
	}

	// 1. Validasi stok per baris, berhenti sebelum ada tulisan apa pun.
	for _, it := range items {
		name, stock, err := s.Store.ProductStock(ctx, it.ProductID)
		if err != nil {
			return orders.Order{}, fmt.Errorf("gagal memverifikasi stok untuk %s: %w", it.Name, err)
		}
		if stock < it.Qty {
			return orders.Order{}, &orders.InsufficientStockError{
				ProductID: it.ProductID, Name: name,
				Requested: it.Qty, Remaining: stock,
			}
		}
	}

	// 2. Tulis order; harga dibawa dari snapshot keranjang, tidak dibaca ulang.
	in := orders.CheckoutInput{
		UserID:        req.UserID,
		Phone:         req.Phone,
		Address:       req.Address,
		PaymentMethod: payment,
		Lines:         make([]orders.LineInput, 0, len(items)),
	}
	for _, it := range items {
		in.Lines = append(in.Lines, orders.LineInput{
			ProductID:   it.ProductID,
			Quantity:    it.Qty,
			PriceAtTime: it.Price,
		})
	}
	order, err := s.Store.CreateOrder(ctx, in)
	if err != nil {
		return orders.Order{}, err
	}

	// 3. Efek samping non-fatal: keranjang bersih, cache, event.
	s.Carts.Clear(req.UserID)

	if s.Redis != nil {
		key := fmt.Sprintf(redisx.KeyOrderStatus, order.ID)
		_ = s.Redis.Set(ctx, key, `{"status":"pending"}`, redisx.TTLStatusCache).Err()
	}
	s.publishCreated(order, req.TraceID)

	if s.Log != nil {
		s.Log.Info("pesanan dibuat",
			"order_id", order.ID, "user_id", order.UserID,
			"total", order.TotalAmount, "items", len(order.Items))
	}
	return order, nil
}

func (s *Service) publishCreated(o orders.Order, traceID string) {
	if s.Producer == nil {
		return
	}
	lines := make([]orders.LinePayload, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, orders.LinePayload{
			ProductID:   it.ProductID,
			Quantity:    it.Quantity,
			PriceAtTime: it.PriceAtTime,
		})
	}
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventOrderCreated,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.ServiceName,
		TraceID:       traceID,
		CorrelationID: o.ID,
		Payload: kafkax.MustMarshal(orders.OrderCreatedPayload{
			OrderID:       o.ID,
			UserID:        o.UserID,
			TotalAmount:   o.TotalAmount,
			PaymentMethod: string(o.PaymentMethod),
			Items:         lines,
		}),
	}
	s.Producer.Publish(orders.PartitionKey(o.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventOrderCreated)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
