package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cahaya-atk/storefront/internal/cart"
	"github.com/cahaya-atk/storefront/internal/orders"
)

// fakeStore meniru semantik repo: decrement bersyarat di bawah satu lock,
// gagal stok berarti tidak ada order yang tercatat.
type fakeStore struct {
	mu       sync.Mutex
	names    map[string]string
	stock    map[string]int
	created  []orders.CheckoutInput
	failNext error
}

func newFakeStore() *fakeStore {
	return &fakeStore{names: map[string]string{}, stock: map[string]int{}}
}

func (f *fakeStore) addProduct(id, name string, stock int) {
	f.names[id] = name
	f.stock[id] = stock
}

func (f *fakeStore) ProductStock(_ context.Context, productID string) (string, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	name, ok := f.names[productID]
	if !ok {
		return "", 0, orders.ErrNotFound
	}
	return name, f.stock[productID], nil
}

func (f *fakeStore) CreateOrder(_ context.Context, in orders.CheckoutInput) (orders.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return orders.Order{}, err
	}
	for _, l := range in.Lines {
		if f.stock[l.ProductID] < l.Quantity {
			return orders.Order{}, &orders.InsufficientStockError{
				ProductID: l.ProductID,
				Name:      f.names[l.ProductID],
				Requested: l.Quantity,
				Remaining: f.stock[l.ProductID],
			}
		}
	}
	for _, l := range in.Lines {
		f.stock[l.ProductID] -= l.Quantity
	}
	f.created = append(f.created, in)

	o := orders.Order{
		ID:            uuid.NewString(),
		UserID:        in.UserID,
		TotalAmount:   in.Total(),
		Status:        orders.StatusPending,
		Phone:         in.Phone,
		Address:       in.Address,
		PaymentMethod: in.PaymentMethod,
	}
	for _, l := range in.Lines {
		o.Items = append(o.Items, orders.Item{
			ID:          uuid.NewString(),
			OrderID:     o.ID,
			ProductID:   l.ProductID,
			Quantity:    l.Quantity,
			PriceAtTime: l.PriceAtTime,
		})
	}
	return o, nil
}

func newService(store *fakeStore, carts *cart.Store) *Service {
	return &Service{Store: store, Carts: carts, ServiceName: "test"}
}

func TestCheckoutSuccess(t *testing.T) {
	store := newFakeStore()
	store.addProduct("pa", "Kertas A4", 10)
	store.addProduct("pb", "Map Arsip", 5)

	carts := cart.NewStore()
	carts.Add("u1", cart.Item{ProductID: "pa", Name: "Kertas A4", Price: 10000, Qty: 2})
	carts.Add("u1", cart.Item{ProductID: "pb", Name: "Map Arsip", Price: 5000, Qty: 1})

	svc := newService(store, carts)
	order, err := svc.Checkout(context.Background(), Request{
		UserID: "u1", Phone: "0812", Address: "Jl. Melati 1", PaymentMethod: "cod",
	})
	require.NoError(t, err)

	assert.Equal(t, 25000, order.TotalAmount)
	assert.Equal(t, orders.StatusPending, order.Status)
	assert.Equal(t, orders.PaymentCOD, order.PaymentMethod)
	require.Len(t, order.Items, 2)
	assert.Equal(t, 10000, order.Items[0].PriceAtTime)
	assert.Equal(t, 5000, order.Items[1].PriceAtTime)

	// keranjang bersih setelah sukses
	assert.Empty(t, carts.Items("u1"))
	// stok berkurang
	assert.Equal(t, 8, store.stock["pa"])
	assert.Equal(t, 4, store.stock["pb"])
}

func TestCheckoutPriceFrozenAtCartTime(t *testing.T) {
	store := newFakeStore()
	store.addProduct("pa", "Kertas A4", 10)

	carts := cart.NewStore()
	carts.Add("u1", cart.Item{ProductID: "pa", Name: "Kertas A4", Price: 10000, Qty: 2})

	// harga katalog berubah setelah item masuk keranjang; order tetap pakai
	// harga snapshot
	svc := newService(store, carts)
	order, err := svc.Checkout(context.Background(), Request{
		UserID: "u1", Phone: "0812", Address: "Jl. Melati 1", PaymentMethod: "qris_transfer",
	})
	require.NoError(t, err)
	assert.Equal(t, 20000, order.TotalAmount)
	assert.Equal(t, 10000, order.Items[0].PriceAtTime)
}

func TestCheckoutInsufficientStockAtValidation(t *testing.T) {
	store := newFakeStore()
	store.addProduct("pa", "Kertas A4", 1)

	carts := cart.NewStore()
	carts.Add("u1", cart.Item{ProductID: "pa", Name: "Kertas A4", Price: 10000, Qty: 3})

	svc := newService(store, carts)
	_, err := svc.Checkout(context.Background(), Request{
		UserID: "u1", Phone: "0812", Address: "Jl. Melati 1", PaymentMethod: "cod",
	})

	var insufficient *orders.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "Kertas A4", insufficient.Name)
	assert.Equal(t, 1, insufficient.Remaining)

	// tidak ada order yang tertulis, keranjang tetap utuh
	assert.Empty(t, store.created)
	assert.Len(t, carts.Items("u1"), 1)
	assert.Equal(t, 1, store.stock["pa"])
}

func TestCheckoutUnknownProduct(t *testing.T) {
	store := newFakeStore()
	carts := cart.NewStore()
	carts.Add("u1", cart.Item{ProductID: "hilang", Name: "Produk Hilang", Price: 1000, Qty: 1})

	svc := newService(store, carts)
	_, err := svc.Checkout(context.Background(), Request{
		UserID: "u1", Phone: "0812", Address: "Jl. Melati 1", PaymentMethod: "cod",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gagal memverifikasi stok untuk Produk Hilang")
	assert.ErrorIs(t, err, orders.ErrNotFound)
	assert.Empty(t, store.created)
}

func TestCheckoutValidation(t *testing.T) {
	store := newFakeStore()
	store.addProduct("pa", "Kertas A4", 10)
	carts := cart.NewStore()
	svc := newService(store, carts)

	// keranjang kosong
	_, err := svc.Checkout(context.Background(), Request{
		UserID: "u1", Phone: "0812", Address: "Jl. Melati 1", PaymentMethod: "cod",
	})
	require.ErrorIs(t, err, ErrEmptyCart)

	carts.Add("u1", cart.Item{ProductID: "pa", Price: 10000, Qty: 1})

	// data pengiriman kurang
	_, err = svc.Checkout(context.Background(), Request{UserID: "u1", PaymentMethod: "cod"})
	require.ErrorIs(t, err, ErrMissingShipping)
	_, err = svc.Checkout(context.Background(), Request{
		UserID: "u1", Phone: "0812", PaymentMethod: "cod",
	})
	require.ErrorIs(t, err, ErrMissingShipping)

	// metode pembayaran asing
	_, err = svc.Checkout(context.Background(), Request{
		UserID: "u1", Phone: "0812", Address: "Jl. Melati 1", PaymentMethod: "pulsa",
	})
	require.ErrorIs(t, err, orders.ErrUnknownPayment)

	// semua gagal sebelum ada tulisan
	assert.Empty(t, store.created)
	assert.Len(t, carts.Items("u1"), 1)
}

func TestCheckoutStoreFailureKeepsCart(t *testing.T) {
	store := newFakeStore()
	store.addProduct("pa", "Kertas A4", 10)
	store.failNext = errors.New("koneksi database putus")

	carts := cart.NewStore()
	carts.Add("u1", cart.Item{ProductID: "pa", Price: 10000, Qty: 1})

	svc := newService(store, carts)
	_, err := svc.Checkout(context.Background(), Request{
		UserID: "u1", Phone: "0812", Address: "Jl. Melati 1", PaymentMethod: "cod",
	})
	require.Error(t, err)
	assert.Len(t, carts.Items("u1"), 1)
}

// Dua checkout berebut unit terakhir: jalur decrement atomik menjamin tepat
// satu yang menang, yang kalah dapat error stok.
func TestConcurrentCheckoutLastUnit(t *testing.T) {
	store := newFakeStore()
	store.addProduct("pa", "Kertas A4", 1)

	carts := cart.NewStore()
	carts.Add("u1", cart.Item{ProductID: "pa", Name: "Kertas A4", Price: 10000, Qty: 1})
	carts.Add("u2", cart.Item{ProductID: "pa", Name: "Kertas A4", Price: 10000, Qty: 1})

	svc := newService(store, carts)

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for _, user := range []string{"u1", "u2"} {
		wg.Add(1)
		go func(user string) {
			defer wg.Done()
			_, err := svc.Checkout(context.Background(), Request{
				UserID: user, Phone: "0812", Address: "Jl. Melati 1", PaymentMethod: "cod",
			})
			errs <- err
		}(user)
	}
	wg.Wait()
	close(errs)

	var okCount, insufficientCount int
	for err := range errs {
		if err == nil {
			okCount++
			continue
		}
		var insufficient *orders.InsufficientStockError
		if errors.As(err, &insufficient) {
			insufficientCount++
		}
	}
	assert.Equal(t, 1, okCount)
	assert.Equal(t, 1, insufficientCount)
	assert.Equal(t, 0, store.stock["pa"])
	assert.Len(t, store.created, 1)
}
