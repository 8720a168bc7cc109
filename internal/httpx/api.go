package httpx

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/cahaya-atk/storefront/internal/auth"
	"github.com/cahaya-atk/storefront/internal/cart"
	"github.com/cahaya-atk/storefront/internal/catalog"
	"github.com/cahaya-atk/storefront/internal/checkout"
	kafkax "github.com/cahaya-atk/storefront/internal/kafka"
	"github.com/cahaya-atk/storefront/internal/orders"
)

// Port kecil per concern supaya handler bisa diuji dengan fake.

type ProfileStore interface {
	Create(ctx context.Context, email, passwordHash, fullName string) (auth.Profile, error)
	ByEmail(ctx context.Context, email string) (auth.Profile, string, error)
}

type CatalogStore interface {
	List(ctx context.Context, category, search string) ([]catalog.Product, error)
	Get(ctx context.Context, id string) (catalog.Product, error)
	Create(ctx context.Context, in catalog.ProductInput) (catalog.Product, error)
	Update(ctx context.Context, id string, in catalog.ProductInput) (catalog.Product, error)
	Delete(ctx context.Context, id string) error
}

type OrderStore interface {
	Get(ctx context.Context, orderID string) (orders.Order, error)
	ListByUser(ctx context.Context, userID string) ([]orders.Order, error)
	ListAll(ctx context.Context) ([]orders.Order, error)
	UpdateStatus(ctx context.Context, orderID string, st orders.Status) error
	Delete(ctx context.Context, orderID string) error
	Stats(ctx context.Context) (orders.Stats, error)
}

type API struct {
	Tokens   *auth.Tokens
	Profiles ProfileStore
	Catalog  CatalogStore
	Carts    *cart.Store
	Checkout *checkout.Service
	Orders   OrderStore

	Redis          *redis.Client
	ProducerStatus *kafkax.Producer // topic order.status.changed
	ProducerDelete *kafkax.Producer // topic order.deleted
	ServiceName    string
	Log            *slog.Logger
}

func (a *API) Register(r *chi.Mux) {
	r.Post("/auth/register", a.register)
	r.Post("/auth/login", a.login)

	r.Get("/products", a.listProducts)
	r.Get("/products/{id}", a.getProduct)

	// Rute pembeli (butuh login).
	r.Group(func(r chi.Router) {
		r.Use(a.Tokens.RequireAuth)
		r.Get("/cart", a.getCart)
		r.Post("/cart/items", a.addCartItem)
		r.Put("/cart/items/{productID}", a.updateCartItem)
		r.Delete("/cart/items/{productID}", a.removeCartItem)
		r.Delete("/cart", a.clearCart)

		r.Post("/checkout", a.doCheckout)
		r.Get("/orders", a.myOrders)
		r.Get("/orders/{id}", a.getOrder)
	})

	// Back-office.
	r.Route("/admin", func(r chi.Router) {
		r.Use(a.Tokens.RequireAuth, auth.RequireAdmin)
		r.Post("/products", a.createProduct)
		r.Put("/products/{id}", a.updateProduct)
		r.Delete("/products/{id}", a.deleteProduct)

		r.Get("/orders", a.adminOrders)
		r.Put("/orders/{id}/status", a.updateOrderStatus)
		r.Delete("/orders/{id}", a.deleteOrder)

		r.Get("/dashboard", a.dashboard)
	})
}
