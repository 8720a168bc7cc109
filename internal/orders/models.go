package orders

import (
	"fmt"
	"time"
)

type Order struct {
	ID            string        `json:"id"`
	UserID        string        `json:"user_id"`
	TotalAmount   int           `json:"total_amount"`
	Status        Status        `json:"status"`
	Phone         string        `json:"phone"`
	Address       string        `json:"address"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	CreatedAt     time.Time     `json:"created_at"`
	Items         []Item        `json:"order_items,omitempty"`
}

// Item membawa harga beku saat pembelian; edit harga katalog belakangan
// tidak mengubah histori.
type Item struct {
	ID          string  `json:"id"`
	OrderID     string  `json:"order_id"`
	ProductID   string  `json:"product_id"`
	Quantity    int     `json:"quantity"`
	PriceAtTime int     `json:"price_at_time"`
	ProductName *string `json:"product_name,omitempty"`
	ProductImg  *string `json:"product_image,omitempty"`
}

// LineInput adalah satu baris checkout yang sudah tervalidasi, diambil dari
// snapshot keranjang (harga TIDAK dibaca ulang dari katalog).
type LineInput struct {
	ProductID   string
	Quantity    int
	PriceAtTime int
}

type CheckoutInput struct {
	UserID        string
	Phone         string
	Address       string
	PaymentMethod PaymentMethod
	Lines         []LineInput
}

// Total menghitung sum(qty * price_at_time); jumlah inilah yang ditulis ke
// kolom total_amount.
func (in CheckoutInput) Total() int {
	total := 0
	for _, l := range in.Lines {
		total += l.Quantity * l.PriceAtTime
	}
	return total
}

// InsufficientStockError menyebut produk yang kurang dan sisa stoknya,
// dipakai baik oleh validator maupun decrement transaksional.
type InsufficientStockError struct {
	ProductID string
	Name      string
	Requested int
	Remaining int
}

func (e *InsufficientStockError) Error() string {
	name := e.Name
	if name == "" {
		name = e.ProductID
	}
	return fmt.Sprintf("stok tidak mencukupi untuk %s. tersisa: %d", name, e.Remaining)
}

type Stats struct {
	TotalProducts int     `json:"total_products"`
	TotalOrders   int     `json:"total_orders"`
	TotalUsers    int     `json:"total_users"`
	TotalRevenue  int     `json:"total_revenue"`
	RecentOrders  []Order `json:"recent_orders"`
}
