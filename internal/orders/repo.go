package orders

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("pesanan tidak ditemukan")

type Repo struct{ DB *pgxpool.Pool }

// ProductStock membaca stok terkini satu produk (dipakai validator pra-checkout).
func (r *Repo) ProductStock(ctx context.Context, productID string) (name string, stock int, err error) {
	err = r.DB.QueryRow(ctx,
		`SELECT name, stock FROM products WHERE id=$1`, productID).Scan(&name, &stock)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", 0, ErrNotFound
	}
	return name, stock, err
}

// CreateOrder menulis header + decrement stok + item dalam SATU transaksi.
// Stok dikurangi duluan lewat lock per baris produk (FOR UPDATE) lalu update
// bersyarat; kekurangan stok pada item mana pun membatalkan seluruhnya,
// jadi tidak ada state parsial dan stok tidak pernah negatif. Dua checkout
// bersamaan memperebutkan unit terakhir: tepat satu yang commit.
//
// Urutan di dalam transaksi penting: FK order_items -> products mengambil
// lock KEY SHARE saat insert, dan dua transaksi yang sama-sama sudah pegang
// KEY SHARE akan saling tunggu waktu minta FOR UPDATE (deadlock). Makanya
// semua lock produk diambil dulu, insert item belakangan. Lock juga diambil
// terurut per product id supaya dua keranjang dengan urutan berlawanan tidak
// saling silang.
func (r *Repo) CreateOrder(ctx context.Context, in CheckoutInput) (Order, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Order{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	o := Order{
		ID:            uuid.NewString(),
		UserID:        in.UserID,
		TotalAmount:   in.Total(),
		Status:        StatusPending,
		Phone:         in.Phone,
		Address:       in.Address,
		PaymentMethod: in.PaymentMethod,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (id, user_id, total_amount, status, phone, address, payment_method)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`,
		o.ID, o.UserID, o.TotalAmount, o.Status, o.Phone, o.Address, o.PaymentMethod).
		Scan(&o.CreatedAt)
	if err != nil {
		return Order{}, err
	}

	locked := make([]LineInput, len(in.Lines))
	copy(locked, in.Lines)
	sort.Slice(locked, func(i, j int) bool { return locked[i].ProductID < locked[j].ProductID })

	for _, l := range locked {
		var name string
		var stock int
		err := tx.QueryRow(ctx,
			`SELECT name, stock FROM products WHERE id=$1 FOR UPDATE`, l.ProductID).
			Scan(&name, &stock)
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		if err != nil {
			return Order{}, err
		}
		if stock < l.Quantity {
			return Order{}, &InsufficientStockError{
				ProductID: l.ProductID, Name: name,
				Requested: l.Quantity, Remaining: stock,
			}
		}
		if _, err := tx.Exec(ctx,
			`UPDATE products SET stock = stock - $2 WHERE id=$1`, l.ProductID, l.Quantity); err != nil {
			return Order{}, err
		}
	}

	// Item ditulis dalam urutan keranjang, setelah semua stok aman terkunci.
	for _, l := range in.Lines {
		it := Item{
			ID:          uuid.NewString(),
			OrderID:     o.ID,
			ProductID:   l.ProductID,
			Quantity:    l.Quantity,
			PriceAtTime: l.PriceAtTime,
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, product_id, quantity, price_at_time)
			VALUES ($1, $2, $3, $4, $5)`,
			it.ID, it.OrderID, it.ProductID, it.Quantity, it.PriceAtTime); err != nil {
			return Order{}, err
		}
		o.Items = append(o.Items, it)
	}

	if err := tx.Commit(ctx); err != nil {
		return Order{}, err
	}
	return o, nil
}

// UpdateStatus bebas transisi; update ke nilai yang sama tetap sukses.
func (r *Repo) UpdateStatus(ctx context.Context, orderID string, st Status) error {
	ct, err := r.DB.Exec(ctx, `UPDATE orders SET status=$2 WHERE id=$1`, orderID, st)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete menghapus item lalu header dalam satu transaksi, jadi gagal di
// tengah tidak meninggalkan header yatim.
func (r *Repo) Delete(ctx context.Context, orderID string) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id=$1`, orderID); err != nil {
		return err
	}
	ct, err := tx.Exec(ctx, `DELETE FROM orders WHERE id=$1`, orderID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}

func (r *Repo) Get(ctx context.Context, orderID string) (Order, error) {
	list, err := r.list(ctx, `WHERE o.id=$1`, orderID)
	if err != nil {
		return Order{}, err
	}
	if len(list) == 0 {
		return Order{}, ErrNotFound
	}
	return list[0], nil
}

func (r *Repo) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	return r.list(ctx, `WHERE o.user_id=$1`, userID)
}

func (r *Repo) ListAll(ctx context.Context) ([]Order, error) {
	return r.list(ctx, ``)
}

// list mengambil order + item + info produk dalam satu query, lalu
// dikelompokkan per order (urutan terbaru dulu).
func (r *Repo) list(ctx context.Context, where string, args ...any) ([]Order, error) {
	q := `
		SELECT o.id, o.user_id, o.total_amount, o.status, o.phone, o.address,
		       o.payment_method, o.created_at,
		       i.id, i.product_id, i.quantity, i.price_at_time,
		       p.name, p.image_url
		FROM orders o
		LEFT JOIN order_items i ON i.order_id = o.id
		LEFT JOIN products p ON p.id = i.product_id
		` + where + `
		ORDER BY o.created_at DESC, o.id, i.id`
	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := map[string]*Order{}
	var ordered []string
	for rows.Next() {
		var o Order
		var itemID, productID *string
		var qty, price *int
		var pname, pimg *string
		if err := rows.Scan(
			&o.ID, &o.UserID, &o.TotalAmount, &o.Status, &o.Phone, &o.Address,
			&o.PaymentMethod, &o.CreatedAt,
			&itemID, &productID, &qty, &price,
			&pname, &pimg,
		); err != nil {
			return nil, err
		}
		cur, ok := byID[o.ID]
		if !ok {
			cur = &o
			byID[o.ID] = cur
			ordered = append(ordered, o.ID)
		}
		if itemID != nil {
			cur.Items = append(cur.Items, Item{
				ID:          *itemID,
				OrderID:     cur.ID,
				ProductID:   *productID,
				Quantity:    *qty,
				PriceAtTime: *price,
				ProductName: pname,
				ProductImg:  pimg,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]Order, 0, len(ordered))
	for _, id := range ordered {
		out = append(out, *byID[id])
	}
	return out, nil
}

// Stats merangkum angka dashboard admin; pendapatan tidak menghitung
// pesanan cancelled.
func (r *Repo) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	err := r.DB.QueryRow(ctx, `
		SELECT (SELECT COUNT(*) FROM products),
		       (SELECT COUNT(*) FROM orders),
		       (SELECT COUNT(*) FROM profiles),
		       COALESCE((SELECT SUM(total_amount) FROM orders WHERE status <> 'cancelled'), 0)`).
		Scan(&s.TotalProducts, &s.TotalOrders, &s.TotalUsers, &s.TotalRevenue)
	if err != nil {
		return Stats{}, err
	}
	recent, err := r.list(ctx,
		`WHERE o.id IN (SELECT id FROM orders ORDER BY created_at DESC LIMIT 5)`)
	if err != nil {
		return Stats{}, err
	}
	s.RecentOrders = recent
	return s, nil
}
