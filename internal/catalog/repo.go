package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound = errors.New("produk tidak ditemukan")

	// ErrReferenced: produk sudah pernah dipesan, historis order harus tetap utuh.
	ErrReferenced = errors.New("produk ini sudah pernah dipesan oleh pelanggan")
)

type Repo struct{ DB *pgxpool.Pool }

const productCols = `id, name, description, price, stock, category, image_url, created_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Category, &p.ImageURL, &p.CreatedAt)
	return p, err
}

func (r *Repo) List(ctx context.Context, category, search string) ([]Product, error) {
	q := `SELECT ` + productCols + ` FROM products`
	args := []any{}
	where := ""
	if category != "" {
		args = append(args, category)
		where = fmt.Sprintf(" WHERE category = $%d", len(args))
	}
	if search != "" {
		args = append(args, "%"+search+"%")
		if where == "" {
			where = fmt.Sprintf(" WHERE name ILIKE $%d", len(args))
		} else {
			where += fmt.Sprintf(" AND name ILIKE $%d", len(args))
		}
	}
	rows, err := r.DB.Query(ctx, q+where+` ORDER BY created_at DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id string) (Product, error) {
	p, err := scanProduct(r.DB.QueryRow(ctx,
		`SELECT `+productCols+` FROM products WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	return p, err
}

func (r *Repo) Create(ctx context.Context, in ProductInput) (Product, error) {
	id := uuid.NewString()
	p, err := scanProduct(r.DB.QueryRow(ctx, `
		INSERT INTO products (id, name, description, price, stock, category, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+productCols,
		id, in.Name, in.Description, in.Price, in.Stock, in.Category, in.ImageURL))
	return p, err
}

func (r *Repo) Update(ctx context.Context, id string, in ProductInput) (Product, error) {
	p, err := scanProduct(r.DB.QueryRow(ctx, `
		UPDATE products
		SET name=$2, description=$3, price=$4, stock=$5, category=$6, image_url=$7
		WHERE id=$1
		RETURNING `+productCols,
		id, in.Name, in.Description, in.Price, in.Stock, in.Category, in.ImageURL))
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	return p, err
}

// Delete menolak hapus kalau produk dirujuk order_items (cek dulu, baru hapus).
func (r *Repo) Delete(ctx context.Context, id string) error {
	var n int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM (SELECT 1 FROM order_items WHERE product_id=$1 LIMIT 1) t`, id).Scan(&n)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrReferenced
	}
	ct, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
