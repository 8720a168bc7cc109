package catalog

import "time"

// Kategori tetap, mengikuti rak toko.
const (
	CategoryKertas  = "Kertas"
	CategoryPena    = "Pena & Pensil"
	CategoryBuku    = "Buku"
	CategoryArsip   = "Arsip"
	CategoryLainnya = "Lainnya"
)

var Categories = []string{CategoryKertas, CategoryPena, CategoryBuku, CategoryArsip, CategoryLainnya}

func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       int       `json:"price"` // rupiah, bulat
	Stock       int       `json:"stock"`
	Category    string    `json:"category"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
}

type ProductInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int    `json:"price"`
	Stock       int    `json:"stock"`
	Category    string `json:"category"`
	ImageURL    string `json:"image_url"`
}
