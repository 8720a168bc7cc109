// Package cart menyimpan keranjang belanja per user di memori.
// Satu penulis per sesi; isinya snapshot produk + qty dan hangus saat
// checkout sukses, clear eksplisit, atau restart proses.
package cart

import "sync"

// Item adalah snapshot produk saat dimasukkan keranjang. Harga dibekukan
// di sini dan nanti dibawa ke order sebagai price_at_time.
type Item struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     int    `json:"price"`
	Category  string `json:"category"`
	ImageURL  string `json:"image_url"`
	Qty       int    `json:"qty"`
}

type Store struct {
	mu    sync.RWMutex
	carts map[string][]Item
}

func NewStore() *Store {
	return &Store{carts: make(map[string][]Item)}
}

// Items mengembalikan salinan isi keranjang user.
func (s *Store) Items(userID string) []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := s.carts[userID]
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

// Add menambahkan item; kalau produk sudah ada di keranjang, qty diakumulasi
// dan snapshot lama dipertahankan.
func (s *Store) Add(userID string, it Item) {
	if it.Qty < 1 {
		it.Qty = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.carts[userID]
	for i := range items {
		if items[i].ProductID == it.ProductID {
			items[i].Qty += it.Qty
			return
		}
	}
	s.carts[userID] = append(items, it)
}

// SetQty mengubah jumlah; qty <= 0 berarti hapus baris.
// Return false kalau produk tidak ada di keranjang.
func (s *Store) SetQty(userID, productID string, qty int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.carts[userID]
	for i := range items {
		if items[i].ProductID == productID {
			if qty <= 0 {
				s.carts[userID] = append(items[:i], items[i+1:]...)
			} else {
				items[i].Qty = qty
			}
			return true
		}
	}
	return false
}

func (s *Store) Remove(userID, productID string) bool {
	return s.SetQty(userID, productID, 0)
}

func (s *Store) Clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
}

// Total menjumlahkan qty * harga snapshot.
func Total(items []Item) int {
	total := 0
	for _, it := range items {
		total += it.Price * it.Qty
	}
	return total
}
