package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cahaya-atk/storefront/internal/auth"
	"github.com/cahaya-atk/storefront/internal/cart"
)

type cartResp struct {
	Items []cart.Item `json:"items"`
	Total int         `json:"total"`
}

func (a *API) getCart(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFrom(r.Context())
	items := a.Carts.Items(claims.UserID)
	writeJSON(w, http.StatusOK, cartResp{Items: items, Total: cart.Total(items)})
}

type addCartReq struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}

func (a *API) addCartItem(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFrom(r.Context())
	var req addCartReq
	if err := decodeJSON(r, &req); err != nil || req.ProductID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.Qty < 1 {
		req.Qty = 1
	}

	// Snapshot produk saat masuk keranjang; harga beku di sini.
	p, err := a.Catalog.Get(r.Context(), req.ProductID)
	if err != nil {
		writeError(w, err)
		return
	}
	a.Carts.Add(claims.UserID, cart.Item{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Category:  p.Category,
		ImageURL:  p.ImageURL,
		Qty:       req.Qty,
	})
	items := a.Carts.Items(claims.UserID)
	writeJSON(w, http.StatusOK, cartResp{Items: items, Total: cart.Total(items)})
}

type updateCartReq struct {
	Qty int `json:"qty"`
}

func (a *API) updateCartItem(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFrom(r.Context())
	var req updateCartReq
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if !a.Carts.SetQty(claims.UserID, chi.URLParam(r, "productID"), req.Qty) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "produk tidak ada di keranjang"})
		return
	}
	items := a.Carts.Items(claims.UserID)
	writeJSON(w, http.StatusOK, cartResp{Items: items, Total: cart.Total(items)})
}

func (a *API) removeCartItem(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFrom(r.Context())
	if !a.Carts.Remove(claims.UserID, chi.URLParam(r, "productID")) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "produk tidak ada di keranjang"})
		return
	}
	items := a.Carts.Items(claims.UserID)
	writeJSON(w, http.StatusOK, cartResp{Items: items, Total: cart.Total(items)})
}

func (a *API) clearCart(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFrom(r.Context())
	a.Carts.Clear(claims.UserID)
	writeJSON(w, http.StatusOK, cartResp{Items: []cart.Item{}, Total: 0})
}
