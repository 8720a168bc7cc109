package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cahaya-atk/storefront/internal/auth"
	"github.com/cahaya-atk/storefront/internal/checkout"
	"github.com/cahaya-atk/storefront/internal/orders"
)

type checkoutReq struct {
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	PaymentMethod string `json:"payment_method"`
}

type checkoutResp struct {
	OrderID     string `json:"order_id"`
	TotalAmount int    `json:"total_amount"`
	Status      string `json:"status"`
}

func (a *API) doCheckout(w http.ResponseWriter, r *http.Request) {
	ok := false
	defer func() { RecordOrderOperation("create", ok) }()

	claims, _ := auth.ClaimsFrom(r.Context())
	if claims.Role == auth.RoleAdmin {
		writeJSON(w, http.StatusForbidden,
			map[string]string{"error": "admin tidak diperbolehkan melakukan checkout"})
		return
	}

	var req checkoutReq
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	order, err := a.Checkout.Checkout(r.Context(), checkout.Request{
		UserID:        claims.UserID,
		Phone:         req.Phone,
		Address:       req.Address,
		PaymentMethod: req.PaymentMethod,
		TraceID:       r.Header.Get("X-Request-Id"),
	})
	if err != nil {
		writeJSON(w, errorStatus(err),
			map[string]string{"error": "gagal memproses pesanan: " + err.Error()})
		return
	}

	ok = true
	writeJSON(w, http.StatusCreated, checkoutResp{
		OrderID:     order.ID,
		TotalAmount: order.TotalAmount,
		Status:      string(order.Status),
	})
}

func (a *API) myOrders(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFrom(r.Context())
	list, err := a.Orders.ListByUser(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	if list == nil {
		list = []orders.Order{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (a *API) getOrder(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFrom(r.Context())
	order, err := a.Orders.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	// Pemilik atau admin; selain itu jawab not-found, bukan forbidden.
	if order.UserID != claims.UserID && claims.Role != auth.RoleAdmin {
		writeError(w, orders.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, order)
}
