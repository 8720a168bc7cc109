package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cahaya-atk/storefront/internal/auth"
	"github.com/cahaya-atk/storefront/internal/catalog"
	"github.com/cahaya-atk/storefront/internal/checkout"
	"github.com/cahaya-atk/storefront/internal/orders"
)

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError: satu pesan gabungan, tanpa kode error terstruktur.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, errorStatus(err), map[string]string{"error": err.Error()})
}

func errorStatus(err error) int {
	var insufficient *orders.InsufficientStockError
	switch {
	case errors.As(err, &insufficient),
		errors.Is(err, catalog.ErrReferenced),
		errors.Is(err, auth.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, orders.ErrNotFound),
		errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrMissingShipping),
		errors.Is(err, orders.ErrUnknownStatus),
		errors.Is(err, orders.ErrUnknownPayment):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
