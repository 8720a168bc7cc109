package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type ctxKey struct{}

// ClaimsFrom mengambil claims yang disimpan RequireAuth di context request.
func ClaimsFrom(ctx context.Context) (Claims, bool) {
	c, ok := ctx.Value(ctxKey{}).(Claims)
	return c, ok
}

func writeAuthError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// RequireAuth memvalidasi header Authorization: Bearer <token>.
func (t *Tokens) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := r.Header.Get("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			writeAuthError(w, http.StatusUnauthorized, "silakan login terlebih dahulu")
			return
		}
		claims, err := t.Parse(strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			writeAuthError(w, http.StatusUnauthorized, "token tidak valid")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, claims)))
	})
}

// RequireAdmin dipasang setelah RequireAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFrom(r.Context())
		if !ok || claims.Role != RoleAdmin {
			writeAuthError(w, http.StatusForbidden, "khusus admin")
			return
		}
		next.ServeHTTP(w, r)
	})
}
