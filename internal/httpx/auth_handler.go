package httpx

import (
	"net/http"
	"strings"

	"github.com/cahaya-atk/storefront/internal/auth"
)

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResp struct {
	Token   string       `json:"token"`
	Profile auth.Profile `json:"profile"`
}

func (a *API) register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if !strings.Contains(req.Email, "@") || len(req.Password) < 6 {
		writeJSON(w, http.StatusBadRequest,
			map[string]string{"error": "email tidak valid atau password kurang dari 6 karakter"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	profile, err := a.Profiles.Create(r.Context(), req.Email, hash, req.FullName)
	if err != nil {
		writeError(w, err)
		return
	}
	token, err := a.Tokens.Issue(profile)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResp{Token: token, Profile: profile})
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	profile, hash, err := a.Profiles.ByEmail(r.Context(), req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	if !auth.CheckPassword(hash, req.Password) {
		writeError(w, auth.ErrInvalidCredentials)
		return
	}
	token, err := a.Tokens.Issue(profile)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, authResp{Token: token, Profile: profile})
}
