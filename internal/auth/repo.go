package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrEmailTaken         = errors.New("email sudah terdaftar")
	ErrInvalidCredentials = errors.New("email atau password salah")
)

type Repo struct{ DB *pgxpool.Pool }

// Create mendaftarkan profil baru; role selalu buyer, admin dibuat manual di DB.
func (r *Repo) Create(ctx context.Context, email, passwordHash, fullName string) (Profile, error) {
	p := Profile{
		ID:       uuid.NewString(),
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Role:     RoleBuyer,
		FullName: fullName,
	}
	err := r.DB.QueryRow(ctx, `
		INSERT INTO profiles (id, email, password_hash, role, full_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		p.ID, p.Email, passwordHash, p.Role, p.FullName).Scan(&p.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Profile{}, ErrEmailTaken
		}
		return Profile{}, err
	}
	return p, nil
}

// ByEmail mengembalikan profil plus hash password untuk verifikasi login.
func (r *Repo) ByEmail(ctx context.Context, email string) (Profile, string, error) {
	var p Profile
	var hash string
	err := r.DB.QueryRow(ctx, `
		SELECT id, email, password_hash, role, full_name, created_at
		FROM profiles WHERE email=$1`,
		strings.ToLower(strings.TrimSpace(email))).
		Scan(&p.ID, &p.Email, &hash, &p.Role, &p.FullName, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, "", ErrInvalidCredentials
	}
	if err != nil {
		return Profile{}, "", err
	}
	return p, hash, nil
}
