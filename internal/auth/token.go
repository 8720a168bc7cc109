package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("token tidak valid")

type Claims struct {
	UserID string
	Email  string
	Role   Role
}

// Tokens menerbitkan dan memverifikasi bearer token HS256.
type Tokens struct {
	Secret []byte
	TTL    time.Duration
}

func (t *Tokens) Issue(p Profile) (string, error) {
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   p.ID,
		"email": p.Email,
		"role":  string(p.Role),
		"iat":   now.Unix(),
		"exp":   now.Add(t.TTL).Unix(),
	})
	return tok.SignedString(t.Secret)
}

func (t *Tokens) Parse(tokenString string) (Claims, error) {
	tok, err := jwt.Parse(tokenString, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return t.Secret, nil
	})
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	sub, _ := mc["sub"].(string)
	email, _ := mc["email"].(string)
	role, _ := mc["role"].(string)
	if sub == "" || role == "" {
		return Claims{}, ErrInvalidToken
	}
	return Claims{UserID: sub, Email: email, Role: Role(role)}, nil
}
