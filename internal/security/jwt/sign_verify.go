package jwtutil

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Signer issues and verifies HS256 access tokens.
type Signer struct {
	secret    []byte
	clockSkew time.Duration
	ttl       time.Duration
}

func NewSigner(secret []byte, clockSkew, ttl time.Duration) *Signer {
	return &Signer{secret: secret, clockSkew: clockSkew, ttl: ttl}
}

// SignAccess returns (tokenString, jti).
func (s *Signer) SignAccess(userID int64, staff bool) (string, string, error) {
	jti, err := randJTI()
	if err != nil {
		return "", "", err
	}
	claims := NewAccessClaims(userID, staff, jti, s.ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tok, err := t.SignedString(s.secret)
	return tok, jti, err
}

// ParseAccess verifies HS256 signature and leeway, returning claims.
func (s *Signer) ParseAccess(tokenStr string) (*AccessClaims, error) {
	parser := jwt.NewParser(jwt.WithLeeway(s.clockSkew), jwt.WithValidMethods([]string{"HS256"}))
	token, err := parser.ParseWithClaims(tokenStr, &AccessClaims{}, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if _, err := claims.UserID(); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func randJTI() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}
