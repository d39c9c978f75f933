// Package auth registers users, issues access tokens and resolves
// bearer tokens back to a principal.
package auth

import (
	"context"
	"errors"

	"github.com/5w1tchy/books-store/internal/models"
	jwtutil "github.com/5w1tchy/books-store/internal/security/jwt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUsernameRequired   = errors.New("username is required")
)

// UserStore is the slice of the users table auth needs.
type UserStore interface {
	Create(ctx context.Context, username, passwordHash string, staff bool) (models.User, error)
	GetByID(ctx context.Context, id int64) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
}

// Hasher produces and checks password hashes.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(plain, phc string) (bool, error)
	NeedsRehash(phc string) bool
}

// TokenSigner issues and parses access tokens.
type TokenSigner interface {
	SignAccess(userID int64, staff bool) (string, string, error)
	ParseAccess(token string) (*jwtutil.AccessClaims, error)
}
