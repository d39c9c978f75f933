package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/5w1tchy/books-store/internal/models"
	"github.com/5w1tchy/books-store/internal/store/users"
)

type Service struct {
	Users  UserStore
	Hasher Hasher
	Tokens TokenSigner
	Log    *zap.Logger
}

// Register creates a user with a hashed password.
func (s *Service) Register(ctx context.Context, username, plain string, staff bool) (models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return models.User{}, ErrUsernameRequired
	}
	hash, err := s.Hasher.Hash(plain)
	if err != nil {
		return models.User{}, err
	}
	return s.Users.Create(ctx, username, hash, staff)
}

// IssueToken checks the credentials and signs an access token. Hashes
// made with weaker params are upgraded on the way.
func (s *Service) IssueToken(ctx context.Context, username, plain string) (string, error) {
	u, err := s.Users.GetByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, users.ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}
	ok, err := s.Hasher.Verify(plain, u.PasswordHash)
	if err != nil || !ok {
		return "", ErrInvalidCredentials
	}
	if s.Hasher.NeedsRehash(u.PasswordHash) {
		if phc, err := s.Hasher.Hash(plain); err == nil {
			if err := s.Users.UpdatePasswordHash(ctx, u.ID, phc); err != nil && s.Log != nil {
				s.Log.Warn("password rehash failed", zap.Int64("user_id", u.ID), zap.Error(err))
			}
		}
	}
	tok, _, err := s.Tokens.SignAccess(u.ID, u.IsStaff)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return tok, nil
}

// Authenticate resolves a bearer token to the current user row, so a
// staff flag revoked after issue is honoured.
func (s *Service) Authenticate(ctx context.Context, token string) (*models.Principal, error) {
	claims, err := s.Tokens.ParseAccess(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	id, err := claims.UserID()
	if err != nil {
		return nil, ErrInvalidToken
	}
	u, err := s.Users.GetByID(ctx, id)
	if errors.Is(err, users.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	return models.PrincipalOf(u), nil
}
