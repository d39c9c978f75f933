// Package permissions decides who may change a book.
package permissions

import (
	"errors"

	"github.com/5w1tchy/books-store/internal/models"
)

var (
	ErrNotAuthenticated = errors.New("authentication required")
	ErrPermissionDenied = errors.New("permission denied")
)

// CheckBookWrite allows the owner and staff users.
func CheckBookWrite(p *models.Principal, b models.Book) error {
	switch {
	case p == nil:
		return ErrNotAuthenticated
	case p.IsStaff, b.OwnedBy(p.ID):
		return nil
	default:
		return ErrPermissionDenied
	}
}

// CheckCreate only needs an authenticated caller.
func CheckCreate(p *models.Principal) error {
	if p == nil {
		return ErrNotAuthenticated
	}
	return nil
}
