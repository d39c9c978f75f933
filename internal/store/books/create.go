package books

import (
	"context"

	"github.com/5w1tchy/books-store/internal/models"
)

// Create inserts a book owned by ownerID and returns the stored row.
func (s *Store) Create(ctx context.Context, f Fields, ownerID int64) (models.Book, error) {
	return scanBook(s.db.QueryRowContext(ctx, `
		INSERT INTO books AS b (name, price, author_name, owner_id)
		VALUES ($1, $2, $3, $4)
		RETURNING `+bookColumns,
		f.Name, f.Price.String(), f.AuthorName, ownerID,
	))
}
