package books

import (
	"context"
	"database/sql"
	"errors"

	"github.com/5w1tchy/books-store/internal/models"
)

func (s *Store) Get(ctx context.Context, id int64) (models.Book, error) {
	b, err := scanBook(s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books b WHERE b.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Book{}, ErrNotFound
	}
	return b, err
}

func (s *Store) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM books WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}
