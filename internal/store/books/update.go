package books

import (
	"context"
	"database/sql"
	"errors"

	"github.com/5w1tchy/books-store/internal/models"
	"github.com/5w1tchy/books-store/internal/store/dbx"
)

func lockBook(ctx context.Context, tx *sql.Tx, id int64) (models.Book, error) {
	b, err := scanBook(tx.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books b WHERE b.id = $1 FOR UPDATE`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Book{}, ErrNotFound
	}
	return b, err
}

// Update locks the row, hands it to mutate and writes back what mutate
// returns. The owner column is never changed here.
func (s *Store) Update(ctx context.Context, id int64, mutate Mutator) (models.Book, error) {
	var out models.Book
	err := dbx.WithinTx(ctx, s.db, func(tx *sql.Tx) error {
		current, err := lockBook(ctx, tx, id)
		if err != nil {
			return err
		}
		next, err := mutate(current)
		if err != nil {
			return err
		}
		out, err = scanBook(tx.QueryRowContext(ctx, `
			UPDATE books AS b
			SET name = $1, price = $2, author_name = $3, updated_at = NOW()
			WHERE b.id = $4
			RETURNING `+bookColumns,
			next.Name, next.Price.String(), next.AuthorName, id,
		))
		return err
	})
	return out, err
}
