package books

import (
	"context"
	"database/sql"

	"github.com/5w1tchy/books-store/internal/store/dbx"
)

// Delete removes the book after guard accepts the locked row. Relations
// go with it through ON DELETE CASCADE.
func (s *Store) Delete(ctx context.Context, id int64, guard Guard) error {
	return dbx.WithinTx(ctx, s.db, func(tx *sql.Tx) error {
		current, err := lockBook(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := guard(current); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
		return err
	})
}
