package relations

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/5w1tchy/books-store/internal/models"
)

var (
	ErrNotFound     = errors.New("relation not found")
	ErrBookNotFound = errors.New("book not found")
)

// Store reads and writes user_book_relations.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const relationColumns = `r.user_id, r.book_id, r.liked, r.in_bookmarks, r.rate, r.updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRelation(row scanner) (models.UserBookRelation, error) {
	var (
		rel  models.UserBookRelation
		rate sql.NullInt16
	)
	if err := row.Scan(&rel.UserID, &rel.BookID, &rel.Like, &rel.InBookmarks, &rate, &rel.UpdatedAt); err != nil {
		return models.UserBookRelation{}, err
	}
	if rate.Valid {
		v := int(rate.Int16)
		rel.Rate = &v
	}
	return rel, nil
}

func (s *Store) Get(ctx context.Context, userID, bookID int64) (models.UserBookRelation, error) {
	rel, err := scanRelation(s.db.QueryRowContext(ctx, `
		SELECT `+relationColumns+`
		FROM user_book_relations r
		WHERE r.user_id = $1 AND r.book_id = $2`, userID, bookID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.UserBookRelation{}, ErrNotFound
	}
	return rel, err
}

// Upsert creates the (user, book) row on first touch and merges p into it.
// A single statement keeps concurrent first touches down to one row.
func (s *Store) Upsert(ctx context.Context, userID, bookID int64, p models.RelationPatch) (models.UserBookRelation, error) {
	rel, err := scanRelation(s.db.QueryRowContext(ctx, `
		INSERT INTO user_book_relations AS r (user_id, book_id, liked, in_bookmarks, rate, updated_at)
		VALUES ($1, $2, COALESCE($3::boolean, FALSE), COALESCE($4::boolean, FALSE), $5::smallint, NOW())
		ON CONFLICT (user_id, book_id) DO UPDATE SET
			liked        = COALESCE($3::boolean, r.liked),
			in_bookmarks = COALESCE($4::boolean, r.in_bookmarks),
			rate         = COALESCE($5::smallint, r.rate),
			updated_at   = NOW()
		RETURNING `+relationColumns,
		userID, bookID, boolArg(p.Like), boolArg(p.InBookmarks), intArg(p.Rate),
	))
	var pg *pgconn.PgError
	if errors.As(err, &pg) && pg.Code == "23503" && pg.ConstraintName == "user_book_relations_book_id_fkey" {
		return models.UserBookRelation{}, ErrBookNotFound
	}
	return rel, err
}

func boolArg(b *bool) any {
	if b == nil {
		return nil
	}
	return *b
}

func intArg(n *int) any {
	if n == nil {
		return nil
	}
	return int64(*n)
}
