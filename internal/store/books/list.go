package books

import (
	"context"
	"strings"

	"github.com/5w1tchy/books-store/internal/models"
	"github.com/5w1tchy/books-store/internal/store/dbx"
	"github.com/5w1tchy/books-store/internal/validate"
)

var orderColumns = map[validate.OrderField]string{
	validate.OrderByID:         "b.id",
	validate.OrderByPrice:      "b.price",
	validate.OrderByAuthorName: "b.author_name",
}

// buildListQuery renders the SELECT for lq.
func buildListQuery(lq validate.ListQuery) (string, []any) {
	var (
		args  dbx.Args
		where []string
	)

	if lq.Search != "" {
		p := args.Add("%" + dbx.EscapeLike(lq.Search) + "%")
		where = append(where, `(b.name ILIKE `+p+` ESCAPE '\' OR b.author_name ILIKE `+p+` ESCAPE '\')`)
	}
	if lq.Price != nil {
		where = append(where, "b.price = "+args.Add(lq.Price.String()))
	}

	q := "SELECT " + bookColumns + " FROM books b"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}

	col, ok := orderColumns[lq.OrderBy]
	if !ok {
		col = orderColumns[validate.OrderByID]
	}
	dir := " ASC"
	if lq.Desc {
		dir = " DESC"
	}
	q += " ORDER BY " + col + dir
	if col != "b.id" {
		q += ", b.id ASC"
	}
	return q, args.Values()
}

// List returns every book matching lq, in lq's order. No match is an empty slice.
func (s *Store) List(ctx context.Context, lq validate.ListQuery) ([]models.Book, error) {
	q, args := buildListQuery(lq)
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
