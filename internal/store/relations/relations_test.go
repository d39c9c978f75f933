package relations

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/5w1tchy/books-store/internal/models"
)

var cols = []string{"user_id", "book_id", "liked", "in_bookmarks", "rate", "updated_at"}

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

func ptr[T any](v T) *T { return &v }

func TestUpsert_FirstTouchCreatesRow(t *testing.T) {
	s, mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`ON CONFLICT (user_id, book_id) DO UPDATE SET`)).
		WithArgs(int64(1), int64(2), true, nil, nil).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(int64(1), int64(2), true, false, nil, now))

	rel, err := s.Upsert(context.Background(), 1, 2, models.RelationPatch{Like: ptr(true)})
	require.NoError(t, err)
	assert.True(t, rel.Like)
	assert.False(t, rel.InBookmarks)
	assert.Nil(t, rel.Rate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsert_SecondPatchKeepsEarlierFields(t *testing.T) {
	s, mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO user_book_relations AS r`)).
		WithArgs(int64(1), int64(2), nil, true, nil).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(int64(1), int64(2), true, true, nil, now))

	rel, err := s.Upsert(context.Background(), 1, 2, models.RelationPatch{InBookmarks: ptr(true)})
	require.NoError(t, err)
	assert.True(t, rel.Like)
	assert.True(t, rel.InBookmarks)
}

func TestUpsert_Rate(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`rate = COALESCE($5::smallint, r.rate)`)).
		WithArgs(int64(1), int64(2), nil, nil, int64(3)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(int64(1), int64(2), false, false, int64(3), time.Now()))

	rel, err := s.Upsert(context.Background(), 1, 2, models.RelationPatch{Rate: ptr(3)})
	require.NoError(t, err)
	require.NotNil(t, rel.Rate)
	assert.Equal(t, 3, *rel.Rate)
}

func TestUpsert_MissingBook(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO user_book_relations`)).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "user_book_relations_book_id_fkey"})

	_, err := s.Upsert(context.Background(), 1, 99, models.RelationPatch{Like: ptr(true)})
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestGet_NotFound(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE r.user_id = $1 AND r.book_id = $2`)).
		WithArgs(int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows(cols))

	_, err := s.Get(context.Background(), 1, 2)
	assert.ErrorIs(t, err, ErrNotFound)
}
