package users

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/5w1tchy/books-store/internal/models"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
)

type Store struct {
	DB *sql.DB
}

func New(db *sql.DB) *Store { return &Store{DB: db} }

const userColumns = `id, username, password_hash, is_staff, created_at`

func scanUser(row *sql.Row) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsStaff, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	return u, err
}

func (s *Store) Create(ctx context.Context, username, passwordHash string, staff bool) (models.User, error) {
	const q = `
		INSERT INTO users (username, password_hash, is_staff)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, q, username, passwordHash, staff))
	var pg *pgconn.PgError
	if errors.As(err, &pg) && pg.Code == "23505" {
		return models.User{}, ErrUsernameTaken
	}
	return u, err
}

func (s *Store) GetByID(ctx context.Context, id int64) (models.User, error) {
	return scanUser(s.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (s *Store) GetByUsername(ctx context.Context, username string) (models.User, error) {
	return scanUser(s.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1 LIMIT 1`, username))
}

func (s *Store) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	_, err := s.DB.ExecContext(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, hash, id)
	return err
}
