package books

import (
	"database/sql"
	"errors"

	"github.com/5w1tchy/books-store/internal/models"
)

var ErrNotFound = errors.New("book not found")

// Store reads and writes the books table.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Fields is a complete set of writable book columns.
type Fields struct {
	Name       string
	Price      models.Price
	AuthorName string
}

// Patch holds the fields present in a partial update.
type Patch struct {
	Name       *string
	Price      *models.Price
	AuthorName *string
}

// Apply returns b with every non-nil patch field written over it.
func (p Patch) Apply(b models.Book) models.Book {
	if p.Name != nil {
		b.Name = *p.Name
	}
	if p.Price != nil {
		b.Price = *p.Price
	}
	if p.AuthorName != nil {
		b.AuthorName = *p.AuthorName
	}
	return b
}

// Mutator inspects the locked current row and returns the row to store.
// Returning an error aborts the transaction unchanged.
type Mutator func(current models.Book) (models.Book, error)

// Guard inspects the locked current row before a delete.
type Guard func(current models.Book) error

const bookColumns = `b.id, b.name, b.price, b.author_name, b.owner_id`

type scanner interface {
	Scan(dest ...any) error
}

func scanBook(row scanner) (models.Book, error) {
	var (
		b     models.Book
		owner sql.NullInt64
	)
	if err := row.Scan(&b.ID, &b.Name, &b.Price, &b.AuthorName, &owner); err != nil {
		return models.Book{}, err
	}
	if owner.Valid {
		id := owner.Int64
		b.OwnerID = &id
	}
	return b, nil
}
