package models

import (
	"bytes"
	"errors"

	"github.com/shopspring/decimal"
)

const (
	// PricePlaces is the number of fractional digits a price is stored with.
	PricePlaces = 2
	// PriceDigits is the total number of digits a price may have.
	PriceDigits = 7
)

var (
	ErrPriceNegative = errors.New("price must not be negative")
	ErrPriceTooLarge = errors.New("price has too many digits")
)

// maxPrice is the first value that no longer fits decimal(7,2).
var maxPrice = decimal.New(1, PriceDigits-PricePlaces)

type Book struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Price      Price  `json:"price"`
	AuthorName string `json:"author_name"`
	OwnerID    *int64 `json:"owner"`
}

// OwnedBy reports whether userID is the recorded owner.
func (b Book) OwnedBy(userID int64) bool {
	return b.OwnerID != nil && *b.OwnerID == userID
}

// Price is a decimal(7,2) amount. It serializes as a quoted string with
// exactly two fractional digits and accepts a JSON number or string.
type Price struct {
	decimal.Decimal
}

func NewPrice(d decimal.Decimal) Price {
	return Price{Decimal: d.Round(PricePlaces)}
}

// ParsePrice parses s, rounds it to two places and checks the column bounds.
func ParsePrice(s string) (Price, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Price{}, err
	}
	p := NewPrice(d)
	return p, p.Check()
}

// Check verifies the value fits a non-negative decimal(7,2).
func (p Price) Check() error {
	if p.IsNegative() {
		return ErrPriceNegative
	}
	if p.Round(PricePlaces).GreaterThanOrEqual(maxPrice) {
		return ErrPriceTooLarge
	}
	return nil
}

func (p Price) String() string {
	return p.StringFixed(PricePlaces)
}

func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

func (p *Price) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return errors.New("price may not be null")
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return err
	}
	*p = NewPrice(d)
	return nil
}
