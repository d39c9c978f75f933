package books

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/5w1tchy/books-store/internal/api/httpx"
	"github.com/5w1tchy/books-store/internal/models"
	storebooks "github.com/5w1tchy/books-store/internal/store/books"
	"github.com/5w1tchy/books-store/internal/validate"
)

const (
	fieldName       = "name"
	fieldPrice      = "price"
	fieldAuthorName = "author_name"
)

const (
	msgRequired    = "This field is required."
	msgNull        = "This field may not be null."
	msgBlank       = "This field may not be blank."
	msgString      = "Not a valid string."
	msgNumber      = "A valid number is required."
	msgNegative    = "Ensure this value is greater than or equal to 0."
	msgDigits      = "Ensure that there are no more than 7 digits in total."
	msgNotAnObject = "Invalid data. Expected a dictionary."
)

// bookText carries the cleaned string fields through the validator for
// the length rules.
type bookText struct {
	Name       string `json:"name" validate:"omitempty,max=255"`
	AuthorName string `json:"author_name" validate:"omitempty,max=255"`
}

// decodeBook reads a book body. With partial unset every field is
// required (create, PUT); otherwise only present fields are checked.
// Unknown keys, including id and owner, are ignored.
func (h *Handler) decodeBook(r *http.Request, partial bool) (storebooks.Patch, error) {
	var raw map[string]json.RawMessage
	err := httpx.DecodeJSON(r, &raw)
	var ute *json.UnmarshalTypeError
	switch {
	case err == nil:
	case partial && errors.Is(err, httpx.ErrEmptyBody):
	case errors.As(err, &ute):
		return storebooks.Patch{}, validate.FieldErrors{"non_field_errors": {msgNotAnObject}}
	default:
		return storebooks.Patch{}, err
	}

	var (
		p  storebooks.Patch
		fe = validate.FieldErrors{}
	)
	p.Name = stringField(raw, fieldName, partial, fe)
	p.AuthorName = stringField(raw, fieldAuthorName, partial, fe)
	p.Price = priceField(raw, partial, fe)

	var text bookText
	if p.Name != nil {
		text.Name = *p.Name
	}
	if p.AuthorName != nil {
		text.AuthorName = *p.AuthorName
	}
	for k, msgs := range h.validator.Struct(text) {
		for _, m := range msgs {
			fe.Add(k, m)
		}
	}
	return p, fe.OrNil()
}

func stringField(raw map[string]json.RawMessage, key string, partial bool, fe validate.FieldErrors) *string {
	msg, ok := raw[key]
	if !ok {
		if !partial {
			fe.Add(key, msgRequired)
		}
		return nil
	}
	if string(msg) == "null" {
		fe.Add(key, msgNull)
		return nil
	}
	var s string
	if err := json.Unmarshal(msg, &s); err != nil {
		fe.Add(key, msgString)
		return nil
	}
	s = validate.Clean(s)
	if s == "" {
		fe.Add(key, msgBlank)
		return nil
	}
	return &s
}

func priceField(raw map[string]json.RawMessage, partial bool, fe validate.FieldErrors) *models.Price {
	msg, ok := raw[fieldPrice]
	if !ok {
		if !partial {
			fe.Add(fieldPrice, msgRequired)
		}
		return nil
	}
	if string(msg) == "null" {
		fe.Add(fieldPrice, msgNull)
		return nil
	}
	var p models.Price
	if err := json.Unmarshal(msg, &p); err != nil {
		fe.Add(fieldPrice, msgNumber)
		return nil
	}
	switch err := p.Check(); {
	case errors.Is(err, models.ErrPriceNegative):
		fe.Add(fieldPrice, msgNegative)
		return nil
	case errors.Is(err, models.ErrPriceTooLarge):
		fe.Add(fieldPrice, msgDigits)
		return nil
	}
	return &p
}

// fields converts a fully validated patch into a create row.
func fields(p storebooks.Patch) storebooks.Fields {
	return storebooks.Fields{Name: *p.Name, Price: *p.Price, AuthorName: *p.AuthorName}
}
