package apperr

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/5w1tchy/books-store/internal/validate"
)

// Map constraint names to the JSON field they guard.
var constraintField = map[string]string{
	"books_price_check":                 "price",
	"books_owner_id_fkey":               "owner",
	"user_book_relations_rate_check":    "rate",
	"user_book_relations_book_id_fkey":  "book",
	"user_book_relations_user_book_key": "book",
	"users_username_key":                "username",
}

func fieldFor(pg *pgconn.PgError, fallback string) string {
	if f, ok := constraintField[pg.ConstraintName]; ok {
		return f
	}
	if pg.ColumnName != "" {
		return pg.ColumnName
	}
	return fallback
}

// FromPG maps a pgconn.PgError to a Problem. Returns (Problem, true) if mapped.
func FromPG(err error) (Problem, bool) {
	var pg *pgconn.PgError
	if !errors.As(err, &pg) {
		return Problem{}, false
	}

	p := Problem{Status: http.StatusInternalServerError, Detail: DetailServerError}
	switch pg.Code {
	case "23505": // unique_violation
		p.Status = http.StatusConflict
		p.Fields = validate.FieldErrors{fieldFor(pg, "non_field_errors"): {"A record with this value already exists."}}
	case "23503": // foreign_key_violation
		p.Status = http.StatusConflict
		p.Detail = DetailConflict
	case "23502": // not_null_violation
		p.Status = http.StatusBadRequest
		p.Fields = validate.FieldErrors{fieldFor(pg, "non_field_errors"): {"This field may not be null."}}
	case "23514": // check_violation
		p.Status = http.StatusBadRequest
		p.Fields = validate.FieldErrors{fieldFor(pg, "non_field_errors"): {"Invalid value."}}
	case "22P02", "22003": // invalid_text_representation, numeric_value_out_of_range
		p.Status = http.StatusBadRequest
		p.Fields = validate.FieldErrors{fieldFor(pg, "non_field_errors"): {"Invalid value."}}
	case "22001": // string_data_right_truncation
		p.Status = http.StatusBadRequest
		p.Fields = validate.FieldErrors{fieldFor(pg, "non_field_errors"): {"Value is too long."}}
	case "40001", "40P01": // serialization_failure, deadlock_detected
		p.Status = http.StatusConflict
		p.Detail = DetailRetry
		p.Retryable = true
	}
	return p, true
}

// HandleDBError maps err to a Problem and writes it. Non-PG errors become a
// generic 500. Returns false only when err is nil.
func HandleDBError(w http.ResponseWriter, r *http.Request, err error) bool {
	if err == nil {
		return false
	}
	if p, ok := FromPG(err); ok {
		Write(w, r, p)
		return true
	}
	Internal(w, r)
	return true
}
