package apperr

import (
	"encoding/json"
	"net/http"

	"github.com/5w1tchy/books-store/internal/validate"
)

// Fixed client-facing messages.
const (
	DetailPermissionDenied = "You do not have permission to perform this action."
	DetailNotAuthenticated = "Authentication credentials were not provided."
	DetailInvalidToken     = "Given token not valid."
	DetailNotFound         = "Not found."
	DetailMalformedJSON    = "JSON parse error."
	DetailBodyTooLarge     = "Request body too large."
	DetailServerError      = "A server error occurred."
	DetailConflict         = "Conflict with an existing record."
	DetailRetry            = "Transaction conflict, please retry."
)

// Problem is an error response. Field errors take the body over when set;
// otherwise the body is {"detail": Detail}.
type Problem struct {
	Status    int
	Detail    string
	Fields    validate.FieldErrors
	Retryable bool
}

type detailBody struct {
	Detail string `json:"detail"`
}

func Write(w http.ResponseWriter, r *http.Request, p Problem) {
	if p.Status == 0 {
		p.Status = http.StatusInternalServerError
	}
	if p.Retryable {
		w.Header().Set("Retry-After", "1")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(p.Status)
	if r != nil && r.Method == http.MethodHead {
		return
	}
	if len(p.Fields) > 0 {
		_ = json.NewEncoder(w).Encode(p.Fields)
		return
	}
	_ = json.NewEncoder(w).Encode(detailBody{Detail: p.Detail})
}

// WriteStatus writes a {"detail": ...} body with the given status.
func WriteStatus(w http.ResponseWriter, r *http.Request, status int, detail string) {
	Write(w, r, Problem{Status: status, Detail: detail})
}

func Validation(w http.ResponseWriter, r *http.Request, fe validate.FieldErrors) {
	Write(w, r, Problem{Status: http.StatusBadRequest, Fields: fe})
}

func Forbidden(w http.ResponseWriter, r *http.Request) {
	WriteStatus(w, r, http.StatusForbidden, DetailPermissionDenied)
}

func Unauthorized(w http.ResponseWriter, r *http.Request, detail string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
	WriteStatus(w, r, http.StatusUnauthorized, detail)
}

func NotFound(w http.ResponseWriter, r *http.Request) {
	WriteStatus(w, r, http.StatusNotFound, DetailNotFound)
}

func Internal(w http.ResponseWriter, r *http.Request) {
	WriteStatus(w, r, http.StatusInternalServerError, DetailServerError)
}
