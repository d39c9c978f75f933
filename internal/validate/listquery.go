package validate

import (
	"net/url"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/5w1tchy/books-store/internal/models"
)

// OrderField is a sortable book column.
type OrderField string

const (
	OrderByID         OrderField = "id"
	OrderByPrice      OrderField = "price"
	OrderByAuthorName OrderField = "author_name"
)

// Query parameters accepted by the book list.
const (
	ParamSearch   = "search"
	ParamOrdering = "ordering"
	ParamPrice    = "price"
	// ParamFilter is accepted for older clients and has no effect.
	ParamFilter = "filter"
)

var listParams = map[string]struct{}{
	ParamSearch:   {},
	ParamOrdering: {},
	ParamPrice:    {},
	ParamFilter:   {},
}

var orderings = map[string]OrderField{
	"price":       OrderByPrice,
	"author_name": OrderByAuthorName,
}

const maxSearchLen = 255

// ListParams returns the accepted list query keys, sorted.
func ListParams() []string {
	out := make([]string, 0, len(listParams))
	for k := range listParams {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

type ListQuery struct {
	Search  string
	OrderBy OrderField
	Desc    bool
	Price   *models.Price
}

// ParseListQuery turns raw query values into a typed ListQuery, rejecting
// unknown keys and values it cannot interpret.
func ParseListQuery(q url.Values) (ListQuery, error) {
	lq := ListQuery{OrderBy: OrderByID}
	fe := FieldErrors{}

	for k := range q {
		if _, ok := listParams[k]; !ok {
			fe.Add(k, "Unknown query parameter. Allowed: "+strings.Join(ListParams(), ", ")+".")
		}
	}

	if s := Clean(q.Get(ParamSearch)); s != "" {
		if utf8.RuneCountInString(s) > maxSearchLen {
			fe.Add(ParamSearch, "Ensure this field has no more than 255 characters.")
		}
		lq.Search = s
	}

	if raw := strings.TrimSpace(q.Get(ParamOrdering)); raw != "" {
		name, desc := strings.CutPrefix(raw, "-")
		field, ok := orderings[name]
		if !ok {
			fe.Add(ParamOrdering, "Select a valid choice. Must be one of: price, -price, author_name, -author_name.")
		} else {
			lq.OrderBy, lq.Desc = field, desc
		}
	}

	if raw := strings.TrimSpace(q.Get(ParamPrice)); raw != "" {
		p, err := models.ParsePrice(raw)
		if err != nil {
			fe.Add(ParamPrice, "Enter a valid price.")
		} else {
			lq.Price = &p
		}
	}

	return lq, fe.OrNil()
}

// CacheKey is a canonical rendering of the query; equal queries map to equal keys.
func (lq ListQuery) CacheKey() string {
	v := url.Values{}
	if lq.Search != "" {
		v.Set(ParamSearch, lq.Search)
	}
	order := string(lq.OrderBy)
	if lq.Desc {
		order = "-" + order
	}
	v.Set(ParamOrdering, order)
	if lq.Price != nil {
		v.Set(ParamPrice, lq.Price.String())
	}
	return v.Encode()
}
