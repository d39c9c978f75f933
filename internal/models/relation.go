package models

import "time"

const (
	MinRate = 1
	MaxRate = 5
)

// UserBookRelation is the per-(user, book) like/bookmark/rating state.
type UserBookRelation struct {
	UserID      int64     `json:"-"`
	BookID      int64     `json:"book"`
	Like        bool      `json:"like"`
	InBookmarks bool      `json:"in_bookmarks"`
	Rate        *int      `json:"rate"`
	UpdatedAt   time.Time `json:"-"`
}

// RelationPatch carries the fields present in a partial update. Nil
// fields leave the stored value untouched.
type RelationPatch struct {
	Like        *bool
	InBookmarks *bool
	Rate        *int
}

func (p RelationPatch) Empty() bool {
	return p.Like == nil && p.InBookmarks == nil && p.Rate == nil
}
