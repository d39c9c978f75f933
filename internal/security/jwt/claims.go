package jwtutil

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims identify a user by numeric id in the subject.
type AccessClaims struct {
	Staff bool `json:"staff,omitempty"`
	jwt.RegisteredClaims
}

func NewAccessClaims(userID int64, staff bool, jti string, ttl time.Duration) AccessClaims {
	now := time.Now()
	return AccessClaims{
		Staff: staff,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
}

// UserID parses the subject back into a user id.
func (c AccessClaims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}
