package password

import (
	"errors"
	"strings"

	"github.com/alexedwards/argon2id"
)

const MinLen = 8

var ErrTooShort = errors.New("password must be at least 8 characters")

// Hasher produces and checks argon2id PHC strings.
type Hasher struct {
	params Params
}

func NewHasher(p Params) *Hasher { return &Hasher{params: p} }

// Hash returns a PHC string like `$argon2id$v=19$m=65536,t=3,p=1$...`.
func (h *Hasher) Hash(plain string) (string, error) {
	if len(strings.TrimSpace(plain)) < MinLen {
		return "", ErrTooShort
	}
	return argon2id.CreateHash(plain, h.params.argon())
}

// Verify checks plain against phc. A malformed hash is an error, a
// mismatch is (false, nil).
func (h *Hasher) Verify(plain, phc string) (bool, error) {
	return argon2id.ComparePasswordAndHash(plain, phc)
}

// NeedsRehash reports whether phc was made with weaker params than h.
func (h *Hasher) NeedsRehash(phc string) bool {
	stored, _, _, err := argon2id.DecodeHash(phc)
	if err != nil {
		return true
	}
	return stored.Memory < h.params.Memory ||
		stored.Iterations < h.params.Iterations ||
		stored.Parallelism < h.params.Parallelism ||
		stored.SaltLength < h.params.SaltLength ||
		stored.KeyLength < h.params.KeyLength
}
