package models

// Principal is the authenticated caller attached to a request.
type Principal struct {
	ID       int64
	Username string
	IsStaff  bool
}

func PrincipalOf(u User) *Principal {
	return &Principal{ID: u.ID, Username: u.Username, IsStaff: u.IsStaff}
}
