package auth

// Session is the identity handed to services on every call. It is built from
// validated JWT claims by the HTTP layer and passed explicitly; nothing in
// the core reads identity from a global.
type Session struct {
	UserID     string
	EmployeeID string
	Role       string
}

func (s Session) IsAdmin() bool {
	return s.Role == "admin"
}
