package ports

// TokenService issues and parses signed bearer tokens. Parsing only proves
// the signature; callers must still confirm the token is present in the
// user's session list before trusting it.
type TokenService interface {
	Issue(userID string) (string, error)
	// Parse returns the user id bound into the token, or
	// domain.ErrInvalidToken when the signature, format, or expiry is wrong.
	Parse(token string) (string, error)
}
