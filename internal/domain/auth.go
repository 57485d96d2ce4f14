package domain

// AuthInfo identifies the caller of a request carrying a verified bearer token.
type AuthInfo struct {
	Subject string
}
