package domain

// Principal is the identity resolved from a bearer token for a single request.
// Only the subject and role are trusted for authorization decisions.
type Principal struct {
	Subject string
	Role    Role
	Email   string
}
