package domain

import "time"

// AuthEventType names an entry in the authentication audit trail.
type AuthEventType string

const (
	EventRegistered     AuthEventType = "register"
	EventLoginSucceeded AuthEventType = "login_succeeded"
	EventLoginFailed    AuthEventType = "login_failed"
	EventLoginThrottled AuthEventType = "login_throttled"
	EventAccessDenied   AuthEventType = "access_denied"
)

// AuthEvent records a security-relevant outcome. It never carries secrets.
type AuthEvent struct {
	ID         string
	Type       AuthEventType
	Subject    string // account id when known
	Email      string // normalized email for login attempts
	Role       Role
	IP         string
	Path       string
	OccurredAt time.Time
}

// ShardKey returns the value the audit dispatcher hashes on so events for the
// same identity are persisted in order.
func (e AuthEvent) ShardKey() string {
	if e.Subject != "" {
		return e.Subject
	}
	return e.Email
}
