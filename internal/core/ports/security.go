package ports

import (
	"context"

	"github.com/skillsync/marketplace-api/internal/core/domain"
)

// CredentialHasher performs one-way password hashing.
type CredentialHasher interface {
	Hash(password string) (string, error)
	// Verify never fails loudly: malformed hashes simply do not verify.
	Verify(password, hash string) bool
}

// TokenIssuer mints signed identity tokens.
type TokenIssuer interface {
	Issue(principal domain.Principal) (string, error)
}

// TokenVerifier checks signature and expiry and returns the asserted identity.
// Every failure wraps domain.ErrInvalidToken.
type TokenVerifier interface {
	Verify(token string) (domain.Principal, error)
}

// LoginThrottle counts failed logins per normalized email.
type LoginThrottle interface {
	Blocked(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

// AuditSink accepts auth events without blocking the caller.
type AuditSink interface {
	Record(event domain.AuthEvent)
}

// AuditRepository persists audit events.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.AuthEvent) error
}

// AuditProcessor handles a single dequeued audit event.
type AuditProcessor interface {
	Process(ctx context.Context, event domain.AuthEvent) error
}
