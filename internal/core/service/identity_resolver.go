package service

import (
	"strings"

	"github.com/skillsync/marketplace-api/internal/core/domain"
	"github.com/skillsync/marketplace-api/internal/core/ports"
)

// IdentityResolver turns a bearer credential into a Principal. Every failure
// collapses into domain.ErrUnauthenticated; callers never learn whether the
// signature, the expiry or the encoding was at fault.
type IdentityResolver struct {
	tokens ports.TokenVerifier
}

func NewIdentityResolver(tokens ports.TokenVerifier) *IdentityResolver {
	return &IdentityResolver{tokens: tokens}
}

// ResolveHeader extracts the credential from an Authorization header value
// ("Bearer <token>") and resolves it.
func (r *IdentityResolver) ResolveHeader(authorization string) (domain.Principal, error) {
	scheme, credential, found := strings.Cut(strings.TrimSpace(authorization), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return domain.Principal{}, domain.ErrUnauthenticated
	}
	return r.Resolve(credential)
}

// Resolve verifies a raw bearer credential.
func (r *IdentityResolver) Resolve(credential string) (domain.Principal, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return domain.Principal{}, domain.ErrUnauthenticated
	}
	principal, err := r.tokens.Verify(credential)
	if err != nil {
		return domain.Principal{}, domain.ErrUnauthenticated
	}
	return principal, nil
}
