package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/skillsync/marketplace-api/internal/api/metrics"
	"github.com/skillsync/marketplace-api/internal/core/domain"
)

const principalKey = "principal"

// IdentityResolver resolves an Authorization header value into a Principal.
type IdentityResolver interface {
	ResolveHeader(authorization string) (domain.Principal, error)
}

// Authenticate resolves the bearer token and stores the Principal in the
// request context. Any failure ends the request with domain.ErrUnauthenticated.
func Authenticate(resolver IdentityResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, err := resolver.ResolveHeader(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				metrics.AccessDeniedTotal.WithLabelValues("unauthenticated", "").Inc()
				return domain.ErrUnauthenticated
			}

			c.Set(principalKey, principal)
			return next(c)
		}
	}
}

// PrincipalFrom returns the Principal stored by Authenticate.
func PrincipalFrom(c echo.Context) (domain.Principal, bool) {
	p, ok := c.Get(principalKey).(domain.Principal)
	return p, ok && p.Subject != ""
}
