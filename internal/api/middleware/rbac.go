package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/skillsync/marketplace-api/internal/api/metrics"
	"github.com/skillsync/marketplace-api/internal/core/domain"
	"github.com/skillsync/marketplace-api/internal/core/ports"
	"github.com/skillsync/marketplace-api/internal/core/service"
)

// RequireRole admits only principals whose role equals role. It must run
// after Authenticate. Denials are recorded to audit when it is non-nil.
func RequireRole(role domain.Role, audit ports.AuditSink) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := PrincipalFrom(c)
			if !ok {
				metrics.AccessDeniedTotal.WithLabelValues("unauthenticated", string(role)).Inc()
				return domain.ErrUnauthenticated
			}

			if err := service.Authorize(principal, role); err != nil {
				metrics.AccessDeniedTotal.WithLabelValues("forbidden", string(role)).Inc()
				if audit != nil {
					audit.Record(domain.AuthEvent{
						Type:       domain.EventAccessDenied,
						Subject:    principal.Subject,
						Role:       principal.Role,
						IP:         c.RealIP(),
						Path:       c.Path(),
						OccurredAt: time.Now().UTC(),
					})
				}
				return err
			}

			return next(c)
		}
	}
}
