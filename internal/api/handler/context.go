package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/skillsync/marketplace-api/internal/api/middleware"
	"github.com/skillsync/marketplace-api/internal/core/domain"
)

// principal returns the identity resolved by the Authenticate middleware.
// Handlers mounted without it fail closed.
func principal(c echo.Context) (domain.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return domain.Principal{}, domain.ErrUnauthenticated
	}
	return p, nil
}

// subject returns the caller's account id.
func subject(c echo.Context) (string, error) {
	p, err := principal(c)
	if err != nil {
		return "", err
	}
	return p.Subject, nil
}
