package service

import (
	"fmt"

	"github.com/skillsync/marketplace-api/internal/core/domain"
)

// Authorize enforces exact role equality. There is no hierarchy: an admin is
// not implicitly allowed into client-only or contractor-only operations.
func Authorize(principal domain.Principal, required domain.Role) error {
	if principal.Role != required {
		return fmt.Errorf("%w: %s role required", domain.ErrForbidden, required)
	}
	return nil
}
