package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skillsync/marketplace-api/internal/core/domain"
)

func TestAuthorize_ExactRoleMatch(t *testing.T) {
	roles := []domain.Role{domain.RoleClient, domain.RoleContractor, domain.RoleAdmin}

	for _, have := range roles {
		for _, want := range roles {
			err := Authorize(domain.Principal{Subject: "acc-1", Role: have}, want)
			if have == want {
				require.NoError(t, err, "%s -> %s", have, want)
				continue
			}
			require.ErrorIs(t, err, domain.ErrForbidden, "%s -> %s", have, want)
		}
	}
}
