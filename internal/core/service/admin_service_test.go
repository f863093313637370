package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillsync/marketplace-api/internal/core/domain"
)

func TestAdminService(t *testing.T) {
	accounts := newMemAccounts()
	projects := newMemProjects()
	proposals := newMemProposals()
	svc := NewAdminService(accounts, projects, proposals, zerolog.Nop())
	ctx := context.Background()

	accounts.seed(domain.Account{Email: "a@x.com", Role: domain.RoleClient})
	accounts.seed(domain.Account{Email: "b@x.com", Role: domain.RoleClient})
	contractor := accounts.seed(domain.Account{Email: "c@x.com", Role: domain.RoleContractor})

	open := &domain.Project{ClientID: "c", Status: domain.ProjectOpen}
	require.NoError(t, projects.Create(ctx, open))
	require.NoError(t, projects.Create(ctx, &domain.Project{ClientID: "c", Status: domain.ProjectCompleted}))
	require.NoError(t, proposals.Create(ctx, &domain.Proposal{ProjectID: open.ID, ContractorID: contractor}))

	users, err := svc.Users(ctx, "")
	require.NoError(t, err)
	assert.Len(t, users, 3)

	clients, err := svc.Users(ctx, "client")
	require.NoError(t, err)
	assert.Len(t, clients, 2)

	_, err = svc.Users(ctx, "root")
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	u, err := svc.User(ctx, contractor)
	require.NoError(t, err)
	assert.Equal(t, "c@x.com", u.Email)

	openOnly, err := svc.Projects(ctx, "open")
	require.NoError(t, err)
	require.Len(t, openOnly, 1)
	assert.Equal(t, open.ID, openOnly[0].ID)

	_, err = svc.Projects(ctx, "paused")
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	stats, err := svc.Analytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.UsersByRole[domain.RoleClient])
	assert.Equal(t, int64(1), stats.UsersByRole[domain.RoleContractor])
	assert.Equal(t, int64(1), stats.ProjectsByStatus[domain.ProjectCompleted])
	assert.Equal(t, int64(1), stats.TotalProposals)
}
