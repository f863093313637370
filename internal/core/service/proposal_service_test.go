package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillsync/marketplace-api/internal/core/domain"
	"github.com/skillsync/marketplace-api/internal/core/ports"
)

type proposalFixture struct {
	svc       *ProposalService
	projects  *memProjects
	proposals *memProposals
	accounts  *memAccounts
	project   *domain.Project
	alice     string
	bob       string
}

func newProposalFixture(t *testing.T) *proposalFixture {
	t.Helper()
	f := &proposalFixture{
		projects:  newMemProjects(),
		proposals: newMemProposals(),
		accounts:  newMemAccounts(),
	}
	f.svc = NewProposalService(f.proposals, f.projects, f.accounts, zerolog.Nop())
	f.alice = f.accounts.seed(domain.Account{Email: "alice@x.com", FullName: "Alice", Role: domain.RoleContractor, IsActive: true})
	f.bob = f.accounts.seed(domain.Account{Email: "bob@x.com", FullName: "Bob", Role: domain.RoleContractor, IsActive: true})

	f.project = &domain.Project{ClientID: "client-1", Title: "API", Budget: 1000, Status: domain.ProjectOpen}
	require.NoError(t, f.projects.Create(context.Background(), f.project))
	return f
}

func (f *proposalFixture) bid(t *testing.T, contractorID string) *domain.Proposal {
	t.Helper()
	p, err := f.svc.Submit(context.Background(), contractorID, ports.SubmitProposalInput{
		ProjectID:         f.project.ID,
		CoverLetter:       "I can do it",
		ProposedBudget:    900,
		EstimatedDuration: "2 weeks",
	})
	require.NoError(t, err)
	return p
}

func TestProposalService_Submit(t *testing.T) {
	f := newProposalFixture(t)

	p := f.bid(t, f.alice)
	assert.Equal(t, domain.ProposalPending, p.Status)
	assert.Equal(t, "Alice", p.ContractorName)

	_, err := f.svc.Submit(context.Background(), f.alice, ports.SubmitProposalInput{
		ProjectID: f.project.ID, CoverLetter: "again", ProposedBudget: 1, EstimatedDuration: "1d",
	})
	require.ErrorIs(t, err, domain.ErrDuplicateProposal)

	own, err := f.svc.ListOwn(context.Background(), f.alice)
	require.NoError(t, err)
	require.Len(t, own, 1)
}

func TestProposalService_Submit_Rejections(t *testing.T) {
	f := newProposalFixture(t)
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, f.alice, ports.SubmitProposalInput{ProjectID: f.project.ID, CoverLetter: "x", EstimatedDuration: "1d"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.svc.Submit(ctx, f.alice, ports.SubmitProposalInput{ProjectID: "prj-404", CoverLetter: "x", ProposedBudget: 1, EstimatedDuration: "1d"})
	require.ErrorIs(t, err, domain.ErrNotFound)

	closed := &domain.Project{ClientID: "client-1", Status: domain.ProjectCancelled}
	require.NoError(t, f.projects.Create(ctx, closed))
	_, err = f.svc.Submit(ctx, f.alice, ports.SubmitProposalInput{ProjectID: closed.ID, CoverLetter: "x", ProposedBudget: 1, EstimatedDuration: "1d"})
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestProposalService_Accept(t *testing.T) {
	f := newProposalFixture(t)
	ctx := context.Background()

	winner := f.bid(t, f.alice)
	loser := f.bid(t, f.bob)

	accepted, err := f.svc.Accept(ctx, "client-1", winner.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProposalAccepted, accepted.Status)

	project, err := f.projects.FindByID(ctx, f.project.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectInProgress, project.Status)
	assert.Equal(t, f.alice, project.ContractorID)

	other, err := f.proposals.FindByID(ctx, loser.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProposalRejected, other.Status)

	// Decided proposals cannot be decided again.
	_, err = f.svc.Accept(ctx, "client-1", winner.ID)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = f.svc.Reject(ctx, "client-1", loser.ID)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestProposalService_DecisionRequiresOwnership(t *testing.T) {
	f := newProposalFixture(t)
	p := f.bid(t, f.alice)

	_, err := f.svc.Accept(context.Background(), "client-2", p.ID)
	require.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.svc.Reject(context.Background(), "client-2", p.ID)
	require.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.svc.Accept(context.Background(), "client-1", "prop-404")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProposalService_Reject(t *testing.T) {
	f := newProposalFixture(t)
	ctx := context.Background()
	p := f.bid(t, f.alice)

	rejected, err := f.svc.Reject(ctx, "client-1", p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProposalRejected, rejected.Status)

	project, err := f.projects.FindByID(ctx, f.project.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectOpen, project.Status)
}

func TestProposalService_ConcurrentAcceptsAssignOneContractor(t *testing.T) {
	f := newProposalFixture(t)
	ctx := context.Background()
	bids := []*domain.Proposal{f.bid(t, f.alice), f.bid(t, f.bob)}

	svc := NewProposalService(f.proposals, newReadBarrier(f.projects, len(bids)), f.accounts, zerolog.Nop())

	errs := make([]error, len(bids))
	var wg sync.WaitGroup
	for i, bid := range bids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = svc.Accept(ctx, "client-1", id)
		}(i, bid.ID)
	}
	wg.Wait()

	winner := -1
	for i, err := range errs {
		if err == nil {
			require.Equal(t, -1, winner, "both accepts succeeded")
			winner = i
			continue
		}
		require.ErrorIs(t, err, domain.ErrInvalidTransition)
	}
	require.NotEqual(t, -1, winner, "no accept succeeded")

	project, err := f.projects.FindByID(ctx, f.project.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectInProgress, project.Status)
	assert.Equal(t, bids[winner].ContractorID, project.ContractorID)

	for i, bid := range bids {
		stored, err := f.proposals.FindByID(ctx, bid.ID)
		require.NoError(t, err)
		if i == winner {
			assert.Equal(t, domain.ProposalAccepted, stored.Status)
		} else {
			assert.Equal(t, domain.ProposalRejected, stored.Status)
		}
	}
}

// decidedProposals reports every proposal as already decided when written.
type decidedProposals struct{ *memProposals }

func (decidedProposals) SetStatus(_ context.Context, _ string, from, _ domain.ProposalStatus) error {
	return fmt.Errorf("%w: proposal is no longer %s", domain.ErrInvalidTransition, from)
}

func TestProposalService_AcceptReopensProjectWhenProposalChanged(t *testing.T) {
	f := newProposalFixture(t)
	ctx := context.Background()
	bid := f.bid(t, f.alice)

	svc := NewProposalService(decidedProposals{f.proposals}, f.projects, f.accounts, zerolog.Nop())
	_, err := svc.Accept(ctx, "client-1", bid.ID)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	project, err := f.projects.FindByID(ctx, f.project.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectOpen, project.Status)
	assert.Empty(t, project.ContractorID)
}
