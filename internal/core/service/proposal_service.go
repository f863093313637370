package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/skillsync/marketplace-api/internal/api/metrics"
	"github.com/skillsync/marketplace-api/internal/core/domain"
	"github.com/skillsync/marketplace-api/internal/core/ports"
)

type ProposalService struct {
	proposals ports.ProposalRepository
	projects  ports.ProjectRepository
	accounts  ports.AccountDirectory
	logger    zerolog.Logger
	now       func() time.Time
}

func NewProposalService(
	proposals ports.ProposalRepository,
	projects ports.ProjectRepository,
	accounts ports.AccountDirectory,
	logger zerolog.Logger,
) *ProposalService {
	return &ProposalService{proposals: proposals, projects: projects, accounts: accounts, logger: logger, now: time.Now}
}

// Submit places a contractor's bid on an open project. A contractor may bid
// on a project only once.
func (s *ProposalService) Submit(ctx context.Context, contractorID string, in ports.SubmitProposalInput) (*domain.Proposal, error) {
	coverLetter := strings.TrimSpace(in.CoverLetter)
	duration := strings.TrimSpace(in.EstimatedDuration)
	switch {
	case strings.TrimSpace(in.ProjectID) == "":
		return nil, fmt.Errorf("%w: project_id is required", domain.ErrInvalidInput)
	case coverLetter == "":
		return nil, fmt.Errorf("%w: cover_letter is required", domain.ErrInvalidInput)
	case in.ProposedBudget <= 0:
		return nil, fmt.Errorf("%w: proposed_budget must be greater than 0", domain.ErrInvalidInput)
	case duration == "":
		return nil, fmt.Errorf("%w: estimated_duration is required", domain.ErrInvalidInput)
	}

	project, err := s.projects.FindByID(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}
	if project.Status != domain.ProjectOpen {
		return nil, fmt.Errorf("%w: project is not accepting proposals", domain.ErrInvalidTransition)
	}

	contractor, err := s.accounts.FindByID(ctx, contractorID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	proposal := &domain.Proposal{
		ProjectID:         project.ID,
		ContractorID:      contractorID,
		ContractorName:    contractor.FullName,
		CoverLetter:       coverLetter,
		ProposedBudget:    in.ProposedBudget,
		EstimatedDuration: duration,
		Status:            domain.ProposalPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.proposals.Create(ctx, proposal); err != nil {
		return nil, err
	}

	metrics.ProposalDecisionsTotal.WithLabelValues(string(domain.ProposalPending)).Inc()
	s.logger.Info().Str("proposal_id", proposal.ID).Str("project_id", project.ID).Str("contractor_id", contractorID).Msg("proposal submitted")
	return proposal, nil
}

// ListOwn returns the contractor's proposals.
func (s *ProposalService) ListOwn(ctx context.Context, contractorID string) ([]*domain.Proposal, error) {
	return s.proposals.ListByContractor(ctx, contractorID)
}

// Accept assigns the proposal's contractor to the project, moves the project
// to in_progress and rejects every other pending proposal on it. The project
// write is conditional on the project still being open, so of two concurrent
// accepts on one project only the first succeeds.
func (s *ProposalService) Accept(ctx context.Context, clientID, proposalID string) (*domain.Proposal, error) {
	proposal, project, err := s.decidable(ctx, clientID, proposalID)
	if err != nil {
		return nil, err
	}
	if project.Status != domain.ProjectOpen {
		return nil, fmt.Errorf("%w: project already has a contractor", domain.ErrInvalidTransition)
	}

	now := s.now().UTC()
	project.Status = domain.ProjectInProgress
	project.ContractorID = proposal.ContractorID
	project.UpdatedAt = now
	if err := s.projects.Update(ctx, project, domain.ProjectOpen); err != nil {
		return nil, err
	}

	if err := s.proposals.SetStatus(ctx, proposal.ID, domain.ProposalPending, domain.ProposalAccepted); err != nil {
		s.reopen(ctx, project)
		return nil, err
	}
	if err := s.proposals.RejectPending(ctx, project.ID, proposal.ID); err != nil {
		s.logger.Warn().Err(err).Str("project_id", project.ID).Msg("failed to reject competing proposals")
	}

	proposal.Status = domain.ProposalAccepted
	proposal.UpdatedAt = now
	metrics.ProposalDecisionsTotal.WithLabelValues(string(domain.ProposalAccepted)).Inc()
	s.logger.Info().Str("proposal_id", proposal.ID).Str("project_id", project.ID).Msg("proposal accepted")
	return proposal, nil
}

// Reject declines a pending proposal.
func (s *ProposalService) Reject(ctx context.Context, clientID, proposalID string) (*domain.Proposal, error) {
	proposal, _, err := s.decidable(ctx, clientID, proposalID)
	if err != nil {
		return nil, err
	}

	if err := s.proposals.SetStatus(ctx, proposal.ID, domain.ProposalPending, domain.ProposalRejected); err != nil {
		return nil, err
	}

	proposal.Status = domain.ProposalRejected
	proposal.UpdatedAt = s.now().UTC()
	metrics.ProposalDecisionsTotal.WithLabelValues(string(domain.ProposalRejected)).Inc()
	return proposal, nil
}

// reopen releases a project claimed by Accept when the proposal could not be
// marked accepted.
func (s *ProposalService) reopen(ctx context.Context, project *domain.Project) {
	project.Status = domain.ProjectOpen
	project.ContractorID = ""
	project.UpdatedAt = s.now().UTC()
	if err := s.projects.Update(ctx, project, domain.ProjectInProgress); err != nil {
		s.logger.Error().Err(err).Str("project_id", project.ID).Msg("failed to reopen project after aborted accept")
	}
}

// decidable loads a pending proposal and its project, checking that clientID owns the project.
func (s *ProposalService) decidable(ctx context.Context, clientID, proposalID string) (*domain.Proposal, *domain.Project, error) {
	proposal, err := s.proposals.FindByID(ctx, proposalID)
	if err != nil {
		return nil, nil, err
	}
	project, err := s.projects.FindByID(ctx, proposal.ProjectID)
	if err != nil {
		return nil, nil, err
	}
	if project.ClientID != clientID {
		return nil, nil, fmt.Errorf("%w: not the owner of this project", domain.ErrForbidden)
	}
	if proposal.Status != domain.ProposalPending {
		return nil, nil, fmt.Errorf("%w: proposal is already %s", domain.ErrInvalidTransition, proposal.Status)
	}
	return proposal, project, nil
}
