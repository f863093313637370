package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/skillsync/marketplace-api/internal/core/domain"
	"github.com/skillsync/marketplace-api/internal/core/ports"
)

type ContractorService struct {
	accounts  ports.AccountRepository
	projects  ports.ProjectRepository
	proposals ports.ProposalRepository
	logger    zerolog.Logger
	now       func() time.Time
}

func NewContractorService(
	accounts ports.AccountRepository,
	projects ports.ProjectRepository,
	proposals ports.ProposalRepository,
	logger zerolog.Logger,
) *ContractorService {
	return &ContractorService{accounts: accounts, projects: projects, proposals: proposals, logger: logger, now: time.Now}
}

// Browse lists contractors matching the filter.
func (s *ContractorService) Browse(ctx context.Context, filter ports.ContractorFilter) ([]*domain.Account, error) {
	if filter.MinRating < 0 || filter.MaxRate < 0 {
		return nil, fmt.Errorf("%w: rating and rate filters must be non-negative", domain.ErrInvalidInput)
	}
	filter.Skills = normalizeSkills(filter.Skills)
	if filter.Limit <= 0 || filter.Limit > listLimit {
		filter.Limit = listLimit
	}
	return s.accounts.ListContractors(ctx, filter)
}

// PublicProfile returns a contractor account; other roles are reported missing.
func (s *ContractorService) PublicProfile(ctx context.Context, contractorID string) (*domain.Account, error) {
	account, err := s.accounts.FindByID(ctx, contractorID)
	if err != nil {
		return nil, err
	}
	if account.Role != domain.RoleContractor {
		return nil, fmt.Errorf("contractor: %w", domain.ErrNotFound)
	}
	return account, nil
}

// Profile returns the caller's own account.
func (s *ContractorService) Profile(ctx context.Context, contractorID string) (*domain.Account, error) {
	return s.accounts.FindByID(ctx, contractorID)
}

// UpdateProfile merges a partial update into the contractor profile.
func (s *ContractorService) UpdateProfile(ctx context.Context, contractorID string, in ports.UpdateProfileInput) (*domain.Account, error) {
	account, err := s.accounts.FindByID(ctx, contractorID)
	if err != nil {
		return nil, err
	}

	profile := domain.ContractorProfile{Skills: []string{}}
	if account.Contractor != nil {
		profile = *account.Contractor
	}
	if in.Bio != nil {
		profile.Bio = *in.Bio
	}
	if in.HourlyRate != nil {
		if *in.HourlyRate < 0 {
			return nil, fmt.Errorf("%w: hourly_rate must be non-negative", domain.ErrInvalidInput)
		}
		profile.HourlyRate = *in.HourlyRate
	}
	if in.Skills != nil {
		profile.Skills = normalizeSkills(in.Skills)
	}

	updated, err := s.accounts.UpdateContractorProfile(ctx, contractorID, profile)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("account_id", contractorID).Msg("contractor profile updated")
	return updated, nil
}

// AvailableProjects lists open projects, optionally matching any of skills.
func (s *ContractorService) AvailableProjects(ctx context.Context, skills []string) ([]*domain.Project, error) {
	return s.projects.List(ctx, ports.ProjectFilter{
		Statuses: []domain.ProjectStatus{domain.ProjectOpen},
		Skills:   normalizeSkills(skills),
		Limit:    listLimit,
	})
}

// ActiveJobs lists in-progress projects assigned to the contractor.
func (s *ContractorService) ActiveJobs(ctx context.Context, contractorID string) ([]*domain.Project, error) {
	return s.projects.List(ctx, ports.ProjectFilter{
		ContractorID: contractorID,
		Statuses:     []domain.ProjectStatus{domain.ProjectInProgress},
		Limit:        listLimit,
	})
}

// Job returns a project the contractor may see: any open project or one assigned to them.
func (s *ContractorService) Job(ctx context.Context, contractorID, projectID string) (*domain.Project, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.Status != domain.ProjectOpen && project.ContractorID != contractorID {
		return nil, fmt.Errorf("project: %w", domain.ErrNotFound)
	}
	return project, nil
}

// UpdateProgress records progress on an assigned in-progress project.
// Reaching 100 completes the project and credits the contractor. The write
// only matches an in-progress project, so a project is credited once.
func (s *ContractorService) UpdateProgress(ctx context.Context, contractorID, projectID string, progress int, notes string) (*domain.Project, error) {
	if progress < 0 || progress > 100 {
		return nil, fmt.Errorf("%w: progress must be between 0 and 100", domain.ErrInvalidInput)
	}

	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.ContractorID != contractorID {
		return nil, fmt.Errorf("%w: project is not assigned to you", domain.ErrForbidden)
	}
	if project.Status != domain.ProjectInProgress {
		return nil, fmt.Errorf("%w: project is %s", domain.ErrInvalidTransition, project.Status)
	}

	project.Progress = progress
	project.ProgressNotes = notes
	project.UpdatedAt = s.now().UTC()
	if progress == 100 {
		project.Status = domain.ProjectCompleted
	}

	if err := s.projects.Update(ctx, project, domain.ProjectInProgress); err != nil {
		return nil, err
	}

	if project.Status == domain.ProjectCompleted {
		if err := s.accounts.IncrementCompletedProjects(ctx, contractorID); err != nil {
			s.logger.Warn().Err(err).Str("account_id", contractorID).Msg("failed to credit completed project")
		}
	}
	return project, nil
}

// Dashboard summarises the contractor's jobs and bids.
func (s *ContractorService) Dashboard(ctx context.Context, contractorID string) (*ports.ContractorDashboard, error) {
	jobs, err := s.projects.List(ctx, ports.ProjectFilter{ContractorID: contractorID, Limit: dashboardLimit})
	if err != nil {
		return nil, err
	}
	proposals, err := s.proposals.ListByContractor(ctx, contractorID)
	if err != nil {
		return nil, err
	}

	stats := &ports.ContractorDashboard{}
	for _, p := range jobs {
		switch p.Status {
		case domain.ProjectInProgress:
			stats.ActiveJobs++
		case domain.ProjectCompleted:
			stats.CompletedJobs++
		}
	}
	for _, p := range proposals {
		switch p.Status {
		case domain.ProposalPending:
			stats.PendingProposals++
		case domain.ProposalAccepted:
			stats.AcceptedProposals++
		}
	}
	return stats, nil
}
