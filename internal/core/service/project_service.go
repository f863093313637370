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

const (
	maxTitleLength = 200
	listLimit      = 100
	dashboardLimit = 1000
)

type ProjectService struct {
	projects  ports.ProjectRepository
	proposals ports.ProposalRepository
	logger    zerolog.Logger
	now       func() time.Time
}

func NewProjectService(projects ports.ProjectRepository, proposals ports.ProposalRepository, logger zerolog.Logger) *ProjectService {
	return &ProjectService{projects: projects, proposals: proposals, logger: logger, now: time.Now}
}

// Create posts a new open project owned by clientID.
func (s *ProjectService) Create(ctx context.Context, clientID string, in ports.CreateProjectInput) (*domain.Project, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	skills := normalizeSkills(in.SkillsRequired)

	switch {
	case title == "" || len(title) > maxTitleLength:
		return nil, fmt.Errorf("%w: title must be between 1 and %d characters", domain.ErrInvalidInput, maxTitleLength)
	case description == "":
		return nil, fmt.Errorf("%w: description is required", domain.ErrInvalidInput)
	case in.Budget <= 0:
		return nil, fmt.Errorf("%w: budget must be greater than 0", domain.ErrInvalidInput)
	case len(skills) == 0:
		return nil, fmt.Errorf("%w: at least one required skill is needed", domain.ErrInvalidInput)
	}

	now := s.now().UTC()
	project := &domain.Project{
		ClientID:       clientID,
		Title:          title,
		Description:    description,
		Budget:         in.Budget,
		SkillsRequired: skills,
		Status:         domain.ProjectOpen,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.projects.Create(ctx, project); err != nil {
		s.logger.Error().Err(err).Msg("failed to create project")
		return nil, err
	}

	metrics.ProjectsCreatedTotal.Inc()
	s.logger.Info().Str("project_id", project.ID).Str("client_id", clientID).Msg("project created")
	return project, nil
}

// ListOwn returns the client's projects, newest first, optionally filtered by status.
func (s *ProjectService) ListOwn(ctx context.Context, clientID, status string) ([]*domain.Project, error) {
	filter := ports.ProjectFilter{ClientID: clientID, Limit: listLimit}
	if status != "" {
		st, err := parseProjectStatus(status)
		if err != nil {
			return nil, err
		}
		filter.Statuses = []domain.ProjectStatus{st}
	}

	projects, err := s.projects.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if err := s.attachProposalCounts(ctx, projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// GetOwn returns a project only when clientID owns it; otherwise it is reported missing.
func (s *ProjectService) GetOwn(ctx context.Context, clientID, projectID string) (*domain.Project, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.ClientID != clientID {
		return nil, fmt.Errorf("project: %w", domain.ErrNotFound)
	}
	if err := s.attachProposalCounts(ctx, []*domain.Project{project}); err != nil {
		return nil, err
	}
	return project, nil
}

// Update applies a partial update. Status changes must follow the project state machine.
func (s *ProjectService) Update(ctx context.Context, clientID, projectID string, in ports.UpdateProjectInput) (*domain.Project, error) {
	project, err := s.GetOwn(ctx, clientID, projectID)
	if err != nil {
		return nil, err
	}
	current := project.Status

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" || len(title) > maxTitleLength {
			return nil, fmt.Errorf("%w: title must be between 1 and %d characters", domain.ErrInvalidInput, maxTitleLength)
		}
		project.Title = title
	}
	if in.Description != nil {
		description := strings.TrimSpace(*in.Description)
		if description == "" {
			return nil, fmt.Errorf("%w: description cannot be empty", domain.ErrInvalidInput)
		}
		project.Description = description
	}
	if in.Budget != nil {
		if *in.Budget <= 0 {
			return nil, fmt.Errorf("%w: budget must be greater than 0", domain.ErrInvalidInput)
		}
		project.Budget = *in.Budget
	}
	if in.SkillsRequired != nil {
		skills := normalizeSkills(in.SkillsRequired)
		if len(skills) == 0 {
			return nil, fmt.Errorf("%w: at least one required skill is needed", domain.ErrInvalidInput)
		}
		project.SkillsRequired = skills
	}
	if in.Status != nil {
		next, err := parseProjectStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		if next != project.Status && !project.Status.CanTransitionTo(next) {
			return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, project.Status, next)
		}
		// A contractor is assigned only by accepting a proposal.
		if next == domain.ProjectInProgress && project.Status != domain.ProjectInProgress {
			return nil, fmt.Errorf("%w: a project starts when a proposal is accepted", domain.ErrInvalidTransition)
		}
		project.Status = next
	}

	project.UpdatedAt = s.now().UTC()
	if err := s.projects.Update(ctx, project, current); err != nil {
		return nil, err
	}
	return project, nil
}

// Delete removes an owned project together with its proposals.
func (s *ProjectService) Delete(ctx context.Context, clientID, projectID string) error {
	if err := s.projects.Delete(ctx, projectID, clientID); err != nil {
		return err
	}
	if err := s.proposals.DeleteByProject(ctx, projectID); err != nil {
		s.logger.Warn().Err(err).Str("project_id", projectID).Msg("failed to delete proposals of removed project")
	}
	s.logger.Info().Str("project_id", projectID).Str("client_id", clientID).Msg("project deleted")
	return nil
}

// Proposals lists the bids on an owned project.
func (s *ProjectService) Proposals(ctx context.Context, clientID, projectID string) ([]*domain.Proposal, error) {
	if _, err := s.GetOwn(ctx, clientID, projectID); err != nil {
		return nil, err
	}
	return s.proposals.ListByProject(ctx, projectID)
}

// Dashboard summarises the client's projects.
func (s *ProjectService) Dashboard(ctx context.Context, clientID string) (*ports.ClientDashboard, error) {
	projects, err := s.projects.List(ctx, ports.ProjectFilter{ClientID: clientID, Limit: dashboardLimit})
	if err != nil {
		return nil, err
	}

	stats := &ports.ClientDashboard{}
	ids := make([]string, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
		stats.TotalBudget += p.Budget
		switch {
		case p.Status.Active():
			stats.ActiveProjects++
		case p.Status == domain.ProjectCompleted:
			stats.CompletedProjects++
		}
	}

	counts, err := s.proposals.CountByProjects(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, n := range counts {
		stats.TotalProposals += n
	}
	return stats, nil
}

func (s *ProjectService) attachProposalCounts(ctx context.Context, projects []*domain.Project) error {
	if len(projects) == 0 {
		return nil
	}
	ids := make([]string, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}
	counts, err := s.proposals.CountByProjects(ctx, ids)
	if err != nil {
		return err
	}
	for _, p := range projects {
		p.ProposalCount = counts[p.ID]
	}
	return nil
}

func parseProjectStatus(raw string) (domain.ProjectStatus, error) {
	st := domain.ProjectStatus(strings.TrimSpace(raw))
	if !st.Valid() {
		return "", fmt.Errorf("%w: unknown project status %q", domain.ErrInvalidInput, raw)
	}
	return st, nil
}

// normalizeSkills trims entries, drops blanks and removes case-insensitive duplicates.
func normalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, skill := range skills {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			continue
		}
		key := strings.ToLower(skill)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, skill)
	}
	return out
}
