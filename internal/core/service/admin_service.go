package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/skillsync/marketplace-api/internal/core/domain"
	"github.com/skillsync/marketplace-api/internal/core/ports"
)

// AdminService exposes read-only platform oversight. It offers
// no bulk delete or raw record dump.
type AdminService struct {
	accounts  ports.AccountRepository
	projects  ports.ProjectRepository
	proposals ports.ProposalRepository
	logger    zerolog.Logger
}

func NewAdminService(
	accounts ports.AccountRepository,
	projects ports.ProjectRepository,
	proposals ports.ProposalRepository,
	logger zerolog.Logger,
) *AdminService {
	return &AdminService{accounts: accounts, projects: projects, proposals: proposals, logger: logger}
}

func (s *AdminService) Users(ctx context.Context, role string) ([]*domain.Account, error) {
	filter := ports.AccountFilter{Limit: listLimit}
	if role = strings.TrimSpace(role); role != "" {
		r := domain.Role(role)
		if !r.Valid() {
			return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, role)
		}
		filter.Role = r
	}
	return s.accounts.List(ctx, filter)
}

func (s *AdminService) User(ctx context.Context, id string) (*domain.Account, error) {
	return s.accounts.FindByID(ctx, id)
}

func (s *AdminService) Projects(ctx context.Context, status string) ([]*domain.Project, error) {
	filter := ports.ProjectFilter{Limit: listLimit}
	if status != "" {
		st, err := parseProjectStatus(status)
		if err != nil {
			return nil, err
		}
		filter.Statuses = []domain.ProjectStatus{st}
	}
	return s.projects.List(ctx, filter)
}

func (s *AdminService) Analytics(ctx context.Context) (*ports.Analytics, error) {
	users, err := s.accounts.CountByRole(ctx)
	if err != nil {
		return nil, err
	}
	projects, err := s.projects.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	proposals, err := s.proposals.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &ports.Analytics{UsersByRole: users, ProjectsByStatus: projects, TotalProposals: proposals}, nil
}
