package ports

import (
	"context"

	"github.com/skillsync/marketplace-api/internal/core/domain"
)

// ProjectFilter carries the query parameters for listing projects.
type ProjectFilter struct {
	ClientID     string                 // empty = any client
	ContractorID string                 // empty = any contractor
	Statuses     []domain.ProjectStatus // empty = any status
	Skills       []string               // any-of match on skills_required
	Limit        int                    // capped by the repository
}

// ProjectRepository defines persistence operations for projects.
type ProjectRepository interface {
	Create(ctx context.Context, p *domain.Project) error
	FindByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, filter ProjectFilter) ([]*domain.Project, error)
	// Update overwrites the project only while its stored status is still
	// expected; otherwise it returns domain.ErrInvalidTransition.
	Update(ctx context.Context, p *domain.Project, expected domain.ProjectStatus) error
	// Delete removes the project only when it belongs to clientID.
	Delete(ctx context.Context, id, clientID string) error
	CountByStatus(ctx context.Context) (map[domain.ProjectStatus]int64, error)
}

// ProposalRepository defines persistence operations for proposals.
type ProposalRepository interface {
	// Create returns domain.ErrDuplicateProposal when the contractor already bid on the project.
	Create(ctx context.Context, p *domain.Proposal) error
	FindByID(ctx context.Context, id string) (*domain.Proposal, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Proposal, error)
	ListByContractor(ctx context.Context, contractorID string) ([]*domain.Proposal, error)
	CountByProjects(ctx context.Context, projectIDs []string) (map[string]int64, error)
	// SetStatus moves a proposal from one status to another and returns
	// domain.ErrInvalidTransition when it is no longer in from.
	SetStatus(ctx context.Context, id string, from, to domain.ProposalStatus) error
	// RejectPending rejects every pending proposal on the project except keepID.
	RejectPending(ctx context.Context, projectID, keepID string) error
	DeleteByProject(ctx context.Context, projectID string) error
	Count(ctx context.Context) (int64, error)
}

// MessageRepository defines persistence operations for messages.
type MessageRepository interface {
	Create(ctx context.Context, m *domain.Message) error
	// List returns messages involving accountID, optionally only those exchanged with peerID.
	List(ctx context.Context, accountID, peerID string, limit int) ([]*domain.Message, error)
	// MarkRead flips the read flag when recipientID is the recipient.
	MarkRead(ctx context.Context, id, recipientID string) (*domain.Message, error)
}
