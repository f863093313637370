package ports

import (
	"context"

	"github.com/skillsync/marketplace-api/internal/core/domain"
)

// CreateProjectInput carries the data needed to post a project.
type CreateProjectInput struct {
	Title          string
	Description    string
	Budget         float64
	SkillsRequired []string
}

// UpdateProjectInput carries a partial project update; nil fields are left unchanged.
type UpdateProjectInput struct {
	Title          *string
	Description    *string
	Budget         *float64
	SkillsRequired []string
	Status         *string
}

// ClientDashboard summarises a client's projects.
type ClientDashboard struct {
	ActiveProjects    int
	CompletedProjects int
	TotalProposals    int64
	TotalBudget       float64
}

// ProjectService covers the client side of the project lifecycle.
type ProjectService interface {
	Create(ctx context.Context, clientID string, in CreateProjectInput) (*domain.Project, error)
	ListOwn(ctx context.Context, clientID, status string) ([]*domain.Project, error)
	GetOwn(ctx context.Context, clientID, projectID string) (*domain.Project, error)
	Update(ctx context.Context, clientID, projectID string, in UpdateProjectInput) (*domain.Project, error)
	Delete(ctx context.Context, clientID, projectID string) error
	Proposals(ctx context.Context, clientID, projectID string) ([]*domain.Proposal, error)
	Dashboard(ctx context.Context, clientID string) (*ClientDashboard, error)
}

// SubmitProposalInput carries a contractor's bid.
type SubmitProposalInput struct {
	ProjectID         string
	CoverLetter       string
	ProposedBudget    float64
	EstimatedDuration string
}

// ProposalService covers bidding and the client's decision on bids.
type ProposalService interface {
	Submit(ctx context.Context, contractorID string, in SubmitProposalInput) (*domain.Proposal, error)
	ListOwn(ctx context.Context, contractorID string) ([]*domain.Proposal, error)
	Accept(ctx context.Context, clientID, proposalID string) (*domain.Proposal, error)
	Reject(ctx context.Context, clientID, proposalID string) (*domain.Proposal, error)
}

// SendMessageInput carries a new direct message.
type SendMessageInput struct {
	RecipientID string
	Content     string
}

// MessageService covers direct messaging.
type MessageService interface {
	Send(ctx context.Context, senderID string, in SendMessageInput) (*domain.Message, error)
	List(ctx context.Context, accountID, peerID string) ([]*domain.Message, error)
	MarkRead(ctx context.Context, accountID, messageID string) (*domain.Message, error)
}

// UpdateProfileInput is a partial contractor profile update.
type UpdateProfileInput struct {
	Bio        *string
	HourlyRate *float64
	Skills     []string
}

// ContractorDashboard summarises a contractor's work.
type ContractorDashboard struct {
	ActiveJobs        int
	CompletedJobs     int
	PendingProposals  int
	AcceptedProposals int
}

// ContractorService covers contractor browsing and the contractor's own workspace.
type ContractorService interface {
	Browse(ctx context.Context, filter ContractorFilter) ([]*domain.Account, error)
	PublicProfile(ctx context.Context, contractorID string) (*domain.Account, error)
	Profile(ctx context.Context, contractorID string) (*domain.Account, error)
	UpdateProfile(ctx context.Context, contractorID string, in UpdateProfileInput) (*domain.Account, error)
	AvailableProjects(ctx context.Context, skills []string) ([]*domain.Project, error)
	ActiveJobs(ctx context.Context, contractorID string) ([]*domain.Project, error)
	Job(ctx context.Context, contractorID, projectID string) (*domain.Project, error)
	UpdateProgress(ctx context.Context, contractorID, projectID string, progress int, notes string) (*domain.Project, error)
	Dashboard(ctx context.Context, contractorID string) (*ContractorDashboard, error)
}

// Analytics is the platform-wide overview shown to admins.
type Analytics struct {
	UsersByRole      map[domain.Role]int64
	ProjectsByStatus map[domain.ProjectStatus]int64
	TotalProposals   int64
}

// AdminService covers read-only platform oversight.
type AdminService interface {
	Users(ctx context.Context, role string) ([]*domain.Account, error)
	User(ctx context.Context, id string) (*domain.Account, error)
	Projects(ctx context.Context, status string) ([]*domain.Project, error)
	Analytics(ctx context.Context) (*Analytics, error)
}
