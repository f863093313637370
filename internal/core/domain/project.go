package domain

import "time"

// ProjectStatus represents the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectOpen       ProjectStatus = "open"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectCancelled  ProjectStatus = "cancelled"
)

// validProjectTransitions defines the allowed state machine transitions.
var validProjectTransitions = map[ProjectStatus][]ProjectStatus{
	ProjectOpen:       {ProjectInProgress, ProjectCancelled},
	ProjectInProgress: {ProjectCompleted, ProjectCancelled},
}

// Valid reports whether s is a known project status.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectOpen, ProjectInProgress, ProjectCompleted, ProjectCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether a transition from the current status to next is valid.
func (s ProjectStatus) CanTransitionTo(next ProjectStatus) bool {
	for _, allowed := range validProjectTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Active reports whether the project still counts towards a client's workload.
func (s ProjectStatus) Active() bool {
	return s == ProjectOpen || s == ProjectInProgress
}

// Project is a piece of work posted by a client.
type Project struct {
	ID             string        `json:"id"`
	ClientID       string        `json:"client_id"`
	ContractorID   string        `json:"contractor_id,omitempty"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	Budget         float64       `json:"budget"`
	SkillsRequired []string      `json:"skills_required"`
	Status         ProjectStatus `json:"status"`
	Progress       int           `json:"progress"`
	ProgressNotes  string        `json:"progress_notes,omitempty"`
	ProposalCount  int64         `json:"proposals"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// ProposalStatus represents the decision state of a proposal.
type ProposalStatus string

const (
	ProposalPending  ProposalStatus = "pending"
	ProposalAccepted ProposalStatus = "accepted"
	ProposalRejected ProposalStatus = "rejected"
)

// Proposal is a contractor's bid on a project.
type Proposal struct {
	ID                string         `json:"id"`
	ProjectID         string         `json:"project_id"`
	ContractorID      string         `json:"contractor_id"`
	ContractorName    string         `json:"contractor_name,omitempty"`
	CoverLetter       string         `json:"cover_letter"`
	ProposedBudget    float64        `json:"proposed_budget"`
	EstimatedDuration string         `json:"estimated_duration"`
	Status            ProposalStatus `json:"status"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// Message is a direct note between two accounts.
type Message struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"sender_id"`
	SenderName  string    `json:"sender_name"`
	RecipientID string    `json:"recipient_id"`
	Content     string    `json:"content"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}
