package handler

import "github.com/skillsync/marketplace-api/internal/core/domain"

// errorResponse documents the error envelope rendered by the API error handler.
type errorResponse struct {
	Detail string `json:"detail"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type registerRequest struct {
	Email    string `json:"email"     validate:"required,email"`
	Password string `json:"password"  validate:"required"`
	FullName string `json:"full_name" validate:"required,max=120"`
	Role     string `json:"role"      validate:"required"`
}

// loginRequest accepts JSON {email, password} and the OAuth2 password form
// (username, password).
type loginRequest struct {
	Email    string `json:"email"    form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	Role        domain.Role `json:"role"`
	UserID      string      `json:"user_id"`
}

// --- Projects ---

type createProjectRequest struct {
	Title          string   `json:"title"           validate:"required,max=200"`
	Description    string   `json:"description"     validate:"required"`
	Budget         float64  `json:"budget"          validate:"required,gt=0"`
	SkillsRequired []string `json:"skills_required" validate:"required,min=1,dive,required"`
}

type updateProjectRequest struct {
	Title          *string  `json:"title"           validate:"omitempty,min=1,max=200"`
	Description    *string  `json:"description"     validate:"omitempty,min=1"`
	Budget         *float64 `json:"budget"          validate:"omitempty,gt=0"`
	SkillsRequired []string `json:"skills_required" validate:"omitempty,dive,required"`
	Status         *string  `json:"status"          validate:"omitempty,oneof=open in_progress completed cancelled"`
}

type clientDashboardResponse struct {
	ActiveProjects    int     `json:"active_projects"`
	TotalProposals    int64   `json:"total_proposals"`
	CompletedProjects int     `json:"completed_projects"`
	TotalBudget       float64 `json:"total_budget"`
}

// --- Proposals ---

type submitProposalRequest struct {
	ProjectID         string  `json:"project_id"         validate:"required"`
	CoverLetter       string  `json:"cover_letter"       validate:"required,max=5000"`
	ProposedBudget    float64 `json:"proposed_budget"    validate:"required,gt=0"`
	EstimatedDuration string  `json:"estimated_duration" validate:"required"`
}

// --- Contractors ---

type updateProfileRequest struct {
	Bio        *string  `json:"bio"         validate:"omitempty,max=2000"`
	HourlyRate *float64 `json:"hourly_rate" validate:"omitempty,gte=0"`
	Skills     []string `json:"skills"      validate:"omitempty,dive,required"`
}

type progressRequest struct {
	Progress *int   `json:"progress" validate:"required,gte=0,lte=100"`
	Notes    string `json:"notes"    validate:"max=2000"`
}

type contractorDashboardResponse struct {
	ActiveJobs        int `json:"active_jobs"`
	PendingProposals  int `json:"pending_proposals"`
	AcceptedProposals int `json:"accepted_proposals"`
	CompletedJobs     int `json:"completed_jobs"`
}

// --- Messages ---

type sendMessageRequest struct {
	RecipientID string `json:"recipient_id" validate:"required"`
	Content     string `json:"content"      validate:"required,max=5000"`
}

// --- Admin ---

type analyticsResponse struct {
	UsersByRole      map[domain.Role]int64          `json:"users_by_role"`
	TotalUsers       int64                          `json:"total_users"`
	ProjectsByStatus map[domain.ProjectStatus]int64 `json:"projects_by_status"`
	TotalProjects    int64                          `json:"total_projects"`
	TotalProposals   int64                          `json:"total_proposals"`
}
