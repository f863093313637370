package handler

import (
	"strings"

	"github.com/skillsync/marketplace-api/internal/core/ports"
)

// --- Request → Service input ---

func toCreateProjectInput(req createProjectRequest) ports.CreateProjectInput {
	return ports.CreateProjectInput{
		Title:          req.Title,
		Description:    req.Description,
		Budget:         req.Budget,
		SkillsRequired: req.SkillsRequired,
	}
}

func toUpdateProjectInput(req updateProjectRequest) ports.UpdateProjectInput {
	return ports.UpdateProjectInput{
		Title:          req.Title,
		Description:    req.Description,
		Budget:         req.Budget,
		SkillsRequired: req.SkillsRequired,
		Status:         req.Status,
	}
}

func toSubmitProposalInput(req submitProposalRequest) ports.SubmitProposalInput {
	return ports.SubmitProposalInput{
		ProjectID:         req.ProjectID,
		CoverLetter:       req.CoverLetter,
		ProposedBudget:    req.ProposedBudget,
		EstimatedDuration: req.EstimatedDuration,
	}
}

func toUpdateProfileInput(req updateProfileRequest) ports.UpdateProfileInput {
	return ports.UpdateProfileInput{
		Bio:        req.Bio,
		HourlyRate: req.HourlyRate,
		Skills:     req.Skills,
	}
}

// --- Service output → Response ---

func toTokenResponse(res *ports.AuthResult) tokenResponse {
	return tokenResponse{
		AccessToken: res.AccessToken,
		TokenType:   res.TokenType,
		Role:        res.Role,
		UserID:      res.UserID,
	}
}

func toClientDashboardResponse(d *ports.ClientDashboard) clientDashboardResponse {
	return clientDashboardResponse{
		ActiveProjects:    d.ActiveProjects,
		TotalProposals:    d.TotalProposals,
		CompletedProjects: d.CompletedProjects,
		TotalBudget:       d.TotalBudget,
	}
}

func toContractorDashboardResponse(d *ports.ContractorDashboard) contractorDashboardResponse {
	return contractorDashboardResponse{
		ActiveJobs:        d.ActiveJobs,
		PendingProposals:  d.PendingProposals,
		AcceptedProposals: d.AcceptedProposals,
		CompletedJobs:     d.CompletedJobs,
	}
}

func toAnalyticsResponse(a *ports.Analytics) analyticsResponse {
	resp := analyticsResponse{
		UsersByRole:      a.UsersByRole,
		ProjectsByStatus: a.ProjectsByStatus,
		TotalProposals:   a.TotalProposals,
	}
	for _, n := range a.UsersByRole {
		resp.TotalUsers += n
	}
	for _, n := range a.ProjectsByStatus {
		resp.TotalProjects += n
	}
	return resp
}

// splitCSV parses "a, b,,c" into [a b c].
func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
