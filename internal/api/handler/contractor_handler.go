package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/skillsync/marketplace-api/internal/core/ports"
)

// ContractorHandler serves the contractor workspace.
type ContractorHandler struct {
	contractors ports.ContractorService
	proposals   ports.ProposalService
}

func NewContractorHandler(contractors ports.ContractorService, proposals ports.ProposalService) *ContractorHandler {
	return &ContractorHandler{contractors: contractors, proposals: proposals}
}

// Dashboard handles GET /contractor/dashboard.
//
// @Summary      Contractor dashboard
// @Tags         contractor
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  contractorDashboardResponse
// @Failure      403  {object}  errorResponse
// @Router       /contractor/dashboard [get]
func (h *ContractorHandler) Dashboard(c echo.Context) error {
	contractorID, err := subject(c)
	if err != nil {
		return err
	}

	stats, err := h.contractors.Dashboard(c.Request().Context(), contractorID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toContractorDashboardResponse(stats))
}

// AvailableProjects handles GET /contractor/projects/available.
//
// @Summary      Open projects
// @Tags         contractor
// @Produce      json
// @Security     BearerAuth
// @Param        skills  query     string  false  "Comma-separated skills, any-of"
// @Success      200     {array}   domain.Project
// @Router       /contractor/projects/available [get]
func (h *ContractorHandler) AvailableProjects(c echo.Context) error {
	projects, err := h.contractors.AvailableProjects(c.Request().Context(), splitCSV(c.QueryParam("skills")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, projects)
}

// ActiveProjects handles GET /contractor/projects/active.
//
// @Summary      Projects assigned to the caller
// @Tags         contractor
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Project
// @Router       /contractor/projects/active [get]
func (h *ContractorHandler) ActiveProjects(c echo.Context) error {
	contractorID, err := subject(c)
	if err != nil {
		return err
	}

	projects, err := h.contractors.ActiveJobs(c.Request().Context(), contractorID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, projects)
}

// GetProject handles GET /contractor/projects/:id.
//
// @Summary      Project detail
// @Tags         contractor
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project id"
// @Success      200  {object}  domain.Project
// @Failure      404  {object}  errorResponse
// @Router       /contractor/projects/{id} [get]
func (h *ContractorHandler) GetProject(c echo.Context) error {
	contractorID, err := subject(c)
	if err != nil {
		return err
	}

	project, err := h.contractors.Job(c.Request().Context(), contractorID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, project)
}

// UpdateProgress handles POST /contractor/projects/:id/progress.
//
// @Summary      Report progress on an assigned project
// @Tags         contractor
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Project id"
// @Param        body  body      progressRequest  true  "Progress 0..100"
// @Success      200   {object}  domain.Project
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /contractor/projects/{id}/progress [post]
func (h *ContractorHandler) UpdateProgress(c echo.Context) error {
	contractorID, err := subject(c)
	if err != nil {
		return err
	}

	var req progressRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	project, err := h.contractors.UpdateProgress(c.Request().Context(), contractorID, c.Param("id"), *req.Progress, req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, project)
}

// SubmitProposal handles POST /contractor/proposals.
//
// @Summary      Submit a proposal
// @Tags         contractor
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      submitProposalRequest  true  "Proposal"
// @Success      201   {object}  domain.Proposal
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /contractor/proposals [post]
func (h *ContractorHandler) SubmitProposal(c echo.Context) error {
	contractorID, err := subject(c)
	if err != nil {
		return err
	}

	var req submitProposalRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	proposal, err := h.proposals.Submit(c.Request().Context(), contractorID, toSubmitProposalInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, proposal)
}

// ListProposals handles GET /contractor/proposals.
//
// @Summary      Own proposals
// @Tags         contractor
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Proposal
// @Router       /contractor/proposals [get]
func (h *ContractorHandler) ListProposals(c echo.Context) error {
	contractorID, err := subject(c)
	if err != nil {
		return err
	}

	proposals, err := h.proposals.ListOwn(c.Request().Context(), contractorID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, proposals)
}

// GetProfile handles GET /contractor/profile.
//
// @Summary      Own contractor profile
// @Tags         contractor
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Account
// @Router       /contractor/profile [get]
func (h *ContractorHandler) GetProfile(c echo.Context) error {
	contractorID, err := subject(c)
	if err != nil {
		return err
	}

	account, err := h.contractors.Profile(c.Request().Context(), contractorID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}

// UpdateProfile handles PATCH /contractor/profile.
//
// @Summary      Update own contractor profile
// @Tags         contractor
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  domain.Account
// @Failure      400   {object}  errorResponse
// @Router       /contractor/profile [patch]
func (h *ContractorHandler) UpdateProfile(c echo.Context) error {
	contractorID, err := subject(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	account, err := h.contractors.UpdateProfile(c.Request().Context(), contractorID, toUpdateProfileInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}
