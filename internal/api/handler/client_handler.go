package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/skillsync/marketplace-api/internal/core/ports"
)

// ClientHandler serves the client workspace: projects, proposal decisions,
// contractor browsing and the dashboard.
type ClientHandler struct {
	projects    ports.ProjectService
	proposals   ports.ProposalService
	contractors ports.ContractorService
}

func NewClientHandler(projects ports.ProjectService, proposals ports.ProposalService, contractors ports.ContractorService) *ClientHandler {
	return &ClientHandler{projects: projects, proposals: proposals, contractors: contractors}
}

// CreateProject handles POST /client/projects.
//
// @Summary      Post a project
// @Tags         client
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createProjectRequest  true  "Project details"
// @Success      201   {object}  domain.Project
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /client/projects [post]
func (h *ClientHandler) CreateProject(c echo.Context) error {
	clientID, err := subject(c)
	if err != nil {
		return err
	}

	var req createProjectRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	project, err := h.projects.Create(c.Request().Context(), clientID, toCreateProjectInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, project)
}

// ListProjects handles GET /client/projects.
//
// @Summary      List own projects
// @Tags         client
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by status"
// @Success      200     {array}   domain.Project
// @Router       /client/projects [get]
func (h *ClientHandler) ListProjects(c echo.Context) error {
	clientID, err := subject(c)
	if err != nil {
		return err
	}

	projects, err := h.projects.ListOwn(c.Request().Context(), clientID, c.QueryParam("status"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, projects)
}

// GetProject handles GET /client/projects/:id.
//
// @Summary      Get an own project
// @Tags         client
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project id"
// @Success      200  {object}  domain.Project
// @Failure      404  {object}  errorResponse
// @Router       /client/projects/{id} [get]
func (h *ClientHandler) GetProject(c echo.Context) error {
	clientID, err := subject(c)
	if err != nil {
		return err
	}

	project, err := h.projects.GetOwn(c.Request().Context(), clientID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, project)
}

// UpdateProject handles PUT /client/projects/:id.
//
// @Summary      Update an own project
// @Tags         client
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Project id"
// @Param        body  body      updateProjectRequest  true  "Fields to change"
// @Success      200   {object}  domain.Project
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /client/projects/{id} [put]
func (h *ClientHandler) UpdateProject(c echo.Context) error {
	clientID, err := subject(c)
	if err != nil {
		return err
	}

	var req updateProjectRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	project, err := h.projects.Update(c.Request().Context(), clientID, c.Param("id"), toUpdateProjectInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, project)
}

// DeleteProject handles DELETE /client/projects/:id.
//
// @Summary      Delete an own project and its proposals
// @Tags         client
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Router       /client/projects/{id} [delete]
func (h *ClientHandler) DeleteProject(c echo.Context) error {
	clientID, err := subject(c)
	if err != nil {
		return err
	}

	if err := h.projects.Delete(c.Request().Context(), clientID, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "project deleted"})
}

// ProjectProposals handles GET /client/projects/:id/proposals.
//
// @Summary      List proposals on an own project
// @Tags         client
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project id"
// @Success      200  {array}   domain.Proposal
// @Failure      404  {object}  errorResponse
// @Router       /client/projects/{id}/proposals [get]
func (h *ClientHandler) ProjectProposals(c echo.Context) error {
	clientID, err := subject(c)
	if err != nil {
		return err
	}

	proposals, err := h.projects.Proposals(c.Request().Context(), clientID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, proposals)
}

// AcceptProposal handles PUT /client/proposals/:id/accept.
//
// @Summary      Accept a proposal
// @Tags         client
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Proposal id"
// @Success      200  {object}  domain.Proposal
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /client/proposals/{id}/accept [put]
func (h *ClientHandler) AcceptProposal(c echo.Context) error {
	clientID, err := subject(c)
	if err != nil {
		return err
	}

	proposal, err := h.proposals.Accept(c.Request().Context(), clientID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, proposal)
}

// RejectProposal handles PUT /client/proposals/:id/reject.
//
// @Summary      Reject a proposal
// @Tags         client
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Proposal id"
// @Success      200  {object}  domain.Proposal
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /client/proposals/{id}/reject [put]
func (h *ClientHandler) RejectProposal(c echo.Context) error {
	clientID, err := subject(c)
	if err != nil {
		return err
	}

	proposal, err := h.proposals.Reject(c.Request().Context(), clientID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, proposal)
}

// BrowseContractors handles GET /client/contractors.
//
// @Summary      Browse contractors
// @Tags         client
// @Produce      json
// @Security     BearerAuth
// @Param        skills      query     string  false  "Comma-separated skills, any-of"
// @Param        min_rating  query     number  false  "Minimum rating"
// @Param        max_rate    query     number  false  "Maximum hourly rate"
// @Success      200         {array}   domain.Account
// @Failure      400         {object}  errorResponse
// @Router       /client/contractors [get]
func (h *ClientHandler) BrowseContractors(c echo.Context) error {
	filter := ports.ContractorFilter{Skills: splitCSV(c.QueryParam("skills"))}
	if err := echo.QueryParamsBinder(c).
		Float64("min_rating", &filter.MinRating).
		Float64("max_rate", &filter.MaxRate).
		BindError(); err != nil {
		return invalidQuery(err)
	}

	contractors, err := h.contractors.Browse(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, contractors)
}

// GetContractor handles GET /client/contractors/:id.
//
// @Summary      Contractor public profile
// @Tags         client
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Contractor account id"
// @Success      200  {object}  domain.Account
// @Failure      404  {object}  errorResponse
// @Router       /client/contractors/{id} [get]
func (h *ClientHandler) GetContractor(c echo.Context) error {
	contractor, err := h.contractors.PublicProfile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, contractor)
}

// DashboardStats handles GET /client/dashboard/stats.
//
// @Summary      Client dashboard
// @Tags         client
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  clientDashboardResponse
// @Router       /client/dashboard/stats [get]
func (h *ClientHandler) DashboardStats(c echo.Context) error {
	clientID, err := subject(c)
	if err != nil {
		return err
	}

	stats, err := h.projects.Dashboard(c.Request().Context(), clientID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toClientDashboardResponse(stats))
}
