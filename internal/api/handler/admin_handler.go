package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/skillsync/marketplace-api/internal/core/ports"
)

// AdminHandler serves read-only platform oversight.
type AdminHandler struct {
	admin ports.AdminService
}

func NewAdminHandler(admin ports.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// Users handles GET /admin/users.
//
// @Summary      List accounts
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        role  query     string  false  "client, contractor or admin"
// @Success      200   {array}   domain.Account
// @Failure      400   {object}  errorResponse
// @Router       /admin/users [get]
func (h *AdminHandler) Users(c echo.Context) error {
	users, err := h.admin.Users(c.Request().Context(), c.QueryParam("role"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// User handles GET /admin/users/:id.
//
// @Summary      Get an account
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Account id"
// @Success      200  {object}  domain.Account
// @Failure      404  {object}  errorResponse
// @Router       /admin/users/{id} [get]
func (h *AdminHandler) User(c echo.Context) error {
	user, err := h.admin.User(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Projects handles GET /admin/projects.
//
// @Summary      List all projects
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by status"
// @Success      200     {array}   domain.Project
// @Failure      400     {object}  errorResponse
// @Router       /admin/projects [get]
func (h *AdminHandler) Projects(c echo.Context) error {
	projects, err := h.admin.Projects(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, projects)
}

// Analytics handles GET /admin/analytics.
//
// @Summary      Platform analytics
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  analyticsResponse
// @Router       /admin/analytics [get]
func (h *AdminHandler) Analytics(c echo.Context) error {
	stats, err := h.admin.Analytics(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAnalyticsResponse(stats))
}
