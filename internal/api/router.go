package api

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/skillsync/marketplace-api/docs"
	"github.com/skillsync/marketplace-api/internal/api/handler"
	"github.com/skillsync/marketplace-api/internal/api/middleware"
	"github.com/skillsync/marketplace-api/internal/core/domain"
	"github.com/skillsync/marketplace-api/internal/core/ports"
)

const bodyLimit = "1M"

// Dependencies is everything the router needs. Services are constructed by
// the caller so the HTTP layer never touches storage handles directly.
type Dependencies struct {
	Logger   zerolog.Logger
	Resolver middleware.IdentityResolver
	Audit    ports.AuditSink

	Auth        ports.AuthService
	Projects    ports.ProjectService
	Proposals   ports.ProposalService
	Contractors ports.ContractorService
	Messages    ports.MessageService
	Admin       ports.AdminService

	// Checks are the readiness checks keyed by dependency name.
	Checks map[string]handler.Check

	CORSOrigins []string
	// AuthRateLimit is the per-IP request budget per minute on /auth; 0 disables it.
	AuthRateLimit int

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	registerer := deps.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: deps.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echomiddleware.Secure())
	e.Use(echomiddleware.BodyLimit(bodyLimit))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "skillsync",
		Subsystem:  "http",
		Registerer: registerer,
	}))

	// --- Handlers ---
	healthHandler := handler.NewHealthHandler(deps.Checks)
	authHandler := handler.NewAuthHandler(deps.Auth)
	clientHandler := handler.NewClientHandler(deps.Projects, deps.Proposals, deps.Contractors)
	contractorHandler := handler.NewContractorHandler(deps.Contractors, deps.Proposals)
	messageHandler := handler.NewMessageHandler(deps.Messages)
	adminHandler := handler.NewAdminHandler(deps.Admin)

	authn := middleware.Authenticate(deps.Resolver)

	// --- Operational routes (no auth required) ---
	e.GET("/", healthHandler.Root)
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/docs/*", echoSwagger.WrapHandler)

	// --- Auth routes ---
	authGroup := e.Group("/auth")
	if deps.AuthRateLimit > 0 {
		authGroup.Use(authRateLimiter(deps.AuthRateLimit))
	}
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", authHandler.Me, authn)

	// --- Client routes ---
	client := e.Group("/client", authn, middleware.RequireRole(domain.RoleClient, deps.Audit))
	client.POST("/projects", clientHandler.CreateProject)
	client.GET("/projects", clientHandler.ListProjects)
	client.GET("/projects/:id", clientHandler.GetProject)
	client.PUT("/projects/:id", clientHandler.UpdateProject)
	client.DELETE("/projects/:id", clientHandler.DeleteProject)
	client.GET("/projects/:id/proposals", clientHandler.ProjectProposals)
	client.PUT("/proposals/:id/accept", clientHandler.AcceptProposal)
	client.PUT("/proposals/:id/reject", clientHandler.RejectProposal)
	client.GET("/contractors", clientHandler.BrowseContractors)
	client.GET("/contractors/:id", clientHandler.GetContractor)
	client.GET("/dashboard/stats", clientHandler.DashboardStats)
	mountMessages(client, messageHandler)

	// --- Contractor routes ---
	contractor := e.Group("/contractor", authn, middleware.RequireRole(domain.RoleContractor, deps.Audit))
	contractor.GET("/dashboard", contractorHandler.Dashboard)
	contractor.GET("/projects/available", contractorHandler.AvailableProjects)
	contractor.GET("/projects/active", contractorHandler.ActiveProjects)
	contractor.GET("/projects/:id", contractorHandler.GetProject)
	contractor.POST("/projects/:id/progress", contractorHandler.UpdateProgress)
	contractor.POST("/proposals", contractorHandler.SubmitProposal)
	contractor.GET("/proposals", contractorHandler.ListProposals)
	contractor.GET("/profile", contractorHandler.GetProfile)
	contractor.PATCH("/profile", contractorHandler.UpdateProfile)
	mountMessages(contractor, messageHandler)

	// --- Admin routes ---
	admin := e.Group("/admin", authn, middleware.RequireRole(domain.RoleAdmin, deps.Audit))
	admin.GET("/users", adminHandler.Users)
	admin.GET("/users/:id", adminHandler.User)
	admin.GET("/projects", adminHandler.Projects)
	admin.GET("/analytics", adminHandler.Analytics)

	return e
}

func mountMessages(g *echo.Group, h *handler.MessageHandler) {
	g.POST("/messages", h.Send)
	g.GET("/messages", h.List)
	g.PUT("/messages/:id/read", h.MarkRead)
}

// requestLogger emits one zerolog entry per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Status >= http.StatusInternalServerError {
				evt = log.Error().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}

// authRateLimiter caps credential endpoints per client IP.
func authRateLimiter(perMinute int) echo.MiddlewareFunc {
	return echo.WrapMiddleware(httprate.Limit(perMinute, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"detail":"too many requests"}`))
		}),
	))
}
