package transport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ganot/gigledger/internal/domain/event"
	"github.com/ganot/gigledger/internal/domain/ledger"
)

// LedgerService defines the ledger operations exposed over HTTP.
type LedgerService interface {
	CreateProject(ctx context.Context, caller string, req ledger.CreateProjectRequest) (*ledger.Project, error)
	SubmitBid(ctx context.Context, caller string, id uint64) error
	AssignFreelancer(ctx context.Context, caller string, id uint64, freelancer string) (*ledger.Project, error)
	SubmitWork(ctx context.Context, caller string, id uint64) (*ledger.Project, error)
	CompleteProject(ctx context.Context, caller string, id uint64) (*ledger.Settlement, error)
	CancelProject(ctx context.Context, caller string, id uint64) error
	UpdatePlatformFee(ctx context.Context, caller string, pct uint8) error
	GetProject(ctx context.Context, id uint64) (*ledger.Project, error)
	GetProjectBids(ctx context.Context, id uint64) ([]string, error)
	GetClientProjects(ctx context.Context, client string) ([]uint64, error)
	GetFreelancerProjects(ctx context.Context, freelancer string) ([]uint64, error)
	GetStats(ctx context.Context) (*ledger.Stats, error)
}

// EventService defines event log queries exposed over HTTP.
type EventService interface {
	Recent(ctx context.Context, opts event.ListOptions) ([]event.Event, error)
}

// CustodyAccounts defines the custody account operations exposed over HTTP.
type CustodyAccounts interface {
	Credit(ctx context.Context, account string, amount int64) error
	Balance(ctx context.Context, account string) (int64, error)
}

// Handler serves the ledger HTTP API.
type Handler struct {
	ledger  LedgerService
	events  EventService
	custody CustodyAccounts
	logger  *slog.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(ledgerSvc LedgerService, events EventService, custody CustodyAccounts, logger *slog.Logger) *Handler {
	return &Handler{ledger: ledgerSvc, events: events, custody: custody, logger: logger}
}

// NewRouter builds the gin engine with all routes attached.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.Default())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	api := r.Group("/api/v1")
	h.Register(api)

	return r
}

// Register attaches ledger routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	projects := rg.Group("/projects")
	projects.POST("", h.createProject)
	projects.GET("/:id", h.getProject)
	projects.GET("/:id/bids", h.getProjectBids)
	projects.POST("/:id/bids", h.submitBid)
	projects.POST("/:id/assign", h.assignFreelancer)
	projects.POST("/:id/submit", h.submitWork)
	projects.POST("/:id/complete", h.completeProject)
	projects.POST("/:id/cancel", h.cancelProject)

	rg.GET("/clients/:id/projects", h.clientProjects)
	rg.GET("/freelancers/:id/projects", h.freelancerProjects)
	rg.GET("/stats", h.stats)
	rg.PUT("/platform-fee", h.updatePlatformFee)
	rg.GET("/events", h.listEvents)

	rg.POST("/accounts/:id/topup", h.topUpAccount)
	rg.GET("/accounts/:id/balance", h.accountBalance)
}
