package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ganot/gigledger/internal/domain/event"
	"github.com/ganot/gigledger/internal/domain/ledger"
)

const serverInstructions = `gigledger exposes read-only inspection of a
project-escrow ledger: project records, bid lists, per-actor project indexes,
ledger-wide stats, and the event log. All mutations go through the HTTP API.`

// LedgerService defines the ledger queries needed by MCP.
type LedgerService interface {
	GetProject(ctx context.Context, id uint64) (*ledger.Project, error)
	GetProjectBids(ctx context.Context, id uint64) ([]string, error)
	GetClientProjects(ctx context.Context, client string) ([]uint64, error)
	GetFreelancerProjects(ctx context.Context, freelancer string) ([]uint64, error)
	GetStats(ctx context.Context) (*ledger.Stats, error)
}

// EventService defines the event log queries needed by MCP.
type EventService interface {
	Recent(ctx context.Context, opts event.ListOptions) ([]event.Event, error)
}

// Services contains the domain services needed by MCP.
type Services struct {
	Ledger LedgerService
	Events EventService
}

// NewServer creates an MCP server exposing read-only ledger tools.
func NewServer(services Services, logger *slog.Logger) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "gigledger",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       logger,
	})

	registerTools(server, services)

	return server
}
