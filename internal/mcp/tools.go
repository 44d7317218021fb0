package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ganot/gigledger/internal/domain/event"
	"github.com/ganot/gigledger/internal/domain/ledger"
)

type getProjectInput struct {
	ID uint64 `json:"id" jsonschema:"project id"`
}

type projectBidsResult struct {
	ProjectID uint64   `json:"project_id" jsonschema:"project id"`
	Bids      []string `json:"bids" jsonschema:"bidder identities in insertion order"`
}

type actorProjectsInput struct {
	Actor string `json:"actor" jsonschema:"client or freelancer identity"`
}

type actorProjectsResult struct {
	Actor      string   `json:"actor" jsonschema:"queried identity"`
	ProjectIDs []uint64 `json:"project_ids" jsonschema:"project ids in index order"`
}

type statsInput struct{}

type recentEventsInput struct {
	ProjectID *uint64 `json:"project_id,omitempty" jsonschema:"filter by project id"`
	Limit     int     `json:"limit,omitempty" jsonschema:"maximum number of events"`
	Offset    int     `json:"offset,omitempty" jsonschema:"offset for pagination"`
}

type recentEventsResult struct {
	Events []event.Event `json:"events" jsonschema:"events in append order"`
}

func registerTools(server *sdkmcp.Server, services Services) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_project",
		Description: "Get a project record by id",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, input getProjectInput) (*sdkmcp.CallToolResult, *ledger.Project, error) {
		proj, err := services.Ledger.GetProject(ctx, input.ID)
		if err != nil {
			return nil, nil, err
		}
		return nil, proj, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_project_bids",
		Description: "List a project's bidders in insertion order",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, input getProjectInput) (*sdkmcp.CallToolResult, *projectBidsResult, error) {
		bids, err := services.Ledger.GetProjectBids(ctx, input.ID)
		if err != nil {
			return nil, nil, err
		}
		return nil, &projectBidsResult{ProjectID: input.ID, Bids: bids}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_client_projects",
		Description: "List project ids created by a client",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, input actorProjectsInput) (*sdkmcp.CallToolResult, *actorProjectsResult, error) {
		ids, err := services.Ledger.GetClientProjects(ctx, input.Actor)
		if err != nil {
			return nil, nil, err
		}
		return nil, &actorProjectsResult{Actor: input.Actor, ProjectIDs: ids}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_freelancer_projects",
		Description: "List project ids assigned to a freelancer",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, input actorProjectsInput) (*sdkmcp.CallToolResult, *actorProjectsResult, error) {
		ids, err := services.Ledger.GetFreelancerProjects(ctx, input.Actor)
		if err != nil {
			return nil, nil, err
		}
		return nil, &actorProjectsResult{Actor: input.Actor, ProjectIDs: ids}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "ledger_stats",
		Description: "Get ledger-wide counters: total projects, platform fee, owner",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ statsInput) (*sdkmcp.CallToolResult, *ledger.Stats, error) {
		stats, err := services.Ledger.GetStats(ctx)
		if err != nil {
			return nil, nil, err
		}
		return nil, stats, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "recent_events",
		Description: "List ledger events in append order, optionally filtered by project",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, input recentEventsInput) (*sdkmcp.CallToolResult, *recentEventsResult, error) {
		limit := input.Limit
		if limit <= 0 {
			limit = 100
		}
		events, err := services.Events.Recent(ctx, event.ListOptions{
			ProjectID: input.ProjectID,
			Limit:     limit,
			Offset:    input.Offset,
		})
		if err != nil {
			return nil, nil, err
		}
		return nil, &recentEventsResult{Events: events}, nil
	})
}
