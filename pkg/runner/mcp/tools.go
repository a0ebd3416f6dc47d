package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerSearchNamesTool(srv, svc)
	registerResolveValidFormTool(srv, svc)
	registerListRepositoriesTool(srv, svc)
}

func registerSearchNamesTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"search_names",
		mcp.WithDescription("Search scientific names in a taxonomic repository by name prefix."),
		mcp.WithString("repository",
			mcp.Required(),
			mcp.Description("Repository to search, for example bdtfx or baseveg."),
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Beginning of the name, each word matched as a prefix."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of names to return (default 20)."),
			mcp.Min(1),
			mcp.Max(100),
		),
		mcp.WithBoolean("resolve",
			mcp.Description("Attach the valid name to every synonym."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Repository string `json:"repository"`
			Query      string `json:"query"`
			Limit      int    `json:"limit"`
			Resolve    bool   `json:"resolve"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		names, err := svc.SearchNames(ctx, args.Repository, args.Query, args.Limit, args.Resolve)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"repository": args.Repository,
			"query":      args.Query,
			"names":      names,
			"count":      len(names),
		})
	})
}

func registerResolveValidFormTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"resolve_valid_form",
		mcp.WithDescription("Return the accepted name of a synonym."),
		mcp.WithString("repository",
			mcp.Required(),
			mcp.Description("Repository holding the name."),
		),
		mcp.WithString("nameId",
			mcp.Description("Identifier of the name in the repository."),
		),
		mcp.WithString("taxonId",
			mcp.Description("Identifier of the taxon the name belongs to."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		repo, err := request.RequireString("repository")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		valid, err := svc.ResolveValidForm(ctx, repo,
			request.GetString("nameId", ""),
			request.GetString("taxonId", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(valid)
	})
}

func registerListRepositoriesTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_repositories",
		mcp.WithDescription("List the repositories that serve a classification level."),
		mcp.WithString("level",
			mcp.Required(),
			mcp.Description("Level such as idiotaxon, synusy or phytocenosis."),
		),
		mcp.WithString("default",
			mcp.Description("Preferred default repository."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		level, err := request.RequireString("level")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.ListRepositories(level, request.GetString("default", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
