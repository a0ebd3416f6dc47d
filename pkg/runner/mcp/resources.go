package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerLevelsResource(srv, svc)
	registerLevelTemplate(srv, svc)
}

func registerLevelsResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"taxoselect://levels",
		"Levels",
		mcp.WithResourceDescription("Classification levels known to the name service."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		levels := svc.LevelNames()
		return encodeResourceJSON(request.Params.URI, map[string]any{
			"levels": levels,
			"count":  len(levels),
		})
	})
}

func registerLevelTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"taxoselect://levels/{level}",
		"Level Repositories",
		mcp.WithTemplateDescription("Repositories serving a level and the default choice."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		level := levelArgument(request.Params.Arguments["level"])
		if level == "" {
			return nil, fmt.Errorf("level is required")
		}
		dto, err := svc.ListRepositories(level, "")
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, dto)
	})
}

// levelArgument accepts the template variable as a string or a one element
// list, depending on how the URI template was expanded.
func levelArgument(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
