package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/liftlog/pkg/app"
)

func registerResources(srv *server.MCPServer, svc *app.Service) {
	registerLiftsResource(srv, svc)
	registerLiftTemplate(srv, svc)
	registerMovementsResource(srv, svc)
}

func registerLiftsResource(srv *server.MCPServer, svc *app.Service) {
	resource := mcp.NewResource(
		"liftlog://lifts",
		"Lifts",
		mcp.WithResourceDescription("All logged lifts, most recent first."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		lifts, err := svc.Lifts(ctx)
		if err != nil {
			return nil, err
		}

		payload := map[string]any{
			"lifts": toDTOs(lifts),
			"count": len(lifts),
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

func registerLiftTemplate(srv *server.MCPServer, svc *app.Service) {
	template := mcp.NewResourceTemplate(
		"liftlog://lifts/{id}",
		"Lift Details",
		mcp.WithTemplateDescription("One lift with its movements and sets."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		id, _ := request.Params.Arguments["id"].(string)
		if id == "" {
			return nil, fmt.Errorf("lift id is required")
		}

		l, err := svc.Get(ctx, id)
		if err != nil {
			return nil, err
		}

		payload := map[string]any{
			"lift": toDTO(l),
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

func registerMovementsResource(srv *server.MCPServer, svc *app.Service) {
	resource := mcp.NewResource(
		"liftlog://movements",
		"Movements",
		mcp.WithResourceDescription("Every movement name ever logged."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		names, err := svc.MovementNames(ctx)
		if err != nil {
			return nil, err
		}

		payload := map[string]any{
			"movements": names,
			"count":     len(names),
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
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
