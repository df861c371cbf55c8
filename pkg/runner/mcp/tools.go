package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/liftlog/pkg/app"
	"tableflip.dev/liftlog/pkg/timeutil"
)

func registerTools(srv *server.MCPServer, svc *app.Service) {
	registerListLiftsTool(srv, svc)
	registerGetLiftTool(srv, svc)
	registerCreateLiftTool(srv, svc)
	registerLogSetTool(srv, svc)
	registerDeleteLiftTool(srv, svc)
	registerListMovementsTool(srv, svc)
	registerSuggestWeightTool(srv, svc)
}

func registerListLiftsTool(srv *server.MCPServer, svc *app.Service) {
	tool := mcp.NewTool(
		"list_lifts",
		mcp.WithDescription("List logged lifts, most recent first."),
		mcp.WithString("since",
			mcp.Description("Optional lookback window such as 1w, 3d, or 2w3d."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		since := strings.TrimSpace(request.GetString("since", ""))

		var (
			lifts []LiftDTO
			err   error
		)
		if since == "" {
			all, lerr := svc.Lifts(ctx)
			lifts, err = toDTOs(all), lerr
		} else {
			window, _, werr := timeutil.ParseWindow(since)
			if werr != nil {
				return mcp.NewToolResultError(fmt.Sprintf("invalid since value: %v", werr)), nil
			}
			recent, lerr := svc.LiftsSince(ctx, time.Now().Add(-window))
			lifts, err = toDTOs(recent), lerr
		}
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"lifts": lifts,
			"count": len(lifts),
		})
	})
}

func registerGetLiftTool(srv *server.MCPServer, svc *app.Service) {
	tool := mcp.NewTool(
		"get_lift",
		mcp.WithDescription("Fetch a single lift by id or date (YYYY-MM-DD)."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Lift identifier or date."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		l, err := svc.Get(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(toDTO(l))
	})
}

func registerCreateLiftTool(srv *server.MCPServer, svc *app.Service) {
	tool := mcp.NewTool(
		"create_lift",
		mcp.WithDescription("Create a new lift for a day of training."),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Workout title such as Push Day or Legs."),
		),
		mcp.WithString("date",
			mcp.Description("Optional date (YYYY-MM-DD); defaults to today."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		title, err := request.RequireString("title")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		date := request.GetString("date", "")

		l, err := svc.Create(ctx, title, date)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(toDTO(l))
	})
}

func registerLogSetTool(srv *server.MCPServer, svc *app.Service) {
	tool := mcp.NewTool(
		"log_set",
		mcp.WithDescription("Record one set of a movement under a lift, creating the movement if needed."),
		mcp.WithString("lift",
			mcp.Required(),
			mcp.Description("Lift identifier or date."),
		),
		mcp.WithString("movement",
			mcp.Required(),
			mcp.Description("Movement name such as Bench Press."),
		),
		mcp.WithString("weight",
			mcp.Required(),
			mcp.Description("Weight as a positive number, e.g. 135 or 22.5."),
		),
		mcp.WithString("reps",
			mcp.Required(),
			mcp.Description("Rep count as a positive number."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("lift")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		movement, err := request.RequireString("movement")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		weight, err := request.RequireString("weight")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		reps, err := request.RequireString("reps")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		l, err := svc.LogSet(ctx, id, movement, weight, reps)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(toDTO(l))
	})
}

func registerDeleteLiftTool(srv *server.MCPServer, svc *app.Service) {
	tool := mcp.NewTool(
		"delete_lift",
		mcp.WithDescription("Delete a lift permanently."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Lift identifier or date to delete."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if err := svc.Delete(ctx, id); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"deleted": id,
		})
	})
}

func registerListMovementsTool(srv *server.MCPServer, svc *app.Service) {
	tool := mcp.NewTool(
		"list_movements",
		mcp.WithDescription("List every movement name that has ever been logged."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		names, err := svc.MovementNames(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"movements": names,
			"count":     len(names),
		})
	})
}

func registerSuggestWeightTool(srv *server.MCPServer, svc *app.Service) {
	tool := mcp.NewTool(
		"suggest_weight",
		mcp.WithDescription("Suggest the next working weight for a movement based on logged history."),
		mcp.WithString("movement",
			mcp.Required(),
			mcp.Description("Movement name to look up."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		movement, err := request.RequireString("movement")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		weight, ok, err := svc.SuggestWeight(ctx, movement)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"movement":   movement,
			"weight":     weight,
			"hasHistory": ok,
		})
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return result, nil
}
