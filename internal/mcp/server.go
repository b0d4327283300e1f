package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/sam-maryland/gridiron-dashboard/internal/handlers"
)

// ToolFunc handles one tool call
type ToolFunc func(ctx context.Context, arguments map[string]interface{}) (*mcp.CallToolResult, error)

type route struct {
	tool   mcp.Tool
	handle ToolFunc
}

// dashboardTools lists every tool the server exposes alongside its handler
func dashboardTools(svc handlers.Dashboard, logger *logrus.Logger) []route {
	leagueHandler := handlers.NewLeagueHandler(svc, logger)
	recapHandler := handlers.NewRecapHandler(svc, logger)

	return []route{
		{leagueHandler.GetTeamRecordsTool(), leagueHandler.HandleGetTeamRecords},
		{leagueHandler.GetStandingsTool(), leagueHandler.HandleGetStandings},
		{leagueHandler.GetProjectionsTool(), leagueHandler.HandleGetProjections},
		{recapHandler.GetAchievementsTool(), recapHandler.HandleGetAchievements},
		{recapHandler.GetWeeklyNarrativeTool(), recapHandler.HandleGetWeeklyNarrative},
	}
}

// NewDashboardMCPServer builds the MCP server serving the dashboard's data as tools
func NewDashboardMCPServer(svc handlers.Dashboard, logger *logrus.Logger) *server.DefaultServer {
	routes := dashboardTools(svc, logger)
	byName := make(map[string]ToolFunc, len(routes))
	tools := make([]mcp.Tool, 0, len(routes))
	for _, r := range routes {
		byName[r.tool.Name] = r.handle
		tools = append(tools, r.tool)
	}

	s := server.NewDefaultServer("Gridiron Dashboard", "1.0.0")
	if s == nil {
		logger.Error("Failed to create MCP server instance")
		return nil
	}

	logger.Info("MCP server instance created successfully")

	s.HandleListTools(func(ctx context.Context, cursor *string) (*mcp.ListToolsResult, error) {
		logger.WithField("tools_count", len(tools)).Info("Listing available tools")

		return &mcp.ListToolsResult{
			Tools: tools,
		}, nil
	})

	s.HandleCallTool(func(ctx context.Context, name string, arguments map[string]interface{}) (*mcp.CallToolResult, error) {
		logger.WithFields(logrus.Fields{
			"tool": name,
			"args": arguments,
		}).Info("Tool called")

		handle, ok := byName[name]
		if !ok {
			logger.WithField("tool", name).Warn("Unknown tool called")
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					&mcp.TextContent{
						Type: "text",
						Text: "Unknown tool: " + name,
					},
				},
				IsError: true,
			}, nil
		}
		return handle(ctx, arguments)
	})

	logger.Info("All tools registered successfully")
	return s
}
