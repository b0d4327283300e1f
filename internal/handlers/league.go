package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"

	"github.com/sam-maryland/gridiron-dashboard/internal/achievements"
	"github.com/sam-maryland/gridiron-dashboard/internal/dashboard"
	"github.com/sam-maryland/gridiron-dashboard/internal/league"
	"github.com/sam-maryland/gridiron-dashboard/internal/narrative"
)

// Dashboard is the data the MCP tools read
type Dashboard interface {
	Results(ctx context.Context) (league.Results, error)
	Standings(ctx context.Context) (dashboard.Standings, error)
	Projections(ctx context.Context, simulations int) (dashboard.Projections, error)
	Achievements(ctx context.Context) (achievements.Data, error)
	AchievementSummary(ctx context.Context, playerID string) (achievements.Summary, error)
	Narrative(ctx context.Context, week int) (narrative.Narrative, int, error)
}

// TeamRecordsData is the payload of get_team_records
type TeamRecordsData struct {
	CurrentWeek     int                          `json:"current_week"`
	LastUpdated     string                       `json:"last_updated"`
	GamesInProgress []string                     `json:"games_in_progress"`
	Teams           map[string]league.TeamRecord `json:"teams"`
	Logos           map[string]string            `json:"logos"`
}

// LeagueHandler handles the standings and projection tools
type LeagueHandler struct {
	svc    Dashboard
	logger *logrus.Logger
}

// NewLeagueHandler creates a new league handler
func NewLeagueHandler(svc Dashboard, logger *logrus.Logger) *LeagueHandler {
	return &LeagueHandler{
		svc:    svc,
		logger: logger,
	}
}

// GetTeamRecordsTool returns the MCP tool definition for get_team_records
func (h *LeagueHandler) GetTeamRecordsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_team_records",
		Description: "Get every NFL team's current record, last game, next game and Elo rating",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"teams": map[string]interface{}{
					"type":        "string",
					"description": "Comma-separated team abbreviations to return (default: all teams)",
					"required":    false,
				},
			},
		},
	}
}

// HandleGetTeamRecords handles the get_team_records tool call
func (h *LeagueHandler) HandleGetTeamRecords(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling get_team_records")

	filter, err := optionalString(args, "teams")
	if err != nil {
		return nil, err
	}

	results, err := h.svc.Results(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get team records")
		return textResult(fmt.Sprintf("Failed to get team records: %s", err.Error()), true), nil
	}

	teams := results.Teams
	if filter != "" {
		teams = make(map[string]league.TeamRecord)
		for _, abbr := range strings.Split(filter, ",") {
			abbr = strings.ToUpper(strings.TrimSpace(abbr))
			if team, ok := results.Teams[abbr]; ok {
				teams[abbr] = team
			}
		}
	}

	logos := make(map[string]string, len(teams))
	for abbr := range teams {
		if url := league.TeamLogoURL(abbr); url != "" {
			logos[abbr] = url
		}
	}

	summary := fmt.Sprintf("%d team records for week %d", len(teams), results.CurrentWeek)
	if n := len(results.GamesInProgress); n > 0 {
		summary += fmt.Sprintf(", %d games in progress", n)
	}

	return jsonResult(APIResponse{
		Success: true,
		Data: TeamRecordsData{
			CurrentWeek:     results.CurrentWeek,
			LastUpdated:     results.LastUpdated,
			GamesInProgress: results.GamesInProgress,
			Teams:           teams,
			Logos:           logos,
		},
		Summary: summary,
		Metadata: Metadata{
			Timestamp:   time.Now(),
			Source:      sourceOf(results.IsLiveData),
			CurrentWeek: results.CurrentWeek,
			IsLiveData:  results.IsLiveData,
		},
	}), nil
}

// GetStandingsTool returns the MCP tool definition for get_standings
func (h *LeagueHandler) GetStandingsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_standings",
		Description: "Get the league's most-wins and most-losses leaderboards with ranks, trends and achievements",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// HandleGetStandings handles the get_standings tool call
func (h *LeagueHandler) HandleGetStandings(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling get_standings")

	standings, err := h.svc.Standings(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get standings")
		return textResult(fmt.Sprintf("Failed to get standings: %s", err.Error()), true), nil
	}

	summary := fmt.Sprintf("Week %d standings for %d players", standings.CurrentWeek, len(standings.Wins))
	if len(standings.Wins) > 0 && len(standings.Losses) > 0 {
		summary += fmt.Sprintf(". %s leads wins with %d, %s leads losses with %d",
			standings.Wins[0].PlayerName, standings.Wins[0].TotalWins,
			standings.Losses[0].PlayerName, standings.Losses[0].TotalLosses)
	}

	return jsonResult(APIResponse{
		Success: true,
		Data:    standings,
		Summary: summary,
		Metadata: Metadata{
			Timestamp:   time.Now(),
			Source:      sourceOf(standings.IsLiveData),
			CurrentWeek: standings.CurrentWeek,
			IsLiveData:  standings.IsLiveData,
		},
	}), nil
}

// GetProjectionsTool returns the MCP tool definition for get_projections
func (h *LeagueHandler) GetProjectionsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_projections",
		Description: "Project season outcomes with a Monte Carlo simulation: title odds, top-3 odds, expected totals and magic numbers",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"simulations": map[string]interface{}{
					"type":        "integer",
					"description": fmt.Sprintf("Number of simulated seasons (default from config, max %d)", dashboard.MaxSimulations),
					"required":    false,
				},
			},
		},
	}
}

// HandleGetProjections handles the get_projections tool call
func (h *LeagueHandler) HandleGetProjections(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling get_projections")

	simulations, _, err := optionalInt(args, "simulations")
	if err != nil {
		return nil, err
	}
	if simulations < 0 {
		return nil, fmt.Errorf("simulations must not be negative")
	}

	projections, err := h.svc.Projections(ctx, simulations)
	if err != nil {
		h.logger.WithError(err).Error("Failed to project season")
		return textResult(fmt.Sprintf("Failed to project season: %s", err.Error()), true), nil
	}

	summary := fmt.Sprintf("%d simulations from week %d", projections.Simulations, projections.CurrentWeek)
	if favorite, odds := favoriteOf(projections.Players); favorite != "" {
		summary += fmt.Sprintf(". %s is the favorite for most wins at %.1f%%", favorite, odds*100)
	}
	if projections.Fallback {
		summary += " (simulation failed, showing uniform odds)"
	}

	return jsonResult(APIResponse{
		Success: true,
		Data:    projections,
		Summary: summary,
		Metadata: Metadata{
			Timestamp:   time.Now(),
			Source:      sourceOf(projections.IsLiveData),
			CurrentWeek: projections.CurrentWeek,
			IsLiveData:  projections.IsLiveData,
		},
	}), nil
}

// favoriteOf returns the player most likely to win the wins title, lowest name on ties
func favoriteOf(models map[string]league.ProbabilityModel) (string, float64) {
	var name string
	best := -1.0
	for _, m := range models {
		p := m.WinsCompetition.ProbabilityToWin
		if p > best || (p == best && m.Player < name) {
			name, best = m.Player, p
		}
	}
	return name, best
}
