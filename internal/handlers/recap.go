package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"

	"github.com/sam-maryland/gridiron-dashboard/internal/league"
)

// RecapHandler handles the achievement and narrative tools
type RecapHandler struct {
	svc    Dashboard
	logger *logrus.Logger
}

func NewRecapHandler(svc Dashboard, logger *logrus.Logger) *RecapHandler {
	return &RecapHandler{
		svc:    svc,
		logger: logger,
	}
}

// GetAchievementsTool returns the MCP tool definition for get_achievements
func (h *RecapHandler) GetAchievementsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_achievements",
		Description: "Get the achievement catalogue with holders, or one player's achievement summary",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"player_id": map[string]interface{}{
					"type":        "string",
					"description": "League player ID to summarize (default: all players)",
					"required":    false,
				},
			},
		},
	}
}

// HandleGetAchievements handles the get_achievements tool call
func (h *RecapHandler) HandleGetAchievements(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling get_achievements")

	playerID, err := optionalString(args, "player_id")
	if err != nil {
		return nil, err
	}

	if playerID != "" {
		summary, err := h.svc.AchievementSummary(ctx, playerID)
		if err != nil {
			h.logger.WithError(err).WithField("player_id", playerID).Error("Failed to get achievement summary")
			return textResult(fmt.Sprintf("Failed to get achievements: %s", err.Error()), true), nil
		}
		return jsonResult(APIResponse{
			Success: true,
			Data:    summary,
			Summary: fmt.Sprintf("Player %s has earned %d achievements", playerID, summary.Total),
			Metadata: Metadata{
				Timestamp:  time.Now(),
				Source:     "achievements",
				IsLiveData: true,
			},
		}), nil
	}

	data, err := h.svc.Achievements(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get achievements")
		return textResult(fmt.Sprintf("Failed to get achievements: %s", err.Error()), true), nil
	}

	earned := 0
	for _, rec := range data.PlayerAchievements {
		earned += rec.Total
	}
	return jsonResult(APIResponse{
		Success: true,
		Data:    data,
		Summary: fmt.Sprintf("%d achievements earned across %d players", earned, len(data.PlayerAchievements)),
		Metadata: Metadata{
			Timestamp:  time.Now(),
			Source:     "achievements",
			IsLiveData: true,
		},
	}), nil
}

// GetWeeklyNarrativeTool returns the MCP tool definition for get_weekly_narrative
func (h *RecapHandler) GetWeeklyNarrativeTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_weekly_narrative",
		Description: "Get the weekly league recap story, generating it if it has not been written yet",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"week": map[string]interface{}{
					"type":        "integer",
					"description": fmt.Sprintf("Week number (1-%d, default: current week)", league.SeasonWeeks),
					"required":    false,
				},
			},
		},
	}
}

// HandleGetWeeklyNarrative handles the get_weekly_narrative tool call
func (h *RecapHandler) HandleGetWeeklyNarrative(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling get_weekly_narrative")

	week, set, err := optionalInt(args, "week")
	if err != nil {
		return nil, err
	}
	if set && (week < 1 || week > league.SeasonWeeks) {
		return nil, fmt.Errorf("week must be between 1 and %d", league.SeasonWeeks)
	}

	n, week, err := h.svc.Narrative(ctx, week)
	if err != nil {
		h.logger.WithError(err).WithField("week", week).Error("Failed to get narrative")
		return textResult(fmt.Sprintf("Failed to get narrative: %s", err.Error()), true), nil
	}

	return jsonResult(APIResponse{
		Success: true,
		Data:    n,
		Summary: fmt.Sprintf("Week %d: %s (%d words, by %s)", week, n.Title, n.WordCount, n.Author),
		Metadata: Metadata{
			Timestamp:   time.Now(),
			Source:      n.Author,
			CurrentWeek: week,
			IsLiveData:  true,
		},
	}), nil
}
