package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Dark-Matter98/ai-repository-leaderboard/core"
	"github.com/Dark-Matter98/ai-repository-leaderboard/internal/contract"
	"github.com/Dark-Matter98/ai-repository-leaderboard/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

func (h *toolHandler) handleGetLeaderboard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("input_path", ""); p != "" {
		cfg.InputPath = p
	}
	if pol := request.GetString("policy", ""); pol != "" {
		policy := schema.OverlapPolicy(pol)
		if _, ok := schema.ValidOverlapPolicies[policy]; !ok {
			return mcp.NewToolResultError(fmt.Sprintf("invalid overlap policy '%s'", pol)), nil
		}
		cfg.Policy = policy
	}
	cfg.Clustering = request.GetBool("clusters", cfg.Clustering)
	if c := request.GetInt("cluster_count", 0); c > 0 {
		cfg.ClusterCount = c
	}

	board, err := core.GetLeaderboardResults(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("generation failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(board, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetHiddenGems(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("input_path", ""); p != "" {
		cfg.InputPath = p
	}

	gems, insights, err := core.GetGemResults(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("gem detection failed: %v", err)), nil
	}

	payload := struct {
		Gems     []schema.GemResult `json:"gems"`
		Insights schema.GemInsights `json:"insights"`
	}{Gems: gems, Insights: insights}

	jsonData, _ := json.MarshalIndent(payload, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetSimilarRepositories(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("input_path", ""); p != "" {
		cfg.InputPath = p
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.SimilarLimit = l
	}

	targetID := request.GetInt("target_id", 0)
	if targetID <= 0 {
		return mcp.NewToolResultError("target_id is required and must be a positive repository ID"), nil
	}

	target, results, err := core.GetSimilarResults(ctx, cfg, h.mgr, int64(targetID))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("similarity search failed: %v", err)), nil
	}

	payload := struct {
		Target  schema.Repository      `json:"target"`
		Results []schema.SimilarResult `json:"results"`
	}{Target: target, Results: results}

	jsonData, _ := json.MarshalIndent(payload, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetSummary(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if s := request.GetString("snapshot", ""); s != "" {
		cfg.PreviousName = s
	}

	stats, err := core.GetSummaryResults(cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("summary failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(stats, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
