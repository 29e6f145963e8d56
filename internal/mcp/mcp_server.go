// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/Dark-Matter98/ai-repository-leaderboard/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the airank MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"AI Repository Leaderboard Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: get_leaderboard ---
	s.AddTool(mcp.NewTool("get_leaderboard",
		mcp.WithDescription("Generate the AI/ML repository leaderboard (trending, established, hidden gems) from a scraped repository file."),
		mcp.WithString("input_path", mcp.Description("Path to the scraper's enriched repository JSON file (defaults to the configured input).")),
		mcp.WithString("policy", mcp.Description("Category overlap policy. Defaults to 'non-exclusive'."), mcp.Enum("non-exclusive", "exclusive")),
		mcp.WithBoolean("clusters", mcp.Description("Run embedding-based clustering as part of generation.")),
		mcp.WithNumber("cluster_count", mcp.Description("Fixed cluster count (0 = automatic silhouette search).")),
	), h.handleGetLeaderboard)

	// --- 2. Tool: get_hidden_gems ---
	s.AddTool(mcp.NewTool("get_hidden_gems",
		mcp.WithDescription("Detect high-quality, low-visibility repositories with scoring breakdowns and aggregate insights."),
		mcp.WithString("input_path", mcp.Description("Path to the scraper's enriched repository JSON file.")),
	), h.handleGetHiddenGems)

	// --- 3. Tool: get_similar_repositories ---
	s.AddTool(mcp.NewTool("get_similar_repositories",
		mcp.WithDescription("Find repositories most similar to a target repository by embedding cosine similarity."),
		mcp.WithNumber("target_id", mcp.Description("Numeric repository ID of the target."), mcp.Required()),
		mcp.WithString("input_path", mcp.Description("Path to the scraper's enriched repository JSON file.")),
		mcp.WithNumber("limit", mcp.Description("Number of similar repositories to return.")),
	), h.handleGetSimilarRepositories)

	// --- 4. Tool: get_summary ---
	s.AddTool(mcp.NewTool("get_summary",
		mcp.WithDescription("Summarize the most recent persisted leaderboard: category sizes, rank movement, top languages and topics."),
		mcp.WithString("snapshot", mcp.Description("Explicit snapshot name to summarize (defaults to the latest).")),
	), h.handleGetSummary)

	return s
}

// StartMCPServer starts the airank MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
