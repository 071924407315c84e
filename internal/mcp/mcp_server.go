// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Ponnammaah123/test-agent/core"
	"github.com/Ponnammaah123/test-agent/internal/contract"
)

// NewMCPServer initializes and configures the test agent MCP server without
// starting it. This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, analyzer *core.Analyzer) *server.MCPServer {
	s := server.NewMCPServer(
		"Test Agent Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg:  baseCfg,
		analyzer: analyzer,
	}

	// --- 1. Tool: analyze_codebase ---
	s.AddTool(mcp.NewTool("analyze_codebase",
		mcp.WithDescription("Analyze the changed files on a branch of the configured repository, caching content, diffs, and derived components."),
		mcp.WithString("branch", mcp.Description("Branch to analyze (defaults to the configured base branch).")),
		mcp.WithBoolean("summary", mcp.Description("Return only entry-level totals instead of per-file detail. Defaults to false.")),
	), h.handleAnalyzeCodebase)

	// --- 2. Tool: get_file_content ---
	s.AddTool(mcp.NewTool("get_file_content",
		mcp.WithDescription("Get the cached content of a file from a previously analyzed branch."),
		mcp.WithString("path", mcp.Description("Repository path of the file."), mcp.Required()),
		mcp.WithString("branch", mcp.Description("Branch the file was analyzed on (defaults to the configured base branch).")),
	), h.handleGetFileContent)

	// --- 3. Tool: search_content ---
	s.AddTool(mcp.NewTool("search_content",
		mcp.WithDescription("Search the cached file contents of an analyzed branch for a term. Returns 1-based line matches grouped by path."),
		mcp.WithString("term", mcp.Description("Text to search for."), mcp.Required()),
		mcp.WithString("branch", mcp.Description("Branch to search (defaults to the configured base branch).")),
		mcp.WithBoolean("case_sensitive", mcp.Description("Match case exactly. Defaults to false.")),
	), h.handleSearchContent)

	// --- 4. Tool: get_cache_stats ---
	s.AddTool(mcp.NewTool("get_cache_stats",
		mcp.WithDescription("Report content cache statistics: entry count, size, hit rate, and per-entry details."),
	), h.handleGetCacheStats)

	// --- 5. Tool: invalidate_cache ---
	s.AddTool(mcp.NewTool("invalidate_cache",
		mcp.WithDescription("Drop the cached analysis for a branch, or clear the whole cache when no branch is given."),
		mcp.WithString("branch", mcp.Description("Branch whose entry should be dropped.")),
	), h.handleInvalidateCache)

	return s
}

// StartMCPServer starts the test agent MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, analyzer *core.Analyzer) error {
	s := NewMCPServer(baseCfg, analyzer)
	return server.ServeStdio(s)
}
