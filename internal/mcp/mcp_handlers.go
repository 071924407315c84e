package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Ponnammaah123/test-agent/core"
	"github.com/Ponnammaah123/test-agent/internal/contract"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg  *contract.Config
	analyzer *core.Analyzer
}

// branchArg resolves the optional branch argument to the configured base
// branch.
func (h *toolHandler) branchArg(request mcp.CallToolRequest) string {
	if b := request.GetString("branch", ""); b != "" {
		return b
	}
	return h.baseCfg.BaseBranch
}

func (h *toolHandler) handleAnalyzeCodebase(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	branch := h.branchArg(request)

	result, err := h.analyzer.Analyze(ctx, branch)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	// Agents often only need totals; per-file content can be large.
	if request.GetBool("summary", false) {
		entry := h.analyzer.Cache().Get(h.analyzer.Repository(), branch)
		if entry == nil {
			return mcp.NewToolResultError(fmt.Sprintf("no cached analysis for branch '%s'", branch)), nil
		}
		jsonData, _ := json.MarshalIndent(entry.Summary(), "", "  ")
		return mcp.NewToolResultText(string(jsonData)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetFileContent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := request.GetString("path", "")
	if path == "" {
		return mcp.NewToolResultError("path is required"), nil
	}
	branch := h.branchArg(request)

	// Analysis is cache-first, so this only touches the host on a miss.
	if _, err := h.analyzer.Analyze(ctx, branch); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	content := h.analyzer.Cache().GetFileContent(h.analyzer.Repository(), branch, path)
	if content == nil {
		return mcp.NewToolResultError(fmt.Sprintf("no cached content for '%s' on branch '%s'", path, branch)), nil
	}
	return mcp.NewToolResultText(*content), nil
}

func (h *toolHandler) handleSearchContent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	term := request.GetString("term", "")
	if term == "" {
		return mcp.NewToolResultError("term is required"), nil
	}
	branch := h.branchArg(request)
	caseSensitive := request.GetBool("case_sensitive", false)

	if _, err := h.analyzer.Analyze(ctx, branch); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	matches := h.analyzer.Cache().SearchContent(h.analyzer.Repository(), branch, term, caseSensitive)
	jsonData, _ := json.MarshalIndent(matches, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetCacheStats(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats := h.analyzer.Cache().Stats()
	jsonData, _ := json.MarshalIndent(stats, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleInvalidateCache(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	branch := request.GetString("branch", "")
	if branch == "" {
		h.analyzer.Cache().Clear()
		return mcp.NewToolResultText("cache cleared"), nil
	}

	if h.analyzer.Cache().Invalidate(h.analyzer.Repository(), branch) {
		return mcp.NewToolResultText(fmt.Sprintf("invalidated entry for branch '%s'", branch)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("no entry for branch '%s'", branch)), nil
}
