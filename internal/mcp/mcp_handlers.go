package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/huangsam/mri/core"
	"github.com/huangsam/mri/internal/assessfile"
	"github.com/huangsam/mri/internal/contract"
	"github.com/huangsam/mri/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// parseAssessment decodes the assessment document argument of a request.
func parseAssessment(request mcp.CallToolRequest) (schema.Assessment, error) {
	doc := request.GetString("assessment", "")
	if doc == "" {
		return schema.Assessment{}, errors.New("assessment is required")
	}
	format := assessfile.Format(request.GetString("format", string(assessfile.YAMLFormat)))
	return assessfile.Parse([]byte(doc), format)
}

// jsonResult renders any value as an indented JSON text result.
func jsonResult(v any) *mcp.CallToolResult {
	jsonData, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(jsonData))
}

func (h *toolHandler) handleScoreAssessment(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	assessment, err := parseAssessment(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid assessment: %v", err)), nil
	}

	report, err := core.BuildReport(h.baseCfg.Clone(), assessment)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scoring failed: %v", err)), nil
	}
	return jsonResult(report), nil
}

func (h *toolHandler) handleCompareAssessment(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	assessment, err := parseAssessment(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid assessment: %v", err)), nil
	}

	report, err := core.CompareAssessment(ctx, h.baseCfg.Clone(), h.mgr, assessment)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("comparison failed: %v", err)), nil
	}
	return jsonResult(report), nil
}

func (h *toolHandler) handleListDrivers(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(core.GetDriverCatalog(h.baseCfg)), nil
}

func (h *toolHandler) handleGetHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	org := request.GetString("org", "")
	site := request.GetString("site", "")
	if org == "" || site == "" {
		return mcp.NewToolResultError("org and site are required"), nil
	}

	limit := request.GetInt("limit", 0)
	if limit > contract.MaxResultLimit {
		return mcp.NewToolResultError(fmt.Sprintf("limit cannot exceed %d", contract.MaxResultLimit)), nil
	}

	result, err := core.GetHistoryResult(ctx, h.mgr, org, site, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("history lookup failed: %v", err)), nil
	}
	return jsonResult(result), nil
}
