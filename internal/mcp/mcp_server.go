// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/mri/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the MRI MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Movement Risk Index Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	s.AddTool(mcp.NewTool("score_assessment",
		mcp.WithDescription("Score an ergonomic assessment: overall MRI, per-role and per-driver percentages and the top driver."),
		mcp.WithString("assessment", mcp.Description("The assessment document (organization, site, date, roles with driver scores 0-4)."), mcp.Required()),
		mcp.WithString("format", mcp.Description("Encoding of the assessment document. Defaults to 'yaml'."), mcp.Enum("yaml", "json")),
	), h.handleScoreAssessment)

	s.AddTool(mcp.NewTool("compare_assessment",
		mcp.WithDescription("Score an assessment and compare it with the previous assessment of the same organization and site, without saving it."),
		mcp.WithString("assessment", mcp.Description("The assessment document."), mcp.Required()),
		mcp.WithString("format", mcp.Description("Encoding of the assessment document."), mcp.Enum("yaml", "json")),
	), h.handleCompareAssessment)

	s.AddTool(mcp.NewTool("list_drivers",
		mcp.WithDescription("List the movement risk drivers and their weights in scoring order."),
	), h.handleListDrivers)

	s.AddTool(mcp.NewTool("get_history",
		mcp.WithDescription("Get the chronological MRI timeline of one organization and site, with deltas between assessments."),
		mcp.WithString("org", mcp.Description("Organization identifier."), mcp.Required()),
		mcp.WithString("site", mcp.Description("Site identifier."), mcp.Required()),
		mcp.WithNumber("limit", mcp.Description("Only return the newest N assessments.")),
	), h.handleGetHistory)

	return s
}

// StartMCPServer starts the MRI MCP server over stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
