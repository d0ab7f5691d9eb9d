// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the site's weekly-updates feed and tutorial library as tools for
// LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/subhashbohra/acloudresume-site/internal/content"
	"github.com/subhashbohra/acloudresume-site/internal/updateservice"
)

// Server wraps the MCP server with the site's tools.
type Server struct {
	mcp     *server.MCPServer
	svc     *updateservice.Service
	library *content.Library
}

// New creates a new MCP server with all tools registered.
func New(svc *updateservice.Service, library *content.Library) *Server {
	s := &Server{svc: svc, library: library}

	s.mcp = server.NewMCPServer(
		"acloudresume",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_updates",
		mcp.WithDescription("Full-text search through AWS weekly update titles and summaries."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchUpdates)

	s.mcp.AddTool(mcp.NewTool("list_weeks",
		mcp.WithDescription("List all ISO week keys that have updates, newest first."),
	), s.listWeeks)

	s.mcp.AddTool(mcp.NewTool("get_week",
		mcp.WithDescription("Get the updates for one ISO week, optionally filtered by category or text."),
		mcp.WithString("week", mcp.Required(), mcp.Description("Week key, e.g. 2025-W07")),
		mcp.WithString("category", mcp.Description("Optional category filter, e.g. Serverless")),
		mcp.WithString("query", mcp.Description("Optional free-text filter")),
	), s.getWeek)

	s.mcp.AddTool(mcp.NewTool("weekly_digest",
		mcp.WithDescription("Build the share-ready text digest for one ISO week."),
		mcp.WithString("week", mcp.Required(), mcp.Description("Week key, e.g. 2025-W07")),
	), s.weeklyDigest)

	s.mcp.AddTool(mcp.NewTool("list_tutorials",
		mcp.WithDescription("List tutorials, optionally filtered by category or text."),
		mcp.WithString("category", mcp.Description("Optional category filter")),
		mcp.WithString("query", mcp.Description("Optional free-text filter")),
	), s.listTutorials)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchUpdates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listWeeks(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	weeks, err := s.svc.Weeks(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(weeks) == 0 {
		return mcp.NewToolResultText("no weeks recorded"), nil
	}
	return mcp.NewToolResultText(strings.Join(weeks, "\n")), nil
}

func (s *Server) getWeek(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	week, err := req.RequireString("week")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	category := ""
	if c, cErr := req.RequireString("category"); cErr == nil {
		category = c
	}
	query := ""
	if q, qErr := req.RequireString("query"); qErr == nil {
		query = q
	}

	page, err := s.svc.Week(ctx, week, category, query, 1)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("week %s: %v", week, err)), nil
	}
	out, _ := json.MarshalIndent(page, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) weeklyDigest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	week, err := req.RequireString("week")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	d, err := s.svc.WeeklyDigest(ctx, week)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("week %s: %v", week, err)), nil
	}
	return mcp.NewToolResultText(d.Text), nil
}

func (s *Server) listTutorials(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category := ""
	if c, err := req.RequireString("category"); err == nil {
		category = c
	}
	query := ""
	if q, err := req.RequireString("query"); err == nil {
		query = q
	}
	items := s.library.Tutorials(category, query)
	out, _ := json.MarshalIndent(items, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}
